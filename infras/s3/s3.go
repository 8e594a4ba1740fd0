package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"rolloff/config"
	"rolloff/infras/otel"
	"rolloff/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrKey    = "s3.key"
	otelAttrBucket = "s3.bucket"
	otelAttrSize   = "s3.size"

	cacheControlImmutable = "public, max-age=31536000, immutable"
)

// S3 stores rental agreement signatures in the configured S3 compatible bucket. Keys are
// slash separated paths such as "signatures/<reservation>-<unix>.png".
type S3 interface {
	Upload(ctx context.Context, key, contentType string, data []byte, metadata map[string]string) (url string, err error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (key string)
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	storage := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(storage.AccessKeyID, storage.SecretAccessKey, "")),
		awsConfig.WithRegion(storage.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load AWS configuration, signature uploads will fail")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if storage.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(storage.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{client: client, cfg: cfg, otel: otel}
}

// Upload writes data under key and returns its public URL. Objects are never rewritten in place, so
// they are served with a long lived cache header.
func (svc *s3Impl) Upload(ctx context.Context, key, contentType string, data []byte, metadata map[string]string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.cfg.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: bucket,
		otelAttrSize:   len(data),
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String(cacheControlImmutable),
		Metadata:      metadata,
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return svc.publicURL(key), nil
}

func (svc *s3Impl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.cfg.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete object")

		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// KeyFromURL reverses Upload. URLs on another host, or on the bucket's API endpoint for a different
// bucket, give an empty key.
func (svc *s3Impl) KeyFromURL(url string) string {
	storage := svc.cfg.External.S3

	for _, base := range []string{storage.PublicDomain, endpointBase(storage.APIEndpoint, storage.BucketName)} {
		if base == constant.Empty {
			continue
		}

		if key, ok := strings.CutPrefix(url, strings.TrimSuffix(base, "/")+"/"); ok && key != constant.Empty {
			return key
		}
	}

	return constant.Empty
}

func (svc *s3Impl) publicURL(key string) string {
	storage := svc.cfg.External.S3

	base := storage.PublicDomain
	if base == constant.Empty {
		base = endpointBase(storage.APIEndpoint, storage.BucketName)
	}

	return strings.TrimSuffix(base, "/") + "/" + key
}

func endpointBase(endpoint, bucket string) string {
	if endpoint == constant.Empty {
		return constant.Empty
	}

	return strings.TrimSuffix(endpoint, "/") + "/" + bucket
}
