package s3_test

import (
	"testing"

	"rolloff/config"
	"rolloff/infras/otel/mocks"
	"rolloff/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestS3_KeyFromURL(t *testing.T) {
	tests := []struct {
		name         string
		publicDomain string
		url          string
		want         string
	}{
		{name: "public domain url", publicDomain: "https://cdn.example.com/", url: "https://cdn.example.com/signatures/res-1.png", want: "signatures/res-1.png"},
		{name: "api endpoint url", publicDomain: "https://cdn.example.com", url: "https://storage.example.com/rolloff/signatures/res-1.png", want: "signatures/res-1.png"},
		{name: "other bucket", publicDomain: "https://cdn.example.com", url: "https://storage.example.com/archive/signatures/res-1.png", want: ""},
		{name: "foreign url", publicDomain: "https://cdn.example.com", url: "https://elsewhere.example.com/res-1.png", want: ""},
		{name: "bare domain", publicDomain: "https://cdn.example.com", url: "https://cdn.example.com/", want: ""},
		{name: "no public domain configured", url: "https://storage.example.com/rolloff/signatures/res-1.png", want: "signatures/res-1.png"},
		{name: "empty url", publicDomain: "https://cdn.example.com", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.External.S3.APIEndpoint = "https://storage.example.com"
			cfg.External.S3.PublicDomain = tt.publicDomain
			cfg.External.S3.BucketName = "rolloff"
			cfg.External.S3.Region = "auto"

			assert.Equal(t, tt.want, s3.New(cfg, mocks.NewOtel()).KeyFromURL(tt.url))
		})
	}
}
