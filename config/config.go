package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable           bool `envconfig:"ENABLE"`
			MaxRequests      int  `envconfig:"MAX_REQUESTS"       default:"120"`
			WriteMaxRequests int  `envconfig:"WRITE_MAX_REQUESTS" default:"20"`
			WindowSeconds    int  `envconfig:"WINDOW_SECONDS"     default:"60"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL         int `envconfig:"TTL"          default:"3600"`
		SnapshotTTL int `envconfig:"SNAPSHOT_TTL" default:"300"`
		DistanceTTL int `envconfig:"DISTANCE_TTL" default:"86400"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret  string `envconfig:"ACCESS_SECRET"`
		Issuer        string `envconfig:"ISSUER"`
		LeewaySeconds int    `envconfig:"LEEWAY_SECONDS" default:"30"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"3"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			MigrationPath  string       `envconfig:"MIGRATION_PATH" default:"file://migrations/postgres"`
			ConnMaxMinutes int          `envconfig:"CONN_MAX_MINUTES" default:"30"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Pricing struct {
		PolicyFile      string            `envconfig:"POLICY_FILE"`
		ChannelPolicies map[string]string `envconfig:"CHANNEL_POLICIES" default:"self_serve:self_serve,admin:admin_phone,phone:admin_phone"`
		OriginZip       string            `envconfig:"ORIGIN_ZIP"`
		FreeRadiusMiles string            `envconfig:"FREE_RADIUS_MILES" default:"15"`
		PerMileRate     string            `envconfig:"PER_MILE_RATE" default:"4"`
	} `envconfig:"PRICING"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Reservation string `envconfig:"RESERVATION" default:"reservation.events"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Jobs struct {
		CompleteReservationsSpec string `envconfig:"COMPLETE_RESERVATIONS_SPEC" default:"0 2 * * *"`
		RefreshSnapshotsSpec     string `envconfig:"REFRESH_SNAPSHOTS_SPEC" default:"*/15 * * * *"`
	} `envconfig:"JOBS"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			Region          string `envconfig:"REGION"            default:"auto"`
		} `envconfig:"S3"`
		Distance struct {
			BaseURL        string `envconfig:"BASE_URL" default:"https://maps.googleapis.com/maps/api/distancematrix/json"`
			APIKey         string `envconfig:"API_KEY"`
			TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"5"`
		} `envconfig:"DISTANCE"`
		Stripe struct {
			SecretKey string `envconfig:"SECRET_KEY"`
			Currency  string `envconfig:"CURRENCY" default:"usd"`
		} `envconfig:"STRIPE"`
		SendGrid struct {
			APIKey    string `envconfig:"API_KEY"`
			FromEmail string `envconfig:"FROM_EMAIL"`
			FromName  string `envconfig:"FROM_NAME"`
		} `envconfig:"SENDGRID"`
	} `envconfig:"EXTERNAL"`
}

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// URL builds the connection URL of the node. prefix is prepended to the database name so test runs
// can share a server.
func (n PostgresNode) URL(prefix string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.Username, n.Password),
		Host:     net.JoinHostPort(n.Host, n.Port),
		Path:     "/" + prefix + n.Name,
		RawQuery: url.Values{"sslmode": {n.SSLMode}}.Encode(),
	}

	return u.String()
}

// Load reads .env when present, then the process environment. Variables already set in the
// environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using the process environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &cfg, nil
}

var loaded = sync.OnceValue(func() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Str("env", cfg.Server.Env).Msg("Configuration loaded")

	return cfg
})

// Get returns the process wide configuration, loading it on first use.
func Get() *Config {
	return loaded()
}
