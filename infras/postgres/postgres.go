package postgres

//nolint:revive
import (
	"time"

	"rolloff/config"
	"rolloff/helper"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

// Connection splits reads from writes. Capacity checks always run on Write so they see the rows
// they lock.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type target struct {
	role string
	node config.PostgresNode
	url  string
}

// New connects both pools, applying pending migrations first when auto-migrate is on.
func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	if pg.AutoMigrate {
		if err := helper.Run(cfg, helper.ActionUp); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	write := target{role: "write", node: pg.Write, url: pg.Write.URL(pg.Prefix)}
	read := target{role: "read", node: pg.Read, url: pg.Read.URL(pg.Prefix)}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime, pg.ConnMaxMinutes),
		Write: connect(write, pg.MaxRetry, pg.RetryWaitTime, pg.ConnMaxMinutes),
	}
}

func connect(t target, maxRetry, waitSeconds, connMaxMinutes int) *sqlx.DB {
	logger := log.With().Str("name", t.role).Str("host", t.node.Host).Str("port", t.node.Port).Str("dbName", t.node.Name).Logger()

	for attempt := range max(maxRetry, 1) {
		db, err := sqlx.Connect("postgres", t.url)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(time.Duration(connMaxMinutes) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Int("attempts", max(maxRetry, 1)).Msg("Could not connect to database")

	return nil
}
