package timezone

import (
	"sync"
	"time"

	"rolloff/config"

	"github.com/rs/zerolog/log"
)

var location = sync.OnceValue(func() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("no timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, using UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("application timezone loaded")

	return loc
})

func Location() *time.Location {
	return location()
}

func Now() time.Time {
	return time.Now().In(location())
}

// Today returns the current date in the application timezone as midnight UTC.
func Today() time.Time {
	return DateOf(Now())
}

// DateOf keeps the calendar date t has in the application timezone.
func DateOf(t time.Time) time.Time {
	local := t.In(location())

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time, layout string) string {
	return t.In(location()).Format(layout)
}
