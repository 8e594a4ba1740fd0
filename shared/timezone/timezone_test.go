package timezone_test

import (
	"testing"
	"time"

	"rolloff/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.Equal(t, timezone.Location(), now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Zero(t, today.Hour())
	assert.Zero(t, today.Minute())
	assert.Equal(t, timezone.Now().Day(), today.Day())
}

func TestDateOf(t *testing.T) {
	instant := time.Date(2026, time.July, 4, 23, 45, 0, 0, timezone.Location())

	assert.Equal(t, time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC), timezone.DateOf(instant))
}

func TestFormat(t *testing.T) {
	instant := time.Date(2026, time.July, 4, 8, 0, 0, 0, timezone.Location())

	assert.Equal(t, "2026-07-04 08:00", timezone.Format(instant.UTC(), "2006-01-02 15:04"))
}
