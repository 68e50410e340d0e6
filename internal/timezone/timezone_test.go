package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocal(t *testing.T) {
	got, err := ParseLocal("2026-05-01T09:30", "UTC")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), got.UTC())

	got, err = ParseLocal("2026-05-01T09:30:00+05:30", "UTC")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 4, 0, 0, 0, time.UTC), got.UTC())

	_, err = ParseLocal("tomorrow", "UTC")
	assert.Error(t, err)
}

func TestLocationFallsBack(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Not/AZone"))
	assert.NotNil(t, Location("Not/AZone"))
}

func TestClock(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, Clock(func() time.Time { return fixed }).Now())
	assert.False(t, Clock(nil).Now().IsZero())
}
