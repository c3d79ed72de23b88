package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPI(t *testing.T) {
	got, err := ParseAPI("2023-10-06T14:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.October, 6, 14, 30, 0, 0, time.UTC), got)

	_, err = ParseAPI("06/10/2023")
	assert.Error(t, err)
}

func TestLoadZone(t *testing.T) {
	assert.Equal(t, time.UTC, LoadZone(""))
	assert.Equal(t, time.UTC, LoadZone("Not/AZone"))
	assert.Equal(t, "America/New_York", LoadZone("America/New_York").String())
}

func TestFormatIn(t *testing.T) {
	utc := time.Date(2023, time.October, 6, 1, 30, 0, 0, time.UTC)
	ny := LoadZone("America/New_York")
	assert.Equal(t, "2023-10-05", FormatIn(utc, ny, DateLayout))
	assert.Equal(t, "2023-10-06", FormatIn(utc, time.UTC, DateLayout))
}
