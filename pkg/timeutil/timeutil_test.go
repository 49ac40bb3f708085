package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadlineLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2026-03-01T10:00:00Z":      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		"2026-03-01T10:00:00+05:00": time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("", 5*60*60)),
		"2026-03-01T10:00:00":       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		"2026-03-01 10:00:00":       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		"2026-03-01":                time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	for input, want := range cases {
		got, _, err := ParseDeadline(input)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), input)
	}
}

func TestParseDeadlineRoundTripsThroughLayout(t *testing.T) {
	for _, input := range []string{
		"2026-03-01T10:00:00Z",
		"2026-03-01T10:00:00",
		"2026-03-01 10:00:00",
		"2026-03-01T10:00:00.500Z",
		"2026-03-01T10:00:00.123456789Z",
		"2026-03-01T10:00:00.250+05:00",
		"2026-03-01T10:00:00.50",
		"2026-03-01 10:00:00.007",
	} {
		parsed, layout, err := ParseDeadline(input)
		require.NoError(t, err)
		assert.Equal(t, input, FormatDeadline(parsed, layout))
	}
}

func TestParseDeadlineRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "soon", "01/03/2026"} {
		_, _, err := ParseDeadline(input)
		assert.Error(t, err, input)
	}
}

func TestParseDeadlineKeepsFractionalSeconds(t *testing.T) {
	parsed, layout, err := ParseDeadline("2026-03-01T10:00:00.500Z")
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, time.Duration(parsed.Nanosecond()))
	assert.Equal(t, "2026-03-01T10:45:00.500Z", FormatDeadline(parsed.Add(45*time.Minute), layout))
}

func TestFormatDeadlineDefaultsToRFC3339(t *testing.T) {
	d := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-01T10:00:00Z", FormatDeadline(d, ""))
}
