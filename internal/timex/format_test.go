package timex

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"zero", 0, "0s"},
		{"negative", -5, "0s"},
		{"NaN", math.NaN(), "0s"},
		{"positive infinity", math.Inf(1), "0s"},
		{"nil", nil, "0s"},
		{"non-numeric string", "abc", "0s"},
		{"bool", true, "0s"},
		{"fraction below one second", 0.4, "0s"},
		{"one second", 1, "1 second"},
		{"seconds", 45, "45 seconds"},
		{"fractional seconds floored", 59.9, "59 seconds"},
		{"one minute", 60, "1 minute"},
		{"minutes", 120, "2 minutes"},
		{"minutes and seconds", 90, "1m 30s"},
		{"one hour", 3600, "1 hour"},
		{"hours", 7200, "2 hours"},
		{"hours and minutes", 3660, "1h 1m"},
		{"hours minutes seconds", 3661, "1h 1m 1s"},
		{"legacy bug value", 108000, "ERROR: 108000s (likely bug)"},
		{"milliseconds", 45000, "45 seconds"},
		{"milliseconds to minutes", 90000, "1m 30s"},
		{"milliseconds to an hour", 3600000, "1 hour"},
		{"exactly 1000 is seconds", 1000, "16m 40s"},
		{"not a multiple of 1000", 1001, "16m 41s"},
		{"a day of milliseconds is not converted", 86400000, "24000 hours"},
		{"large seconds", 90061, "25h 1m 1s"},
		{"numeric string", " 90 ", "1m 30s"},
		{"json number", json.Number("3661"), "1h 1m 1s"},
		{"int64", int64(3600), "1 hour"},
		{"uint", uint(61), "1m 1s"},
		{"float32", float32(45000), "45 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSeconds(tt.in))
		})
	}
}

func TestFormatSeconds_Pointer(t *testing.T) {
	d := int64(90)
	assert.Equal(t, "1m 30s", FormatSeconds(&d))

	var nilPtr *int64
	assert.Equal(t, "0s", FormatSeconds(nilPtr))
}

func TestFormatSeconds_LegacyValueNamesItself(t *testing.T) {
	got := FormatSeconds(LegacyBuggyDuration)
	assert.True(t, strings.HasPrefix(got, "ERROR"))
	assert.Contains(t, got, "108000")
}

func TestFormatSeconds_TotalOverRange(t *testing.T) {
	for v := -10; v <= 10_000_000; v += 997 {
		assert.NotEmpty(t, FormatSeconds(v), "value %d", v)
	}
	assert.NotEmpty(t, FormatSeconds(math.MaxFloat64))
	assert.NotEmpty(t, FormatSeconds(uint64(math.MaxUint64)))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90*time.Second + 400*time.Millisecond, "1m 30s"},
		{-time.Minute, "0s"},
		{500 * time.Millisecond, "0s"},
		{5000 * time.Second, "1h 23m 20s"},
		{45000 * time.Second, "12h 30m"},
		{LegacyBuggyDuration * time.Second, "30 hours"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}
