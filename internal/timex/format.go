package timex

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LegacyBuggyDuration is the value older records carry when their duration
// was computed in the wrong unit (30 hours). It is reported, not formatted.
// TODO: drop once stored records are migrated to recomputed durations.
const LegacyBuggyDuration = 108000

const (
	millisPerSecond   = 1000
	secondsPerDay     = 86400
	secondsPerHour    = 3600
	secondsPerMinute  = 60
	zeroDurationLabel = "0s"
)

// FormatSeconds renders an elapsed time given in seconds, e.g. "45 seconds",
// "1m 30s", "2h 5m". It accepts any numeric value, numeric string or
// json.Number and never fails:
//
//   - NaN, infinities, negatives and non-numeric input render as "0s";
//   - LegacyBuggyDuration renders as an explicit error string;
//   - values above 1000 that are whole multiples of 1000 and fall under a
//     day once divided are taken to be milliseconds and divided once.
func FormatSeconds(v any) string {
	total := toFloat(v)
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return zeroDurationLabel
	}

	if total == LegacyBuggyDuration {
		return fmt.Sprintf("ERROR: %ds (likely bug)", LegacyBuggyDuration)
	}

	if seconds, ok := millisToSeconds(total); ok {
		total = seconds
	}

	return formatWhole(math.Floor(total))
}

// FormatDuration formats d by its whole seconds. d is trusted to be a real
// elapsed time, so the legacy value and milliseconds checks of FormatSeconds
// do not apply: 5000s stays "1h 23m 20s".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return zeroDurationLabel
	}
	return formatWhole(math.Floor(d.Seconds()))
}

func formatWhole(total float64) string {
	if total == 0 {
		return zeroDurationLabel
	}
	if total < secondsPerMinute {
		return plural(total, "second")
	}

	minutes := math.Floor(total / secondsPerMinute)
	seconds := math.Mod(total, secondsPerMinute)

	if minutes < secondsPerMinute {
		if seconds == 0 {
			return plural(minutes, "minute")
		}
		return fmt.Sprintf("%sm %ss", itoa(minutes), itoa(seconds))
	}

	hours := math.Floor(minutes / secondsPerMinute)
	minutes = math.Mod(minutes, secondsPerMinute)

	switch {
	case minutes == 0 && seconds == 0:
		return plural(hours, "hour")
	case seconds == 0:
		return fmt.Sprintf("%sh %sm", itoa(hours), itoa(minutes))
	default:
		return fmt.Sprintf("%sh %sm %ss", itoa(hours), itoa(minutes), itoa(seconds))
	}
}

