package photo

import (
	"fmt"
	"math"
	"time"
)

// FormatTime renders a duration in seconds as "N.N seconds" or
// "M minute(s) N.N seconds".
func FormatTime(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1f seconds", seconds)
	}
	minutes := int(math.Floor(seconds / 60))
	remaining := math.Mod(seconds, 60)
	unit := "minute"
	if minutes > 1 {
		unit = "minutes"
	}
	return fmt.Sprintf("%d %s %.1f seconds", minutes, unit, remaining)
}

// FormatDuration is FormatTime for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}
