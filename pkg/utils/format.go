package utils

import "fmt"

// FormatDuration renders a flight duration in seconds as HH:MM.
// Zero or negative durations are unknown and render as "".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
