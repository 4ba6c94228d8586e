// Package format renders durations, sizes and ratios for table output.
package format

import (
	"fmt"
	"time"
)

// Uptime formats a server uptime given in seconds.
// Examples: "3d4h", "2h15m", "45s"
func Uptime(seconds float64) string {
	return DurationHuman(time.Duration(seconds * float64(time.Second)))
}

// DurationHuman formats a duration for human display, keeping the two
// most significant units.
// Examples: "2d", "1d6h", "2h", "1h30m", "45s"
func DurationHuman(d time.Duration) string {
	const day = 24 * time.Hour
	if d >= day {
		days := d / day
		hours := (d % day) / time.Hour
		if hours > 0 {
			return fmt.Sprintf("%dd%dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
	if d >= time.Hour {
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes > 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return fmt.Sprintf("%ds", d/time.Second)
}

// Size formats a size in bytes for human display.
// Uses GB for sizes >= 1GB, MB for >= 1MB, KB otherwise.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%d MB", bytes/mb)
	case bytes >= kb:
		return fmt.Sprintf("%d KB", bytes/kb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}

// Usage formats used/total as "used / total (N%)". A zero total prints "-".
func Usage(used, total int64) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%s / %s (%s)", Size(used), Size(total), Percent(float64(used)/float64(total)))
}

// Percent formats a 0..1 ratio as a percentage with one decimal.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
