// Package timeutil converts between decimal hours and hour/minute
// pairs. Logged hours are decimal (fractional part = minutes/60);
// splitting and rejoining never drifts by more than one minute.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Split breaks decimal hours into whole hours and minutes, rounding to
// the nearest minute.
func Split(decimal float64) (hours, minutes int) {
	hours = int(decimal)
	minutes = int(math.Round((decimal - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return hours, minutes
}

// Join rebuilds decimal hours from hour/minute parts.
func Join(hours, minutes int) float64 {
	return float64(hours) + float64(minutes)/60
}

// FormatDisplay renders decimal hours as "Xh Ym".
// 1.5 -> "1h 30m", 0.25 -> "15m", 2 -> "2h", 0 -> "0h".
func FormatDisplay(decimal float64) string {
	h, m := Split(decimal)
	switch {
	case h == 0 && m == 0:
		return "0h"
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatClock renders decimal hours as zero-padded "HH:MM".
// 1.5 -> "01:30", 0.25 -> "00:15".
func FormatClock(decimal float64) string {
	h, m := Split(decimal)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseClock converts an "HH:MM" string to decimal hours.
// "01:30" -> 1.5, "00:15" -> 0.25.
func ParseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return Join(h, m), nil
}
