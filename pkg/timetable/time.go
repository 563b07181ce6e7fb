package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 1440

// EndOfDay is the minute value assigned to the literal "00:00" so that a
// last-stop arrival at midnight orders after same-day departures.
const EndOfDay = MinutesPerDay

// ParseTime converts an HH:MM string into minutes since midnight.
// The literal "00:00" maps to EndOfDay (1440).
func ParseTime(value string) (int, error) {
	if value == "00:00" {
		return EndOfDay, nil
	}

	hourText, minuteText, found := strings.Cut(value, ":")
	if !found {
		return 0, fmt.Errorf("time %q is not in HH:MM format", value)
	}

	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, fmt.Errorf("time %q has a non-numeric hour", value)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil {
		return 0, fmt.Errorf("time %q has a non-numeric minute", value)
	}

	if hour < 0 || hour >= 24 || minute < 0 || minute >= 60 {
		return 0, fmt.Errorf("time %q is out of range", value)
	}

	return hour*60 + minute, nil
}

// FormatTime renders minutes since midnight as HH:MM, wrapping every 24 hours.
func FormatTime(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration returns the elapsed minutes from one minute-of-day to another,
// wrapping across midnight.
func Duration(from int, to int) int {
	return ((to-from)%MinutesPerDay + MinutesPerDay) % MinutesPerDay
}

// FormatDuration renders a minute count as "Xh Ym".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
