package scheduling

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// staticUTCOffsets is the last-resort offset table used when the IANA zone
// database cannot resolve a location's timezone. The offsets are standard
// (non-DST) USA offsets, so computations through this table lose DST
// awareness; a diagnostic is logged whenever it is used.
var staticUTCOffsets = map[string]int{
	"America/New_York":    -5 * 60,
	"America/Chicago":     -6 * 60,
	"America/Denver":      -7 * 60,
	"America/Phoenix":     -7 * 60,
	"America/Los_Angeles": -8 * 60,
	"America/Anchorage":   -9 * 60,
	"Pacific/Honolulu":    -10 * 60,
}

// ParseClockTime converts "HH:MM" (24-hour) or "h:mm AM/PM" to minutes
// since midnight.
func ParseClockTime(text string) (int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	meridiem := ""
	upper := strings.ToUpper(s)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(s[:len(s)-2])
			break
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "PM" {
			hour += 12
		}
	} else if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	return hour*60 + minute, nil
}

// FormatClockTime renders minutes since midnight as a zero-padded 24-hour
// "HH:MM" string. Minutes outside [0, 1440) fail with ErrOutOfRange.
func FormatClockTime(minutes int) (string, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// WeekdayOf returns the lowercase weekday name ("sunday".."saturday") of t.
func WeekdayOf(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// LocalWallClockToUTC converts a wall-clock reading in the given IANA
// timezone to the UTC instant it names on that specific calendar date,
// DST-aware. If the zone database lookup fails it falls back to the static
// offset table and logs a diagnostic.
func LocalWallClockToUTC(year int, month time.Month, day, hour, minute int, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Date(year, month, day, hour, minute, 0, 0, fallbackLocation(timezone, err)).UTC()
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc).UTC()
}

// UTCToLocalWallClock is the inverse of LocalWallClockToUTC: it reads the
// given instant on the location's wall clock.
func UTCToLocalWallClock(instant time.Time, timezone string) (year int, month time.Month, day, hour, minute int) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = fallbackLocation(timezone, err)
	}
	local := instant.In(loc)
	return local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute()
}

// LocalNow returns the current wall-clock date ("YYYY-MM-DD") and minutes
// since midnight at the given timezone for the instant now.
func LocalNow(now time.Time, timezone string) (date string, minutes int) {
	year, month, day, hour, minute := UTCToLocalWallClock(now, timezone)
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), hour*60 + minute
}

func fallbackLocation(timezone string, cause error) *time.Location {
	offset, ok := staticUTCOffsets[timezone]
	if !ok {
		log.Printf("timezone resolution failed for %q (%v), no static offset known, using UTC", timezone, cause)
		return time.UTC
	}
	log.Printf("timezone resolution failed for %q (%v), using static offset %+d min", timezone, cause, offset)
	return time.FixedZone(timezone, offset*60)
}
