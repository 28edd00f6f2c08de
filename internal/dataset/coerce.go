package dataset

import (
	"strconv"
	"strings"
	"time"
)

// AsNumber coerces a value to numeric. Failure maps to "missing" (ok=false)
// rather than an error, so aggregates can skip uncoercible cells.
func AsNumber(v Value) (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		return parseNumber(v.Str)
	default:
		return 0, false
	}
}

// AsTime coerces a value to a timestamp; ok=false means missing.
func AsTime(v Value) (time.Time, bool) {
	switch v.Kind {
	case KindTimestamp:
		return v.Time, true
	case KindText:
		return parseTimeMaybe(v.Str)
	default:
		return time.Time{}, false
	}
}

func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	// Tolerate thousands separators ("1,234.5") but not decimal commas;
	// a comma followed by exactly three digits is treated as grouping.
	if strings.Contains(raw, ",") {
		intPart, frac := raw, ""
		if i := strings.IndexByte(raw, '.'); i >= 0 {
			intPart, frac = raw[:i], raw[i:]
		}
		parts := strings.Split(intPart, ",")
		grouped := len(parts) > 1
		for _, p := range parts[1:] {
			if len(p) != 3 {
				grouped = false
				break
			}
		}
		if grouped {
			raw = strings.Join(parts, "") + frac
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseCell parses a raw cell into its best-fitting typed value:
// number, then timestamp, else text; empty becomes missing.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	if f, ok := parseNumber(s); ok {
		return Number(f)
	}
	if t, ok := parseTimeMaybe(s); ok {
		return Timestamp(t)
	}
	return Text(s)
}

// Day truncates a timestamp to its calendar day (UTC-normalized bucket).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
