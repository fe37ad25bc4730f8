// Package persistence stores schedule aggregates in SQLite or PostgreSQL.
// Saves rewrite the whole aggregate inside one transaction; loads rehydrate
// it with derived state left stale for recomputation.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
)

const dateLayout = "2006-01-02"
const stampLayout = time.RFC3339Nano

func encodeDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func encodeDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return encodeDate(*t)
}

func decodeDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", *s, err)
	}
	return calendarDomain.Normalize(t), nil
}

func decodeDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := decodeDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// encodeWorkweek packs the weekday flags as seven '0'/'1' runes, Sunday
// first.
func encodeWorkweek(workweek [7]bool) string {
	out := make([]byte, 7)
	for i, working := range workweek {
		if working {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

func decodeWorkweek(s string) ([7]bool, error) {
	var out [7]bool
	if len(s) != 7 {
		return out, fmt.Errorf("malformed workweek %q", s)
	}
	for i := range out {
		out[i] = s[i] == '1'
	}
	return out, nil
}

func encodeHolidays(holidays []time.Time) (string, error) {
	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Format(dateLayout))
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return "", fmt.Errorf("encode holidays: %w", err)
	}
	return string(raw), nil
}

func decodeHolidays(raw string) ([]time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	var dates []string
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("decode holiday %q: %w", d, err)
		}
		out = append(out, t)
	}
	return out, nil
}
