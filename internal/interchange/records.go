// Package interchange translates between the internal schedule model and a
// flat external record format (task list plus dependency list), for import
// from and export to other scheduling tools.
package interchange

import (
	"time"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
)

// DateLayout is the wire format for all dates, ISO 8601 calendar dates.
const DateLayout = "2006-01-02"

// ActivityRecord is one flat task row. ActivityID is the external identifier
// and maps to the internal activity code; internal ids never leave the
// engine. Critical and FloatDays are derived fields populated on export and
// ignored on import.
type ActivityRecord struct {
	ActivityID   string `json:"activity_id"`
	Name         string `json:"name"`
	WBSCode      string `json:"wbs_code,omitempty"`
	StartDate    string `json:"start_date"`
	FinishDate   string `json:"finish_date"`
	DurationDays int    `json:"duration_days"`
	IsMilestone  bool   `json:"is_milestone"`
	Notes        string `json:"notes,omitempty"`

	Critical  bool `json:"critical,omitempty"`
	FloatDays int  `json:"float_days,omitempty"`
}

// DependencyRecord is one flat dependency row, referencing activities by
// their external ids.
type DependencyRecord struct {
	PredecessorID string `json:"predecessor_id"`
	SuccessorID   string `json:"successor_id"`
	Kind          string `json:"kind"`
	LagDays       int    `json:"lag_days"`
}

// ScheduleFile is the complete interchange document.
type ScheduleFile struct {
	ProjectName  string             `json:"project_name,omitempty"`
	Activities   []ActivityRecord   `json:"activities"`
	Dependencies []DependencyRecord `json:"dependencies"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return calendarDomain.Normalize(t), nil
}
