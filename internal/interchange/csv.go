package interchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var activityHeader = []string{
	"activity_id", "name", "wbs_code", "start_date", "finish_date",
	"duration_days", "is_milestone", "notes", "critical", "float_days",
}

var dependencyHeader = []string{"predecessor_id", "successor_id", "kind", "lag_days"}

// WriteActivitiesCSV writes the task rows with a header line.
func WriteActivitiesCSV(w io.Writer, records []ActivityRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(activityHeader); err != nil {
		return fmt.Errorf("write activity header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.ActivityID, rec.Name, rec.WBSCode, rec.StartDate, rec.FinishDate,
			strconv.Itoa(rec.DurationDays), strconv.FormatBool(rec.IsMilestone),
			rec.Notes, strconv.FormatBool(rec.Critical), strconv.Itoa(rec.FloatDays),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write activity row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDependenciesCSV writes the dependency rows with a header line.
func WriteDependenciesCSV(w io.Writer, records []DependencyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dependencyHeader); err != nil {
		return fmt.Errorf("write dependency header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.PredecessorID, rec.SuccessorID, rec.Kind, strconv.Itoa(rec.LagDays)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write dependency row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadActivitiesCSV parses task rows. The header is matched by name, so
// column order is free and derived columns may be absent.
func ReadActivitiesCSV(r io.Reader) ([]ActivityRecord, error) {
	rows, index, err := readWithHeader(r)
	if err != nil {
		return nil, err
	}

	records := make([]ActivityRecord, 0, len(rows))
	for i, row := range rows {
		get := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}
		duration, err := atoiDefault(get("duration_days"), 0)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid duration_days %q", i, get("duration_days"))
		}
		records = append(records, ActivityRecord{
			ActivityID:   get("activity_id"),
			Name:         get("name"),
			WBSCode:      get("wbs_code"),
			StartDate:    get("start_date"),
			FinishDate:   get("finish_date"),
			DurationDays: duration,
			IsMilestone:  get("is_milestone") == "true",
			Notes:        get("notes"),
		})
	}
	return records, nil
}

// ReadDependenciesCSV parses dependency rows.
func ReadDependenciesCSV(r io.Reader) ([]DependencyRecord, error) {
	rows, index, err := readWithHeader(r)
	if err != nil {
		return nil, err
	}

	records := make([]DependencyRecord, 0, len(rows))
	for i, row := range rows {
		get := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}
		lag, err := atoiDefault(get("lag_days"), 0)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid lag_days %q", i, get("lag_days"))
		}
		records = append(records, DependencyRecord{
			PredecessorID: get("predecessor_id"),
			SuccessorID:   get("successor_id"),
			Kind:          get("kind"),
			LagDays:       lag,
		})
	}
	return records, nil
}

func readWithHeader(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read csv: missing header")
	}

	index := make(map[string]int, len(all[0]))
	for i, col := range all[0] {
		index[col] = i
	}
	return all[1:], index, nil
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
