package interchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	scheduleDomain "github.com/torvane/gantry/internal/schedule/domain"
)

// RowError describes one rejected input row.
type RowError struct {
	Row     int    `json:"row"` // zero-based index within its record list
	Kind    string `json:"kind"` // "activity" or "dependency"
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Kind, e.Row, e.Message)
}

// ValidationError aggregates every row error of a strict import. The graph
// is guaranteed unchanged when a strict import returns it.
type ValidationError struct {
	Rows []RowError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("import rejected: %s", strings.Join(msgs, "; "))
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	// ClearExisting removes all current activities and dependencies before
	// inserting the batch.
	ClearExisting bool
	// BestEffort applies valid rows and collects per-row errors instead of
	// rejecting the whole batch.
	BestEffort bool
}

// ImportResult reports what an import applied.
type ImportResult struct {
	ActivitiesAdded   int        `json:"activities_added"`
	DependenciesAdded int        `json:"dependencies_added"`
	ClearedExisting   bool       `json:"cleared_existing"`
	RowErrors         []RowError `json:"row_errors,omitempty"`
}

// Import inserts the batch into the schedule. Strict mode (the default)
// validates the entire batch, dependency endpoints and acyclicity included,
// before touching the graph, so a failed import leaves it byte-for-byte
// unchanged. Best-effort mode applies what it can and reports the rest as
// row errors.
func Import(s *scheduleDomain.Schedule, activities []ActivityRecord, dependencies []DependencyRecord, opts ImportOptions) (*ImportResult, error) {
	if opts.BestEffort {
		return importBestEffort(s, activities, dependencies, opts.ClearExisting)
	}
	return importStrict(s, activities, dependencies, opts.ClearExisting)
}

type parsedActivity struct {
	record   ActivityRecord
	start    time.Time
	duration int
}

// validateActivity parses one row without touching the graph.
func validateActivity(cal *calendarDomain.WorkCalendar, rec ActivityRecord, row int) (parsedActivity, *RowError) {
	fail := func(msg string) (parsedActivity, *RowError) {
		return parsedActivity{}, &RowError{Row: row, Kind: "activity", Message: msg}
	}

	if rec.ActivityID == "" {
		return fail("missing activity_id")
	}
	if rec.Name == "" {
		return fail("missing name")
	}
	if rec.DurationDays < 0 {
		return fail("negative duration_days")
	}

	start, err := parseDate(rec.StartDate)
	if err != nil {
		return fail(fmt.Sprintf("invalid start_date %q", rec.StartDate))
	}
	finish, err := parseDate(rec.FinishDate)
	if err != nil {
		return fail(fmt.Sprintf("invalid finish_date %q", rec.FinishDate))
	}
	if !start.IsZero() && !finish.IsZero() && finish.Before(start) {
		return fail("finish_date before start_date")
	}

	duration := rec.DurationDays
	if rec.IsMilestone {
		duration = 0
	} else if duration == 0 && !start.IsZero() && !finish.IsZero() {
		duration = cal.WorkingDaySpan(start, finish)
	}

	return parsedActivity{record: rec, start: start, duration: duration}, nil
}

func validateDependency(rec DependencyRecord, row int, known map[string]bool) *RowError {
	fail := func(msg string) *RowError {
		return &RowError{Row: row, Kind: "dependency", Message: msg}
	}
	if !known[rec.PredecessorID] {
		return fail(fmt.Sprintf("unknown predecessor %q", rec.PredecessorID))
	}
	if !known[rec.SuccessorID] {
		return fail(fmt.Sprintf("unknown successor %q", rec.SuccessorID))
	}
	if rec.PredecessorID == rec.SuccessorID {
		return fail("self dependency")
	}
	if _, err := scheduleDomain.ParseDependencyKind(rec.Kind); err != nil {
		return fail(fmt.Sprintf("unknown kind %q", rec.Kind))
	}
	return nil
}

func importStrict(s *scheduleDomain.Schedule, activities []ActivityRecord, dependencies []DependencyRecord, clear bool) (*ImportResult, error) {
	var rowErrs []RowError

	known := make(map[string]bool)
	if !clear {
		for _, a := range s.Activities() {
			known[a.Code()] = true
		}
	}

	parsed := make([]parsedActivity, 0, len(activities))
	for i, rec := range activities {
		p, rowErr := validateActivity(s.Calendar(), rec, i)
		if rowErr == nil && known[rec.ActivityID] {
			rowErr = &RowError{Row: i, Kind: "activity", Message: fmt.Sprintf("duplicate activity_id %q", rec.ActivityID)}
		}
		if rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
			continue
		}
		known[rec.ActivityID] = true
		parsed = append(parsed, p)
	}

	for i, rec := range dependencies {
		if rowErr := validateDependency(rec, i, known); rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
		}
	}

	if len(rowErrs) == 0 {
		if rowErr := detectCycle(s, dependencies, clear); rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
		}
	}
	if len(rowErrs) > 0 {
		return nil, &ValidationError{Rows: rowErrs}
	}

	result := &ImportResult{ClearedExisting: clear}
	if clear {
		clearGraph(s)
	}
	if err := applyBatch(s, parsed, dependencies, result); err != nil {
		return nil, err
	}
	return result, nil
}

func importBestEffort(s *scheduleDomain.Schedule, activities []ActivityRecord, dependencies []DependencyRecord, clear bool) (*ImportResult, error) {
	result := &ImportResult{ClearedExisting: clear}
	if clear {
		clearGraph(s)
	}

	codeToID := make(map[string]uuid.UUID)
	for _, a := range s.Activities() {
		codeToID[a.Code()] = a.ID()
	}

	for i, rec := range activities {
		p, rowErr := validateActivity(s.Calendar(), rec, i)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, *rowErr)
			continue
		}
		a, err := s.AddActivity(scheduleDomain.ActivityParams{
			Code:         p.record.ActivityID,
			Name:         p.record.Name,
			WBSCode:      p.record.WBSCode,
			Notes:        p.record.Notes,
			PlannedStart: p.start,
			DurationDays: p.duration,
		})
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: i, Kind: "activity", Message: err.Error()})
			continue
		}
		codeToID[rec.ActivityID] = a.ID()
		result.ActivitiesAdded++
	}

	for i, rec := range dependencies {
		predID, predOK := codeToID[rec.PredecessorID]
		succID, succOK := codeToID[rec.SuccessorID]
		if !predOK || !succOK {
			result.RowErrors = append(result.RowErrors, RowError{Row: i, Kind: "dependency",
				Message: fmt.Sprintf("unknown endpoint %q -> %q", rec.PredecessorID, rec.SuccessorID)})
			continue
		}
		kind, err := scheduleDomain.ParseDependencyKind(rec.Kind)
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: i, Kind: "dependency", Message: err.Error()})
			continue
		}
		if _, err := s.AddDependency(predID, succID, kind, rec.LagDays); err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: i, Kind: "dependency", Message: err.Error()})
			continue
		}
		result.DependenciesAdded++
	}

	s.AddDomainEvent(scheduleDomain.NewScheduleImported(s.ID(), result.ActivitiesAdded, result.DependenciesAdded, clear))
	return result, nil
}

// applyBatch inserts fully-validated rows. Errors here indicate a validation
// gap, not bad input, and abort with the underlying error.
func applyBatch(s *scheduleDomain.Schedule, parsed []parsedActivity, dependencies []DependencyRecord, result *ImportResult) error {
	codeToID := make(map[string]uuid.UUID)
	for _, a := range s.Activities() {
		codeToID[a.Code()] = a.ID()
	}

	for _, p := range parsed {
		a, err := s.AddActivity(scheduleDomain.ActivityParams{
			Code:         p.record.ActivityID,
			Name:         p.record.Name,
			WBSCode:      p.record.WBSCode,
			Notes:        p.record.Notes,
			PlannedStart: p.start,
			DurationDays: p.duration,
		})
		if err != nil {
			return fmt.Errorf("import activity %q: %w", p.record.ActivityID, err)
		}
		codeToID[p.record.ActivityID] = a.ID()
		result.ActivitiesAdded++
	}

	for _, rec := range dependencies {
		kind, err := scheduleDomain.ParseDependencyKind(rec.Kind)
		if err != nil {
			return fmt.Errorf("import dependency %q -> %q: %w", rec.PredecessorID, rec.SuccessorID, err)
		}
		if _, err := s.AddDependency(codeToID[rec.PredecessorID], codeToID[rec.SuccessorID], kind, rec.LagDays); err != nil {
			return fmt.Errorf("import dependency %q -> %q: %w", rec.PredecessorID, rec.SuccessorID, err)
		}
		result.DependenciesAdded++
	}

	s.AddDomainEvent(scheduleDomain.NewScheduleImported(s.ID(), result.ActivitiesAdded, result.DependenciesAdded, result.ClearedExisting))
	return nil
}

// detectCycle runs a topological check over the combined edge set (existing
// plus incoming) without mutating the graph.
func detectCycle(s *scheduleDomain.Schedule, incoming []DependencyRecord, clear bool) *RowError {
	adjacency := make(map[string][]string)
	indegree := make(map[string]int)
	nodes := make(map[string]bool)

	addEdge := func(pred, succ string) {
		adjacency[pred] = append(adjacency[pred], succ)
		indegree[succ]++
		nodes[pred], nodes[succ] = true, true
	}

	if !clear {
		for _, a := range s.Activities() {
			nodes[a.Code()] = true
		}
		for _, d := range s.Dependencies() {
			pred, _ := s.Activity(d.PredecessorID())
			succ, _ := s.Activity(d.SuccessorID())
			addEdge(pred.Code(), succ.Code())
		}
	}
	for _, rec := range incoming {
		addEdge(rec.PredecessorID, rec.SuccessorID)
	}

	queue := make([]string, 0, len(nodes))
	for n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	seen := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		seen++
		for _, succ := range adjacency[n] {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	if seen != len(nodes) {
		return &RowError{Row: 0, Kind: "dependency", Message: "dependency rows form a cycle"}
	}
	return nil
}

// clearGraph removes every dependency and activity.
func clearGraph(s *scheduleDomain.Schedule) {
	for _, d := range s.Dependencies() {
		_ = s.RemoveDependency(d.PredecessorID(), d.SuccessorID())
	}
	for _, a := range s.Activities() {
		_, _ = s.RemoveActivity(a.ID(), true)
	}
}
