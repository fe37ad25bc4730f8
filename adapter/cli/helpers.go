package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

// DateLayout is the date format accepted by every CLI flag carrying a date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD flag value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// ResolveActivity turns an activity reference into its id. References are
// tried as an activity code first, then as a raw uuid.
func ResolveActivity(ctx context.Context, app *App, scheduleID uuid.UUID, ref string) (uuid.UUID, error) {
	s, err := app.Queries.GetSchedule(ctx, scheduleApp.GetScheduleQuery{ScheduleID: scheduleID})
	if err != nil {
		return uuid.Nil, err
	}
	if a, ok := s.ActivityByCode(ref); ok {
		return a.ID(), nil
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("unknown activity %q", ref)
	}
	return id, nil
}

// RequireApp fails with a friendly message when the container did not come up.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, fmt.Errorf("no database connection; check GANTRY_DATABASE_URL or run with the default SQLite store")
	}
	return app, nil
}
