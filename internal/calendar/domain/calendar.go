// Package domain provides business-day arithmetic for the schedule engine.
// All date math in the engine goes through a WorkCalendar; no component
// subtracts raw timestamps to obtain durations.
package domain

import "time"

// dateKey is the map key format for holiday lookups.
const dateKey = "2006-01-02"

// Normalize truncates a timestamp to midnight UTC. Schedule dates are
// day-granular; every date entering the calendar is normalized first.
func Normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WorkCalendar decides which calendar days are working days and converts
// between dates and working-day durations. The zero value is not usable;
// construct with NewWorkCalendar or NewContinuousCalendar.
type WorkCalendar struct {
	workweek [7]bool
	holidays map[string]struct{}
}

// NewWorkCalendar returns a calendar with Monday through Friday working
// and no holidays.
func NewWorkCalendar() *WorkCalendar {
	c := &WorkCalendar{holidays: make(map[string]struct{})}
	for d := time.Monday; d <= time.Friday; d++ {
		c.workweek[d] = true
	}
	return c
}

// NewContinuousCalendar returns a calendar where every day is a working day.
// Used for schedules that run through weekends (e.g. around-the-clock work).
func NewContinuousCalendar() *WorkCalendar {
	c := &WorkCalendar{holidays: make(map[string]struct{})}
	for d := time.Sunday; d <= time.Saturday; d++ {
		c.workweek[d] = true
	}
	return c
}

// RehydrateWorkCalendar recreates a calendar from persisted state.
func RehydrateWorkCalendar(workweek [7]bool, holidays []time.Time) *WorkCalendar {
	c := &WorkCalendar{workweek: workweek, holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[Normalize(h).Format(dateKey)] = struct{}{}
	}
	return c
}

// WorkingWeekdays returns the working flag per weekday, Sunday first.
func (c *WorkCalendar) WorkingWeekdays() [7]bool {
	return c.workweek
}

// SetWorkingWeekday marks a weekday as working or non-working. Disabling the
// last working weekday fails with ErrNoWorkingDays.
func (c *WorkCalendar) SetWorkingWeekday(day time.Weekday, working bool) error {
	if !working {
		remaining := 0
		for d, w := range c.workweek {
			if w && time.Weekday(d) != day {
				remaining++
			}
		}
		if remaining == 0 {
			return ErrNoWorkingDays
		}
	}
	c.workweek[day] = working
	return nil
}

// AddHoliday marks a specific date as non-working.
func (c *WorkCalendar) AddHoliday(t time.Time) {
	c.holidays[Normalize(t).Format(dateKey)] = struct{}{}
}

// RemoveHoliday clears a holiday.
func (c *WorkCalendar) RemoveHoliday(t time.Time) {
	delete(c.holidays, Normalize(t).Format(dateKey))
}

// Holidays returns the holiday dates in no particular order.
func (c *WorkCalendar) Holidays() []time.Time {
	out := make([]time.Time, 0, len(c.holidays))
	for k := range c.holidays {
		t, err := time.Parse(dateKey, k)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsWorkingDay reports whether the given date is a working day.
func (c *WorkCalendar) IsWorkingDay(t time.Time) bool {
	t = Normalize(t)
	if !c.workweek[t.Weekday()] {
		return false
	}
	_, holiday := c.holidays[t.Format(dateKey)]
	return !holiday
}

// NextWorkingDay returns the first working day at or after t.
func (c *WorkCalendar) NextWorkingDay(t time.Time) time.Time {
	t = Normalize(t)
	for !c.IsWorkingDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// PreviousWorkingDay returns the last working day at or before t.
func (c *WorkCalendar) PreviousWorkingDay(t time.Time) time.Time {
	t = Normalize(t)
	for !c.IsWorkingDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddWorkingDays advances n working days from t and returns the resulting
// working day. n == 0 normalizes to the first working day at or after t.
// Negative n fails with ErrNegativeDays.
//
// The result is consistent with WorkingDaysBetween:
// WorkingDaysBetween(t, AddWorkingDays(t, n)) == n for all t and n >= 0.
func (c *WorkCalendar) AddWorkingDays(t time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, ErrNegativeDays
	}
	return c.ShiftWorkingDays(t, n), nil
}

// ShiftWorkingDays moves n working days forward (n > 0) or backward (n < 0)
// from t, always landing on a working day. n == 0 normalizes to the first
// working day at or after t. Used internally for lag and late-date math,
// where leads make negative offsets legitimate.
func (c *WorkCalendar) ShiftWorkingDays(t time.Time, n int) time.Time {
	if n >= 0 {
		t = c.NextWorkingDay(t)
		for ; n > 0; n-- {
			t = c.NextWorkingDay(t.AddDate(0, 0, 1))
		}
		return t
	}
	t = c.PreviousWorkingDay(t)
	for ; n < 0; n++ {
		t = c.PreviousWorkingDay(t.AddDate(0, 0, -1))
	}
	return t
}

// WorkingDaysBetween counts working days in the half-open interval
// [start, finish): inclusive of start, exclusive of finish. Returns 0 when
// finish is at or before start.
func (c *WorkCalendar) WorkingDaysBetween(start, finish time.Time) int {
	start, finish = Normalize(start), Normalize(finish)
	if !finish.After(start) {
		return 0
	}
	n := 0
	for d := start; d.Before(finish); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}

// SignedWorkingDaysBetween is WorkingDaysBetween with direction: negative
// when finish is earlier than start. Used for variance computation where
// ahead-of-schedule values are negative.
func (c *WorkCalendar) SignedWorkingDaysBetween(start, finish time.Time) int {
	if Normalize(finish).Before(Normalize(start)) {
		return -c.WorkingDaysBetween(finish, start)
	}
	return c.WorkingDaysBetween(start, finish)
}

// WorkingDaySpan counts working days in the closed interval [start, finish],
// the working duration of an activity occupying both endpoint days.
func (c *WorkCalendar) WorkingDaySpan(start, finish time.Time) int {
	return c.WorkingDaysBetween(start, Normalize(finish).AddDate(0, 0, 1))
}
