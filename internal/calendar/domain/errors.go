package domain

import "errors"

var (
	// ErrNegativeDays indicates a negative working-day count was passed where
	// only zero or positive counts are valid.
	ErrNegativeDays = errors.New("working-day count cannot be negative")

	// ErrNoWorkingDays indicates the calendar would be left without any
	// working weekday, making date arithmetic undefined.
	ErrNoWorkingDays = errors.New("calendar must keep at least one working weekday")
)
