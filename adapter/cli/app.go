package cli

import (
	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
)

// App holds the CLI application dependencies.
type App struct {
	CreateScheduleHandler *scheduleApp.CreateScheduleHandler
	ActivityHandler       *scheduleApp.ActivityHandler
	DependencyHandler     *scheduleApp.DependencyHandler
	RescheduleHandler     *scheduleApp.RescheduleHandler
	BaselineHandler       *scheduleApp.BaselineHandler
	ImportHandler         *scheduleApp.ImportHandler
	Queries               *scheduleApp.QueryService
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createScheduleHandler *scheduleApp.CreateScheduleHandler,
	activityHandler *scheduleApp.ActivityHandler,
	dependencyHandler *scheduleApp.DependencyHandler,
	rescheduleHandler *scheduleApp.RescheduleHandler,
	baselineHandler *scheduleApp.BaselineHandler,
	importHandler *scheduleApp.ImportHandler,
	queries *scheduleApp.QueryService,
) *App {
	return &App{
		CreateScheduleHandler: createScheduleHandler,
		ActivityHandler:       activityHandler,
		DependencyHandler:     dependencyHandler,
		RescheduleHandler:     rescheduleHandler,
		BaselineHandler:       baselineHandler,
		ImportHandler:         importHandler,
		Queries:               queries,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
