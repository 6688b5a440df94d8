package controllers

import (
	"github.com/bookline-app/bookline/scheduling"
)

var engine *scheduling.Scheduler

// SetEngine wires the scheduling engine used by the admin controllers.
func SetEngine(e *scheduling.Scheduler) {
	engine = e
}
