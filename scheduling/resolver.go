package scheduling

import (
	"github.com/bookline-app/bookline/models"
)

// Window is an open interval of a staff member's day, in minutes since
// midnight local to the location.
type Window struct {
	Start int
	End   int
}

// ResolveWindow determines the effective open window for a staff member on
// one local calendar date ("YYYY-MM-DD"). A date override matching that
// exact date is used exclusively when present, even with IsAvailable=false;
// only in its absence is the weekly rule for the date's weekday consulted.
// Pure lookup over the provided collections, no side effects.
//
// A rule or override with a nil location applies at every location.
func ResolveWindow(
	staffID uint,
	locationID *uint,
	date string,
	weekday string,
	overrides []models.DateAvailabilityOverride,
	rules []models.WeeklyAvailabilityRule,
) (Window, bool) {
	for _, o := range overrides {
		if o.StaffID != staffID || o.Date != date {
			continue
		}
		if !locationMatches(o.LocationID, locationID) {
			continue
		}
		if !o.IsAvailable {
			return Window{}, false // explicitly closed that day
		}
		return parseWindow(o.StartTime, o.EndTime)
	}

	for _, r := range rules {
		if r.StaffID != staffID || !r.IsAvailable {
			continue
		}
		if !locationMatches(r.LocationID, locationID) {
			continue
		}
		if !r.Weekdays.Contains(weekday) {
			continue
		}
		return parseWindow(r.StartTime, r.EndTime)
	}

	return Window{}, false
}

func locationMatches(ruleLocation, requested *uint) bool {
	if ruleLocation == nil || requested == nil {
		return true
	}
	return *ruleLocation == *requested
}

func parseWindow(startTime, endTime string) (Window, bool) {
	start, err := ParseClockTime(startTime)
	if err != nil {
		return Window{}, false
	}
	end, err := ParseClockTime(endTime)
	if err != nil {
		return Window{}, false
	}
	if end <= start {
		return Window{}, false
	}
	return Window{Start: start, End: end}, true
}
