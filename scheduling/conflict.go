package scheduling

import (
	"time"

	"github.com/bookline-app/bookline/models"
)

// GracePeriodMinutes is how far past a slot's nominal start a same-day
// booking is still accepted. Slots further in the past are never offered.
const GracePeriodMinutes = 15

// HasConflict reports whether a proposed booking [start, start+duration)
// overlaps any of the staff member's existing bookings. Intervals are
// half-open, so a booking ending exactly when another starts does not
// conflict. Cancelled bookings must already be filtered out by the caller;
// the check spans all locations because a staff member cannot be
// double-booked across locations either.
func HasConflict(start time.Time, duration int, existing []models.Booking) bool {
	end := start.Add(time.Duration(duration) * time.Minute)
	for _, b := range existing {
		if start.Before(b.EndsAt()) && b.ScheduledAt.Before(end) {
			return true
		}
	}
	return false
}

// TooFarPast applies the same-day grace period rule: a candidate slot is
// rejected once the location's wall clock has moved more than
// GracePeriodMinutes past the slot's start. Both arguments are minutes
// since midnight local to the location; comparing wall-clock minutes keeps
// the rule correct across DST transitions.
func TooFarPast(nowMinutes, slotMinutes int) bool {
	return nowMinutes > slotMinutes+GracePeriodMinutes
}
