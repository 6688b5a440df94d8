package scheduling

import "errors"

var (
	// ErrInvalidTimeFormat is returned for clock strings that are neither
	// 24-hour "HH:MM" nor "h:mm AM/PM".
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrOutOfRange is returned when a minute offset falls outside [0, 1440).
	ErrOutOfRange = errors.New("minutes out of range")

	// ErrNoQualifiedStaff means no active staff member can take the request.
	// Callers surface it as "no availability", not as a hard error.
	ErrNoQualifiedStaff = errors.New("no qualified staff")

	// ErrSlotNoLongerAvailable is the write-path rejection: the authoritative
	// re-check found a conflict that the advisory read path did not.
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")

	// ErrSlotTaken is reported by the Store when its atomic check-and-insert
	// loses to a concurrent booking. The scheduler maps it to
	// ErrSlotNoLongerAvailable before returning.
	ErrSlotTaken = errors.New("slot taken")
)
