package scheduling

import "iter"

// DefaultGranularity is the slot step in minutes used when the shop has not
// configured one.
const DefaultGranularity = 30

// Slots yields the candidate start offsets t of a window, Start <= t < End,
// stepping by granularity minutes. The sequence is finite and restartable.
// Whether a service of some duration actually fits at t is not the
// generator's concern; the scheduler checks t+duration <= End separately.
func Slots(w Window, granularity int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if granularity <= 0 {
			return
		}
		for t := w.Start; t < w.End; t += granularity {
			if !yield(t) {
				return
			}
		}
	}
}
