package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(w Window, granularity int) []int {
	var out []int
	for t := range Slots(w, granularity) {
		out = append(out, t)
	}
	return out
}

func TestSlots(t *testing.T) {
	window := Window{Start: 540, End: 1020} // 09:00-17:00

	slots := collect(window, 30)
	assert.Len(t, slots, 16)
	assert.Equal(t, 540, slots[0])
	assert.Equal(t, 990, slots[len(slots)-1])

	// Every slot lies inside the window.
	for _, slot := range slots {
		assert.GreaterOrEqual(t, slot, window.Start)
		assert.Less(t, slot, window.End)
	}
}

func TestSlotsGranularity(t *testing.T) {
	window := Window{Start: 600, End: 720}

	assert.Equal(t, []int{600, 660}, collect(window, 60))
	assert.Equal(t, []int{600, 615, 630, 645, 660, 675, 690, 705}, collect(window, 15))

	// A window shorter than one step still yields its start.
	assert.Equal(t, []int{600}, collect(Window{Start: 600, End: 610}, 30))

	assert.Empty(t, collect(Window{Start: 600, End: 600}, 30))
	assert.Empty(t, collect(window, 0))
	assert.Empty(t, collect(window, -30))
}

func TestSlotsRestartable(t *testing.T) {
	seq := Slots(Window{Start: 540, End: 660}, 30)

	var first, second []int
	for t := range seq {
		first = append(first, t)
	}
	for t := range seq {
		second = append(second, t)
	}
	assert.Equal(t, first, second)
}

func TestSlotsEarlyStop(t *testing.T) {
	var got []int
	for v := range Slots(Window{Start: 0, End: 1440}, 30) {
		got = append(got, v)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []int{0, 30, 60}, got)
}
