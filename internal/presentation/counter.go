package presentation

import "math"

// Counter animation defaults: the landing page runs 100 frames over 1.5s,
// the listing stats 20 frames over 0.5s.
const (
	LandingCounterSteps    = 100
	LandingCounterDuration = 1500
	ListingCounterSteps    = 20
	ListingCounterDuration = 500
)

// Counter is the data a page needs to animate one statistic.
type Counter struct {
	ID         string `json:"id"`
	Target     int    `json:"target"`
	Suffix     string `json:"suffix"`
	Display    string `json:"display"`
	Frames     []int  `json:"frames"`
	DurationMs int    `json:"duration_ms"`
}

// AnimateCounter prepares a counter that counts up from zero to value.
func AnimateCounter(id string, value int, suffix string, steps, durationMs int) Counter {
	return Counter{
		ID:         id,
		Target:     value,
		Suffix:     suffix,
		Display:    FormatCounter(value, suffix),
		Frames:     CounterFrames(0, value, steps),
		DurationMs: durationMs,
	}
}

// CounterFrames returns the values shown at each animation step of a linear
// count from `from` to `to`. The last frame is always exactly `to`.
func CounterFrames(from, to, steps int) []int {
	if steps <= 0 {
		return []int{to}
	}
	frames := make([]int, steps)
	delta := float64(to-from) / float64(steps)
	for i := 1; i < steps; i++ {
		frames[i-1] = int(math.Round(float64(from) + delta*float64(i)))
	}
	frames[steps-1] = to
	return frames
}
