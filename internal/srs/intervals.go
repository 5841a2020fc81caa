package srs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Intervals is the spaced-repetition schedule: an ascending sequence of
// day-offsets. A word at stage s is scheduled Intervals[s-1] days out;
// clearing the last interval masters the word. The table is configuration
// and can be swapped without touching the transition logic.
type Intervals []int

// DefaultIntervals returns the Ebbinghaus-style default schedule:
// review after 1 day, then 2, 4, 7 and 15 days.
func DefaultIntervals() Intervals {
	return Intervals{1, 2, 4, 7, 15}
}

// Stages returns the number of review stages in the table.
func (iv Intervals) Stages() int {
	return len(iv)
}

// ScheduleFor returns the absolute time a word at the given stage should
// next be reviewed, counted from now. Stages outside [1, Stages()] are
// clamped onto the table.
func (iv Intervals) ScheduleFor(now time.Time, stage int) time.Time {
	idx := stage - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(iv)-1 {
		idx = len(iv) - 1
	}
	return now.AddDate(0, 0, iv[idx])
}

// ParseIntervals parses a comma-separated list of day-offsets such as
// "1,2,4,7,15". The list must be non-empty, positive and strictly ascending.
func ParseIntervals(s string) (Intervals, error) {
	parts := strings.Split(s, ",")
	iv := make(Intervals, 0, len(parts))
	prev := 0
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		days, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %v", part, err)
		}
		if days <= prev {
			return nil, fmt.Errorf("intervals must be positive and ascending, got %q", s)
		}
		iv = append(iv, days)
		prev = days
	}
	if len(iv) == 0 {
		return nil, fmt.Errorf("empty interval table")
	}
	return iv, nil
}
