package schedule

import (
	"fmt"
	"time"
)

var wallClockLayouts = []string{"15:04", "3:04 PM", "3:04PM"}

// Clock anchors every EventTime of a single run to the event's start
// wall-clock time. An optional ceiling (the total event duration) caps
// additions so a schedule's tail cannot run past the event's end. The
// ceiling is set once by the builder and read-only afterwards.
type Clock struct {
	start time.Time
	end   int // minutes, -1 while uncapped
}

func NewClock(startTime string) (*Clock, error) {
	start, err := parseWallClock(startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid event start time: %w", err)
	}
	return &Clock{start: start, end: -1}, nil
}

// At builds an EventTime from a minute offset relative to the anchor.
func (c *Clock) At(minutes int) EventTime {
	return EventTime{clock: c, minutes: c.clamp(minutes)}
}

// Parse builds an EventTime from a wall-clock string such as "10:45".
func (c *Clock) Parse(s string) (EventTime, error) {
	t, err := parseWallClock(s)
	if err != nil {
		return EventTime{}, err
	}
	return c.At(int(t.Sub(c.start).Minutes())), nil
}

// CapAt fixes the clock's ceiling. Called exactly once, after the
// skeleton walk has determined the event's total duration.
func (c *Clock) CapAt(minutes int) {
	c.end = minutes
}

func (c *Clock) clamp(minutes int) int {
	if c.end >= 0 && minutes > c.end {
		return c.end
	}
	return minutes
}

func parseWallClock(s string) (time.Time, error) {
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse wall-clock time %q", s)
}

// EventTime is a count of minutes since its clock's anchor. Arithmetic
// and comparison are only defined between times sharing a clock.
type EventTime struct {
	clock   *Clock
	minutes int
}

func (t EventTime) Minutes() int {
	return t.minutes
}

// Add returns the time shifted by delta minutes, clamped to the clock's
// ceiling once one is set.
func (t EventTime) Add(delta int) EventTime {
	return t.clock.At(t.minutes + delta)
}

// Sub returns the difference in minutes between two times of the same run.
func (t EventTime) Sub(other EventTime) int {
	t.mustShareClock(other)
	return t.minutes - other.minutes
}

func (t EventTime) Compare(other EventTime) int {
	t.mustShareClock(other)
	return t.minutes - other.minutes
}

func (t EventTime) Before(other EventTime) bool {
	return t.Compare(other) < 0
}

func (t EventTime) Equal(other EventTime) bool {
	return t.Compare(other) == 0
}

// String renders the time as a wall-clock HH:MM relative to the anchor.
func (t EventTime) String() string {
	return t.clock.start.Add(time.Duration(t.minutes) * time.Minute).Format("15:04")
}

func (t EventTime) mustShareClock(other EventTime) {
	if t.clock != other.clock {
		panic("schedule: EventTime operands belong to different clocks")
	}
}
