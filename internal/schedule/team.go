package schedule

import (
	"slices"
	"strconv"
)

// Activity is anything a team attends: a match on a table or a judged
// session in a room.
type Activity interface {
	StartTime() EventTime
	EndTime() EventTime
	// TeamScheduleRows renders the per-team CSV rows for the given
	// physical slot the team occupies.
	TeamScheduleRows(slot int) [][]string
}

// Attendance records that a team occupies the given physical slot of an
// activity.
type Attendance struct {
	Activity Activity
	Slot     int
}

// Team is a participating team. Index is the stable 1-based assignment
// order; Number is the display number, non-positive meaning unnumbered.
type Team struct {
	Index    int
	Number   int
	Name     string
	Schedule []Attendance
}

// Designation is the label used in rendered schedules.
func (t *Team) Designation() string {
	if t.Number > 0 {
		return strconv.Itoa(t.Number)
	}
	return t.Name
}

func (t *Team) addAttendance(activity Activity, slot int) {
	t.Schedule = append(t.Schedule, Attendance{Activity: activity, Slot: slot})
}

// sortedSchedule returns the attendance records ordered by start time.
func (t *Team) sortedSchedule() []Attendance {
	sorted := slices.Clone(t.Schedule)
	slices.SortFunc(sorted, func(a, b Attendance) int {
		return a.Activity.StartTime().Compare(b.Activity.StartTime())
	})
	return sorted
}

const noTurnaround = 10000

// MinTurnaround is the tightest gap, in minutes, between one activity's
// end and the next activity's start across the team's whole day. Teams
// with a small value have little time to move between locations.
func (t *Team) MinTurnaround() int {
	minTravel := noTurnaround
	var prevEnd *EventTime
	for _, attendance := range t.sortedSchedule() {
		if prevEnd != nil {
			if gap := attendance.Activity.StartTime().Sub(*prevEnd); gap < minTravel {
				minTravel = gap
			}
		}
		end := attendance.Activity.EndTime()
		prevEnd = &end
	}
	return minTravel
}
