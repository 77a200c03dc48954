package schedule

// TimeSlot is the interval shared by matches and judged sessions. The
// padded end adds the event-wide travel time plus the slot's own extend
// amount; overlap constraints always work on the padded interval.
type TimeSlot struct {
	Index  int // 1-based position within its owning list
	Start  EventTime
	End    EventTime
	Travel int
	Extend int // extra minutes on the padded end only, e.g. to span a break
}

func (s *TimeSlot) StartTime() EventTime {
	return s.Start
}

func (s *TimeSlot) EndTime() EventTime {
	return s.End
}

// PaddedEnd is the effective end used for mutual-exclusion constraints.
// Clamping to the clock ceiling happens inside Add.
func (s *TimeSlot) PaddedEnd() EventTime {
	return s.End.Add(s.Travel + s.Extend)
}
