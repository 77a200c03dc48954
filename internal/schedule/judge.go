package schedule

import "fmt"

// JudgeEvent is a named judged activity type owning an ordered room list
// and an ordered session list. Block-scheduled events additionally carry
// a sub-schedule rotating each room through short judged sub-events.
type JudgeEvent struct {
	Index    int
	Name     string
	Rooms    []string
	Sessions []*JudgeSession

	// SubSchedule maps each room to its ordered sub-slots; nil unless the
	// event declares sub-events.
	SubSchedule map[string][]SubSlot
	// BlockRooms maps each sub-event name to its physical sub-rooms.
	BlockRooms map[string][]string
}

// SubSlot is one room's stop within a block-scheduled session: which
// sub-event it hosts, in which sub-room, at which minute offsets relative
// to the parent session's start.
type SubSlot struct {
	Session     int
	Event       string
	Room        string
	StartOffset int
	EndOffset   int
}

// Session returns the 1-based session by index.
func (e *JudgeEvent) Session(index int) (*JudgeSession, error) {
	if index < 1 || index > len(e.Sessions) {
		return nil, fmt.Errorf("judge event %s: no session with index %d", e.Name, index)
	}
	return e.Sessions[index-1], nil
}

// buildBlockSubschedule derives the rotation assigning each room, for
// each consecutive sub-slot, to one sub-event and one of its sub-rooms.
// Each room starts from an offset of roomIndex mod subRoomsPerSubEvent,
// and the rotation step grows by one every time a full room group cycles
// through, so no two rooms follow an identical sub-event permutation and
// no sub-room repeats within the same sub-slot across a group.
func (e *JudgeEvent) buildBlockSubschedule(config SubEventsConfig) error {
	subSessions := len(config.Events)
	deltaT := config.SessionLen + config.SessionBreak

	times := make([][2]int, 0, subSessions)
	subRooms := 0
	e.BlockRooms = make(map[string][]string, subSessions)
	startTM := 0
	for _, subEvent := range config.Events {
		times = append(times, [2]int{startTM, startTM + config.SessionLen})
		e.BlockRooms[subEvent.Name] = subEvent.Rooms
		subRooms = len(subEvent.Rooms)
		startTM += deltaT
	}

	step := 0
	results := make(map[string][]SubSlot, len(e.Rooms))

	for roomIndex, room := range e.Rooms {
		slots := make([]SubSlot, 0, subSessions)
		used := make(map[int]bool, subRooms)
		subRoomIndex := roomIndex % subRooms

		for subSession := range subSessions {
			trials := 0
			for step > 0 && used[subRoomIndex] {
				subRoomIndex = (subRoomIndex + 1) % subRooms
				if trials++; trials >= subRooms {
					return fmt.Errorf("judge event %s: sub-room pool of %d cannot avoid a collision for room %s", e.Name, subRooms, room)
				}
			}

			subEvent := config.Events[(subSession+step)%subSessions]
			slots = append(slots, SubSlot{
				Session:     subSession,
				Event:       subEvent.Name,
				Room:        subEvent.Rooms[subRoomIndex],
				StartOffset: times[subSession][0],
				EndOffset:   times[subSession][1],
			})

			used[subRoomIndex] = true
			subRoomIndex = (subRoomIndex + step) % subRooms
		}

		results[room] = slots
		if (roomIndex+1)%subRooms == 0 {
			step++
		}
	}

	e.SubSchedule = results
	return nil
}

// JudgeSession is one timed evaluation round of a judge event, with one
// physical slot per room. Penalty is nonzero only for overflow sessions
// beyond the exact division of teams over rooms.
type JudgeSession struct {
	TimeSlot
	Event   *JudgeEvent
	Penalty int
	Teams   []*Team
}

func newJudgeSession(event *JudgeEvent, index int, start, end EventTime, travel, penalty int) *JudgeSession {
	return &JudgeSession{
		TimeSlot: TimeSlot{Index: index, Start: start, End: end, Travel: travel},
		Event:    event,
		Penalty:  penalty,
		Teams:    make([]*Team, len(event.Rooms)),
	}
}

// Assign places the team into the first empty room probed in the given
// order and records the attendance on the team.
func (s *JudgeSession) Assign(team *Team, order SlotOrder) (int, error) {
	for _, i := range order(len(s.Teams)) {
		if s.Teams[i] == nil {
			s.Teams[i] = team
			team.addAttendance(s, i)
			return i, nil
		}
	}
	return 0, fmt.Errorf("judge event %s session %d: all %d rooms are already assigned", s.Event.Name, s.Index, len(s.Teams))
}
