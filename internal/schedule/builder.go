package schedule

import (
	"fmt"
	"log"
	"math"

	"github.com/samber/lo"
)

// overflowPenalty weights judged sessions beyond the exact division of
// teams over rooms; the objective discourages filling them.
const overflowPenalty = 10

// Model is the fully time-allocated timetable skeleton. Teams are only
// attached later, either by reconciling a solver result or by a sample
// round-robin fill.
type Model struct {
	Clock       *Clock
	Travel      int
	Teams       []*Team
	MatchList   *MatchList
	JudgeEvents []*JudgeEvent // config order

	ScheduleBlocks []ScheduleBlockConfig
	Blocks         *BlockIndex

	HasJudgePenalty bool

	judgeByName map[string]*JudgeEvent
	dummy       *Team
}

// Build derives the complete skeleton from configuration: every match
// and judged-session time slot, the clock ceiling, and the frozen block
// index. No team is assigned to anything yet.
func Build(config Config) (*Model, error) {
	clock, err := NewClock(config.StartTime)
	if err != nil {
		return nil, err
	}

	model := &Model{
		Clock:          clock,
		Travel:         config.TravelTime,
		ScheduleBlocks: config.ScheduleBlocks,
		judgeByName:    make(map[string]*JudgeEvent, len(config.JudgeEvents)),
	}

	model.Teams = lo.Map(config.Teams, func(team TeamConfig, i int) *Team {
		return &Team{Index: i + 1, Number: team.Number, Name: team.Name}
	})

	duration := 0
	matchesEnd, err := model.buildMatches(config.MatchInfo)
	if err != nil {
		return nil, err
	}
	duration = max(duration, matchesEnd)

	judgeEnd, err := model.buildJudgeEvents(config.JudgeEvents)
	if err != nil {
		return nil, err
	}
	duration = max(duration, judgeEnd)

	// The ceiling only exists from here on: skeleton times were computed
	// uncapped, padded ends and schedule-block windows are clamped.
	clock.CapAt(duration)

	if model.MatchList.DummyTeam {
		model.dummy = &Team{Index: len(model.Teams) + 1, Number: -1, Name: "DUMMY"}
	}

	model.Blocks = NewBlockIndex(model.allSlots())
	return model, nil
}

// buildMatches walks forward in match-length increments, instantiating
// one match per table of the active table group each session, until the
// required match count is reached. Returns the minute the walk ended at.
func (m *Model) buildMatches(config MatchConfig) (int, error) {
	m.MatchList = &MatchList{
		GamesPerTeam:            config.GamesPerTeam,
		TableNames:              config.TableNames,
		BreakTime:               config.MatchBreak,
		MaxTeamMatchesPerFields: config.MaxTeamMatchesPerFields,
	}

	required := float64(len(m.Teams))*float64(config.GamesPerTeam)/2 + float64(config.ExtraMatches)
	totalMatches := int(math.Ceil(required))
	m.MatchList.DummyTeam = math.Trunc(required) != required

	breaks, err := m.parseWindows(config.BreakTimes)
	if err != nil {
		return 0, err
	}
	resetAfterBreak, err := m.parseTimes(config.ResetAfterBreak)
	if err != nil {
		return 0, err
	}
	oneFieldOnly, err := m.parseTimes(config.OneFieldOnly)
	if err != nil {
		return 0, err
	}

	startT := m.Clock.At(0)
	deltaT := config.MatchLen + config.MatchBreak
	tableSets := len(config.TableNames)
	tableSet := 0
	matchSession := 1
	matchIndex := 0

	for matchIndex < totalMatches {
		endT := startT.Add(config.MatchLen)
		oneField := containsTime(oneFieldOnly, startT)

		for _, table := range config.TableNames[tableSet] {
			matchIndex++
			m.MatchList.Matches = append(m.MatchList.Matches, &Match{
				TimeSlot: TimeSlot{Index: matchIndex, Start: startT, End: endT, Travel: m.Travel},
				MatchNum: matchSession,
				Table:    table,
			})
			if matchIndex >= totalMatches || oneField {
				break
			}
		}

		matchSession++
		startT = snapPastBreak(startT.Add(deltaT), breaks)

		if containsTime(resetAfterBreak, startT) {
			tableSet = 0
		} else {
			tableSet = (tableSet + 1) % tableSets
		}
	}

	log.Printf("Matches end at %v", startT)

	for _, window := range config.ExtendSessions {
		if err := m.extendSlots(window, lo.Map(m.MatchList.Matches, func(match *Match, _ int) *TimeSlot { return &match.TimeSlot })); err != nil {
			return 0, err
		}
	}

	return startT.Minutes(), nil
}

// buildJudgeEvents lays out every judged event's sessions using the same
// walk-forward-and-snap-past-break rule as matches. Returns the latest
// minute any event's walk ended at.
func (m *Model) buildJudgeEvents(configs []JudgeEventConfig) (int, error) {
	duration := 0

	for eventIndex, judgeInfo := range configs {
		event := &JudgeEvent{
			Index: eventIndex + 1,
			Name:  judgeInfo.Name,
			Rooms: judgeInfo.Rooms,
		}
		m.JudgeEvents = append(m.JudgeEvents, event)
		m.judgeByName[judgeInfo.Name] = event

		breaks, err := m.parseWindows(judgeInfo.BreakTimes)
		if err != nil {
			return 0, err
		}

		startT := m.Clock.At(0)
		deltaT := judgeInfo.SessionLen + judgeInfo.SessionBreak

		exactSessions := float64(len(m.Teams)) / float64(len(judgeInfo.Rooms))
		totalSessions := int(math.Ceil(exactSessions))

		for sessionIndex := 1; sessionIndex <= totalSessions; sessionIndex++ {
			penalty := 0
			if float64(sessionIndex) > exactSessions {
				penalty = overflowPenalty
				m.HasJudgePenalty = true
			}

			endT := startT.Add(judgeInfo.SessionLen)
			event.Sessions = append(event.Sessions, newJudgeSession(event, sessionIndex, startT, endT, m.Travel, penalty))

			startT = snapPastBreak(startT.Add(deltaT), breaks)
		}

		if judgeInfo.ExtendSessions != nil {
			slots := lo.Map(event.Sessions, func(session *JudgeSession, _ int) *TimeSlot { return &session.TimeSlot })
			if err := m.extendSlots(*judgeInfo.ExtendSessions, slots); err != nil {
				return 0, err
			}
		}

		if judgeInfo.SubEvents != nil {
			if err := event.buildBlockSubschedule(*judgeInfo.SubEvents); err != nil {
				return 0, err
			}
		}

		log.Printf("Judge %s ends at %v", judgeInfo.Name, startT)
		duration = max(duration, startT.Minutes())
	}

	return duration, nil
}

// extendSlots tags every slot starting inside the window with the
// window's extra padding minutes.
func (m *Model) extendSlots(window ExtendWindow, slots []*TimeSlot) error {
	startT, err := m.Clock.Parse(window.Start)
	if err != nil {
		return fmt.Errorf("invalid extend window start: %w", err)
	}
	endT, err := m.Clock.Parse(window.End)
	if err != nil {
		return fmt.Errorf("invalid extend window end: %w", err)
	}

	for _, slot := range slots {
		if slot.Start.Compare(startT) >= 0 && slot.Start.Before(endT) {
			slot.Extend = window.Minutes
		}
	}
	return nil
}

type breakWindow struct {
	start EventTime
	end   EventTime
}

func (m *Model) parseWindows(windows []TimeWindow) ([]breakWindow, error) {
	parsed := make([]breakWindow, 0, len(windows))
	for _, window := range windows {
		start, err := m.Clock.Parse(window.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid break start: %w", err)
		}
		end, err := m.Clock.Parse(window.End)
		if err != nil {
			return nil, fmt.Errorf("invalid break end: %w", err)
		}
		parsed = append(parsed, breakWindow{start: start, end: end})
	}
	return parsed, nil
}

func (m *Model) parseTimes(times []string) ([]EventTime, error) {
	parsed := make([]EventTime, 0, len(times))
	for _, t := range times {
		eventTime, err := m.Clock.Parse(t)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, eventTime)
	}
	return parsed, nil
}

// snapPastBreak moves a time landing inside a break window to the
// window's end.
func snapPastBreak(t EventTime, breaks []breakWindow) EventTime {
	for _, window := range breaks {
		if t.Compare(window.start) >= 0 && t.Before(window.end) {
			return window.end
		}
	}
	return t
}

func containsTime(times []EventTime, t EventTime) bool {
	return lo.SomeBy(times, func(candidate EventTime) bool { return candidate.Equal(t) })
}

func (m *Model) allSlots() []*TimeSlot {
	slots := make([]*TimeSlot, 0, len(m.MatchList.Matches))
	for _, match := range m.MatchList.Matches {
		slots = append(slots, &match.TimeSlot)
	}
	for _, event := range m.JudgeEvents {
		for _, session := range event.Sessions {
			slots = append(slots, &session.TimeSlot)
		}
	}
	return slots
}

// maxTeamIndex is the highest team index the model's variables range
// over: the real teams plus the dummy when one exists.
func (m *Model) maxTeamIndex() int {
	if m.MatchList.DummyTeam {
		return len(m.Teams) + 1
	}
	return len(m.Teams)
}

// FindTeam resolves a 1-based team index, including the dummy team's
// synthetic index of teamCount+1.
func (m *Model) FindTeam(index int) (*Team, error) {
	if m.dummy != nil && index == m.dummy.Index {
		return m.dummy, nil
	}
	if index < 1 || index > len(m.Teams) {
		return nil, fmt.Errorf("no team with index %d", index)
	}
	return m.Teams[index-1], nil
}

// FindJudgeEvent resolves a 1-based judge event index.
func (m *Model) FindJudgeEvent(index int) (*JudgeEvent, error) {
	if index < 1 || index > len(m.JudgeEvents) {
		return nil, fmt.Errorf("no judge event with index %d", index)
	}
	return m.JudgeEvents[index-1], nil
}

// JudgeEvent resolves a judge event by its configured name.
func (m *Model) JudgeEvent(name string) (*JudgeEvent, bool) {
	event, ok := m.judgeByName[name]
	return event, ok
}

// AssignSampleTeams fills every slot round-robin with real teams. Used
// to render placeholder schedules before any solve.
func (m *Model) AssignSampleTeams(matchOrder SlotOrder) error {
	teams := len(m.Teams)

	next := 0
	for _, match := range m.MatchList.Matches {
		for range match.Teams {
			if _, err := match.Assign(m.Teams[next], matchOrder); err != nil {
				return err
			}
			next = (next + 1) % teams
		}
	}

	for _, event := range m.JudgeEvents {
		next = 0
		for _, session := range event.Sessions {
			for range session.Teams {
				if next >= teams {
					break
				}
				if _, err := session.Assign(m.Teams[next], FixedOrder); err != nil {
					return err
				}
				next++
			}
		}
	}
	return nil
}
