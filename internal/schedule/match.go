package schedule

import "fmt"

// Match is a head-to-head game on a shared table. MatchNum labels the
// time session and repeats across tables running concurrently.
type Match struct {
	TimeSlot
	MatchNum int
	Table    string
	Teams    [2]*Team
}

// Assign places the team into the first empty side probed in the given
// order and records the attendance on the team. Both sides already being
// occupied indicates a malformed solver result or a skeleton bug.
func (m *Match) Assign(team *Team, order SlotOrder) (int, error) {
	for _, i := range order(len(m.Teams)) {
		if m.Teams[i] == nil {
			m.Teams[i] = team
			team.addAttendance(m, i)
			return i, nil
		}
	}
	return 0, fmt.Errorf("match %d: both sides of table %s are already assigned", m.Index, m.Table)
}

// TableName is the side label used in schedule columns, e.g. "Blue 2".
func (m *Match) TableName(slot int) string {
	return fmt.Sprintf("%s %d", m.Table, slot+1)
}

// MatchList is the ordered match skeleton plus its derived scheduling
// parameters.
type MatchList struct {
	Matches      []*Match
	GamesPerTeam int
	TableNames   [][]string
	// BreakTime is the gap threshold above which the match schedule
	// renders an explicit break row.
	BreakTime int
	// MaxTeamMatchesPerFields caps how often a team may appear within any
	// contiguous run of fieldCount matches; 0 disables the cap.
	MaxTeamMatchesPerFields int
	// DummyTeam is set when the required match count was fractional
	// before rounding, leaving one unmatched bye slot to absorb.
	DummyTeam bool
}

// Match returns the 1-based match by index.
func (l *MatchList) Match(index int) (*Match, error) {
	if index < 1 || index > len(l.Matches) {
		return nil, fmt.Errorf("no match with index %d", index)
	}
	return l.Matches[index-1], nil
}

// Fields is the total number of tables across all table groups.
func (l *MatchList) Fields() int {
	fields := 0
	for _, group := range l.TableNames {
		fields += len(group)
	}
	return fields
}
