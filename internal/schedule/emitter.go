package schedule

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// WriteModel emits the MathProg optimization model for the frozen
// skeleton: parameter and variable declarations, the named constraint
// set, the objective, and the data section populating the boolean time
// indicators.
func (m *Model) WriteModel(w io.Writer) error {
	out := bufio.NewWriter(w)

	m.writeParams(out)
	m.writeObjective(out)
	if err := m.writeScheduleBlocks(out); err != nil {
		return err
	}
	m.writeFieldDistribution(out)
	m.writeData(out)

	return out.Flush()
}

func (m *Model) writeParams(out *bufio.Writer) {
	maxTeams := m.maxTeamIndex()

	fmt.Fprintf(out, "# Model created %s\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "set teams := 1 .. %d;\n", len(m.Teams))
	fmt.Fprintf(out, "set matches := 1 .. %d;\n", len(m.MatchList.Matches))

	fmt.Fprintf(out, "set judgeEvents := 1 .. %d;\n", len(m.JudgeEvents))
	fmt.Fprintln(out, "param nJudgeSessions{en in judgeEvents};")
	fmt.Fprintln(out, "set judgeSessions{en in judgeEvents} := 1 .. nJudgeSessions[en];")

	fmt.Fprintf(out, "set times := 0 .. %d;\n", m.Blocks.Blocks()-1)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "var matchAssign{m in matches, t1 in teams, t2 in t1+1 .. %d}, binary;\n", maxTeams)
	fmt.Fprintln(out, "var judgeAssign{en in judgeEvents, j in judgeSessions[en], t in teams}, binary;")
	if m.HasJudgePenalty {
		fmt.Fprintln(out, "param judgePenalties{en in judgeEvents,j in judgeSessions[en]}, default 0, >= 0;")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "param judgeEventTimes{en in judgeEvents,judgeSessions[en], tm in times}, binary, default 0;")
	fmt.Fprintln(out, "param matchTimes{m in matches, tm in times}, binary, default 0;")
}

func (m *Model) writeObjective(out *bufio.Writer) {
	maxTeams := m.maxTeamIndex()
	matches := len(m.MatchList.Matches)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "minimize f:")
	if m.HasJudgePenalty {
		fmt.Fprint(out, "    sum{en in judgeEvents,j in judgeSessions[en],t in teams} judgePenalties[en,j] * judgeAssign[en,j,t]")
	} else {
		fmt.Fprint(out, "    1")
	}
	fmt.Fprintln(out, ";")

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# number of matches for each team")
	fmt.Fprintln(out, "s.t. teamMatches{t in teams}:")
	fmt.Fprintln(out, "     (sum{m in matches, t2 in 1 .. t-1} matchAssign[m,t2,t]) +")
	fmt.Fprintf(out, "     (sum{m in matches, t2 in t+1 .. %d} matchAssign[m,t,t2]) = %d;\n", maxTeams, m.MatchList.GamesPerTeam)
	if m.MatchList.DummyTeam {
		fmt.Fprintln(out, "s.t. dummyMatch:")
		fmt.Fprintf(out, "     (sum{t in teams} matchAssign[%d,t,%d]) = 1;\n", matches, maxTeams)
		fmt.Fprintf(out, "s.t. dummyNonMatch{t in teams,m in 1 .. %d}:\n", matches-1)
		fmt.Fprintf(out, "     matchAssign[m,t,%d] = 0;\n", maxTeams)
	}

	fmt.Fprintln(out, "# only one pair per match")
	fmt.Fprintln(out, "s.t. teamsPerMatch{m in matches}:")
	fmt.Fprintf(out, "     sum{t1 in teams, t2 in t1+1 .. %d} matchAssign[m,t1,t2] <= 1;\n", maxTeams)

	fmt.Fprintln(out, "# no re-matches")
	fmt.Fprintf(out, "s.t. rematches{t1 in teams, t2 in t1+1 .. %d}:\n", maxTeams)
	fmt.Fprintln(out, "     sum{m in matches} matchAssign[m,t1,t2] <= 1;")

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# number of teams per judge slot")
	for _, event := range m.JudgeEvents {
		fmt.Fprintf(out, "s.t. %sSlots{j in judgeSessions[%d]}:\n", event.Name, event.Index)
		fmt.Fprintf(out, "     sum{t in teams} judgeAssign[%d,j,t] <= %d;\n", event.Index, len(event.Rooms))
	}

	fmt.Fprintln(out, "# teams get judged exactly once per event type")
	fmt.Fprintln(out, "s.t. teamJudgings{en in judgeEvents,t in teams}:")
	fmt.Fprintln(out, "     sum{j in judgeSessions[en]} judgeAssign[en,j,t] = 1;")

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# team can only be in once place at a time")
	fmt.Fprintln(out, "s.t. teamLocation{t in teams,tm in times}:")
	fmt.Fprintln(out, "     (sum{je in judgeEvents, j in judgeSessions[je]} judgeAssign[je,j,t] * judgeEventTimes[je,j,tm]) +")
	fmt.Fprintln(out, "     (sum{t2 in 1 .. t-1, m in matches} matchAssign[m,t2,t] * matchTimes[m,tm]) +")
	fmt.Fprintf(out, "     (sum{t2 in t+1 .. %d, m in matches} matchAssign[m,t,t2] * matchTimes[m,tm]) <= 1;\n", maxTeams)
}

// writeScheduleBlocks forces every team to have at least one qualifying
// activity within each configured window.
func (m *Model) writeScheduleBlocks(out *bufio.Writer) error {
	if len(m.ScheduleBlocks) == 0 {
		return nil
	}

	maxTeams := m.maxTeamIndex()

	fmt.Fprintln(out)
	for index, block := range m.ScheduleBlocks {
		startT, err := m.Clock.Parse(block.Start)
		if err != nil {
			return fmt.Errorf("invalid schedule block start: %w", err)
		}
		endT, err := m.Clock.Parse(block.End)
		if err != nil {
			return fmt.Errorf("invalid schedule block end: %w", err)
		}

		startMatch, endMatch := 0, 0
		for _, match := range m.MatchList.Matches {
			if startMatch == 0 && match.Start.Compare(startT) >= 0 {
				startMatch = match.Index
			}
			if match.End.Compare(endT) <= 0 {
				endMatch = match.Index
			}
		}
		if startMatch == 0 {
			return fmt.Errorf("schedule block %v-%v contains no match", block.Start, block.End)
		}
		if endMatch == 0 {
			endMatch = len(m.MatchList.Matches)
		}

		fmt.Fprintf(out, "s.t. scheduleBlock%d{t in teams}:\n", index)
		fmt.Fprintf(out, "    (sum{m in %d .. %d, t2 in t+1 .. %d} matchAssign[m,t,t2])\n", startMatch, endMatch, maxTeams)
		fmt.Fprintf(out, "    + (sum{m in %d .. %d, t2 in 1 .. t-1} matchAssign[m,t2,t])\n", startMatch, endMatch)

		for _, eventName := range block.JudgeEvents {
			event, ok := m.JudgeEvent(eventName)
			if !ok {
				return fmt.Errorf("schedule block references unknown judge event %s", eventName)
			}

			startSession, endSession := 0, 0
			for _, session := range event.Sessions {
				if startSession == 0 && session.Start.Compare(startT) >= 0 {
					startSession = session.Index
				}
				if session.End.Compare(endT) <= 0 {
					endSession = session.Index
				}
			}
			if startSession == 0 {
				continue
			}
			if endSession == 0 {
				endSession = len(event.Sessions)
			}

			if startSession == endSession {
				fmt.Fprintf(out, "    + judgeAssign[%d,%d,t]\n", event.Index, startSession)
			} else {
				fmt.Fprintf(out, "    + (sum{j in %d .. %d} judgeAssign[%d,j,t])\n", startSession, endSession, event.Index)
			}
		}

		fmt.Fprintln(out, "    >= 1;")
	}

	return nil
}

// writeFieldDistribution caps how often a team may appear on the same
// table set across the whole match list.
func (m *Model) writeFieldDistribution(out *bufio.Writer) {
	maxPerField := m.MatchList.MaxTeamMatchesPerFields
	if maxPerField == 0 {
		return
	}

	matches := len(m.MatchList.Matches)
	fields := m.MatchList.Fields()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# Add constraints to spread the teams across the different fields")
	fmt.Fprintln(out, "#  Not required, and may slow down the model solving!!")
	fmt.Fprintf(out, "s.t. maxPerField{t in teams, sm in 1 .. %d}:\n", fields)
	fmt.Fprintf(out, "    (sum{m in sm .. %d by %d, t2 in t+1 .. %d} matchAssign[m,t,t2])\n", matches, fields, len(m.Teams))
	fmt.Fprintf(out, "    + (sum{m in sm .. %d by %d, t2 in 1 .. t-1} matchAssign[m,t2,t]) <= %d;\n", matches, fields, maxPerField)
}

func (m *Model) writeData(out *bufio.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "data;")

	fmt.Fprintln(out, "param nJudgeSessions :=")
	first := true
	for _, event := range m.JudgeEvents {
		if !first {
			fmt.Fprintln(out, ",")
		}
		fmt.Fprintf(out, "     %d %d", event.Index, len(event.Sessions))
		first = false
	}
	fmt.Fprintln(out, ";")

	if m.HasJudgePenalty {
		fmt.Fprintln(out, "param judgePenalties :=")
		first = true
		for _, event := range m.JudgeEvents {
			for _, session := range event.Sessions {
				if session.Penalty > 0 {
					if !first {
						fmt.Fprintln(out, ",")
					}
					fmt.Fprintf(out, "      [%d,%d] %d", event.Index, session.Index, session.Penalty)
					first = false
				}
			}
		}
		fmt.Fprintln(out, ";")
	}

	fmt.Fprintln(out, "param judgeEventTimes :=")
	first = true
	for _, event := range m.JudgeEvents {
		for _, session := range event.Sessions {
			lo, hi := m.Blocks.Range(&session.TimeSlot)
			for block := lo; block < hi; block++ {
				if !first {
					fmt.Fprintln(out, ",")
				}
				fmt.Fprintf(out, "      [%d,%d,%d] 1", event.Index, session.Index, block)
				first = false
			}
		}
	}
	fmt.Fprintln(out, ";")

	fmt.Fprintln(out, "param matchTimes :=")
	first = true
	for _, match := range m.MatchList.Matches {
		lo, hi := m.Blocks.Range(&match.TimeSlot)
		for block := lo; block < hi; block++ {
			if !first {
				fmt.Fprintln(out, ",")
			}
			fmt.Fprintf(out, "      [%d,%d] 1", match.Index, block)
			first = false
		}
	}
	fmt.Fprintln(out, ";")

	fmt.Fprintln(out, "end;")
}
