package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

func newCSVWriter(w io.Writer) *csv.Writer {
	out := csv.NewWriter(w)
	out.UseCRLF = true
	return out
}

// WriteMatchSchedule renders the match grid: one row per time session
// with two columns per table, plus explicit break rows wherever the gap
// between consecutive sessions exceeds the break threshold.
func (m *Model) WriteMatchSchedule(w io.Writer) error {
	list := m.MatchList
	out := newCSVWriter(w)

	fields := []string{"Match", "StartTime", "EndTime"}
	for _, group := range list.TableNames {
		for _, table := range group {
			for i := range 2 {
				fields = append(fields, fmt.Sprintf("%s %d", table, i+1))
			}
		}
	}
	columns := make(map[string]int, len(fields))
	for i, field := range fields {
		columns[field] = i
	}
	if err := out.Write(fields); err != nil {
		return err
	}

	emptyRow := func() []string { return make([]string, len(fields)) }

	row := emptyRow()
	currentMatch := -1
	var prevEnd *EventTime
	for _, match := range list.Matches {
		if currentMatch != match.MatchNum {
			if currentMatch > 0 {
				if err := out.Write(row); err != nil {
					return err
				}
				if prevEnd != nil && match.Start.Sub(*prevEnd) > list.BreakTime {
					breakRow := emptyRow()
					breakRow[1] = prevEnd.String()
					breakRow[2] = match.Start.String()
					breakRow[3] = "Break"
					if err := out.Write(breakRow); err != nil {
						return err
					}
				}
			}
			row = emptyRow()
			row[0] = strconv.Itoa(match.MatchNum)
			row[1] = match.Start.String()
			row[2] = match.End.String()
			currentMatch = match.MatchNum
			end := match.End
			prevEnd = &end
		}
		for i, team := range match.Teams {
			if team != nil {
				row[columns[match.TableName(i)]] = team.Designation()
			}
		}
	}
	if err := out.Write(row); err != nil {
		return err
	}

	out.Flush()
	return out.Error()
}

// judgeRow is one rendered session line: start/end plus room (or
// sub-room) columns holding team numbers.
type judgeRow struct {
	start EventTime
	end   EventTime
	cells map[string]string
}

// WriteJudgingSchedule renders one table per judged (sub-)event name,
// events sorted by name, sessions renumbered in start order.
func (m *Model) WriteJudgingSchedule(w io.Writer) error {
	events := slices.Clone(m.JudgeEvents)
	slices.SortFunc(events, func(a, b *JudgeEvent) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, event := range events {
		if err := event.writeSchedule(w); err != nil {
			return err
		}
	}
	return nil
}

func (e *JudgeEvent) writeSchedule(w io.Writer) error {
	entries := make(map[string]map[int]*judgeRow)
	for _, session := range e.Sessions {
		session.scheduleEntries(entries)
	}

	names := lo.Keys(entries)
	slices.Sort(names)

	for _, name := range names {
		// CSV consumers expect DOS line endings throughout.
		if _, err := io.WriteString(w, name+"\r\n"); err != nil {
			return err
		}

		fields := []string{"Session", "StartTime", "EndTime"}
		if e.SubSchedule == nil {
			fields = append(fields, e.Rooms...)
		} else {
			fields = append(fields, e.BlockRooms[name]...)
		}

		out := newCSVWriter(w)
		if err := out.Write(fields); err != nil {
			return err
		}

		rows := lo.Values(entries[name])
		slices.SortFunc(rows, func(a, b *judgeRow) int {
			return a.start.Compare(b.start)
		})
		for index, row := range rows {
			record := []string{strconv.Itoa(index + 1), row.start.String(), row.end.String()}
			for _, field := range fields[3:] {
				record = append(record, row.cells[field])
			}
			if err := out.Write(record); err != nil {
				return err
			}
		}

		out.Flush()
		if err := out.Error(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return err
		}
	}
	return nil
}

// scheduleEntries accumulates this session's rendered rows, grouped by
// (sub-)event name and keyed by start minute so concurrent sessions of a
// block sub-schedule merge into one row.
func (s *JudgeSession) scheduleEntries(entries map[string]map[int]*judgeRow) {
	event := s.Event

	if event.SubSchedule != nil {
		for i, room := range event.Rooms {
			team := s.Teams[i]
			for _, sub := range event.SubSchedule[room] {
				byStart := entries[sub.Event]
				if byStart == nil {
					byStart = make(map[int]*judgeRow)
					entries[sub.Event] = byStart
				}

				start := s.Start.Add(sub.StartOffset)
				row := byStart[start.Minutes()]
				if row == nil {
					row = &judgeRow{start: start, end: s.Start.Add(sub.EndOffset), cells: make(map[string]string)}
					byStart[start.Minutes()] = row
				}
				if team != nil {
					row.cells[sub.Room] = strconv.Itoa(team.Number)
				} else {
					row.cells[sub.Room] = ""
				}
			}
		}
		return
	}

	byStart := entries[event.Name]
	if byStart == nil {
		byStart = make(map[int]*judgeRow)
		entries[event.Name] = byStart
	}
	row := &judgeRow{start: s.Start, end: s.End, cells: make(map[string]string)}
	for i, team := range s.Teams {
		if team != nil {
			row.cells[event.Rooms[i]] = strconv.Itoa(team.Number)
		}
	}
	byStart[s.Start.Minutes()] = row
}

// WriteTeamSchedules renders one block per team, ordered by team number:
// a header row, then one row per attended activity in start order. The
// tightest turnaround per team is logged alongside.
func (m *Model) WriteTeamSchedules(w io.Writer) error {
	out := newCSVWriter(w)

	teams := slices.Clone(m.Teams)
	slices.SortFunc(teams, func(a, b *Team) int { return a.Number - b.Number })

	for _, team := range teams {
		log.Printf("Team %d min travel = %d", team.Number, team.MinTurnaround())

		if err := out.Write([]string{strconv.Itoa(team.Number), team.Name}); err != nil {
			return err
		}
		if err := out.Write([]string{"Event", "Room/Table", "StartTime", "EndTime"}); err != nil {
			return err
		}
		for _, attendance := range team.sortedSchedule() {
			for _, row := range attendance.Activity.TeamScheduleRows(attendance.Slot) {
				if err := out.Write(row); err != nil {
					return err
				}
			}
		}
		if err := out.Write([]string{""}); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

func (m *Match) TeamScheduleRows(slot int) [][]string {
	return [][]string{{
		fmt.Sprintf("Match %d", m.MatchNum),
		m.TableName(slot),
		m.Start.String(),
		m.End.String(),
	}}
}

func (s *JudgeSession) TeamScheduleRows(slot int) [][]string {
	event := s.Event
	if event.SubSchedule != nil {
		return lo.Map(event.SubSchedule[event.Rooms[slot]], func(sub SubSlot, _ int) []string {
			return []string{
				sub.Event,
				sub.Room,
				s.Start.Add(sub.StartOffset).String(),
				s.Start.Add(sub.EndOffset).String(),
			}
		})
	}
	return [][]string{{event.Name, event.Rooms[slot], s.Start.String(), s.End.String()}}
}
