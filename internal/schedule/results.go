package schedule

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Solver rows look like
//
//	14914 matchAssign[50,7,17]                1                       0
//	  310 judgeAssign[1,4,22]  *              1             0       1
//
// the optional * being glpsol's integer-column status marker. Rows may
// wrap onto a continuation line after the bracket.
var (
	assignRowPattern  = regexp.MustCompile(`^\s*[0-9]+ (match|judge)Assign\[([^,\]]+),([^,\]]+),([^,\]]+)\]\s+\*?\s*([0-9]+)`)
	wrappedRowPattern = regexp.MustCompile(`^\s*[0-9]+ (?:match|judge)Assign\[[^\]]*\]\s*$`)
)

// ReadResults replays a solver solution onto the skeleton: every
// 1-valued assignment row attaches its teams to the named match or
// judged session. Rows that name an assignment variable but do not parse
// cleanly, or that reference unknown entities, fail the whole read;
// unrelated solver chatter is skipped.
func (m *Model) ReadResults(r io.Reader, matchOrder SlotOrder) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Rejoin a row whose value wrapped onto the next physical line.
		if wrappedRowPattern.MatchString(line) && scanner.Scan() {
			lineNum++
			line += scanner.Text()
		}

		if !strings.Contains(line, "Assign[") {
			continue
		}

		if err := m.applyRow(line, matchOrder); err != nil {
			return fmt.Errorf("result line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

func (m *Model) applyRow(line string, matchOrder SlotOrder) error {
	groups := assignRowPattern.FindStringSubmatch(line)
	if groups == nil {
		return fmt.Errorf("malformed assignment row: %q", strings.TrimSpace(line))
	}

	kind := groups[1]
	indices := make([]int, 3)
	for i, field := range groups[2:5] {
		value, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("non-numeric index %q in %q", field, strings.TrimSpace(line))
		}
		indices[i] = value
	}
	value, err := strconv.Atoi(groups[5])
	if err != nil {
		return fmt.Errorf("non-numeric value in %q", strings.TrimSpace(line))
	}
	if value == 0 {
		return nil
	}

	if kind == "match" {
		match, err := m.MatchList.Match(indices[0])
		if err != nil {
			return err
		}
		for _, teamIndex := range indices[1:] {
			team, err := m.FindTeam(teamIndex)
			if err != nil {
				return err
			}
			if _, err := match.Assign(team, matchOrder); err != nil {
				return err
			}
		}
		return nil
	}

	event, err := m.FindJudgeEvent(indices[0])
	if err != nil {
		return err
	}
	session, err := event.Session(indices[1])
	if err != nil {
		return err
	}
	team, err := m.FindTeam(indices[2])
	if err != nil {
		return err
	}
	_, err = session.Assign(team, FixedOrder)
	return err
}
