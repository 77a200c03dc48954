package schedule

import (
	"math/rand/v2"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTeams(n int) []TeamConfig {
	_ = gofakeit.Seed(11)
	teams := make([]TeamConfig, n)
	for i := range teams {
		teams[i] = TeamConfig{Number: i + 1, Name: gofakeit.Company()}
	}
	return teams
}

func testConfig(teams, gamesPerTeam int) Config {
	return Config{
		StartTime:  "9:00",
		TravelTime: 5,
		Teams:      fakeTeams(teams),
		MatchInfo: MatchConfig{
			MatchLen:     10,
			MatchBreak:   0,
			GamesPerTeam: gamesPerTeam,
			TableNames:   [][]string{{"A", "B"}},
		},
		JudgeEvents: []JudgeEventConfig{
			{
				Name:         "Judging",
				SessionLen:   20,
				SessionBreak: 10,
				Rooms:        []string{"Rm 1", "Rm 2", "Rm 3"},
			},
		},
	}
}

func testOrder() SlotOrder {
	return ShuffledOrder(rand.New(rand.NewPCG(7, 7)))
}

func TestBuildMatches(t *testing.T) {
	t.Run("even attendance produces exact matches and no dummy", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)

		// Act
		model, err := Build(config)

		// Assert
		require.NoError(t, err)
		assert.Len(t, model.MatchList.Matches, 8) // 8 * 2 / 2
		assert.False(t, model.MatchList.DummyTeam)
		_, err = model.FindTeam(9)
		assert.Error(t, err)
	})

	t.Run("odd attendance flags a dummy team", func(t *testing.T) {
		// Arrange
		config := testConfig(9, 1)

		// Act
		model, err := Build(config)

		// Assert
		require.NoError(t, err)
		assert.Len(t, model.MatchList.Matches, 5) // ceil(9 * 1 / 2)
		assert.True(t, model.MatchList.DummyTeam)

		dummy, err := model.FindTeam(10)
		require.NoError(t, err)
		assert.Equal(t, 10, dummy.Index)
		assert.Equal(t, -1, dummy.Number)
	})

	t.Run("extra matches are added before rounding", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.ExtraMatches = 3

		// Act
		model, err := Build(config)

		// Assert
		require.NoError(t, err)
		assert.Len(t, model.MatchList.Matches, 11)
		assert.False(t, model.MatchList.DummyTeam)
	})

	t.Run("tables cycle round-robin across sessions", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.TableNames = [][]string{{"Blue", "Green"}, {"Red", "Purple"}}

		// Act
		model, err := Build(config)

		// Assert
		require.NoError(t, err)
		tables := lo.Map(model.MatchList.Matches, func(m *Match, _ int) string { return m.Table })
		assert.Equal(t, []string{"Blue", "Green", "Red", "Purple", "Blue", "Green", "Red", "Purple"}, tables)

		sessions := lo.Map(model.MatchList.Matches, func(m *Match, _ int) int { return m.MatchNum })
		assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4}, sessions)
	})

	t.Run("walk skips past configured breaks", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.BreakTimes = []TimeWindow{{Start: "9:15", End: "9:45"}}

		// Act
		model, err := Build(config)

		// Assert: session 3 would start at 9:20, inside the break
		require.NoError(t, err)
		starts := lo.Map(model.MatchList.Matches, func(m *Match, _ int) string { return m.Start.String() })
		assert.Equal(t, []string{"09:00", "09:00", "09:10", "09:10", "09:45", "09:45", "09:55", "09:55"}, starts)
	})

	t.Run("one-field windows use a single table", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.OneFieldOnly = []string{"9:10"}

		// Act
		model, err := Build(config)

		// Assert: the 9:10 session holds one match instead of two
		require.NoError(t, err)
		atTen := lo.Filter(model.MatchList.Matches, func(m *Match, _ int) bool { return m.Start.String() == "09:10" })
		assert.Len(t, atTen, 1)
		assert.Equal(t, "A", atTen[0].Table)
	})

	t.Run("extend windows pad only the padded end", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.ExtendSessions = []ExtendWindow{{Start: "9:10", End: "9:30", Minutes: 15}}

		// Act
		model, err := Build(config)

		// Assert
		require.NoError(t, err)
		extended := model.MatchList.Matches[2] // starts 9:10
		assert.Equal(t, "09:10", extended.Start.String())
		assert.Equal(t, 15, extended.Extend)
		assert.Equal(t, "09:20", extended.End.String())
		assert.Equal(t, "09:40", extended.PaddedEnd().String()) // end + travel 5 + extend 15

		untouched := model.MatchList.Matches[0]
		assert.Zero(t, untouched.Extend)
	})
}

func TestBuildJudgeSessions(t *testing.T) {
	t.Run("session count is teams over rooms rounded up", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)

		// Act
		model, err := Build(config)

		// Assert: ceil(8 / 3) = 3, and only the overflow session carries
		// a penalty
		require.NoError(t, err)
		event := model.JudgeEvents[0]
		require.Len(t, event.Sessions, 3)
		assert.Zero(t, event.Sessions[0].Penalty)
		assert.Zero(t, event.Sessions[1].Penalty)
		assert.Equal(t, overflowPenalty, event.Sessions[2].Penalty)
		assert.True(t, model.HasJudgePenalty)
	})

	t.Run("exact division carries no penalty", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.JudgeEvents[0].Rooms = []string{"Rm 1", "Rm 2", "Rm 3", "Rm 4"}

		// Act
		model, err := Build(config)

		// Assert
		require.NoError(t, err)
		event := model.JudgeEvents[0]
		require.Len(t, event.Sessions, 2)
		for _, session := range event.Sessions {
			assert.Zero(t, session.Penalty)
		}
		assert.False(t, model.HasJudgePenalty)
	})

	t.Run("sessions skip past configured breaks", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.JudgeEvents[0].BreakTimes = []TimeWindow{{Start: "9:30", End: "10:00"}}

		// Act
		model, err := Build(config)

		// Assert: session 2 would start at 9:30, inside the break
		require.NoError(t, err)
		starts := lo.Map(model.JudgeEvents[0].Sessions, func(s *JudgeSession, _ int) string { return s.Start.String() })
		assert.Equal(t, []string{"09:00", "10:00", "10:30"}, starts)
	})
}

func TestBlockIndexFreezing(t *testing.T) {
	// Arrange
	config := testConfig(8, 2)
	config.MatchInfo.BreakTimes = []TimeWindow{{Start: "9:25", End: "9:40"}}

	// Act
	model, err := Build(config)

	// Assert: every slot's padded interval maps onto a contiguous
	// non-empty block range bounded by its own start and padded end
	require.NoError(t, err)
	for _, slot := range model.allSlots() {
		lower, upper := model.Blocks.Range(slot)
		assert.Less(t, lower, upper)
		assert.Equal(t, slot.Start.Minutes(), model.Blocks.boundaries[lower])
		assert.Equal(t, slot.PaddedEnd().Minutes(), model.Blocks.boundaries[upper])
	}
	assert.Equal(t, len(model.Blocks.boundaries)-1, model.Blocks.Blocks())
}

func TestAssignSampleTeams(t *testing.T) {
	// Arrange
	config := testConfig(8, 2)
	model, err := Build(config)
	require.NoError(t, err)

	// Act
	err = model.AssignSampleTeams(testOrder())

	// Assert: every match side is filled and every team got judged once
	require.NoError(t, err)
	for _, match := range model.MatchList.Matches {
		assert.NotNil(t, match.Teams[0])
		assert.NotNil(t, match.Teams[1])
	}
	for _, team := range model.Teams {
		judgings := lo.CountBy(team.Schedule, func(attendance Attendance) bool {
			_, ok := attendance.Activity.(*JudgeSession)
			return ok
		})
		assert.Equal(t, 1, judgings)
	}
}
