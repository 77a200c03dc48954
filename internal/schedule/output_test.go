package schedule

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel(t *testing.T, config Config) *Model {
	t.Helper()
	model, err := Build(config)
	require.NoError(t, err)
	// Fixed order keeps table sides deterministic for assertions
	require.NoError(t, model.AssignSampleTeams(FixedOrder))
	return model
}

func readCSV(t *testing.T, text string) [][]string {
	t.Helper()
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteMatchSchedule(t *testing.T) {
	t.Run("groups concurrent tables into one row", func(t *testing.T) {
		// Arrange
		model := sampleModel(t, testConfig(8, 2))

		// Act
		var out bytes.Buffer
		require.NoError(t, model.WriteMatchSchedule(&out))
		records := readCSV(t, out.String())

		// Assert
		require.GreaterOrEqual(t, len(records), 5)
		assert.Equal(t, []string{"Match", "StartTime", "EndTime", "A 1", "A 2", "B 1", "B 2"}, records[0])
		assert.Equal(t, []string{"1", "09:00", "09:10", "1", "2", "3", "4"}, records[1])
		assert.Equal(t, []string{"2", "09:10", "09:20", "5", "6", "7", "8"}, records[2])
	})

	t.Run("teams land in their own group's columns", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.TableNames = [][]string{{"A", "B"}, {"C", "D"}}
		model := sampleModel(t, config)

		// Act
		var out bytes.Buffer
		require.NoError(t, model.WriteMatchSchedule(&out))
		records := readCSV(t, out.String())

		// Assert: alternating sessions fill alternating table groups,
		// leaving the other group's columns blank
		require.GreaterOrEqual(t, len(records), 3)
		assert.Equal(t, []string{"Match", "StartTime", "EndTime", "A 1", "A 2", "B 1", "B 2", "C 1", "C 2", "D 1", "D 2"}, records[0])
		assert.Equal(t, []string{"1", "09:00", "09:10", "1", "2", "3", "4", "", "", "", ""}, records[1])
		assert.Equal(t, []string{"2", "09:10", "09:20", "", "", "", "", "5", "6", "7", "8"}, records[2])
	})

	t.Run("flags gaps above the break threshold", func(t *testing.T) {
		// Arrange
		config := testConfig(8, 2)
		config.MatchInfo.BreakTimes = []TimeWindow{{Start: "9:15", End: "9:45"}}
		model := sampleModel(t, config)

		// Act
		var out bytes.Buffer
		require.NoError(t, model.WriteMatchSchedule(&out))
		records := readCSV(t, out.String())

		// Assert: the 9:20 -> 9:45 jump produces a break row
		var breakRow []string
		for _, record := range records {
			if len(record) > 3 && record[3] == "Break" {
				breakRow = record
				break
			}
		}
		require.NotNil(t, breakRow)
		assert.Equal(t, "", breakRow[0])
		assert.Equal(t, "09:20", breakRow[1])
		assert.Equal(t, "09:45", breakRow[2])
	})
}

func TestWriteJudgingSchedule(t *testing.T) {
	t.Run("plain event renders one column per room", func(t *testing.T) {
		// Arrange
		model := sampleModel(t, testConfig(8, 2))

		// Act
		var out bytes.Buffer
		require.NoError(t, model.WriteJudgingSchedule(&out))
		text := out.String()

		// Assert
		require.True(t, strings.HasPrefix(text, "Judging\r\n"))
		records := readCSV(t, strings.TrimPrefix(text, "Judging\r\n"))
		require.GreaterOrEqual(t, len(records), 4)
		assert.Equal(t, []string{"Session", "StartTime", "EndTime", "Rm 1", "Rm 2", "Rm 3"}, records[0])
		assert.Equal(t, []string{"1", "09:00", "09:20", "1", "2", "3"}, records[1])
		assert.Equal(t, []string{"2", "09:30", "09:50", "4", "5", "6"}, records[2])
		assert.Equal(t, []string{"3", "10:00", "10:20", "7", "8", ""}, records[3])
	})

	t.Run("block-scheduled event renders one table per sub-event", func(t *testing.T) {
		// Arrange
		config := testConfig(9, 2)
		config.JudgeEvents[0].SubEvents = &SubEventsConfig{
			SessionLen:   10,
			SessionBreak: 0,
			Events: []SubEventConfig{
				{Name: "Technical", Rooms: []string{"Rm 102", "Rm 110", "Rm X1"}},
				{Name: "Project", Rooms: []string{"Rm 210", "Rm 214", "Rm X3"}},
			},
		}
		model := sampleModel(t, config)

		// Act
		var out bytes.Buffer
		require.NoError(t, model.WriteJudgingSchedule(&out))
		text := out.String()

		// Assert: sub-event names replace the parent event as table
		// headings, sorted by name
		assert.True(t, strings.HasPrefix(text, "Project\r\n"))
		assert.Contains(t, text, "Technical\r\n")
		assert.NotContains(t, text, "Judging\r\n")
		assert.Contains(t, text, "Session,StartTime,EndTime,Rm 102,Rm 110,Rm X1")
	})
}

func TestWriteTeamSchedules(t *testing.T) {
	// Arrange
	model := sampleModel(t, testConfig(8, 2))

	// Act
	var out bytes.Buffer
	require.NoError(t, model.WriteTeamSchedules(&out))
	records := readCSV(t, out.String())

	// Assert: team 1 block starts with its designation row, the column
	// header, then activities in start order
	require.Greater(t, len(records), 4)
	assert.Equal(t, "1", records[0][0])
	assert.Equal(t, []string{"Event", "Room/Table", "StartTime", "EndTime"}, records[1])

	first := records[2]
	assert.Equal(t, "09:00", first[2])
	second := records[3]
	assert.GreaterOrEqual(t, second[2], first[2])
}
