package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Judge event names become part of MathProg constraint names, so they
// must be valid model identifiers.
var eventNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config is the declarative per-tournament description consumed by the
// builder: who participates, which tables and rooms exist, and how the
// day's time windows are laid out.
type Config struct {
	StartTime      string                `mapstructure:"startTime"`
	TravelTime     int                   `mapstructure:"travelTime"`
	Teams          []TeamConfig          `mapstructure:"teams"`
	MatchInfo      MatchConfig           `mapstructure:"matchInfo"`
	JudgeEvents    []JudgeEventConfig    `mapstructure:"judgeEvents"`
	ScheduleBlocks []ScheduleBlockConfig `mapstructure:"scheduleBlocks"`
}

type TeamConfig struct {
	Number int    `mapstructure:"number"`
	Name   string `mapstructure:"name"`
}

type MatchConfig struct {
	MatchLen                int            `mapstructure:"matchLen"`
	MatchBreak              int            `mapstructure:"matchBreak"`
	GamesPerTeam            int            `mapstructure:"gamesPerTeam"`
	TableNames              [][]string     `mapstructure:"tableNames"`
	ExtraMatches            int            `mapstructure:"extraMatches"`
	MaxTeamMatchesPerFields int            `mapstructure:"maxTeamMatchesPerFields"`
	ResetAfterBreak         []string       `mapstructure:"resetAfterBreak"`
	OneFieldOnly            []string       `mapstructure:"oneFieldOnly"`
	ExtendSessions          []ExtendWindow `mapstructure:"extendSessions"`
	BreakTimes              []TimeWindow   `mapstructure:"breakTimes"`
}

type TimeWindow struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// ExtendWindow tags every slot starting inside [Start, End) with extra
// padding minutes, typically to span a break.
type ExtendWindow struct {
	Start   string `mapstructure:"start"`
	End     string `mapstructure:"end"`
	Minutes int    `mapstructure:"minutes"`
}

type JudgeEventConfig struct {
	Name           string           `mapstructure:"name"`
	SessionLen     int              `mapstructure:"sessionLen"`
	SessionBreak   int              `mapstructure:"sessionBreak"`
	Rooms          []string         `mapstructure:"rooms"`
	BreakTimes     []TimeWindow     `mapstructure:"breakTimes"`
	ExtendSessions *ExtendWindow    `mapstructure:"extendSessions"`
	SubEvents      *SubEventsConfig `mapstructure:"subEvents"`
}

type SubEventsConfig struct {
	SessionLen   int              `mapstructure:"sessionLen"`
	SessionBreak int              `mapstructure:"sessionBreak"`
	Events       []SubEventConfig `mapstructure:"events"`
}

type SubEventConfig struct {
	Name  string   `mapstructure:"name"`
	Rooms []string `mapstructure:"rooms"`
}

// ScheduleBlockConfig requires every team to have at least one match or
// one listed judging session inside [Start, End).
type ScheduleBlockConfig struct {
	Start       string   `mapstructure:"start"`
	End         string   `mapstructure:"end"`
	JudgeEvents []string `mapstructure:"judgeEvents"`
}

// LoadConfig reads a JSON or YAML tournament description. Unknown fields
// are rejected, and the result is validated before the builder ever runs.
func LoadConfig(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var raw map[string]any
	switch filepath.Ext(file) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = json.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}

	return DecodeConfig(raw)
}

// DecodeConfig maps already-parsed structured data onto a validated
// Config.
func DecodeConfig(raw map[string]any) (Config, error) {
	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &config,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate rejects configurations the builder cannot produce a coherent
// skeleton from.
func (c Config) Validate() error {
	if c.StartTime == "" {
		return fmt.Errorf("startTime is required")
	}
	if c.TravelTime < 0 {
		return fmt.Errorf("travelTime cannot be negative")
	}
	if len(c.Teams) == 0 {
		return fmt.Errorf("at least one team is required")
	}
	for i, team := range c.Teams {
		if team.Number <= 0 && team.Name == "" {
			return fmt.Errorf("team %d needs a number or a name", i+1)
		}
	}

	if c.MatchInfo.MatchLen <= 0 {
		return fmt.Errorf("matchInfo.matchLen must be positive")
	}
	if c.MatchInfo.GamesPerTeam <= 0 {
		return fmt.Errorf("matchInfo.gamesPerTeam must be positive")
	}
	if len(c.MatchInfo.TableNames) == 0 {
		return fmt.Errorf("matchInfo.tableNames must list at least one table group")
	}
	for i, group := range c.MatchInfo.TableNames {
		if len(group) == 0 {
			return fmt.Errorf("matchInfo.tableNames group %d is empty", i+1)
		}
	}
	if c.MatchInfo.MaxTeamMatchesPerFields < 0 {
		return fmt.Errorf("matchInfo.maxTeamMatchesPerFields cannot be negative")
	}

	for _, judgeEvent := range c.JudgeEvents {
		if judgeEvent.Name == "" {
			return fmt.Errorf("every judge event needs a name")
		}
		if !eventNamePattern.MatchString(judgeEvent.Name) {
			return fmt.Errorf("judge event name %q must contain only letters, digits and underscores", judgeEvent.Name)
		}
		if judgeEvent.SessionLen <= 0 {
			return fmt.Errorf("judge event %s: sessionLen must be positive", judgeEvent.Name)
		}
		if len(judgeEvent.Rooms) == 0 {
			return fmt.Errorf("judge event %s: at least one room is required", judgeEvent.Name)
		}
		if sub := judgeEvent.SubEvents; sub != nil {
			if sub.SessionLen <= 0 {
				return fmt.Errorf("judge event %s: subEvents.sessionLen must be positive", judgeEvent.Name)
			}
			if len(sub.Events) == 0 {
				return fmt.Errorf("judge event %s: subEvents.events is empty", judgeEvent.Name)
			}
			for _, subEvent := range sub.Events {
				if len(subEvent.Rooms) != len(sub.Events[0].Rooms) {
					return fmt.Errorf("judge event %s: all sub-events must have the same number of rooms", judgeEvent.Name)
				}
			}
		}
	}

	eventNames := make(map[string]bool, len(c.JudgeEvents))
	for _, judgeEvent := range c.JudgeEvents {
		if eventNames[judgeEvent.Name] {
			return fmt.Errorf("duplicate judge event name %s", judgeEvent.Name)
		}
		eventNames[judgeEvent.Name] = true
	}
	for _, block := range c.ScheduleBlocks {
		for _, name := range block.JudgeEvents {
			if !eventNames[name] {
				return fmt.Errorf("schedule block references unknown judge event %s", name)
			}
		}
	}

	return nil
}
