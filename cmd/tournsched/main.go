package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/robogate/tournsched/internal/schedule"
	"github.com/robogate/tournsched/internal/solver"
)

var solvers = map[string]func() solver.Solver{
	"glpsol": solver.NewGlpsolSolver,
	"cbc":    solver.NewCbcSolver,
}

func main() {
	app := &cli.App{
		Name:  "tournsched",
		Usage: "build tournament timetable models and turn solver results into schedules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "tournament config file (JSON or YAML)",
				Required: true,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "RNG seed for match side assignment; 0 picks a time-based seed",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "write the optimization model to stdout",
				Action: runBuild,
			},
			{
				Name:   "matches",
				Usage:  "write a placeholder match schedule to stdout",
				Action: runMatches,
			},
			{
				Name:   "judging",
				Usage:  "write a placeholder judging schedule to stdout",
				Action: runJudging,
			},
			{
				Name:  "solve",
				Usage: "run an external solver on the model and save its result file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "solver",
						Value: "cbc",
						Usage: "solver to run: glpsol or cbc",
					},
					&cli.StringFlag{
						Name:     "results",
						Aliases:  []string{"r"},
						Usage:    "path to write the solver result file to",
						Required: true,
					},
				},
				Action: runSolve,
			},
			{
				Name:  "format",
				Usage: "turn a solver result file into match, judging and team schedules",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "results",
						Aliases:  []string{"r"},
						Usage:    "solver result file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "output base name for the generated CSV files",
						Required: true,
					},
				},
				Action: runFormat,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildModel(ctx *cli.Context) (*schedule.Model, error) {
	config, err := schedule.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	return schedule.Build(config)
}

func matchOrder(ctx *cli.Context) schedule.SlotOrder {
	seed := uint64(ctx.Int64("seed"))
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return schedule.ShuffledOrder(rand.New(rand.NewPCG(seed, seed)))
}

func runBuild(ctx *cli.Context) error {
	model, err := buildModel(ctx)
	if err != nil {
		return err
	}
	return model.WriteModel(os.Stdout)
}

func runMatches(ctx *cli.Context) error {
	model, err := buildModel(ctx)
	if err != nil {
		return err
	}
	if err := model.AssignSampleTeams(matchOrder(ctx)); err != nil {
		return err
	}
	return model.WriteMatchSchedule(os.Stdout)
}

func runJudging(ctx *cli.Context) error {
	model, err := buildModel(ctx)
	if err != nil {
		return err
	}
	if err := model.AssignSampleTeams(matchOrder(ctx)); err != nil {
		return err
	}
	return model.WriteJudgingSchedule(os.Stdout)
}

func runSolve(ctx *cli.Context) error {
	newSolver, ok := solvers[ctx.String("solver")]
	if !ok {
		return fmt.Errorf("%v is not a valid solver", ctx.String("solver"))
	}

	model, err := buildModel(ctx)
	if err != nil {
		return err
	}

	modelDir, err := os.MkdirTemp("", "tournsched-model")
	if err != nil {
		return err
	}
	defer os.RemoveAll(modelDir)

	modelFile := filepath.Join(modelDir, "model.mod")
	out, err := os.Create(modelFile)
	if err != nil {
		return err
	}
	if err := model.WriteModel(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Printf("Solving with %s", ctx.String("solver"))
	solution, err := newSolver().Solve(modelFile)
	if err != nil {
		return err
	}
	return os.WriteFile(ctx.String("results"), []byte(solution), 0666)
}

func runFormat(ctx *cli.Context) error {
	model, err := buildModel(ctx)
	if err != nil {
		return err
	}

	results, err := os.Open(ctx.String("results"))
	if err != nil {
		return fmt.Errorf("cannot open result file: %w", err)
	}
	defer results.Close()

	if err := model.ReadResults(results, matchOrder(ctx)); err != nil {
		return err
	}

	base := ctx.String("out")
	outputs := []struct {
		suffix string
		write  func(*os.File) error
	}{
		{"_matches.csv", func(f *os.File) error { return model.WriteMatchSchedule(f) }},
		{"_judging.csv", func(f *os.File) error { return model.WriteJudgingSchedule(f) }},
		{"_teams.csv", func(f *os.File) error { return model.WriteTeamSchedules(f) }},
	}
	for _, output := range outputs {
		file, err := os.Create(base + output.suffix)
		if err != nil {
			return err
		}
		if err := output.write(file); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
