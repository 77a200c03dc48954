package solver

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const glpsolPath = "glpsol"

type glpsolSolver struct{}

func NewGlpsolSolver() Solver {
	return &glpsolSolver{}
}

func (solver *glpsolSolver) Solve(modelFile string) (string, error) {
	outDir, err := os.MkdirTemp("", "tournsched-glpsol")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)
	outFile := filepath.Join(outDir, "solution.txt")

	cmd := exec.Command(glpsolPath, "--math", modelFile, "--output", outFile)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("an error occurred during glpsol execution: %v : %v", err.Error(), stderr.String())
	}

	solution, err := os.ReadFile(outFile)
	if err != nil {
		return "", fmt.Errorf("glpsol produced no solution file: %w", err)
	}
	return string(solution), nil
}
