package solver

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const cbcPath = "cbc"

// cbcSolver translates the MathProg model to LP format with glpsol, then
// hands it to CBC, which tends to solve these models faster.
type cbcSolver struct{}

func NewCbcSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(modelFile string) (string, error) {
	outDir, err := os.MkdirTemp("", "tournsched-cbc")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	lpFile := filepath.Join(outDir, "model.lp")
	outFile := filepath.Join(outDir, "solution.txt")

	translate := exec.Command(glpsolPath, "--math", modelFile, "--check", "--wlp", lpFile)
	var stderr bytes.Buffer
	translate.Stderr = &stderr
	if err := translate.Run(); err != nil {
		return "", fmt.Errorf("an error occurred translating the model to LP format: %v : %v", err.Error(), stderr.String())
	}

	solve := exec.Command(cbcPath, lpFile, "solve", "printi", "all", "solution", outFile)
	stderr.Reset()
	solve.Stderr = &stderr
	if err := solve.Run(); err != nil {
		return "", fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	solution, err := os.ReadFile(outFile)
	if err != nil {
		return "", fmt.Errorf("cbc produced no solution file: %w", err)
	}
	return string(solution), nil
}
