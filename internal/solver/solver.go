// Package solver wraps out-of-process LP solvers. The model stays a
// black box handed over as a MathProg file; all that comes back is the
// solver's textual solution report.
package solver

type Solver interface {
	// Solve runs the solver on the given MathProg model file and returns
	// the raw solution text in the solver's row format.
	Solve(modelFile string) (string, error)
}
