// SPDX-License-Identifier: MIT

package pagerank

import "math"

// Status is the terminal outcome of a run. Both values are normal endings.
type Status uint8

const (
	// StatusRunning is the status before the loop has terminated.
	StatusRunning Status = iota
	// StatusConverged means the last change was at or below the tolerance.
	StatusConverged
	// StatusMaxIterations means the iteration cap was hit first.
	StatusMaxIterations
)

// String returns the verdict line printed for the status.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "CONVERGED"
	case StatusMaxIterations:
		return "MAX ITERATION REACHED"
	default:
		return "RUNNING"
	}
}

// IterationState is the loop control value threaded through every Step.
// Change is replicated to every member by broadcast; Norm is computed and
// known on the root only (zero elsewhere).
type IterationState struct {
	Iteration int     // completed iterations
	Change    float64 // L1 distance between the last two rank vectors
	Norm      float64 // sum of the last rank vector (diagnostic)
	Continue  bool    // whether another iteration must run
}

// initialState is the state before the first iteration.
func initialState() IterationState {
	return IterationState{Change: math.Inf(1), Continue: true}
}

// advance returns the state after one more completed iteration with the
// given change, applying the shared predicate change > tol && iter < maxIter.
func advance(st IterationState, change, norm, tol float64, maxIter int) IterationState {
	st.Iteration++
	st.Change = change
	st.Norm = norm
	st.Continue = change > tol && st.Iteration < maxIter

	return st
}

// status maps a terminal state to its Status.
func status(st IterationState, tol float64) Status {
	if st.Continue {
		return StatusRunning
	}
	if st.Change <= tol {
		return StatusConverged
	}

	return StatusMaxIterations
}

// Result is what Run returns. Ranks, Norm and History are filled on the
// root only; Status, Iterations and Change agree on every member.
type Result struct {
	Ranks      []float64
	Status     Status
	Iterations int
	Change     float64
	Norm       float64
	History    []IterationState
}

// Reporter receives progress on the root.
type Reporter interface {
	// Begin is called once, after normalization, with the matrix dimension.
	Begin(n int)
	// Iteration is called after every completed iteration.
	Iteration(st IterationState)
	// Finish is called once with the final result.
	Finish(res *Result)
}

type nopReporter struct{}

func (nopReporter) Begin(int)                {}
func (nopReporter) Iteration(IterationState) {}
func (nopReporter) Finish(*Result)           {}
