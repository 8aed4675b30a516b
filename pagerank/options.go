// SPDX-License-Identifier: MIT

// Package pagerank: functional configuration.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX setters and Options.Validate, which reports every violation at once.
//
// Values usually come from the command line, so invalid settings surface as
// errors from Validate rather than panics in the setters.

package pagerank

import (
	"fmt"
	"math"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultDamping is the probability of following an edge instead of teleporting.
	DefaultDamping = 0.85

	// DefaultTolerance is the L1 change at or below which iteration stops.
	DefaultTolerance = 1e-3

	// DefaultMaxIterations caps the number of power iterations.
	DefaultMaxIterations = 10000

	// DefaultRoot is the rank that loads input, assembles ranks and decides.
	DefaultRoot = 0

	// DefaultDangling rejects graphs with dangling nodes.
	DefaultDangling = DanglingError
)

// DanglingPolicy selects what Normalize does with an all-zero column.
type DanglingPolicy uint8

const (
	// DanglingError fails with ErrDanglingNode.
	DanglingError DanglingPolicy = iota
	// DanglingSelfLoop adds a unit self-loop to the dangling node.
	DanglingSelfLoop
	// DanglingUniform spreads the node's mass uniformly over all nodes.
	DanglingUniform
)

var danglingNames = [...]string{
	DanglingError:    "error",
	DanglingSelfLoop: "selfloop",
	DanglingUniform:  "uniform",
}

// String returns the policy name accepted by ParseDanglingPolicy.
func (p DanglingPolicy) String() string {
	if int(p) < len(danglingNames) {
		return danglingNames[p]
	}

	return fmt.Sprintf("DanglingPolicy(%d)", uint8(p))
}

// ParseDanglingPolicy maps "error", "selfloop" or "uniform" (case-insensitive)
// to a DanglingPolicy.
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	for i, name := range danglingNames {
		if strings.EqualFold(s, name) {
			return DanglingPolicy(i), nil
		}
	}

	return 0, fmt.Errorf("ParseDanglingPolicy(%q): %w", s, ErrUnknownPolicy)
}

// ---------- Public option type (functional) ----------

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Only the root's damping, tolerance, iteration cap and dangling policy are
// used: Run broadcasts them so every member iterates under identical settings.
type Options struct {
	damping  float64
	tol      float64
	maxIter  int
	dangling DanglingPolicy
	root     int
	reporter Reporter
}

// WithDamping sets the damping factor d, required in (0, 1].
func WithDamping(d float64) Option { return func(o *Options) { o.damping = d } }

// WithTolerance sets the L1 convergence threshold.
func WithTolerance(tol float64) Option { return func(o *Options) { o.tol = tol } }

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option { return func(o *Options) { o.maxIter = n } }

// WithDanglingPolicy selects how zero columns are handled.
func WithDanglingPolicy(p DanglingPolicy) Option { return func(o *Options) { o.dangling = p } }

// WithRoot selects the coordinating rank. Every member must be given the
// same root; it cannot be agreed on through the group itself.
func WithRoot(rank int) Option { return func(o *Options) { o.root = rank } }

// WithReporter installs progress callbacks, invoked on the root only.
// A nil reporter restores the silent default.
func WithReporter(r Reporter) Option {
	return func(o *Options) {
		if r == nil {
			r = nopReporter{}
		}
		o.reporter = r
	}
}

// defaultOptions returns the zero-configuration Options.
func defaultOptions() Options {
	return Options{
		damping:  DefaultDamping,
		tol:      DefaultTolerance,
		maxIter:  DefaultMaxIterations,
		dangling: DefaultDangling,
		root:     DefaultRoot,
		reporter: nopReporter{},
	}
}

// NewOptions applies opts over the defaults. It does not validate; call
// Validate before use.
func NewOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// Damping returns the configured damping factor.
func (o Options) Damping() float64 { return o.damping }

// Tolerance returns the configured convergence threshold.
func (o Options) Tolerance() float64 { return o.tol }

// MaxIterations returns the configured iteration cap.
func (o Options) MaxIterations() int { return o.maxIter }

// Dangling returns the configured dangling-node policy.
func (o Options) Dangling() DanglingPolicy { return o.dangling }

// Root returns the coordinating rank.
func (o Options) Root() int { return o.root }

// Validate reports every invalid setting; groupSize bounds the root rank.
// The returned error matches each violated sentinel under errors.Is.
func (o Options) Validate(groupSize int) error {
	var result *multierror.Error
	if !(o.damping > 0 && o.damping <= 1) {
		result = multierror.Append(result, fmt.Errorf("damping %v: %w", o.damping, ErrInvalidDamping))
	}
	if math.IsNaN(o.tol) || math.IsInf(o.tol, 0) || o.tol < 0 {
		result = multierror.Append(result, fmt.Errorf("tolerance %v: %w", o.tol, ErrInvalidTolerance))
	}
	if o.maxIter < 1 {
		result = multierror.Append(result, fmt.Errorf("max iterations %d: %w", o.maxIter, ErrInvalidMaxIterations))
	}
	if int(o.dangling) >= len(danglingNames) {
		result = multierror.Append(result, fmt.Errorf("%v: %w", o.dangling, ErrUnknownPolicy))
	}
	if o.root < 0 || o.root >= groupSize {
		result = multierror.Append(result, fmt.Errorf("root %d of %d: %w", o.root, groupSize, ErrInvalidRoot))
	}

	return result.ErrorOrNil()
}
