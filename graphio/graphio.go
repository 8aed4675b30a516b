// SPDX-License-Identifier: MIT

// Package graphio reads directed graphs in row/col text form into a dense
// transition matrix.
//
// Format:
//
//	rows nonzeros
//	row col        ← repeated nonzeros times
//
// Each entry sets matrix cell (row, col) to 1.0, i.e. an edge col → row.
// Repeated entries set the same cell again and still count towards
// nonzeros. Blank lines are skipped; anything after the declared entries is
// ignored.
package graphio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/distrank/matrix"
)

var (
	// ErrMalformed indicates a header or entry line that does not parse, or
	// fewer entries than the header declares.
	ErrMalformed = errors.New("graphio: malformed input")

	// ErrIndexRange indicates an entry whose row or column is outside [0, rows).
	ErrIndexRange = errors.New("graphio: row/col out of range")
)

// Graph is a loaded input.
type Graph struct {
	Matrix   *matrix.Dense
	Nonzeros int // entries read, as declared in the header
}

// Load opens path and reads it with Read.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}

	return g, nil
}

// Read parses the row/col format from r.
func Read(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	line := 0

	// next returns the two integer fields of the next non-blank line.
	next := func() (a, b int, ok bool, err error) {
		for sc.Scan() {
			line++
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}
			if len(fields) != 2 {
				return 0, 0, false, fmt.Errorf("line %d: want 2 fields, got %d: %w", line, len(fields), ErrMalformed)
			}
			if a, err = strconv.Atoi(fields[0]); err == nil {
				b, err = strconv.Atoi(fields[1])
			}
			if err != nil {
				return 0, 0, false, fmt.Errorf("line %d: %v: %w", line, err, ErrMalformed)
			}
			return a, b, true, nil
		}
		return 0, 0, false, sc.Err()
	}

	rows, nnz, ok, err := next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing header: %w", ErrMalformed)
	}
	if rows < 1 || nnz < 0 {
		return nil, fmt.Errorf("line %d: header %d %d: %w", line, rows, nnz, ErrMalformed)
	}

	m, err := matrix.NewDense(rows, rows)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nnz; i++ {
		row, col, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("entry %d of %d missing: %w", i+1, nnz, ErrMalformed)
		}
		if row < 0 || row >= rows || col < 0 || col >= rows {
			return nil, fmt.Errorf("line %d has row/col %d %d for matrix with rows/cols %d %d: %w",
				line, row, col, rows, rows, ErrIndexRange)
		}
		if err = m.Set(row, col, 1); err != nil {
			return nil, err
		}
	}

	return &Graph{Matrix: m, Nonzeros: nnz}, nil
}
