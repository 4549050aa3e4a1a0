// Package hrir provides head-related impulse response tables for
// binaural rendering: a plain-text loader for measured responses and
// a synthetic spherical-head fallback table.
//
// A table maps discrete directions around the listener to a pair of
// FIR kernels, one per ear. Tables are immutable after loading; the
// renderer resolves directions once at construction and never touches
// the table on the audio path.
package hrir

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidTable indicates a malformed or unusable HRIR table.
var ErrInvalidTable = errors.New("invalid HRIR table")

// Entry is one measured direction with its left- and right-ear
// impulse responses.
type Entry struct {
	// Direction points from the listener toward the measurement
	// position. Need not be normalized.
	Direction [3]float64

	// Left and Right are the FIR kernels. All entries of a table
	// share one kernel length.
	Left, Right []float64
}

// Table is a read-only direction-to-impulse-response mapping.
type Table struct {
	// SampleRate the responses were measured at. Must match the
	// scene rate; the engine performs no resampling.
	SampleRate float64

	// Delay is the table's group delay in samples. A renderer using
	// the table adds exactly this many samples of constant latency.
	Delay int

	Entries []Entry
}

// FilterLength returns the shared kernel length, or 0 for an empty
// table.
func (t *Table) FilterLength() int {
	if len(t.Entries) == 0 {
		return 0
	}
	return len(t.Entries[0].Left)
}

// Validate checks the structural invariants the renderer relies on:
// a positive sample rate, at least one entry, equal non-zero kernel
// lengths throughout, finite directions, and a delay within the
// kernel.
func (t *Table) Validate() error {
	if t.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidTable, t.SampleRate)
	}
	if len(t.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidTable)
	}

	n := len(t.Entries[0].Left)
	if n == 0 {
		return fmt.Errorf("%w: zero-length filter", ErrInvalidTable)
	}
	if t.Delay < 0 || t.Delay >= n {
		return fmt.Errorf("%w: delay %d outside filter length %d", ErrInvalidTable, t.Delay, n)
	}

	for i, e := range t.Entries {
		if len(e.Left) != n || len(e.Right) != n {
			return fmt.Errorf("%w: entry %d kernel lengths %d/%d differ from %d",
				ErrInvalidTable, i, len(e.Left), len(e.Right), n)
		}
		norm := math.Sqrt(e.Direction[0]*e.Direction[0] +
			e.Direction[1]*e.Direction[1] +
			e.Direction[2]*e.Direction[2])
		if math.IsNaN(norm) || math.IsInf(norm, 0) || norm == 0 {
			return fmt.Errorf("%w: entry %d has degenerate direction", ErrInvalidTable, i)
		}
	}
	return nil
}

// Nearest returns the entry whose direction is angularly closest to
// dir. dir need not be normalized; a zero dir resolves to the entry
// closest to straight ahead.
func (t *Table) Nearest(dir [3]float64) *Entry {
	l := math.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])
	if l == 0 {
		dir, l = [3]float64{0, 0, 1}, 1
	}

	best := -1
	bestDot := math.Inf(-1)
	for i := range t.Entries {
		e := &t.Entries[i]
		el := math.Sqrt(e.Direction[0]*e.Direction[0] +
			e.Direction[1]*e.Direction[1] +
			e.Direction[2]*e.Direction[2])
		d := (dir[0]*e.Direction[0] + dir[1]*e.Direction[1] + dir[2]*e.Direction[2]) / (l * el)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &t.Entries[best]
}

// Load reads and validates a table from a file in the text format
// accepted by Parse.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HRIR table: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a table from its plain-text representation:
//
//	line 1: sample rate in Hz
//	line 2: group delay in samples
//	blank line
//	then, per entry, separated by blank lines:
//	  direction line "x y z"
//	  left kernel line, comma-separated coefficients
//	  right kernel line, comma-separated coefficients
//
// The result is validated before being returned.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	rate, err := parseHeaderLine(sc, "sample rate")
	if err != nil {
		return nil, err
	}
	delayF, err := parseHeaderLine(sc, "group delay")
	if err != nil {
		return nil, err
	}
	if delayF != math.Trunc(delayF) {
		return nil, fmt.Errorf("%w: group delay must be an integer sample count", ErrInvalidTable)
	}

	t := &Table{SampleRate: rate, Delay: int(delayF)}

	for {
		dirLine, ok := nextNonBlank(sc)
		if !ok {
			break
		}

		dir, err := parseDirection(dirLine)
		if err != nil {
			return nil, err
		}
		left, err := parseKernel(sc, "left")
		if err != nil {
			return nil, err
		}
		right, err := parseKernel(sc, "right")
		if err != nil {
			return nil, err
		}

		t.Entries = append(t.Entries, Entry{Direction: dir, Left: left, Right: right})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read HRIR table: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseHeaderLine(sc *bufio.Scanner, what string) (float64, error) {
	if !sc.Scan() {
		return 0, fmt.Errorf("%w: missing %s line", ErrInvalidTable, what)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(sc.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", ErrInvalidTable, what, strings.TrimSpace(sc.Text()))
	}
	return v, nil
}

func nextNonBlank(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func parseDirection(line string) ([3]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return [3]float64{}, fmt.Errorf("%w: direction line %q must have 3 components", ErrInvalidTable, line)
	}
	var dir [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("%w: bad direction component %q", ErrInvalidTable, f)
		}
		dir[i] = v
	}
	return dir, nil
}

func parseKernel(sc *bufio.Scanner, ear string) ([]float64, error) {
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing %s kernel line", ErrInvalidTable, ear)
	}
	line := strings.TrimSpace(sc.Text())
	if line == "" {
		return nil, fmt.Errorf("%w: missing %s kernel line", ErrInvalidTable, ear)
	}

	parts := strings.Split(line, ",")
	kernel := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s kernel coefficient %q", ErrInvalidTable, ear, strings.TrimSpace(p))
		}
		kernel = append(kernel, v)
	}
	return kernel, nil
}
