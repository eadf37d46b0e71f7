// Package scores keeps the top-5 high score table in a plain text file, one
// score per line, best first.
package scores

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Capacity is the number of scores kept.
const Capacity = 5

var ErrMalformed = errors.New("malformed score file")

// Table is a descending list of at most Capacity scores.
type Table struct {
	entries []int
}

// Load reads the table at path. A missing file is an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("open scores: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a score list. Blank lines are skipped. Entries beyond
// Capacity are dropped after sorting.
func Read(r io.Reader) (*Table, error) {
	t := &Table{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformed, line, text)
		}
		t.entries = append(t.entries, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}

	slices.SortStableFunc(t.entries, func(a, b int) int { return b - a })
	if len(t.entries) > Capacity {
		t.entries = t.entries[:Capacity]
	}
	return t, nil
}

// Scores returns a copy of the table, best first.
func (t *Table) Scores() []int {
	return slices.Clone(t.entries)
}

// Best returns the top score, or 0 for an empty table.
func (t *Table) Best() int {
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[0]
}

func (t *Table) Len() int { return len(t.entries) }

// Qualifies reports whether score would make the table.
func (t *Table) Qualifies(score int) bool {
	return score >= 0 && (len(t.entries) < Capacity || score > t.entries[len(t.entries)-1])
}

// Insert places score in the table and returns its 0-based rank. ok is false
// when the score did not make the table. An equal earlier score keeps the
// higher rank.
func (t *Table) Insert(score int) (rank int, ok bool) {
	if !t.Qualifies(score) {
		return -1, false
	}

	rank = len(t.entries)
	for i, v := range t.entries {
		if score > v {
			rank = i
			break
		}
	}
	t.entries = slices.Insert(t.entries, rank, score)
	if len(t.entries) > Capacity {
		t.entries = t.entries[:Capacity]
	}
	return rank, true
}

// Reset empties the table.
func (t *Table) Reset() {
	t.entries = t.entries[:0]
}

// Save writes the table to path through a temporary file in the same
// directory so a crash never leaves a partial file behind.
func (t *Table) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scores dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scores-*")
	if err != nil {
		return fmt.Errorf("create temp scores: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, v := range t.entries {
		fmt.Fprintln(w, v)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace scores: %w", err)
	}
	return nil
}
