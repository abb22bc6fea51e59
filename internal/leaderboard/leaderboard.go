// Package leaderboard keeps the fastest completion times of a game in a plain
// text file, one two-decimal seconds value per line, ascending.
package leaderboard

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Size is the number of times kept.
const Size = 5

// FileName returns the leaderboard file name for a game.
func FileName(game string) string {
	return game + "_leaderboard.txt"
}

// Board is the leaderboard file of one game.
type Board struct {
	path string
}

// New returns the Board stored at path.
func New(path string) *Board {
	return &Board{path: path}
}

// ForGame returns the Board of game inside dir.
func ForGame(dir, game string) *Board {
	return New(filepath.Join(dir, FileName(game)))
}

// Path returns the file path.
func (b *Board) Path() string {
	return b.path
}

// Load returns the stored times in seconds, ascending. A missing or
// unreadable file is an empty board; lines that are not numbers are skipped.
func (b *Board) Load() []float64 {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil
	}
	return Parse(data)
}

// Record adds elapsed to the board and rewrites the file with the best Size
// times. It returns the new board and the 1-based rank of the new time, or 0
// when it did not make the board.
func (b *Board) Record(elapsed time.Duration) ([]float64, int, error) {
	seconds := round2(elapsed.Seconds())
	prev := b.Load()
	times := Insert(prev, seconds)

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return nil, 0, fmt.Errorf("failed to create leaderboard dir: %w", err)
	}
	if err := writeFile(b.path, []byte(Format(times))); err != nil {
		return nil, 0, fmt.Errorf("failed to write leaderboard: %w", err)
	}

	// A tie ranks after the existing equal times.
	rank := 0
	if pos := lo.CountBy(prev, func(t float64) bool { return t <= seconds }); pos < Size {
		rank = pos + 1
	}
	return times, rank, nil
}

// Insert adds t to times and keeps the best Size, ascending. times is not
// modified.
func Insert(times []float64, t float64) []float64 {
	out := append(slices.Clone(times), t)
	slices.Sort(out)
	return out[:min(len(out), Size)]
}

// Parse reads one seconds value per line.
func Parse(data []byte) []float64 {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	times := lo.FilterMap(lines, func(line string, _ int) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		return v, err == nil && v >= 0
	})
	slices.Sort(times)
	return times
}

// Format renders times one per line with two decimals.
func Format(times []float64) string {
	if len(times) == 0 {
		return ""
	}
	return strings.Join(lo.Map(times, func(t float64, _ int) string {
		return strconv.FormatFloat(t, 'f', 2, 64)
	}), "\n") + "\n"
}

func round2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".leaderboard-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Join(err, os.Remove(tmp.Name()))
	}
	return nil
}
