package leaderboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		add   float64
		want  []float64
	}{
		{"new best", []float64{3.10, 4.20, 5.00}, 2.50, []float64{2.50, 3.10, 4.20, 5.00}},
		{"empty", nil, 7.25, []float64{7.25}},
		{"worse than a full board", []float64{1, 2, 3, 4, 5}, 9, []float64{1, 2, 3, 4, 5}},
		{"pushes out the worst", []float64{1, 2, 3, 4, 5}, 2.5, []float64{1, 2, 2.5, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]float64(nil), tt.times...)
			assert.Equal(t, tt.want, Insert(tt.times, tt.add))
			assert.Equal(t, before, append([]float64(nil), tt.times...))
		})
	}
}

func TestBoard_Record(t *testing.T) {
	dir := t.TempDir()
	b := ForGame(dir, "finger-count")
	require.NoError(t, os.WriteFile(b.Path(), []byte("3.10\n4.20\n5.00\n"), 0o644))

	times, rank, err := b.Record(2500 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 3.1, 4.2, 5.0}, times)
	assert.Equal(t, 1, rank)

	data, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	assert.Equal(t, "2.50\n3.10\n4.20\n5.00\n", string(data))
}

func TestBoard_RecordWorseTimeOnFullBoard(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "board.txt"))
	content := "1.00\n2.00\n3.00\n4.00\n5.00\n"
	require.NoError(t, os.WriteFile(b.Path(), []byte(content), 0o644))

	_, rank, err := b.Record(42 * time.Second)
	require.NoError(t, err)
	assert.Zero(t, rank)

	data, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestBoard_RecordTies(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "board.txt"))
	content := "1.00\n2.00\n3.00\n4.00\n5.00\n"
	require.NoError(t, os.WriteFile(b.Path(), []byte(content), 0o644))

	_, rank, err := b.Record(5 * time.Second)
	require.NoError(t, err)
	assert.Zero(t, rank, "a tie with the last entry does not make the board")

	times, rank, err := b.Record(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
	assert.Equal(t, []float64{1, 2, 2, 3, 4}, times)
}

func TestBoard_MissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "nested", "board.txt"))
	assert.Empty(t, b.Load())

	times, rank, err := b.Record(12346 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []float64{12.35}, times)
	assert.Equal(t, 1, rank)
}

func TestBoard_CorruptLinesSkipped(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "board.txt"))
	require.NoError(t, os.WriteFile(b.Path(), []byte("4.00\ngarbage\n\n-1\n 2.00 \n"), 0o644))

	assert.Equal(t, []float64{2, 4}, b.Load())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "0.50\n10.00\n", Format([]float64{0.5, 10}))
}
