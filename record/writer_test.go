package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chomp-local/strategy"
)

func TestCoord(t *testing.T) {
	tests := []struct {
		cell strategy.Cell
		want string
	}{
		{strategy.Cell{Row: 0, Col: 0}, "aa"},
		{strategy.Cell{Row: 4, Col: 0}, "ae"},
		{strategy.Cell{Row: 3, Col: 7}, "hd"},
		{strategy.Poison, "he"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coord(tt.cell), "coord(%v)", tt.cell)
		back, ok := parseCoord(tt.want)
		require.True(t, ok)
		assert.Equal(t, tt.cell, back)
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"B+", "B+"},
		{"W+", "W+"},
		{"?", "?"},
		{"Void", "Void"},
		{"First player wins", "B+"},
		{"Second player wins", "W+"},
		{"  second player wins ", "W+"},
		{"Black wins", "B+"},
		{"First player resigned", "?"},
		{"", "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseResult(tt.input), "parseResult(%q)", tt.input)
	}
}

func TestGameRecordWritesAndRewrites(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, 2, 7)
	require.NoError(t, err)
	defer rec.Close()

	assert.Equal(t, "Engine Level 7", rec.PlayerFirst)
	assert.Equal(t, "Player", rec.PlayerSecond)

	require.NoError(t, rec.AddMove(strategy.Cell{Row: 4, Col: 0}, 1))
	require.NoError(t, rec.AddMove(strategy.Cell{Row: 3, Col: 7}, 2))
	require.NoError(t, rec.SetResult("First player wins"))

	data, err := os.ReadFile(rec.FilePath)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "(;GM[Chomp]FF[4]CA[UTF-8]AP[chomp-local:1.0]SZ[8:5]"))
	assert.Contains(t, content, "PB[Engine Level 7]PW[Player]")
	assert.Contains(t, content, "RE[B+]")
	assert.Contains(t, content, ";B[ae];W[hd])")

	require.NoError(t, rec.UndoMoves(1))
	data, err = os.ReadFile(rec.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), ";B[ae])")
	assert.Contains(t, string(data), "RE[?]")
	assert.Equal(t, 1, rec.Moves())

	require.NoError(t, rec.UndoMoves(5))
	assert.Equal(t, 0, rec.Moves())
}

func TestGameRecordClose(t *testing.T) {
	rec, err := NewGameRecord(t.TempDir(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Player", rec.PlayerFirst)
	rec.Close()
	rec.Close()
	assert.Error(t, rec.AddMove(strategy.Cell{}, 1))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\]b\\c`, escape(`a]b\c`))
}

func TestGameRecordSameSecond(t *testing.T) {
	fixed := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	clock = func() time.Time { return fixed }
	t.Cleanup(func() { clock = time.Now })

	dir := t.TempDir()
	first, err := NewGameRecord(dir, 1, 10)
	require.NoError(t, err)
	require.NoError(t, first.AddMove(strategy.Cell{Row: 4, Col: 0}, 1))

	second, err := NewGameRecord(dir, 2, 5)
	require.NoError(t, err)
	third, err := NewGameRecord(dir, 1, 3)
	require.NoError(t, err)
	first.Close()
	second.Close()
	third.Close()

	assert.Equal(t, filepath.Join(dir, "2026-01-15_100000_chomp.sgf"), first.FilePath)
	assert.Equal(t, filepath.Join(dir, "2026-01-15_100000_chomp-2.sgf"), second.FilePath)
	assert.Equal(t, filepath.Join(dir, "2026-01-15_100000_chomp-3.sgf"), third.FilePath)

	// The first game is left intact.
	data, err := os.ReadFile(first.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), ";B[ae]")

	games, err := ListGames(dir)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "2026-01-15_100000_chomp-3.sgf", games[0].FileName)
	assert.Equal(t, "2026-01-15_100000_chomp-2.sgf", games[1].FileName)
	assert.Equal(t, "2026-01-15_100000_chomp.sgf", games[2].FileName)
}
