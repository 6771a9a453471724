// Package record reads and writes Chomp game records in an SGF FF[4] style.
//
// A record looks like
//
//	(;GM[Chomp]FF[4]CA[UTF-8]AP[chomp-local:1.0]SZ[8:5]PB[Player]PW[Engine Level 10]DT[2026-01-15]RE[B+]
//	;B[ae];W[hd])
//
// B is the side that moves first. Move values are a column letter followed
// by a row letter, both zero-indexed from the top-left corner.
package record

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chomp-local/strategy"
)

const (
	GameName = "Chomp"
	fileExt  = ".sgf"
)

// clock stamps new records; tests pin it.
var clock = time.Now

// GameRecord tracks a game in progress and writes it to disk after every change.
type GameRecord struct {
	FilePath     string
	PlayerFirst  string
	PlayerSecond string
	Date         string
	Result       string
	moves        []string // ";B[ae]", ";W[hd]", ...
	file         *os.File
}

// NewGameRecord creates a new record file in dir and writes the initial header.
// playerSide is the human's side, 1=first, 2=second.
func NewGameRecord(dir string, playerSide, engineLevel int) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	now := clock()
	f, path, err := createRecordFile(dir, now.Format("2006-01-02_150405")+"_chomp")
	if err != nil {
		return nil, err
	}

	human := "Player"
	engine := fmt.Sprintf("Engine Level %d", engineLevel)

	first, second := human, engine
	if playerSide == 2 {
		first, second = engine, human
	}

	rec := &GameRecord{
		FilePath:     path,
		PlayerFirst:  first,
		PlayerSecond: second,
		Date:         now.Format("2006-01-02"),
		Result:       "?",
		file:         f,
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// createRecordFile creates base.sgf in dir, or base-2.sgf, base-3.sgf and
// so on when games were started within the same second.
func createRecordFile(dir, base string) (*os.File, string, error) {
	for n := 1; ; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		path := filepath.Join(dir, name+fileExt)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create record file: %w", err)
		}
	}
}

// coord converts a zero-indexed cell to its letter pair.
// (row 0, col 0) -> "aa", (row 4, col 7) -> "he".
func coord(c strategy.Cell) string {
	return string(rune('a'+c.Col)) + string(rune('a'+c.Row))
}

func sideLetter(side int) string {
	if side == 2 {
		return "W"
	}
	return "B"
}

// AddMove appends a move by side (1=first, 2=second) to the record.
func (r *GameRecord) AddMove(c strategy.Cell, side int) error {
	r.moves = append(r.moves, fmt.Sprintf(";%s[%s]", sideLetter(side), coord(c)))
	return r.flush()
}

// Moves returns the number of recorded moves.
func (r *GameRecord) Moves() int {
	return len(r.moves)
}

// UndoMoves removes the last n moves from the record.
func (r *GameRecord) UndoMoves(n int) error {
	if n > len(r.moves) {
		n = len(r.moves)
	}
	r.moves = r.moves[:len(r.moves)-n]
	r.Result = "?"
	return r.flush()
}

// SetResult records the winner. It accepts engine outcomes such as
// "First player wins" as well as record values like "W+".
func (r *GameRecord) SetResult(outcome string) error {
	r.Result = parseResult(outcome)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// flush rewrites the complete record from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder
	b.WriteString("(;GM[" + GameName + "]FF[4]CA[UTF-8]AP[chomp-local:1.0]")
	fmt.Fprintf(&b, "SZ[%d:%d]", strategy.Cols, strategy.Rows)
	fmt.Fprintf(&b, "PB[%s]PW[%s]", escape(r.PlayerFirst), escape(r.PlayerSecond))
	fmt.Fprintf(&b, "DT[%s]RE[%s]\n", r.Date, r.Result)
	for _, m := range r.moves {
		b.WriteString(m)
	}
	b.WriteString(")\n")

	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "]", `\]`)
}

// parseResult converts an outcome to an RE[] value: "B+", "W+" or "?".
func parseResult(outcome string) string {
	o := strings.TrimSpace(outcome)
	switch o {
	case "B+", "W+", "?", "Void":
		return o
	}
	low := strings.ToLower(o)
	switch {
	case strings.HasPrefix(low, "first"), strings.HasPrefix(low, "black"):
		if strings.Contains(low, "win") {
			return "B+"
		}
	case strings.HasPrefix(low, "second"), strings.HasPrefix(low, "white"):
		if strings.Contains(low, "win") {
			return "W+"
		}
	}
	return "?"
}
