package strategy

import (
	"fmt"
	"sync"
)

// Outcome is the game-theoretic value of a position for the player to move.
type Outcome uint8

const (
	Unknown Outcome = iota
	Losing
	Winning
	// Finished marks the empty board: the poison has been taken and the
	// player to move has already won.
	Finished
)

func (o Outcome) String() string {
	switch o {
	case Losing:
		return "losing"
	case Winning:
		return "winning"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Classification is the verdict for one skyline. Move is only meaningful
// when Outcome is Winning and holds the zero-indexed winning cell.
type Classification struct {
	Outcome Outcome
	Move    Cell
}

// entry packs a Classification into one byte. Values from entryMoveBase
// upward are winning entries carrying row*Cols+col.
type entry uint8

const (
	entryUnexplored entry = iota
	entryVisiting
	entryLosing
	entryFinished
	entryMoveBase
)

func winningEntry(c Cell) entry {
	return entryMoveBase + entry(c.Row*Cols+c.Col)
}

func (e entry) classification() Classification {
	switch {
	case e == entryLosing:
		return Classification{Outcome: Losing}
	case e == entryFinished:
		return Classification{Outcome: Finished}
	case e >= entryMoveBase:
		n := int(e - entryMoveBase)
		return Classification{Outcome: Winning, Move: Cell{Row: n / Cols, Col: n % Cols}}
	default:
		return Classification{Outcome: Unknown}
	}
}

// Table maps every valid Index to its classification. A built Table is
// never written again and may be shared between goroutines.
type Table struct {
	book []entry
}

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Default returns the process-wide table, building it on first use.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = Build()
	})
	return defaultTable
}

// Build classifies every skyline by backward induction from the full
// board, then sweeps the remaining valid shapes.
func Build() *Table {
	t := &Table{book: make([]entry, TableSize)}
	t.book[Empty.Index()] = entryFinished
	t.classify(Full)
	EachSkyline(func(s Skyline) bool {
		t.classify(s)
		return true
	})
	return t
}

func (t *Table) classify(s Skyline) entry {
	idx := s.Index()
	switch e := t.book[idx]; e {
	case entryUnexplored:
	case entryVisiting:
		panic(fmt.Sprintf("strategy: skyline %s reached while still being classified", s))
	default:
		return e
	}
	if IsTerminal(s) {
		t.book[idx] = entryLosing
		return entryLosing
	}

	t.book[idx] = entryVisiting
	result := entryLosing
	for _, m := range LegalMoves(s) {
		child, err := Apply(s, m)
		if err != nil {
			panic(fmt.Sprintf("strategy: generated move rejected: %v", err))
		}
		if t.classify(child) == entryLosing {
			result = winningEntry(m)
			break
		}
	}
	t.book[idx] = result
	return result
}

// Lookup returns the classification of s. Invalid skylines are Unknown.
func (t *Table) Lookup(s Skyline) Classification {
	if !s.Valid() {
		return Classification{Outcome: Unknown}
	}
	return t.book[s.Index()].classification()
}

// LookupIndex returns the classification stored at idx. Indexes that no
// valid skyline packs to are Unknown.
func (t *Table) LookupIndex(idx Index) Classification {
	if int(idx) >= len(t.book) {
		return Classification{Outcome: Unknown}
	}
	return t.book[idx].classification()
}

// Len returns the number of classified shapes.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.book {
		if e != entryUnexplored {
			n++
		}
	}
	return n
}
