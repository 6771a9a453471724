package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"chomp-local/strategy"
)

// ErrBadRecord is returned for records that cannot be parsed or replayed.
var ErrBadRecord = errors.New("bad game record")

// GameInfo holds metadata parsed from a record header.
type GameInfo struct {
	FilePath     string
	FileName     string
	Cols         int
	Rows         int
	PlayerFirst  string
	PlayerSecond string
	Date         string
	Result       string
	MoveCount    int
}

// Entry is one recorded move.
type Entry struct {
	Side int // 1=first, 2=second
	Cell strategy.Cell
}

// node is a single ";..." node: property name to its values.
type node map[string][]string

func (n node) first(key string) string {
	if v := n[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// parse splits the main line of a record into nodes. Variations are not
// written by this package, so a nested "(" is treated as a plain separator.
func parse(content string) ([]node, error) {
	start := strings.Index(content, "(;")
	if start < 0 {
		return nil, fmt.Errorf("%w: no game tree", ErrBadRecord)
	}

	var (
		nodes []node
		cur   node
		key   strings.Builder
	)
	for i := start + 1; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == ';':
			cur = node{}
			nodes = append(nodes, cur)
			key.Reset()
		case ch == ')':
			return nodes, nil
		case ch >= 'A' && ch <= 'Z':
			if cur == nil {
				return nil, fmt.Errorf("%w: property outside a node at offset %d", ErrBadRecord, i)
			}
			key.WriteByte(ch)
		case ch == '[':
			if cur == nil || key.Len() == 0 {
				return nil, fmt.Errorf("%w: value without property at offset %d", ErrBadRecord, i)
			}
			var val strings.Builder
			i++
			for ; i < len(content) && content[i] != ']'; i++ {
				if content[i] == '\\' && i+1 < len(content) {
					i++
				}
				val.WriteByte(content[i])
			}
			if i >= len(content) {
				return nil, fmt.Errorf("%w: unterminated value", ErrBadRecord)
			}
			k := key.String()
			cur[k] = append(cur[k], val.String())
			// A following "[" adds another value to the same property.
			if i+1 < len(content) && content[i+1] != '[' {
				key.Reset()
			}
		}
	}
	return nil, fmt.Errorf("%w: missing closing parenthesis", ErrBadRecord)
}

func readNodes(filePath string) ([]node, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	nodes, err := parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w: empty game tree", filepath.Base(filePath), ErrBadRecord)
	}
	return nodes, nil
}

// parseCoord reads a two-letter column/row value.
func parseCoord(v string) (strategy.Cell, bool) {
	if len(v) != 2 {
		return strategy.Cell{}, false
	}
	c := strategy.Cell{Col: int(v[0]) - 'a', Row: int(v[1]) - 'a'}
	if c.Row < 0 || c.Row >= strategy.Rows || c.Col < 0 || c.Col >= strategy.Cols {
		return strategy.Cell{}, false
	}
	return c, true
}

// entries extracts the move nodes that follow the root.
func entries(nodes []node) ([]Entry, error) {
	var out []Entry
	for i, n := range nodes[1:] {
		for _, side := range []struct {
			key  string
			side int
		}{{"B", 1}, {"W", 2}} {
			v, ok := n[side.key]
			if !ok {
				continue
			}
			c, ok := parseCoord(strings.Join(v, ""))
			if !ok {
				return nil, fmt.Errorf("%w: move %d has bad coordinate %q", ErrBadRecord, i+1, v)
			}
			out = append(out, Entry{Side: side.side, Cell: c})
		}
	}
	return out, nil
}

func parseSize(v string) (cols, rows int) {
	cols, rows = strategy.Cols, strategy.Rows
	if v == "" {
		return
	}
	c, r, found := strings.Cut(v, ":")
	if n, err := strconv.Atoi(c); err == nil {
		cols = n
		rows = n
	}
	if found {
		if n, err := strconv.Atoi(r); err == nil {
			rows = n
		}
	}
	return
}

// ParseHeader reads a record and extracts metadata from its root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	nodes, err := readNodes(filePath)
	if err != nil {
		return nil, err
	}
	root := nodes[0]
	if gm := root.first("GM"); gm != "" && gm != GameName {
		return nil, fmt.Errorf("%s: %w: game %q is not %s", filepath.Base(filePath), ErrBadRecord, gm, GameName)
	}
	cols, rows := parseSize(root.first("SZ"))

	moves := 0
	for _, n := range nodes[1:] {
		if _, ok := n["B"]; ok {
			moves++
		}
		if _, ok := n["W"]; ok {
			moves++
		}
	}

	return &GameInfo{
		FilePath:     filePath,
		FileName:     filepath.Base(filePath),
		Cols:         cols,
		Rows:         rows,
		PlayerFirst:  root.first("PB"),
		PlayerSecond: root.first("PW"),
		Date:         root.first("DT"),
		Result:       root.first("RE"),
		MoveCount:    moves,
	}, nil
}

// ParseMovesAsEntries returns all moves of a record in play order.
func ParseMovesAsEntries(filePath string) ([]Entry, error) {
	nodes, err := readNodes(filePath)
	if err != nil {
		return nil, err
	}
	return entries(nodes)
}

// ReplayToEnd replays every move of a record from the full board and
// returns the final shape and the number of moves applied.
func ReplayToEnd(filePath string) (strategy.Skyline, int, error) {
	moves, err := ParseMovesAsEntries(filePath)
	if err != nil {
		return strategy.Skyline{}, 0, err
	}
	sky := strategy.Full
	for i, m := range moves {
		next, err := strategy.Apply(sky, m.Cell)
		if err != nil {
			return sky, i, fmt.Errorf("%w: move %d: %w", ErrBadRecord, i+1, err)
		}
		sky = next
	}
	return sky, len(moves), nil
}

// ListGames scans a directory for record files and returns their parsed
// headers, newest first. Unreadable files are skipped.
func ListGames(dir string) ([]GameInfo, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for _, e := range des {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *info)
	}
	// Names without the extension sort "x_chomp-2" after "x_chomp".
	sort.Slice(games, func(i, j int) bool {
		return strings.TrimSuffix(games[i].FileName, fileExt) > strings.TrimSuffix(games[j].FileName, fileExt)
	})
	return games, nil
}
