package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chomp-local/config"
	"chomp-local/engine"
	"chomp-local/record"
	"chomp-local/strategy"
	"chomp-local/types"
)

type fakeEngine struct {
	undos  int
	myTurn bool
	state  *types.BoardState
	onMove func(x, y, side int, bs *types.BoardState)
	onEnd  func(outcome string)
}

func (f *fakeEngine) Connect() error                   { return nil }
func (f *fakeEngine) GetBoardState() *types.BoardState { return f.state.Copy() }
func (f *fakeEngine) PlayMove(x, y int) error          { return nil }
func (f *fakeEngine) IsMyTurn() bool                   { return f.myTurn }
func (f *fakeEngine) GetPlayerSide() int               { return types.SideFirst }
func (f *fakeEngine) Undo() error                      { f.undos++; return nil }
func (f *fakeEngine) Hint() (int, int, bool, error)    { return 6, 4, true, nil }
func (f *fakeEngine) Close()                           {}

func (f *fakeEngine) OnMove(cb func(x, y, side int, bs *types.BoardState)) { f.onMove = cb }
func (f *fakeEngine) OnGameEnd(cb func(outcome string))                    { f.onEnd = cb }

func newTestBoard(t *testing.T) (*BoardUI, *fakeEngine) {
	t.Helper()
	cfg := config.DefaultConfig
	board := NewBoard(tview.NewApplication(), &cfg, tview.NewTextView())
	CreateGameLayout(board, board.hint)

	eng := &fakeEngine{myTurn: true, state: types.NewBoardState()}
	require.NoError(t, board.ConnectEngine(eng, engine.DefaultConfig(), nil))
	return board, eng
}

func TestBoardBitePreview(t *testing.T) {
	board, _ := newTestBoard(t)
	board.selX, board.selY = 3, 2

	assert.True(t, board.bitten(0, 0))
	assert.True(t, board.bitten(3, 2))
	assert.False(t, board.bitten(4, 2))
	assert.False(t, board.bitten(3, 3))

	board.BoardState.Cells[0][0] = false
	assert.False(t, board.bitten(0, 0), "eaten cells are not bitten again")
}

func TestBoardSelectionStartsAtPoison(t *testing.T) {
	board, _ := newTestBoard(t)
	assert.Nil(t, board.SelectedTile())

	board.MoveSelection(0, -1)
	assert.Equal(t, &types.BoardPos{X: strategy.PoisonCol, Y: strategy.PoisonRow}, board.SelectedTile())

	board.MoveSelection(0, 1)
	assert.Equal(t, strategy.PoisonRow, board.selY, "selection stays on the board")
	board.MoveSelection(-1, -1)
	assert.Equal(t, &types.BoardPos{X: strategy.PoisonCol - 1, Y: strategy.PoisonRow - 1}, board.SelectedTile())
}

func TestBoardUndoBacksUpToPlayerMove(t *testing.T) {
	board, eng := newTestBoard(t)
	eng.onMove(0, 0, types.SideFirst, eng.state)
	eng.onMove(1, 0, types.SideSecond, eng.state)
	eng.onMove(0, 1, types.SideFirst, eng.state)
	eng.onMove(2, 0, types.SideSecond, eng.state)
	require.Len(t, board.moveHistory, 4)

	board.Undo()
	assert.Equal(t, 2, eng.undos)
	assert.Len(t, board.moveHistory, 2)

	// The player took the poison: only that move is taken back.
	eng.onMove(strategy.PoisonCol, strategy.PoisonRow, types.SideFirst, eng.state)
	eng.onEnd("Second player wins")
	require.True(t, board.IsFinished())
	board.Undo()
	assert.Equal(t, 3, eng.undos)
	assert.Len(t, board.moveHistory, 2)
	assert.False(t, board.IsFinished())
}

func TestBoardUndoWaitsForTurn(t *testing.T) {
	board, eng := newTestBoard(t)
	eng.onMove(0, 0, types.SideFirst, eng.state)
	eng.myTurn = false
	board.Undo()
	assert.Zero(t, eng.undos)
}

func TestBoardHint(t *testing.T) {
	board, _ := newTestBoard(t)
	board.ShowHint()
	assert.Equal(t, types.BoardPos{X: 6, Y: 4}, board.hintPos)
	assert.True(t, board.hintForced)
	assert.Contains(t, board.hint.GetText(true), "(5,7)")
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestGameSetupDefaults(t *testing.T) {
	s := NewGameSetup(config.EngineConfig{DefaultLevel: 4, PlayerFirst: false, ShowHints: true}, func(engine.GameConfig) {}, nil, nil, nil)
	assert.Equal(t, engine.GameConfig{PlayerSide: types.SideSecond, EngineLevel: 4, ShowHints: true}, s.GameConfig())
}

func TestGameSetupKeys(t *testing.T) {
	var started []engine.GameConfig
	quit := 0
	s := NewGameSetup(config.DefaultConfig.Engine, func(gc engine.GameConfig) {
		started = append(started, gc)
	}, nil, nil, func() { quit++ })

	s.handleKey(key(tcell.KeyDown)) // First -> Second
	assert.Equal(t, types.SideSecond, s.GameConfig().PlayerSide)
	s.handleKey(key(tcell.KeyDown)) // leaves the radio group
	assert.Equal(t, 1, s.focus)

	s.handleKey(key(tcell.KeyLeft))
	s.handleKey(key(tcell.KeyLeft))
	assert.Equal(t, 8, s.GameConfig().EngineLevel)

	s.handleKey(key(tcell.KeyTab))
	s.handleKey(runeKey(' '))
	assert.True(t, s.GameConfig().ShowHints)

	s.handleKey(key(tcell.KeyEnter))
	require.Len(t, started, 1)
	assert.Equal(t, engine.GameConfig{PlayerSide: types.SideSecond, EngineLevel: 8, ShowHints: true}, started[0])

	s.handleKey(runeKey('q'))
	s.handleKey(key(tcell.KeyEscape))
	assert.Equal(t, 2, quit)
}

func TestGameSetupButtonFocus(t *testing.T) {
	s := NewGameSetup(config.DefaultConfig.Engine, func(engine.GameConfig) {}, nil, nil, nil)
	s.handleKey(key(tcell.KeyBacktab))
	assert.True(t, s.onButton())
	s.handleKey(key(tcell.KeyLeft))
	assert.Equal(t, len(s.controls)-2, s.focus)
}

func TestLevelSliderClamps(t *testing.T) {
	s := NewLevelSlider("Strength", 1, 10, 42, nil)
	assert.Equal(t, 10, s.Value())
	s.HandleKey(key(tcell.KeyRight))
	assert.Equal(t, 10, s.Value())
	s.SetValue(-3)
	assert.Equal(t, 1, s.Value())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "C H O M P", spaced("chomp"))
	assert.Equal(t, "1st won", resultText("B+"))
	assert.Equal(t, "2nd won", resultText("W+"))
	assert.Equal(t, "unfinished", resultText("?"))
	assert.Equal(t, "perfect", describeLevel(10))
	assert.Equal(t, "mostly random", describeLevel(2))
}

func TestBoardCloseDropsEmptyRecord(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig
	board := NewBoard(tview.NewApplication(), &cfg, tview.NewTextView())

	empty, err := record.NewGameRecord(dir, types.SideFirst, 10)
	require.NoError(t, err)
	eng := &fakeEngine{myTurn: true, state: types.NewBoardState()}
	require.NoError(t, board.ConnectEngine(eng, engine.DefaultConfig(), empty))
	board.Close()
	assert.NoFileExists(t, empty.FilePath)

	played, err := record.NewGameRecord(dir, types.SideFirst, 10)
	require.NoError(t, err)
	eng = &fakeEngine{myTurn: true, state: types.NewBoardState()}
	require.NoError(t, board.ConnectEngine(eng, engine.DefaultConfig(), played))
	eng.onMove(0, 4, types.SideFirst, eng.state)
	board.Close()
	assert.FileExists(t, played.FilePath)

	entries, err := record.ParseMovesAsEntries(played.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []record.Entry{{Side: types.SideFirst, Cell: strategy.Cell{Row: 4, Col: 0}}}, entries)
}

func TestGameLabel(t *testing.T) {
	dir := t.TempDir()
	write := func(name, moves string) record.GameInfo {
		path := filepath.Join(dir, name)
		content := "(;GM[Chomp]FF[4]SZ[8:5]PB[Player]PW[Engine Level 10]DT[2026-01-15]RE[?]" + moves + ")\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		info, err := record.ParseHeader(path)
		require.NoError(t, err)
		return *info
	}

	assert.Equal(t, "2026-01-15   1 moves  unfinished  35 left", gameLabel(write("a.sgf", ";B[ae]")))
	assert.Equal(t, "2026-01-15   2 moves  unfinished  [red]corrupt[-]", gameLabel(write("b.sgf", ";B[ae];W[aa]")))
	assert.Equal(t, "2026-01-15   0 moves  unfinished  40 left", gameLabel(write("c.sgf", "")))
}
