// chomp-local is a terminal application to play 5x8 Chomp against a perfect engine offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chomp-local/config"
	"chomp-local/engine"
	"chomp-local/engine/local"
	"chomp-local/record"
	"chomp-local/strategy"
	"chomp-local/types"
	"chomp-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagSide       = flag.String("side", "", "Side to play (first or second)")
	flagLevel      = flag.Int("level", 0, "Engine level (1-10, 10 plays perfectly)")
	flagHints      = flag.Bool("hints", false, "Show the position verdict while playing")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
	flagLogLevel   = flag.String("loglevel", "", "Log level (debug, info, warn, error)")

	flagSuggest  = flag.String("suggest", "", "Print the move for a board mask such as ff,ff,ff,ff,fe and exit")
	flagSelfplay = flag.Bool("selfplay", false, "Let the engine play itself from the full board")
	flagInterval = flag.Int("interval", 1500, "Milliseconds between self-play moves")
	flagMaxMoves = flag.Int("maxmoves", 200, "Stop self-play after this many moves")
	flagVerify   = flag.Bool("verify", false, "Build the strategy table, check every entry and exit")
	flagServe    = flag.String("serve", "", "Serve move suggestions over HTTP on this address (\"config\" uses the configured one)")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("chomp-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}

	headless := *flagSuggest != "" || *flagSelfplay || *flagVerify || *flagServe != ""
	closeLog, err := setupLogging(cfg.LogLevel, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if headless {
		if err := runHeadless(); err != nil {
			log.Error().Err(err).Msg("failed")
			closeLog()
			os.Exit(1)
		}
		return
	}

	// Always use the default theme symbols on startup
	cfg.Theme.Symbols = config.DefaultTheme.Symbols

	// Build the table up front so the first engine reply is instant
	loadTable()

	quickStart := *flagQuickStart || *flagSide != "" || *flagLevel > 0 || *flagHints || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ☠ chomp ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, gameHint)

	// Create game layout with centered board and side panel
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	// Game board input handling
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if (event.Key() == tcell.KeyRune && event.Rune() == 'q') || event.Key() == tcell.KeyEscape {
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			selTile := gameBoard.SelectedTile()
			if selTile == nil {
				return nil
			}
			gameBoard.PlayMove(selTile.X, selTile.Y)
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, 1)
			case 'k':
				gameBoard.MoveSelection(0, -1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case 'u':
				gameBoard.Undo()
			case '?':
				gameBoard.ShowHint()
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	// History browser
	history := ui.NewHistoryBrowser(cfg.HistoryDir(), func() {
		rootPage.SwitchToPage("setup")
	})

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		// Refresh the game board with new colors
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	// Game setup screen
	setupUI := ui.NewGameSetup(
		cfg.Engine,
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg)
		},
		func() {
			history.Refresh()
			rootPage.SwitchToPage("history")
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
		func() {
			app.Stop()
		},
	)

	// Add pages - start on setup by default, or gameview if quick start
	rootPage.AddPage("setup", setupUI.Layout(), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
	rootPage.AddPage("history", history.Flex(), true, false)

	// Quick start if flags provided
	if quickStart {
		startGame(buildGameConfigFromFlags())
		// Enter focus mode if requested
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Error().Err(err).Msg("terminal ui stopped")
		closeLog()
		os.Exit(1)
	}
}

// setupLogging points the global logger at the debug file, or at stderr
// when no terminal UI owns the screen. The returned func closes the file.
func setupLogging(level string, headless bool) (func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if headless {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
		return func() {}, nil
	}

	path, err := config.LogFile()
	if err != nil {
		return nil, fmt.Errorf("locate log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return sync.OnceFunc(func() { f.Close() }), nil
}

// loadTable builds the default strategy table and logs how long it took.
func loadTable() *strategy.Table {
	start := time.Now()
	t := strategy.Default()
	log.Debug().
		Int("shapes", t.Len()).
		Dur("took", time.Since(start)).
		Msg("strategy table ready")
	return t
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	var rec *record.GameRecord
	if cfg.History.Record {
		var err error
		rec, err = record.NewGameRecord(cfg.HistoryDir(), gameCfg.PlayerSide, gameCfg.EngineLevel)
		if err != nil {
			// Recording is optional; play on without it.
			log.Warn().Err(err).Msg("game will not be recorded")
			rec = nil
		}
	}

	eng := local.NewEngine(gameCfg)
	if err := gameBoard.ConnectEngine(eng, gameCfg, rec); err != nil {
		if rec != nil {
			rec.Close()
		}
		// Show error modal
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.HidePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	rootPage.SwitchToPage("gameview")
}

// buildGameConfigFromFlags creates a GameConfig from config defaults and command-line flags.
func buildGameConfigFromFlags() engine.GameConfig {
	gameCfg := engine.GameConfig{
		PlayerSide:  types.SideFirst,
		EngineLevel: cfg.Engine.DefaultLevel,
		ShowHints:   cfg.Engine.ShowHints,
	}
	if !cfg.Engine.PlayerFirst {
		gameCfg.PlayerSide = types.SideSecond
	}

	switch *flagSide {
	case "first", "1":
		gameCfg.PlayerSide = types.SideFirst
	case "second", "2":
		gameCfg.PlayerSide = types.SideSecond
	}

	if *flagLevel >= 1 && *flagLevel <= 10 {
		gameCfg.EngineLevel = *flagLevel
	}
	if *flagHints {
		gameCfg.ShowHints = true
	}

	return gameCfg
}

// runHeadless runs the one mode selected on the command line.
func runHeadless() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *flagSuggest != "":
		return suggest(os.Stdout, *flagSuggest)
	case *flagVerify:
		return verify(ctx, os.Stdout, loadTable())
	case *flagSelfplay:
		level := cfg.Engine.DefaultLevel
		if *flagLevel >= 1 && *flagLevel <= 10 {
			level = *flagLevel
		}
		sp := selfplay{
			sel:      strategy.NewSelector(loadTable()),
			level:    level,
			interval: time.Duration(*flagInterval) * time.Millisecond,
			maxMoves: *flagMaxMoves,
		}
		return sp.run(ctx, os.Stdout)
	default:
		return serve(ctx, *flagServe)
	}
}
