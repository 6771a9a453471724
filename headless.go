package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"chomp-local/engine"
	"chomp-local/server"
	"chomp-local/strategy"
	"chomp-local/types"
)

// suggest prints the move for a single board mask.
func suggest(w io.Writer, mask string) error {
	m, err := strategy.ParseMask(mask)
	if err != nil {
		return fmt.Errorf("%w: %w", strategy.ErrMalformedBoard, err)
	}
	sky, err := strategy.ToSkyline(m)
	if err != nil {
		return err
	}
	if strategy.IsTerminal(sky) || sky == strategy.Empty {
		fmt.Fprintln(w, "game over")
		return nil
	}

	mv, _, err := strategy.Choose(sky)
	if err != nil {
		return err
	}
	verdict := "no forced win"
	if mv.Forced {
		verdict = "forced win"
	}
	fmt.Fprintf(w, "%s %s\n", mv, verdict)
	return nil
}

// verify re-checks the whole table.
func verify(ctx context.Context, w io.Writer, t *strategy.Table) error {
	start := time.Now()
	if err := strategy.Verify(ctx, t); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("table verified")
	fmt.Fprintf(w, "ok: %d shapes verified\n", t.Len())
	return nil
}

// selfplay lets the engine play both sides from the full board.
type selfplay struct {
	sel      *strategy.Selector
	level    int
	interval time.Duration
	maxMoves int

	// intn returns a value in [0, n); swapped out in tests.
	intn func(n int) int
}

// pick plays the way the in-game engine does at sp.level.
func (sp *selfplay) pick(sky strategy.Skyline) (strategy.Move, error) {
	intn := sp.intn
	if intn == nil {
		intn = frand.Intn
	}
	return engine.PickMove(sp.sel, sky, sp.level, intn)
}

// run plays until someone takes the poison, the move cap is hit or ctx
// is cancelled, and prints the winner.
func (sp *selfplay) run(ctx context.Context, w io.Writer) error {
	sky := strategy.Full
	side := types.SideFirst
	for n := 1; n <= sp.maxMoves; n++ {
		mv, err := sp.pick(sky)
		if err != nil {
			return err
		}
		if sky, err = strategy.Apply(sky, mv.Cell()); err != nil {
			return fmt.Errorf("move %d: %w", n, err)
		}
		log.Info().
			Int("move", n).
			Int("side", side).
			Str("cell", mv.String()).
			Bool("forced", mv.Forced).
			Str("skyline", sky.String()).
			Msg("self-play move")

		if sky == strategy.Empty {
			winner := "First"
			if side == types.SideFirst {
				winner = "Second"
			}
			fmt.Fprintf(w, "%s player wins after %d moves\n", winner, n)
			return nil
		}
		side = types.OtherSide(side)

		if sp.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sp.interval):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "stopped after %d moves\n", sp.maxMoves)
	return nil
}

// serve runs the suggestion server until ctx is cancelled.
func serve(ctx context.Context, addr string) error {
	if addr == "config" {
		addr = cfg.Server.Addr
	}
	srv := server.New(strategy.NewSelector(loadTable()))
	return srv.ListenAndServe(ctx, addr)
}
