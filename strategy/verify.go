package strategy

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Verify re-checks every classification in t against its children:
// a winning move must lead to a losing shape and be the first such move,
// and every move out of a losing shape must lead to a winning one.
// Shapes are split by top-row count and checked concurrently.
func Verify(ctx context.Context, t *Table) error {
	found := make([][]error, Cols+1)
	g, ctx := errgroup.WithContext(ctx)
	for top := 0; top <= Cols; top++ {
		top := top
		g.Go(func() error {
			var stop error
			EachSkyline(func(s Skyline) bool {
				if int(s[0]) != top {
					return true
				}
				if err := ctx.Err(); err != nil {
					stop = err
					return false
				}
				if err := verifyShape(t, s); err != nil {
					found[top] = append(found[top], err)
				}
				return true
			})
			return stop
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var all []error
	for _, errs := range found {
		all = append(all, errs...)
	}
	return errors.Join(all...)
}

func verifyShape(t *Table, s Skyline) error {
	cl := t.Lookup(s)
	switch {
	case s == Empty:
		if cl.Outcome != Finished {
			return fmt.Errorf("empty board classified %s", cl.Outcome)
		}
		return nil
	case IsTerminal(s):
		if cl.Outcome != Losing {
			return fmt.Errorf("poison-only board classified %s", cl.Outcome)
		}
		return nil
	}

	first := Cell{Row: -1}
	for _, m := range LegalMoves(s) {
		child, err := Apply(s, m)
		if err != nil {
			return fmt.Errorf("skyline %s: %w", s, err)
		}
		if t.Lookup(child).Outcome == Losing {
			first = m
			break
		}
	}

	switch cl.Outcome {
	case Winning:
		if first.Row < 0 {
			return fmt.Errorf("skyline %s classified winning at %s but no move reaches a losing shape", s, cl.Move)
		}
		if cl.Move != first {
			return fmt.Errorf("skyline %s stores %s, first winning move is %s", s, cl.Move, first)
		}
	case Losing:
		if first.Row >= 0 {
			return fmt.Errorf("skyline %s classified losing but %s reaches a losing shape", s, first)
		}
	default:
		return fmt.Errorf("skyline %s classified %s", s, cl.Outcome)
	}
	return nil
}
