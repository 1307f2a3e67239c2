// Package analyzer fills the optimal-play value table by backward
// induction. A state's expected value depends only on states with strictly
// fewer open categories, so the fill proceeds level by level over the
// open-category count, terminal states first; states within one level are
// mutually independent and are computed in parallel with a barrier between
// levels.
package analyzer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

// Rules is the collaborator surface the engine needs: category scoring for
// a roll, and the roll outcome distributions. The production implementation
// is dice.Enumerator; tests substitute reduced universes.
type Rules interface {
	// NumOutcomes is the number of distinct end-of-roll outcomes; roll IDs
	// passed to the other methods are in [0, NumOutcomes).
	NumOutcomes() int
	// InitialOutcomes is the distribution of rolling all dice.
	InitialOutcomes() []dice.Outcome
	// KeepOutcomes returns one outcome distribution per distinct keep
	// choice available from the roll, keeping everything included.
	KeepOutcomes(roll int) [][]dice.Outcome
	// CategoryScore is the score for placing the roll in the category.
	CategoryScore(roll int, cat gamestate.Category) int
	// UpperValue is the roll's upper-section contribution in the category.
	UpperValue(roll int, cat gamestate.Category) int
	// Rerolls is the number of rerolls allowed after the initial roll.
	Rerolls() int
}

// Solver drives the dependency-ordered fill of a value table. The table
// is written exactly once per state; a successor lookup that finds the
// unknown sentinel is an ordering bug and aborts the whole computation.
type Solver struct {
	rules   Rules
	table   *valuetable.Table
	threads int
}

// NewSolver creates a solver writing into the given table. The table must
// be sized for the full state space (or for whatever index range the root
// subset reaches).
func NewSolver(rules Rules, table *valuetable.Table) *Solver {
	return &Solver{
		rules:   rules,
		table:   table,
		threads: runtime.NumCPU(),
	}
}

// SetThreads caps the number of worker goroutines per level.
func (s *Solver) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	s.threads = n
}

// Solve fills every state reachable in a full game.
func (s *Solver) Solve(ctx context.Context) error {
	return s.SolveSubset(ctx, gamestate.AllCategories)
}

// SolveSubset fills every state whose open set is a subset of root, for
// all upper scores. The root state's value is then table.Get of
// (0, root).
func (s *Solver) SolveSubset(ctx context.Context, root gamestate.CategorySet) error {
	if root&^gamestate.CategoryMask != 0 {
		return fmt.Errorf("root category set %#x has bits outside the %d-category range",
			uint16(root), gamestate.NumCategories)
	}
	start := time.Now()

	// Group the subsets of root by open-category count. The terminal
	// level has the single empty set.
	levels := make([][]gamestate.CategorySet, root.Count()+1)
	sub := root
	for {
		levels[sub.Count()] = append(levels[sub.Count()], sub)
		if sub == 0 {
			break
		}
		sub = (sub - 1) & root
	}

	// Terminal states: no categories left, no future score.
	for upper := 0; upper <= gamestate.MaxUpperScore; upper++ {
		st := gamestate.State{UpperScore: upper}
		if err := s.table.Set(st.Index(), 0); err != nil {
			return err
		}
	}

	for count := 1; count < len(levels); count++ {
		levelStart := time.Now()
		g, gctx := errgroup.WithContext(ctx)
		jobChan := make(chan gamestate.CategorySet, s.threads*2)
		for t := 0; t < s.threads; t++ {
			g.Go(func() error {
				w := newWorker(s)
				for {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}
					open, ok := <-jobChan
					if !ok {
						// Drained; surface the cancellation if one
						// arrived while we were blocked.
						return gctx.Err()
					}
					if err := w.fillStates(open); err != nil {
						return err
					}
				}
			})
		}
	queue:
		for _, open := range levels[count] {
			select {
			case jobChan <- open:
			case <-gctx.Done():
				break queue
			}
		}
		close(jobChan)
		if err := g.Wait(); err != nil {
			return fmt.Errorf("filling level %d: %w", count, err)
		}
		log.Debug().Int("open-categories", count).
			Int("num-sets", len(levels[count])).
			Dur("elapsed", time.Since(levelStart)).
			Msg("level-filled")
	}

	rootIdx := gamestate.State{Open: root}.Index()
	rootEV, err := s.table.Get(rootIdx)
	if err != nil {
		return err
	}
	log.Info().Stringer("root", gamestate.State{Open: root}).
		Float32("expected-value", rootEV).
		Dur("elapsed", time.Since(start)).
		Msg("backward-induction-done")
	return nil
}

// Verify reports an error if any state under root is still unknown; a
// completed fill must leave no sentinel behind.
func (s *Solver) Verify(root gamestate.CategorySet) error {
	sub := root
	for {
		for upper := 0; upper <= gamestate.MaxUpperScore; upper++ {
			st := gamestate.State{UpperScore: upper, Open: sub}
			if !s.table.IsKnown(st.Index()) {
				return fmt.Errorf("state %d (%v) still unknown after fill", st.Index(), st)
			}
		}
		if sub == 0 {
			break
		}
		sub = (sub - 1) & root
	}
	return nil
}

// worker owns the per-thread scratch space: two value vectors indexed by
// roll ID, reused across the decision stages of every state it fills.
type worker struct {
	s    *Solver
	cur  []float64
	next []float64
}

func newWorker(s *Solver) *worker {
	n := s.rules.NumOutcomes()
	return &worker{s: s, cur: make([]float64, n), next: make([]float64, n)}
}

// fillStates computes and stores the value of (upper, open) for every
// upper score, for one open set. All successor states have strictly fewer
// open categories and were resolved in an earlier level.
func (w *worker) fillStates(open gamestate.CategorySet) error {
	cats := open.Categories()
	for upper := 0; upper <= gamestate.MaxUpperScore; upper++ {
		st := gamestate.State{UpperScore: upper, Open: open}
		ev, err := w.stateValue(st, cats)
		if err != nil {
			return err
		}
		if err := w.s.table.Set(st.Index(), float32(ev)); err != nil {
			return err
		}
	}
	return nil
}

// stateValue runs the within-turn decision stages backwards: first the
// category choice for every possible final roll, then each reroll
// decision as a max over keep choices of the expectation of the later
// stage, and finally the expectation over the initial roll.
func (w *worker) stateValue(st gamestate.State, cats []gamestate.Category) (float64, error) {
	rules := w.s.rules
	n := rules.NumOutcomes()

	// Category choice: best placement of each roll, counting the score,
	// any bonus the placement unlocks, and the successor state's value.
	for roll := 0; roll < n; roll++ {
		best := 0.0
		for _, cat := range cats {
			succ, bonus := st.Successor(cat, rules.UpperValue(roll, cat))
			idx := succ.Index()
			if !w.s.table.IsKnown(idx) {
				return 0, fmt.Errorf(
					"successor %d (%v) of state %d (%v) is unknown: fill order violated",
					idx, succ, st.Index(), st)
			}
			fv, err := w.s.table.Get(idx)
			if err != nil {
				return 0, err
			}
			val := float64(rules.CategoryScore(roll, cat)+bonus) + float64(fv)
			if val > best {
				best = val
			}
		}
		w.cur[roll] = best
	}

	// Reroll decisions, last to first. Keeping all dice is one of the
	// keep choices, so standing pat needs no special case.
	for stage := 0; stage < rules.Rerolls(); stage++ {
		for roll := 0; roll < n; roll++ {
			best := 0.0
			for _, dist := range rules.KeepOutcomes(roll) {
				ev := 0.0
				for _, o := range dist {
					ev += o.Prob * w.cur[o.Roll]
				}
				if ev > best {
					best = ev
				}
			}
			w.next[roll] = best
		}
		w.cur, w.next = w.next, w.cur
	}

	// Expectation over the initial roll of all dice.
	ev := 0.0
	for _, o := range rules.InitialOutcomes() {
		ev += o.Prob * w.cur[o.Roll]
	}
	return ev, nil
}
