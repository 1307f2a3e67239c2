// Package montecarlo checks a solved value table by playing it: full games
// are simulated under the table-optimal policy and the sample mean of the
// final scores is compared against the table's root expected value.
package montecarlo

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/benjaminbarrett1/yahtzee/analyzer"
	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/stats"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

type Simmer struct {
	rules      analyzer.Rules
	table      *valuetable.Table
	iterations int
	threads    int
}

func NewSimmer(rules analyzer.Rules, table *valuetable.Table) *Simmer {
	return &Simmer{
		rules:      rules,
		table:      table,
		iterations: 20000,
		threads:    runtime.NumCPU(),
	}
}

func (s *Simmer) SetIterations(n int) {
	if n > 0 {
		s.iterations = n
	}
}

func (s *Simmer) SetThreads(n int) {
	if n > 0 {
		s.threads = n
	}
}

// Result aggregates the simulated game scores.
type Result struct {
	Iterations  int
	Mean        float64
	CIHalfWidth float64 // 95% confidence
	scores      []float64
}

// Histogram renders the score distribution as a terminal histogram.
func (r *Result) Histogram(w io.Writer) error {
	hist := histogram.Hist(15, r.scores)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

// Simulate plays full games from (0, root) under the optimal policy and
// returns the score statistics. The table must be fully solved under
// root.
func (s *Simmer) Simulate(ctx context.Context, root gamestate.CategorySet) (*Result, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan struct{}, s.threads*2)
	scoreChan := make(chan float64, s.threads*2)

	for t := 0; t < s.threads; t++ {
		g.Go(func() error {
			policy := analyzer.NewPolicy(s.rules, s.table)
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if _, ok := <-jobs; !ok {
					return gctx.Err()
				}
				score, err := s.playGame(policy, root)
				if err != nil {
					return err
				}
				select {
				case scoreChan <- score:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})
	}

	go func() {
		defer close(jobs)
		for i := 0; i < s.iterations; i++ {
			select {
			case jobs <- struct{}{}:
			case <-gctx.Done():
				return
			}
		}
	}()

	scores := make([]float64, 0, s.iterations)
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for score := range scoreChan {
			scores = append(scores, score)
		}
	}()

	if err := g.Wait(); err != nil {
		close(scoreChan)
		<-collectDone
		return nil, err
	}
	close(scoreChan)
	<-collectDone

	mean, halfWidth := stats.MeanCI(scores, 95)
	log.Info().Int("iterations", len(scores)).
		Float64("mean-score", mean).
		Float64("ci95-half-width", halfWidth).
		Dur("elapsed", time.Since(start)).
		Msg("simulation-done")
	return &Result{
		Iterations:  len(scores),
		Mean:        mean,
		CIHalfWidth: halfWidth,
		scores:      scores,
	}, nil
}

// playGame runs one full game from (0, root), always taking the
// table-optimal keep and placement, and returns the final score.
func (s *Simmer) playGame(policy *analyzer.Policy, root gamestate.CategorySet) (float64, error) {
	st := gamestate.State{Open: root}
	total := 0
	for !st.Terminal() {
		stages, err := policy.StageValues(st)
		if err != nil {
			return 0, err
		}
		roll := sample(s.rules.InitialOutcomes())
		for rerolls := s.rules.Rerolls(); rerolls >= 1; rerolls-- {
			dist := policy.BestKeep(roll, stages[rerolls-1])
			roll = sample(dist)
		}
		cat, _, gain, err := policy.BestCategory(st, roll)
		if err != nil {
			return 0, err
		}
		st, _ = st.Successor(cat, s.rules.UpperValue(roll, cat))
		total += gain
	}
	return float64(total), nil
}

func sample(dist []dice.Outcome) int {
	r := frand.Float64()
	cum := 0.0
	for _, o := range dist {
		cum += o.Prob
		if r < cum {
			return o.Roll
		}
	}
	// Probabilities sum to 1 up to rounding; fall through to the last
	// branch.
	return dist[len(dist)-1].Roll
}

// Compare logs how far the simulated mean sits from the table's root
// expected value, in confidence-interval units.
func (s *Simmer) Compare(res *Result, root gamestate.CategorySet) error {
	rootEV, err := s.table.Get(gamestate.State{Open: root}.Index())
	if err != nil {
		return err
	}
	diff := res.Mean - float64(rootEV)
	if res.CIHalfWidth > 0 && (diff > res.CIHalfWidth || diff < -res.CIHalfWidth) {
		return fmt.Errorf("simulated mean %.3f outside 95%% CI of table value %.3f (±%.3f)",
			res.Mean, rootEV, res.CIHalfWidth)
	}
	log.Info().Float64("table-ev", float64(rootEV)).
		Float64("simulated-mean", res.Mean).
		Float64("diff", diff).
		Msg("table-vs-simulation")
	return nil
}
