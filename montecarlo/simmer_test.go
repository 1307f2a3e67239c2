package montecarlo

import (
	"bytes"
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/benjaminbarrett1/yahtzee/analyzer"
	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/testcommon"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

func TestSimulateDeterministic(t *testing.T) {
	is := is.New(t)
	rules := testcommon.NewFixedRules(
		map[gamestate.Category]int{gamestate.Ones: 21, gamestate.Chance: 30},
		map[gamestate.Category]int{gamestate.Ones: 21},
	)
	table := valuetable.New()
	root := gamestate.CategorySet(0).With(gamestate.Ones).With(gamestate.Chance)
	s := analyzer.NewSolver(rules, table)
	is.NoErr(s.SolveSubset(context.Background(), root))

	simmer := NewSimmer(rules, table)
	simmer.SetIterations(64)
	simmer.SetThreads(4)
	res, err := simmer.Simulate(context.Background(), root)
	is.NoErr(err)
	is.Equal(res.Iterations, 64)
	// Deterministic dice: every simulated game scores exactly the
	// table's expected value.
	is.True(res.Mean > 50.999999 && res.Mean < 51.000001)
	is.Equal(res.CIHalfWidth, 0.0)
	is.NoErr(simmer.Compare(res, root))
}

func TestSimulateCancelled(t *testing.T) {
	is := is.New(t)
	rules := testcommon.NewFixedRules(
		map[gamestate.Category]int{gamestate.Chance: 30}, nil)
	table := valuetable.New()
	root := gamestate.CategorySet(0).With(gamestate.Chance)
	s := analyzer.NewSolver(rules, table)
	is.NoErr(s.SolveSubset(context.Background(), root))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	simmer := NewSimmer(rules, table)
	simmer.SetIterations(100000)
	_, err := simmer.Simulate(ctx, root)
	is.True(err != nil)
}

func TestSampleSingleton(t *testing.T) {
	is := is.New(t)
	is.Equal(sample([]dice.Outcome{{Roll: 7, Prob: 1}}), 7)
}

func TestHistogramRenders(t *testing.T) {
	is := is.New(t)
	res := &Result{
		Iterations: 5,
		scores:     []float64{180, 210, 230, 250, 320},
	}
	var buf bytes.Buffer
	is.NoErr(res.Histogram(&buf))
	is.True(buf.Len() > 0)
}
