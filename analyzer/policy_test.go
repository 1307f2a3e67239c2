package analyzer

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

func solvedFixedTable(t *testing.T) (Rules, *valuetable.Table, gamestate.CategorySet) {
	t.Helper()
	rules := fixedTwoCategoryRules()
	table := valuetable.New()
	s := NewSolver(rules, table)
	root := gamestate.CategorySet(0).With(gamestate.Ones).With(gamestate.Chance)
	if err := s.SolveSubset(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	return rules, table, root
}

func TestPolicyStageValues(t *testing.T) {
	is := is.New(t)
	rules, table, root := solvedFixedTable(t)
	p := NewPolicy(rules, table)

	stages, err := p.StageValues(gamestate.State{Open: root})
	is.NoErr(err)
	is.Equal(len(stages), rules.Rerolls()+1)
	// Deterministic dice: rerolling changes nothing, every stage agrees.
	for _, stage := range stages {
		is.True(within(stage[0], 51, 1e-6))
	}
}

func TestPolicyBestCategory(t *testing.T) {
	is := is.New(t)
	rules, table, _ := solvedFixedTable(t)
	p := NewPolicy(rules, table)

	// From upper 42 the Ones placement crosses the bonus threshold; both
	// orders reach 86 and the tie resolves to the first category in bit
	// order.
	st := gamestate.State{
		UpperScore: 42,
		Open:       gamestate.CategorySet(0).With(gamestate.Ones).With(gamestate.Chance),
	}
	cat, val, gain, err := p.BestCategory(st, 0)
	is.NoErr(err)
	is.Equal(cat, gamestate.Ones)
	is.Equal(gain, 21+gamestate.UpperBonus)
	is.True(within(val, 86, 1e-6))

	_, _, _, err = p.BestCategory(gamestate.State{UpperScore: 3}, 0)
	is.True(err != nil) // terminal state has nowhere to place a roll
}

func TestPolicyBestKeep(t *testing.T) {
	is := is.New(t)
	rules, table, root := solvedFixedTable(t)
	p := NewPolicy(rules, table)

	stages, err := p.StageValues(gamestate.State{Open: root})
	is.NoErr(err)
	dist := p.BestKeep(0, stages[0])
	is.Equal(len(dist), 1)
	is.Equal(dist[0].Roll, 0)
}
