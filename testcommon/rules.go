// Package testcommon holds reduced rule universes shared by tests. With a
// single deterministic roll outcome, every expected value can be computed
// by hand, which makes the induction engine's arithmetic checkable
// exactly.
package testcommon

import (
	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
)

// FixedRules is a Rules implementation whose dice always land the same
// way: one outcome, probability 1, fixed per-category scores.
type FixedRules struct {
	Scores     map[gamestate.Category]int
	Uppers     map[gamestate.Category]int
	NumRerolls int
}

// NewFixedRules builds deterministic rules with the given category scores
// and upper-section contributions, and the standard two rerolls.
func NewFixedRules(scores, uppers map[gamestate.Category]int) *FixedRules {
	return &FixedRules{Scores: scores, Uppers: uppers, NumRerolls: dice.RerollsPerTurn}
}

func (f *FixedRules) NumOutcomes() int { return 1 }

func (f *FixedRules) InitialOutcomes() []dice.Outcome {
	return []dice.Outcome{{Roll: 0, Prob: 1}}
}

func (f *FixedRules) KeepOutcomes(roll int) [][]dice.Outcome {
	return [][]dice.Outcome{{{Roll: 0, Prob: 1}}}
}

func (f *FixedRules) CategoryScore(roll int, cat gamestate.Category) int {
	return f.Scores[cat]
}

func (f *FixedRules) UpperValue(roll int, cat gamestate.Category) int {
	return f.Uppers[cat]
}

func (f *FixedRules) Rerolls() int { return f.NumRerolls }
