package analyzer

import (
	"fmt"

	"github.com/benjaminbarrett1/yahtzee/dice"
	"github.com/benjaminbarrett1/yahtzee/gamestate"
	"github.com/benjaminbarrett1/yahtzee/valuetable"
)

// Policy answers "what would optimal play do here" from a completed value
// table. It recomputes the within-turn stage values for one state at a
// time, so it needs only the per-state table entries the solver already
// produced.
type Policy struct {
	rules Rules
	table *valuetable.Table
}

func NewPolicy(rules Rules, table *valuetable.Table) *Policy {
	return &Policy{rules: rules, table: table}
}

// StageValues returns the post-roll value vectors for the state, indexed
// by rerolls remaining: stages[0][roll] is the value of holding roll with
// no rerolls left (category choice), stages[i][roll] the value with i
// rerolls left. len(stages) == Rerolls()+1.
func (p *Policy) StageValues(st gamestate.State) ([][]float64, error) {
	n := p.rules.NumOutcomes()
	stages := make([][]float64, p.rules.Rerolls()+1)

	final := make([]float64, n)
	for roll := 0; roll < n; roll++ {
		_, val, _, err := p.BestCategory(st, roll)
		if err != nil {
			return nil, err
		}
		final[roll] = val
	}
	stages[0] = final

	for i := 1; i < len(stages); i++ {
		prev := stages[i-1]
		cur := make([]float64, n)
		for roll := 0; roll < n; roll++ {
			_, ev := p.bestKeep(roll, prev)
			cur[roll] = ev
		}
		stages[i] = cur
	}
	return stages, nil
}

// BestCategory returns the optimal placement of roll from the state: the
// chosen category, the value of that line (points gained including any
// bonus, plus the successor's expected value), and the points gained.
func (p *Policy) BestCategory(st gamestate.State, roll int) (gamestate.Category, float64, int, error) {
	if st.Terminal() {
		return 0, 0, 0, fmt.Errorf("no open category to place roll in at state %v", st)
	}
	var bestCat gamestate.Category
	bestVal := -1.0
	bestGain := 0
	for _, cat := range st.Open.Categories() {
		succ, bonus := st.Successor(cat, p.rules.UpperValue(roll, cat))
		idx := succ.Index()
		if !p.table.IsKnown(idx) {
			return 0, 0, 0, fmt.Errorf("successor %d (%v) of state %v is unknown", idx, succ, st)
		}
		fv, err := p.table.Get(idx)
		if err != nil {
			return 0, 0, 0, err
		}
		gain := p.rules.CategoryScore(roll, cat) + bonus
		val := float64(gain) + float64(fv)
		if val > bestVal {
			bestVal, bestCat, bestGain = val, cat, gain
		}
	}
	return bestCat, bestVal, bestGain, nil
}

// BestKeep returns the outcome distribution of the optimal keep choice
// for roll, given the value vector of the following stage.
func (p *Policy) BestKeep(roll int, nextStage []float64) []dice.Outcome {
	dist, _ := p.bestKeep(roll, nextStage)
	return dist
}

func (p *Policy) bestKeep(roll int, nextStage []float64) ([]dice.Outcome, float64) {
	var bestDist []dice.Outcome
	best := -1.0
	for _, dist := range p.rules.KeepOutcomes(roll) {
		ev := 0.0
		for _, o := range dist {
			ev += o.Prob * nextStage[o.Roll]
		}
		if ev > best {
			best, bestDist = ev, dist
		}
	}
	return bestDist, best
}
