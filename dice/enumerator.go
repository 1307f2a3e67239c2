package dice

import (
	"github.com/rs/zerolog/log"

	"github.com/benjaminbarrett1/yahtzee/gamestate"
)

// Outcome is one branch of a roll distribution: a roll ID and the
// probability of ending up with that roll.
type Outcome struct {
	Roll int
	Prob float64
}

// Enumerator precomputes, once, everything the solver asks about dice: the
// 252 distinct rolls, their category scores, and for every distinct kept
// sub-multiset the distribution over completed rolls. The original
// analyser built the same lookup so that only 252 rolls are ever
// evaluated.
type Enumerator struct {
	rolls   []Roll
	index   map[Roll]int
	initial []Outcome
	scores  [][gamestate.NumCategories]int
	uppers  [][gamestate.NumCategories]int
	// keeps[id] holds, for each distinct sub-multiset of roll id
	// (including keeping everything and keeping nothing), the outcome
	// distribution of rerolling the rest. Distributions are shared
	// between rolls with a common keep.
	keeps [][][]Outcome
}

var factorial = [NumDice + 1]float64{1, 1, 2, 6, 24, 120}

// multisets returns every nondecreasing tuple of n faces along with its
// probability when n fair dice are thrown.
func multisets(n int) ([][]uint8, []float64) {
	var tuples [][]uint8
	var probs []float64
	tuple := make([]uint8, n)
	sides := 1.0
	for i := 0; i < n; i++ {
		sides *= NumFaces
	}
	var rec func(pos int, min uint8)
	rec = func(pos int, min uint8) {
		if pos == n {
			t := make([]uint8, n)
			copy(t, tuple)
			tuples = append(tuples, t)
			var counts [NumFaces + 1]int
			for _, d := range t {
				counts[d]++
			}
			perms := factorial[n]
			for _, c := range counts {
				perms /= factorial[c]
			}
			probs = append(probs, perms/sides)
			return
		}
		for f := min; f <= NumFaces; f++ {
			tuple[pos] = f
			rec(pos+1, f)
		}
	}
	rec(0, 1)
	return tuples, probs
}

// NewEnumerator builds the full roll universe. It is cheap enough to call
// at startup; share one instance across solver threads, it is read-only
// after construction.
func NewEnumerator() *Enumerator {
	e := &Enumerator{index: make(map[Roll]int)}

	tuples, probs := multisets(NumDice)
	for i, t := range tuples {
		r := NewRoll(t...)
		e.rolls = append(e.rolls, r)
		e.index[r] = i
		e.initial = append(e.initial, Outcome{Roll: i, Prob: probs[i]})
	}

	e.scores = make([][gamestate.NumCategories]int, len(e.rolls))
	e.uppers = make([][gamestate.NumCategories]int, len(e.rolls))
	for i, r := range e.rolls {
		for c := gamestate.Ones; c < gamestate.NumCategories; c++ {
			e.scores[i][c] = r.Score(c)
			e.uppers[i][c] = r.UpperValue(c)
		}
	}

	// Reroll distributions for every distinct keep, cached by the keep's
	// face counts so rolls sharing a keep share the slice.
	keepCache := make(map[int][]Outcome)
	completions := make([][][]uint8, NumDice+1)
	completionProbs := make([][]float64, NumDice+1)
	for n := 0; n <= NumDice; n++ {
		completions[n], completionProbs[n] = multisets(n)
	}

	e.keeps = make([][][]Outcome, len(e.rolls))
	for i, r := range e.rolls {
		counts := r.counts()
		var kept [NumFaces + 1]int
		var walk func(face int)
		walk = func(face int) {
			if face > NumFaces {
				key, size := keepKey(kept)
				dist, ok := keepCache[key]
				if !ok {
					dist = e.rerollDistribution(kept, size, completions[NumDice-size], completionProbs[NumDice-size])
					keepCache[key] = dist
				}
				e.keeps[i] = append(e.keeps[i], dist)
				return
			}
			for k := 0; k <= counts[face]; k++ {
				kept[face] = k
				walk(face + 1)
			}
			kept[face] = 0
		}
		walk(1)
	}

	log.Debug().Int("num-rolls", len(e.rolls)).
		Int("num-distinct-keeps", len(keepCache)).
		Msg("dice-enumerator-ready")
	return e
}

func keepKey(kept [NumFaces + 1]int) (key, size int) {
	for f := 1; f <= NumFaces; f++ {
		key = key*NumFaces + kept[f]
		size += kept[f]
	}
	return key, size
}

func (e *Enumerator) rerollDistribution(kept [NumFaces + 1]int, size int,
	completions [][]uint8, probs []float64) []Outcome {

	byRoll := make(map[int]float64)
	faces := make([]uint8, 0, NumDice)
	for f := uint8(1); f <= NumFaces; f++ {
		for k := 0; k < kept[f]; k++ {
			faces = append(faces, f)
		}
	}
	for i, comp := range completions {
		full := NewRoll(append(faces[:size:size], comp...)...)
		byRoll[e.index[full]] += probs[i]
	}
	dist := make([]Outcome, 0, len(byRoll))
	for id, p := range byRoll {
		dist = append(dist, Outcome{Roll: id, Prob: p})
	}
	return dist
}

// NumOutcomes returns the number of distinct end-of-roll outcomes.
func (e *Enumerator) NumOutcomes() int {
	return len(e.rolls)
}

// InitialOutcomes is the distribution of rolling all five dice.
func (e *Enumerator) InitialOutcomes() []Outcome {
	return e.initial
}

// KeepOutcomes returns, for each distinct keep choice available from the
// given roll, the distribution over completed rolls after rerolling the
// dice not kept. Keeping all five dice appears as a single-outcome
// distribution, so "stand pat" needs no special case in the engine.
func (e *Enumerator) KeepOutcomes(roll int) [][]Outcome {
	return e.keeps[roll]
}

// CategoryScore returns the score of the identified roll in the category.
func (e *Enumerator) CategoryScore(roll int, cat gamestate.Category) int {
	return e.scores[roll][cat]
}

// UpperValue returns the identified roll's upper-section contribution.
func (e *Enumerator) UpperValue(roll int, cat gamestate.Category) int {
	return e.uppers[roll][cat]
}

// Rerolls returns the number of rerolls allowed after the initial roll.
func (e *Enumerator) Rerolls() int {
	return RerollsPerTurn
}

// RollByID returns the sorted dice for a roll ID.
func (e *Enumerator) RollByID(id int) Roll {
	return e.rolls[id]
}

// IDFor looks up the roll ID for a hand of dice.
func (e *Enumerator) IDFor(r Roll) (int, bool) {
	id, ok := e.index[NewRoll(r[:]...)]
	return id, ok
}
