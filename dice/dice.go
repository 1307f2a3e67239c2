// Package dice implements the two collaborators the induction engine
// depends on: category scoring for a five-die roll, and enumeration of
// roll outcome distributions. Everything is precomputed over the 252
// distinct sorted rolls so the engine only ever works with small dense
// roll IDs.
package dice

import (
	"sort"

	"github.com/samber/lo"

	"github.com/benjaminbarrett1/yahtzee/gamestate"
)

const (
	// NumDice is the number of dice rolled each turn.
	NumDice = 5
	// NumFaces is the number of faces per die.
	NumFaces = 6
	// NumRolls is the number of distinct sorted rolls: multisets of size
	// 5 over 6 faces.
	NumRolls = 252
	// RerollsPerTurn is how many times a player may reroll after the
	// initial roll.
	RerollsPerTurn = 2
)

// Roll is a sorted hand of five dice, faces 1-6 ascending.
type Roll [NumDice]uint8

// NewRoll sorts the given faces into canonical form.
func NewRoll(faces ...uint8) Roll {
	var r Roll
	copy(r[:], faces)
	sort.Slice(r[:], func(i, j int) bool { return r[i] < r[j] })
	return r
}

func (r Roll) counts() [NumFaces + 1]int {
	var c [NumFaces + 1]int
	for _, d := range r {
		c[d]++
	}
	return c
}

func (r Roll) sum() int {
	return lo.SumBy(r[:], func(d uint8) int { return int(d) })
}

var smallStraights = [][]uint8{{1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}}
var largeStraights = [][]uint8{{1, 2, 3, 4, 5}, {2, 3, 4, 5, 6}}

func (r Roll) hasRun(run []uint8) bool {
	c := r.counts()
	for _, d := range run {
		if c[d] == 0 {
			return false
		}
	}
	return true
}

// Score returns the points the roll earns when placed in the given
// category. It is a pure function of the roll; the bonus is the caller's
// business.
func (r Roll) Score(cat gamestate.Category) int {
	if cat.IsUpper() {
		return r.UpperValue(cat)
	}
	c := r.counts()
	switch cat {
	case gamestate.ThreeOfAKind:
		if lo.Max(c[:]) >= 3 {
			return r.sum()
		}
	case gamestate.FourOfAKind:
		if lo.Max(c[:]) >= 4 {
			return r.sum()
		}
	case gamestate.FullHouse:
		sorted := c[1:]
		s := make([]int, len(sorted))
		copy(s, sorted)
		sort.Ints(s)
		if s[len(s)-1] == 3 && s[len(s)-2] == 2 {
			return 25
		}
	case gamestate.SmallStraight:
		for _, run := range smallStraights {
			if r.hasRun(run) {
				return 30
			}
		}
	case gamestate.LargeStraight:
		for _, run := range largeStraights {
			if r.hasRun(run) {
				return 40
			}
		}
	case gamestate.Yahtzee:
		if lo.Max(c[:]) == NumDice {
			return 50
		}
	case gamestate.Chance:
		return r.sum()
	}
	return 0
}

// UpperValue returns the roll's contribution toward the upper-section
// bonus threshold when placed in cat: the pip sum for an upper category,
// zero otherwise.
func (r Roll) UpperValue(cat gamestate.Category) int {
	pip := cat.Pip()
	if pip == 0 {
		return 0
	}
	c := r.counts()
	return c[pip] * pip
}
