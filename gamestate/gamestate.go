package gamestate

import (
	"fmt"
	"math/bits"
)

// Category identifies one of the 13 scoring boxes on a Yahtzee card.
type Category uint8

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Yahtzee
	Chance
)

// NumCategories is the number of scoring boxes; it is also the width of
// the open-category bit field in a state index.
const NumCategories = 13

var categoryNames = [NumCategories]string{
	"Ones", "Twos", "Threes", "Fours", "Fives", "Sixes",
	"Three of a kind", "Four of a kind", "Full house",
	"Small straight", "Large straight", "Yahtzee", "Chance",
}

func (c Category) String() string {
	if int(c) >= NumCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// IsUpper is true for the six upper-section categories, whose scores count
// toward the bonus threshold.
func (c Category) IsUpper() bool {
	return c <= Sixes
}

// Pip returns the die face an upper category scores (1 for Ones, ... 6 for
// Sixes), or 0 for lower-section categories.
func (c Category) Pip() int {
	if !c.IsUpper() {
		return 0
	}
	return int(c) + 1
}

// CategorySet is a 13-bit set of open (still unplayed) categories. The
// least significant bit corresponds to Ones.
type CategorySet uint16

const CategoryMask CategorySet = 1<<NumCategories - 1

// AllCategories is the set at the start of a game.
const AllCategories = CategoryMask

func (s CategorySet) Has(c Category) bool {
	return s>>c&1 == 1
}

func (s CategorySet) With(c Category) CategorySet {
	return s | 1<<c
}

func (s CategorySet) Without(c Category) CategorySet {
	return s &^ (1 << c)
}

// Count returns the number of open categories; states with fewer open
// categories are resolved earlier by the backward induction.
func (s CategorySet) Count() int {
	return bits.OnesCount16(uint16(s))
}

// Categories lists the members of the set in bit order.
func (s CategorySet) Categories() []Category {
	cats := make([]Category, 0, s.Count())
	for c := Ones; c < NumCategories; c++ {
		if s.Has(c) {
			cats = append(cats, c)
		}
	}
	return cats
}

const (
	// MaxUpperScore is the clamp for the tracked upper-section total. A
	// stored value of 63 means "63 or more": once the bonus is secured no
	// further distinction affects future value.
	MaxUpperScore = 63
	// UpperBonusThreshold is the cumulative upper-section total at which
	// the bonus is awarded.
	UpperBonusThreshold = 63
	// UpperBonus is the one-time bonus for reaching the threshold.
	UpperBonus = 35
)

// State is a reachable game situation: the clamped upper-section running
// total and the set of categories still open. Together these determine the
// expected future score under optimal play.
type State struct {
	UpperScore int
	Open       CategorySet
}

// StateIndex is the dense 19-bit encoding of a State.
//
// Schema:
//
//	18        13 12          0
//	 UUUUUU      CCCCCCCCCCCCC
//
// U: upper-section score (0-63), C: open-category bits (LSB = Ones).
type StateIndex uint32

// NumStates is the size of the full index domain: 64 upper scores times
// 2^13 category sets.
const NumStates = (MaxUpperScore + 1) << NumCategories

// Encode packs a state into its dense index. It rejects an upper score
// outside [0, 63] and any category bits beyond the 13-category range.
func Encode(upperScore int, open CategorySet) (StateIndex, error) {
	if upperScore < 0 || upperScore > MaxUpperScore {
		return 0, fmt.Errorf("upper score %d out of range [0, %d]", upperScore, MaxUpperScore)
	}
	if open&^CategoryMask != 0 {
		return 0, fmt.Errorf("category set %#x has bits outside the %d-category range", uint16(open), NumCategories)
	}
	return StateIndex(upperScore)<<NumCategories | StateIndex(open), nil
}

// Decode unpacks an index. It is the inverse of Encode over the whole
// domain [0, NumStates).
func Decode(idx StateIndex) (State, error) {
	if idx >= NumStates {
		return State{}, fmt.Errorf("state index %d out of range [0, %d)", idx, NumStates)
	}
	return State{
		UpperScore: int(idx >> NumCategories),
		Open:       CategorySet(idx) & CategoryMask,
	}, nil
}

// Index encodes the state, panicking on an invalid one. For states the
// engine constructs itself; external input goes through Encode.
func (s State) Index() StateIndex {
	idx, err := Encode(s.UpperScore, s.Open)
	if err != nil {
		panic(err)
	}
	return idx
}

// Terminal is true when no categories remain open.
func (s State) Terminal() bool {
	return s.Open == 0
}

func (s State) String() string {
	return fmt.Sprintf("upper %d, open %013b", s.UpperScore, uint16(s.Open))
}

// Successor returns the state after scoring category c with the given
// upper-section contribution, along with the bonus points awarded by that
// placement. The bonus is granted exactly once, on the placement that
// carries the running total across the threshold.
func (s State) Successor(c Category, upperGain int) (State, int) {
	total := s.UpperScore + upperGain
	bonus := 0
	if s.UpperScore < UpperBonusThreshold && total >= UpperBonusThreshold {
		bonus = UpperBonus
	}
	if total > MaxUpperScore {
		total = MaxUpperScore
	}
	return State{UpperScore: total, Open: s.Open.Without(c)}, bonus
}
