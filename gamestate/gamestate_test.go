package gamestate

import (
	"testing"

	"github.com/matryer/is"
)

func TestEncodeDecodeBijection(t *testing.T) {
	is := is.New(t)
	for upper := 0; upper <= MaxUpperScore; upper++ {
		for open := CategorySet(0); open <= CategoryMask; open++ {
			idx, err := Encode(upper, open)
			is.NoErr(err)
			is.True(idx < NumStates)
			st, err := Decode(idx)
			is.NoErr(err)
			is.Equal(st.UpperScore, upper)
			is.Equal(st.Open, open)
		}
	}
}

func TestDecodeTotalOverDomain(t *testing.T) {
	is := is.New(t)
	seen := make(map[State]bool, NumStates)
	for idx := StateIndex(0); idx < NumStates; idx++ {
		st, err := Decode(idx)
		is.NoErr(err)
		is.True(!seen[st]) // every index decodes to a distinct state
		seen[st] = true
		is.Equal(st.Index(), idx)
	}
	is.Equal(len(seen), NumStates)
}

func TestEncodeRejectsInvalid(t *testing.T) {
	is := is.New(t)
	_, err := Encode(-1, 0)
	is.True(err != nil)
	_, err = Encode(MaxUpperScore+1, 0)
	is.True(err != nil)
	_, err = Encode(0, CategoryMask+1)
	is.True(err != nil)
	_, err = Decode(NumStates)
	is.True(err != nil)
}

func TestCategorySet(t *testing.T) {
	is := is.New(t)
	s := CategorySet(0).With(Ones).With(Yahtzee)
	is.True(s.Has(Ones))
	is.True(s.Has(Yahtzee))
	is.True(!s.Has(Chance))
	is.Equal(s.Count(), 2)
	is.Equal(s.Without(Ones), CategorySet(0).With(Yahtzee))
	is.Equal(AllCategories.Count(), NumCategories)
	is.Equal(s.Categories(), []Category{Ones, Yahtzee})
}

func TestCategoryProperties(t *testing.T) {
	is := is.New(t)
	is.True(Sixes.IsUpper())
	is.True(!ThreeOfAKind.IsUpper())
	is.Equal(Ones.Pip(), 1)
	is.Equal(Sixes.Pip(), 6)
	is.Equal(Chance.Pip(), 0)
	is.Equal(FullHouse.String(), "Full house")
}

func TestSuccessorBonus(t *testing.T) {
	is := is.New(t)

	// Well below the threshold: no bonus, no clamp.
	st := State{UpperScore: 10, Open: AllCategories}
	succ, bonus := st.Successor(Fours, 12)
	is.Equal(bonus, 0)
	is.Equal(succ.UpperScore, 22)
	is.True(!succ.Open.Has(Fours))

	// Crossing the threshold awards the bonus exactly once and clamps.
	st = State{UpperScore: 60, Open: AllCategories}
	succ, bonus = st.Successor(Sixes, 18)
	is.Equal(bonus, UpperBonus)
	is.Equal(succ.UpperScore, MaxUpperScore)

	// Already secured: no second bonus.
	succ, bonus = succ.Successor(Fives, 15)
	is.Equal(bonus, 0)
	is.Equal(succ.UpperScore, MaxUpperScore)

	// Lower-section placements never move the upper total.
	st = State{UpperScore: 62, Open: AllCategories}
	succ, bonus = st.Successor(Chance, 0)
	is.Equal(bonus, 0)
	is.Equal(succ.UpperScore, 62)

	// Landing exactly on the threshold counts.
	st = State{UpperScore: 62, Open: AllCategories}
	succ, bonus = st.Successor(Ones, 1)
	is.Equal(bonus, UpperBonus)
	is.Equal(succ.UpperScore, 63)
}
