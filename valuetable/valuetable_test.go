package valuetable

import (
	"testing"

	"github.com/matryer/is"

	"github.com/benjaminbarrett1/yahtzee/gamestate"
)

func TestSentinelIsolation(t *testing.T) {
	is := is.New(t)
	tbl := NewSized(1024)
	for i := 0; i < tbl.Len(); i++ {
		is.True(!tbl.IsKnown(gamestate.StateIndex(i)))
		v, err := tbl.Get(gamestate.StateIndex(i))
		is.NoErr(err)
		is.Equal(v, UnknownValue)
	}
}

func TestFullTableSize(t *testing.T) {
	is := is.New(t)
	tbl := New()
	is.Equal(tbl.Len(), gamestate.NumStates)
	is.Equal(tbl.Len(), 524288)
}

func TestSetGet(t *testing.T) {
	is := is.New(t)
	tbl := NewSized(16)
	is.NoErr(tbl.Set(3, 42.5))
	is.True(tbl.IsKnown(3))
	v, err := tbl.Get(3)
	is.NoErr(err)
	is.Equal(v, float32(42.5))

	// Zero is a legitimate value, distinct from the sentinel.
	is.NoErr(tbl.Set(4, 0))
	is.True(tbl.IsKnown(4))
}

func TestOutOfRange(t *testing.T) {
	is := is.New(t)
	tbl := NewSized(16)
	_, err := tbl.Get(16)
	is.True(err != nil)
	err = tbl.Set(16, 1)
	is.True(err != nil)
	is.True(!tbl.IsKnown(16))
}

func TestRejectsNonFinite(t *testing.T) {
	is := is.New(t)
	tbl := NewSized(4)
	big := float32(1e38)
	inf := big * big
	is.True(tbl.Set(0, inf) != nil)
	nan := inf - inf
	is.True(tbl.Set(0, nan) != nil)
}
