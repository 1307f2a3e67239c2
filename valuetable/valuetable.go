package valuetable

import (
	"fmt"
	"math"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/benjaminbarrett1/yahtzee/gamestate"
)

// UnknownValue marks a slot whose expected value has not been computed yet.
// Expected future scores are non-negative, so any negative float is safe; -1
// survives the binary round-trip exactly.
const UnknownValue float32 = -1

const entrySize = 4

const fullSize = gamestate.NumStates

// Table holds one expected-value float per state index. Slots start at
// UnknownValue and are written at most once each by the induction engine;
// once fully populated the table is safe to share read-only.
type Table struct {
	values []float32
}

// New allocates a sentinel-initialized table covering the full state space.
func New() *Table {
	return NewSized(gamestate.NumStates)
}

// NewSized allocates a sentinel-initialized table with the given number of
// slots. Small sizes are for synthetic tables in tests; production code
// uses New.
func NewSized(size int) *Table {
	t := &Table{values: make([]float32, size)}
	for i := range t.values {
		t.values[i] = UnknownValue
	}
	log.Debug().Int("num-elems", size).
		Int("table-bytes", size*entrySize).
		Uint64("total-system-memory-bytes", memory.TotalMemory()).
		Msg("allocated-value-table")
	return t
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.values)
}

func (t *Table) checkIndex(idx gamestate.StateIndex) error {
	if int(idx) >= len(t.values) {
		return fmt.Errorf("state index %d out of range [0, %d)", idx, len(t.values))
	}
	return nil
}

// Get returns the stored value, which is UnknownValue if the slot has not
// been computed.
func (t *Table) Get(idx gamestate.StateIndex) (float32, error) {
	if err := t.checkIndex(idx); err != nil {
		return UnknownValue, err
	}
	return t.values[idx], nil
}

// Set writes a finite expected value into the slot. The induction depends
// on never regressing a resolved value, so callers write each index at most
// once.
func (t *Table) Set(idx gamestate.StateIndex, value float32) error {
	if err := t.checkIndex(idx); err != nil {
		return err
	}
	if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
		return fmt.Errorf("non-finite value %v for state index %d", value, idx)
	}
	t.values[idx] = value
	return nil
}

// IsKnown reports whether the slot holds a computed value.
func (t *Table) IsKnown(idx gamestate.StateIndex) bool {
	if int(idx) >= len(t.values) {
		return false
	}
	return t.values[idx] != UnknownValue
}
