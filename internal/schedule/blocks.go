package schedule

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// BlockIndex maps the schedule's timeline onto dense block indices. The
// boundary set is the union of every slot's start and padded end, so
// overlap testing between any two slots reduces to block-range
// containment. Built once, after every slot exists, and frozen.
type BlockIndex struct {
	boundaries []int       // sorted boundary minutes
	indices    map[int]int // boundary minute -> position
}

// NewBlockIndex freezes the boundary set for the given slots.
func NewBlockIndex(slots []*TimeSlot) *BlockIndex {
	minutes := lo.Uniq(lo.FlatMap(slots, func(slot *TimeSlot, _ int) []int {
		return []int{slot.Start.Minutes(), slot.PaddedEnd().Minutes()}
	}))
	slices.Sort(minutes)

	indices := make(map[int]int, len(minutes))
	for i, m := range minutes {
		indices[m] = i
	}
	return &BlockIndex{boundaries: minutes, indices: indices}
}

// Blocks is the number of regions between consecutive boundaries.
func (b *BlockIndex) Blocks() int {
	return len(b.boundaries) - 1
}

// Range returns the half-open [lo, hi) block-index range covered by the
// slot's padded interval. Every slot's start and padded end is a
// boundary, so a miss means the index was built before the slot existed.
func (b *BlockIndex) Range(slot *TimeSlot) (int, int) {
	start, ok := b.indices[slot.Start.Minutes()]
	if !ok {
		panic(fmt.Sprintf("schedule: slot start %v is not a block boundary", slot.Start))
	}
	end, ok := b.indices[slot.PaddedEnd().Minutes()]
	if !ok {
		panic(fmt.Sprintf("schedule: slot padded end %v is not a block boundary", slot.PaddedEnd()))
	}
	return start, end
}
