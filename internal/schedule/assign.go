package schedule

import "math/rand/v2"

// SlotOrder decides the order in which an activity's physical slots are
// probed when assigning a team. Assignment always fills the first empty
// slot in the produced order.
type SlotOrder func(n int) []int

// FixedOrder probes slots in natural order, so an empty slot is always
// the highest-index one. Used for judging rooms.
func FixedOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// ShuffledOrder probes slots in a random order, so neither physical side
// of a match table is systematically favored. The generator is created
// once per run; a caller-fixed seed makes the whole run reproducible.
func ShuffledOrder(rng *rand.Rand) SlotOrder {
	return func(n int) []int {
		order := FixedOrder(n)
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		return order
	}
}
