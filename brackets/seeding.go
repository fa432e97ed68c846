package brackets

import "math/bits"

// SeedingOrder returns, for each slot of a bracket of the given power-of-two
// size, the zero-based rank that occupies it. Ranks 0 and 1 can only meet in the
// final, ranks 0..3 not before the semifinals, and so on.
func SeedingOrder(size int) []int {
	if size <= 1 {
		return []int{0}
	}
	if size == 2 {
		return []int{0, 1}
	}
	prev := SeedingOrder(size / 2)
	order := make([]int, 0, size)
	for _, seed := range prev {
		order = append(order, seed, size-1-seed)
	}
	return order
}

// BracketSize is the smallest power of two that fits the given number of teams.
func BracketSize(teams int) int {
	if teams <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(teams-1))
}

// RoundCount is log2 of a power-of-two bracket size.
func RoundCount(bracketSize int) int {
	if bracketSize <= 1 {
		return 0
	}
	return bits.Len(uint(bracketSize)) - 1
}
