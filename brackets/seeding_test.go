package brackets

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedingOrder_BaseCases(t *testing.T) {
	assert.Equal(t, []int{0}, SeedingOrder(1))
	assert.Equal(t, []int{0, 1}, SeedingOrder(2))
	assert.Equal(t, []int{0, 3, 1, 2}, SeedingOrder(4))
	assert.Equal(t, []int{0, 7, 3, 4, 1, 6, 2, 5}, SeedingOrder(8))
}

func TestSeedingOrder_IsPermutation(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8, 16, 32, 64} {
		order := SeedingOrder(size)
		require.Len(t, order, size)

		sorted := slices.Clone(order)
		slices.Sort(sorted)
		for i, v := range sorted {
			assert.Equal(t, i, v, "size %d", size)
		}
	}
}

// meetingRound returns the round in which the holders of two bracket slots can
// first meet.
func meetingRound(slotA, slotB int) int {
	round := 0
	for slotA>>(round+1) != slotB>>(round+1) {
		round++
	}
	return round
}

func TestSeedingOrder_TopSeedsSeparated(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			order := SeedingOrder(size)
			slotOf := make(map[int]int, size)
			for slot, rank := range order {
				slotOf[rank] = slot
			}
			rounds := RoundCount(size)

			assert.Equal(t, rounds-1, meetingRound(slotOf[0], slotOf[1]), "top two seeds must only meet in the final")

			if size >= 4 {
				for a := 0; a < 4; a++ {
					for b := a + 1; b < 4; b++ {
						assert.GreaterOrEqual(t, meetingRound(slotOf[a], slotOf[b]), rounds-2,
							"seeds %d and %d meet before the semifinal", a+1, b+1)
					}
				}
			}
		})
	}
}

func TestBracketSize(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16, 16: 16, 17: 32}
	for teams, want := range cases {
		assert.Equal(t, want, BracketSize(teams), "teams=%d", teams)
	}

	for teams := 2; teams <= 64; teams++ {
		size := BracketSize(teams)
		assert.LessOrEqual(t, size/2, teams)
		assert.LessOrEqual(t, teams, size)
		assert.Zero(t, size&(size-1), "size %d is not a power of two", size)
	}
}

func TestRoundCount(t *testing.T) {
	assert.Equal(t, 0, RoundCount(1))
	assert.Equal(t, 1, RoundCount(2))
	assert.Equal(t, 3, RoundCount(8))
	assert.Equal(t, 5, RoundCount(32))
}
