package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignRanks_DenseTies(t *testing.T) {
	// A:95 B:95 C:90 D:80 -> 1 1 3 4, not 1 1 2 3
	ranks := AssignRanks([]Ranked{
		{AssignmentID: 1, Average: 95},
		{AssignmentID: 2, Average: 95},
		{AssignmentID: 3, Average: 90},
		{AssignmentID: 4, Average: 80},
	})
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 3, 4: 4}, ranks)
}

func TestAssignRanks_ThreeWayTie(t *testing.T) {
	ranks := AssignRanks([]Ranked{
		{AssignmentID: 1, Average: 95},
		{AssignmentID: 2, Average: 95},
		{AssignmentID: 3, Average: 80},
	})
	assert.Equal(t, 1, ranks[1])
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 3, ranks[3])
}

func TestAssignRanks_AllEqual(t *testing.T) {
	ranks := AssignRanks([]Ranked{
		{AssignmentID: 7, Average: 50},
		{AssignmentID: 8, Average: 50},
		{AssignmentID: 9, Average: 50},
	})
	for id, r := range ranks {
		assert.Equal(t, 1, r, "assignment %d", id)
	}
}

func TestAssignRanks_Empty(t *testing.T) {
	assert.Empty(t, AssignRanks(nil))
}

func TestAssignRanks_Single(t *testing.T) {
	ranks := AssignRanks([]Ranked{{AssignmentID: 5, Average: 42}})
	assert.Equal(t, map[int]int{5: 1}, ranks)
}

func TestAssignRanks_InputOrderIrrelevant(t *testing.T) {
	a := AssignRanks([]Ranked{
		{AssignmentID: 1, Average: 80},
		{AssignmentID: 2, Average: 95},
		{AssignmentID: 3, Average: 90},
	})
	b := AssignRanks([]Ranked{
		{AssignmentID: 3, Average: 90},
		{AssignmentID: 1, Average: 80},
		{AssignmentID: 2, Average: 95},
	})
	assert.Equal(t, a, b)
	assert.Equal(t, 1, a[2])
	assert.Equal(t, 2, a[3])
	assert.Equal(t, 3, a[1])
}

func TestAssignRanks_NonDecreasingBySortedPosition(t *testing.T) {
	entries := []Ranked{
		{AssignmentID: 1, Average: 99},
		{AssignmentID: 2, Average: 99},
		{AssignmentID: 3, Average: 97},
		{AssignmentID: 4, Average: 97},
		{AssignmentID: 5, Average: 97},
		{AssignmentID: 6, Average: 60},
	}
	ranks := AssignRanks(entries)
	assert.Equal(t, 1, ranks[1])
	assert.Equal(t, 1, ranks[2])
	assert.Equal(t, 3, ranks[3])
	assert.Equal(t, 3, ranks[4])
	assert.Equal(t, 3, ranks[5])
	assert.Equal(t, 6, ranks[6])
}
