package scoring

import "sort"

// Ranked is one scored assignment entering the ranking of a single program.
type Ranked struct {
	AssignmentID int
	Average      float64
}

// AssignRanks produces dense competition ranks for one program's scored
// assignments: entries are ordered by average descending and tied entries
// share the rank of the first entry of their tie group, so averages
// [95, 95, 90, 80] rank 1, 1, 3, 4. The returned map is keyed by
// assignment id; entries absent from the input stay unranked.
func AssignRanks(entries []Ranked) map[int]int {
	sorted := make([]Ranked, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Average != sorted[j].Average {
			return sorted[i].Average > sorted[j].Average
		}
		return sorted[i].AssignmentID < sorted[j].AssignmentID
	})

	ranks := make(map[int]int, len(sorted))
	currentRank := 0
	lastScore := -1.0
	for i, e := range sorted {
		if e.Average != lastScore {
			currentRank = i + 1
			lastScore = e.Average
		}
		ranks[e.AssignmentID] = currentRank
	}
	return ranks
}
