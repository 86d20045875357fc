package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// festivalInput builds the end-to-end fixture from the design notes:
// program 1 (normal, individual) with participants X, Y, Z averaging
// 95, 95 and 80 under a single judge each.
func festivalInput() Input {
	return Input{
		Programs: []Program{
			{ID: 1, CategoryID: 1, Type: "individual", MarkType: MarkTypeNormal, IsPublished: false},
		},
		Categories: []Category{
			{ID: 1, IsGeneral: false},
		},
		Assignments: []Assignment{
			{ID: 10, ProgramID: 1, ParticipantID: 100, TeamID: 1},
			{ID: 11, ProgramID: 1, ParticipantID: 101, TeamID: 1},
			{ID: 12, ProgramID: 1, ParticipantID: 102, TeamID: 2},
		},
		Scores: []Score{
			{AssignmentID: 10, Value: 95},
			{AssignmentID: 11, Value: 95},
			{AssignmentID: 12, Value: 80},
		},
		Settings: sampleSettings(),
	}
}

func festivalParticipants() []Participant {
	return []Participant{
		{ID: 100, TeamID: 1, Name: "Xavier"},
		{ID: 101, TeamID: 1, Name: "Yana"},
		{ID: 102, TeamID: 2, Name: "Zara"},
	}
}

func TestProgramResults_EndToEnd(t *testing.T) {
	results := ProgramResults(1, festivalInput())
	require.Len(t, results, 3)

	byAssignment := make(map[int]EntryResult)
	for _, r := range results {
		byAssignment[r.AssignmentID] = r
	}

	// X and Y: grade A+ (10) and rank 1 (5) -> 15 each
	for _, id := range []int{10, 11} {
		r := byAssignment[id]
		assert.Equal(t, GradeAPlus, r.Grade)
		assert.Equal(t, 1, r.Rank)
		assert.Equal(t, 15.0, r.Points)
	}

	// Z: 80 is in [70,90) so grade A (8), dense rank 3 (1) -> 9
	r := byAssignment[12]
	assert.Equal(t, GradeA, r.Grade)
	assert.Equal(t, 3, r.Rank)
	assert.Equal(t, 9.0, r.Points)
}

func TestProgramResults_MultipleJudgesAveraged(t *testing.T) {
	in := festivalInput()
	// second judge for assignment 12: (80+90)/2 = 85, still grade A
	in.Scores = append(in.Scores, Score{AssignmentID: 12, Value: 90})

	results := ProgramResults(1, in)
	for _, r := range results {
		if r.AssignmentID == 12 {
			assert.Equal(t, 85.0, r.Average)
			assert.Equal(t, GradeA, r.Grade)
			return
		}
	}
	t.Fatal("assignment 12 missing from results")
}

func TestProgramResults_UnscoredExcluded(t *testing.T) {
	in := festivalInput()
	in.Assignments = append(in.Assignments, Assignment{ID: 13, ProgramID: 1, ParticipantID: 103, TeamID: 2})

	results := ProgramResults(1, in)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.NotEqual(t, 13, r.AssignmentID)
	}
}

func TestAggregateParticipants_EndToEnd(t *testing.T) {
	totals := AggregateParticipants(festivalInput(), festivalParticipants(), Options{Filter: FilterAll})
	require.Len(t, totals, 3)

	// 15, 15, 9 with the X/Y tie broken by name
	assert.Equal(t, Total{ID: 100, Name: "Xavier", Points: 15}, totals[0])
	assert.Equal(t, Total{ID: 101, Name: "Yana", Points: 15}, totals[1])
	assert.Equal(t, Total{ID: 102, Name: "Zara", Points: 9}, totals[2])
}

func TestAggregateParticipants_CancelledContributesNothing(t *testing.T) {
	in := festivalInput()
	in.Assignments[2].Cancelled = true // Zara, despite her prior score

	totals := AggregateParticipants(in, festivalParticipants(), Options{Filter: FilterAll})
	for _, total := range totals {
		if total.ID == 102 {
			assert.Equal(t, 0.0, total.Points)
			return
		}
	}
	t.Fatal("participant 102 missing")
}

func TestAggregateParticipants_Idempotent(t *testing.T) {
	in := festivalInput()
	parts := festivalParticipants()
	first := AggregateParticipants(in, parts, Options{Filter: FilterAll})
	second := AggregateParticipants(in, parts, Options{Filter: FilterAll})
	assert.Equal(t, first, second)
}

func TestAggregateParticipants_PublishedOnly(t *testing.T) {
	in := festivalInput()
	totals := AggregateParticipants(in, festivalParticipants(), Options{Filter: FilterAll, PublishedOnly: true})
	for _, total := range totals {
		assert.Equal(t, 0.0, total.Points, "unpublished program must not contribute")
	}

	in.Programs[0].IsPublished = true
	totals = AggregateParticipants(in, festivalParticipants(), Options{Filter: FilterAll, PublishedOnly: true})
	assert.Equal(t, 15.0, totals[0].Points)
}

func TestAggregateTeams(t *testing.T) {
	teams := []Team{{ID: 1, Name: "Falcons"}, {ID: 2, Name: "Orcas"}}
	totals := AggregateTeams(festivalInput(), festivalParticipants(), teams, Options{Filter: FilterAll})
	require.Len(t, totals, 2)

	assert.Equal(t, Total{ID: 1, Name: "Falcons", Points: 30}, totals[0])
	assert.Equal(t, Total{ID: 2, Name: "Orcas", Points: 9}, totals[1])
}

// mixedInput spreads programs across types and categories to exercise the
// filters: program 1 individual/specific, program 2 group/specific,
// program 3 individual/general.
func mixedInput() Input {
	in := festivalInput()
	in.Programs = append(in.Programs,
		Program{ID: 2, CategoryID: 1, Type: "group", MarkType: MarkTypeNormal},
		Program{ID: 3, CategoryID: 2, Type: "individual", MarkType: MarkTypeNormal},
	)
	in.Categories = append(in.Categories, Category{ID: 2, IsGeneral: true})
	in.Assignments = append(in.Assignments,
		Assignment{ID: 20, ProgramID: 2, ParticipantID: 100, TeamID: 1},
		Assignment{ID: 30, ProgramID: 3, ParticipantID: 102, TeamID: 2},
	)
	in.Scores = append(in.Scores,
		Score{AssignmentID: 20, Value: 75},
		Score{AssignmentID: 30, Value: 91},
	)
	return in
}

func TestFilters_Partition(t *testing.T) {
	in := mixedInput()
	parts := festivalParticipants()

	pointsUnder := func(f Filter) map[int]float64 {
		out := make(map[int]float64)
		for _, total := range AggregateParticipants(in, parts, Options{Filter: f}) {
			out[total.ID] = total.Points
		}
		return out
	}

	all := pointsUnder(FilterAll)
	individual := pointsUnder(FilterIndividual)
	group := pointsUnder(FilterGroup)
	specific := pointsUnder(FilterSpecific)
	indSpecific := pointsUnder(FilterIndividualSpecific)
	grpSpecific := pointsUnder(FilterGroupSpecific)

	for id := range all {
		// a narrower filter never awards more than a broader one
		assert.LessOrEqual(t, indSpecific[id], individual[id], "participant %d", id)
		assert.LessOrEqual(t, indSpecific[id], specific[id], "participant %d", id)
		assert.LessOrEqual(t, grpSpecific[id], group[id], "participant %d", id)
		assert.LessOrEqual(t, grpSpecific[id], specific[id], "participant %d", id)
		for _, narrower := range []map[int]float64{individual, group, specific, indSpecific, grpSpecific} {
			assert.LessOrEqual(t, narrower[id], all[id], "participant %d", id)
		}
	}

	// program 3 is general-purpose, so Zara's 91 there counts under
	// individual but not under specific
	zara := 102
	assert.Equal(t, specific[zara]+15.0, individual[zara])
}

func TestFilters_GroupExcludesIndividualPrograms(t *testing.T) {
	in := mixedInput()
	totals := AggregateParticipants(in, festivalParticipants(), Options{Filter: FilterGroup})
	for _, total := range totals {
		if total.ID == 100 {
			// only program 2 (group): 75 -> grade A (8) + rank 1 (5)
			assert.Equal(t, 13.0, total.Points)
			return
		}
	}
	t.Fatal("participant 100 missing")
}
