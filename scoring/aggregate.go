package scoring

import "sort"

// Filter selects which programs enter an aggregation.
type Filter string

const (
	FilterAll                Filter = "all"
	FilterIndividual         Filter = "individual"
	FilterGroup              Filter = "group"
	FilterSpecific           Filter = "specific"
	FilterIndividualSpecific Filter = "individual-specific"
	FilterGroupSpecific      Filter = "group-specific"
)

type Program struct {
	ID          int
	CategoryID  int
	Type        string // "individual", "group"
	MarkType    string // "normal", "special-mark"
	IsPublished bool
}

type Category struct {
	ID        int
	IsGeneral bool
}

type Assignment struct {
	ID            int
	ProgramID     int
	ParticipantID int
	TeamID        int
	Cancelled     bool
}

// Score is one judge's entry for one assignment. The assignment's realized
// value is the arithmetic mean over all its scores.
type Score struct {
	AssignmentID int
	Value        float64
}

type Participant struct {
	ID     int
	TeamID int
	Name   string
}

type Team struct {
	ID   int
	Name string
}

// Input is an in-memory snapshot of the collections the pipeline reads.
// The aggregation is pure: recomputing over an unchanged Input yields
// identical totals.
type Input struct {
	Programs    []Program
	Categories  []Category
	Assignments []Assignment
	Scores      []Score
	Settings    Settings
}

type Options struct {
	Filter        Filter
	PublishedOnly bool
}

// Total is one leaderboard row.
type Total struct {
	ID     int
	Name   string
	Points float64
}

// EntryResult is one scored assignment of a single program after the full
// pipeline: average, grade band, dense rank and points.
type EntryResult struct {
	AssignmentID  int
	ParticipantID int
	TeamID        int
	Average       float64
	Grade         Grade
	Rank          int
	Points        float64
}

func (in Input) category(id int) (Category, bool) {
	for _, c := range in.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func programPasses(p Program, in Input, opt Options) bool {
	if opt.PublishedOnly && !p.IsPublished {
		return false
	}
	specific := false
	if c, ok := in.category(p.CategoryID); ok {
		specific = !c.IsGeneral
	}
	switch opt.Filter {
	case FilterIndividual:
		return p.Type == "individual"
	case FilterGroup:
		return p.Type == "group"
	case FilterSpecific:
		return specific
	case FilterIndividualSpecific:
		return p.Type == "individual" && specific
	case FilterGroupSpecific:
		return p.Type == "group" && specific
	default:
		return true
	}
}

// averages reduces one program's non-cancelled assignments to their mean
// score. Assignments with no score are absent from the result.
func averages(programID int, in Input) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	active := make(map[int]bool)
	for _, a := range in.Assignments {
		if a.ProgramID == programID && !a.Cancelled {
			active[a.ID] = true
		}
	}
	for _, s := range in.Scores {
		if active[s.AssignmentID] {
			sums[s.AssignmentID] += s.Value
			counts[s.AssignmentID]++
		}
	}
	avgs := make(map[int]float64, len(sums))
	for id, sum := range sums {
		avgs[id] = sum / float64(counts[id])
	}
	return avgs
}

// ProgramResults runs the full pipeline for one program.
func ProgramResults(programID int, in Input) []EntryResult {
	var program *Program
	for i := range in.Programs {
		if in.Programs[i].ID == programID {
			program = &in.Programs[i]
			break
		}
	}
	if program == nil {
		return nil
	}

	avgs := averages(programID, in)
	entries := make([]Ranked, 0, len(avgs))
	for id, avg := range avgs {
		entries = append(entries, Ranked{AssignmentID: id, Average: avg})
	}
	ranks := AssignRanks(entries)

	var results []EntryResult
	for _, a := range in.Assignments {
		if a.ProgramID != programID || a.Cancelled {
			continue
		}
		avg, scored := avgs[a.ID]
		if !scored {
			continue
		}
		rank := ranks[a.ID]
		results = append(results, EntryResult{
			AssignmentID:  a.ID,
			ParticipantID: a.ParticipantID,
			TeamID:        a.TeamID,
			Average:       avg,
			Grade:         GradeFor(avg),
			Rank:          rank,
			Points:        PointsFor(avg, rank, program.MarkType, program.ID, in.Settings),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Rank != results[j].Rank {
			return results[i].Rank < results[j].Rank
		}
		return results[i].AssignmentID < results[j].AssignmentID
	})
	return results
}

// assignmentPoints runs the per-program pipeline once per passing program
// and flattens the outcome into points per assignment id.
func assignmentPoints(in Input, opt Options) map[int]float64 {
	points := make(map[int]float64)
	for _, p := range in.Programs {
		if !programPasses(p, in, opt) {
			continue
		}
		for _, r := range ProgramResults(p.ID, in) {
			points[r.AssignmentID] = r.Points
		}
	}
	return points
}

// AggregateParticipants sums points over every participant's qualifying
// assignments. Every given participant appears in the output, scored or not.
// Ties in total points order by name then id so the output is deterministic.
func AggregateParticipants(in Input, participants []Participant, opt Options) []Total {
	points := assignmentPoints(in, opt)
	totals := make(map[int]float64, len(participants))
	for _, a := range in.Assignments {
		if a.Cancelled {
			continue
		}
		if pts, ok := points[a.ID]; ok {
			totals[a.ParticipantID] += pts
		}
	}

	out := make([]Total, 0, len(participants))
	for _, p := range participants {
		out = append(out, Total{ID: p.ID, Name: p.Name, Points: totals[p.ID]})
	}
	sortTotals(out)
	return out
}

// AggregateTeams sums participant aggregation over each team's roster.
func AggregateTeams(in Input, participants []Participant, teams []Team, opt Options) []Total {
	points := assignmentPoints(in, opt)
	memberTeam := make(map[int]int, len(participants))
	for _, p := range participants {
		memberTeam[p.ID] = p.TeamID
	}

	totals := make(map[int]float64, len(teams))
	for _, a := range in.Assignments {
		if a.Cancelled {
			continue
		}
		if pts, ok := points[a.ID]; ok {
			totals[memberTeam[a.ParticipantID]] += pts
		}
	}

	out := make([]Total, 0, len(teams))
	for _, t := range teams {
		out = append(out, Total{ID: t.ID, Name: t.Name, Points: totals[t.ID]})
	}
	sortTotals(out)
	return out
}

func sortTotals(totals []Total) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		if totals[i].Name != totals[j].Name {
			return totals[i].Name < totals[j].Name
		}
		return totals[i].ID < totals[j].ID
	})
}
