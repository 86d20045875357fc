// Package scoring implements the festival's points pipeline: averaging judge
// scores, grade bands, dense competition ranks, points tables and the
// participant/team aggregation behind every leaderboard and report.
package scoring

type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeNone  Grade = "No Grade"
)

// GradeFor maps an average score to its grade band. Bands are evaluated
// top-down, first match wins. Callers must not pass "no scores yet" as 0;
// unscored assignments are excluded before grading.
func GradeFor(avg float64) Grade {
	switch {
	case avg >= 90:
		return GradeAPlus
	case avg >= 70:
		return GradeA
	case avg >= 60:
		return GradeB
	case avg >= 50:
		return GradeC
	default:
		return GradeNone
	}
}
