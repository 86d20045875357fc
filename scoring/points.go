package scoring

const (
	MarkTypeNormal  = "normal"
	MarkTypeSpecial = "special-mark"
)

// Settings is the points configuration passed explicitly into every
// computation. Missing keys are worth 0 points, never an error, so a
// leaderboard is always computable from partial configuration.
type Settings struct {
	NormalGradePoints  map[Grade]float64
	SpecialGradePoints map[int]map[Grade]float64 // keyed by program id
	RankPoints         RankPoints
}

type RankPoints struct {
	First  float64
	Second float64
	Third  float64
}

// PointsFor combines the grade points and rank points of one scored
// assignment. Special-mark programs use their per-program grade table;
// rank 0 means unranked and contributes nothing.
func PointsFor(avg float64, rank int, markType string, programID int, s Settings) float64 {
	grade := GradeFor(avg)

	var gradePoints float64
	if markType == MarkTypeSpecial {
		if table, ok := s.SpecialGradePoints[programID]; ok {
			gradePoints = table[grade]
		}
	} else {
		gradePoints = s.NormalGradePoints[grade]
	}

	var rankPoints float64
	switch rank {
	case 1:
		rankPoints = s.RankPoints.First
	case 2:
		rankPoints = s.RankPoints.Second
	case 3:
		rankPoints = s.RankPoints.Third
	}

	return gradePoints + rankPoints
}
