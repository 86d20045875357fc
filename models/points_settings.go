package models

// PointsSettings is the singleton configuration mapping grades and ranks to
// points. Grade keys are the band names ("A+", "A", "B", "C", "No Grade");
// SpecialGradePoints is keyed by program id for special-mark programs.
// Any missing key is worth 0 points.
type PointsSettings struct {
	NormalGradePoints  map[string]float64            `json:"normal_grade_points"`
	SpecialGradePoints map[string]map[string]float64 `json:"special_grade_points"`
	RankPoints         RankPoints                    `json:"rank_points"`
}

type RankPoints struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
	Third  float64 `json:"third"`
}
