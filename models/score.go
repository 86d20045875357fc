package models

type Score struct {
	ScoreID      int     `json:"score_id"`
	ProgramID    int     `json:"program_id"`
	AssignmentID int     `json:"assignment_id"`
	JudgeID      int     `json:"judge_id"`
	Score        float64 `json:"score"` // 0-100
	Review       string  `json:"review,omitempty"`

	CodeLetter string `json:"code_letter,omitempty"`
	JudgeName  string `json:"judge_name,omitempty"`
}

// ScoreEntry is one row of a judge's batch save.
type ScoreEntry struct {
	AssignmentID int     `json:"assignment_id"`
	Score        float64 `json:"score"`
	Review       string  `json:"review,omitempty"`
}

type ScoreBatch struct {
	ProgramID int          `json:"program_id"`
	Scores    []ScoreEntry `json:"scores"`
}
