package models

// ParticipantResult is one live leaderboard row.
type ParticipantResult struct {
	ParticipantID int     `json:"participant_id"`
	Name          string  `json:"name"`
	TeamName      string  `json:"team_name,omitempty"`
	TotalPoints   float64 `json:"total_points"`
}

type TeamResult struct {
	TeamID      int     `json:"team_id"`
	TeamName    string  `json:"team_name"`
	LeaderName  string  `json:"leader_name,omitempty"`
	TotalPoints float64 `json:"total_points"`
}

// ProgramEntryResult is one scored assignment inside a single program's
// result view: average over judges, grade band, dense rank and points.
type ProgramEntryResult struct {
	AssignmentID  int     `json:"assignment_id"`
	ParticipantID int     `json:"participant_id"`
	Name          string  `json:"name"`
	TeamName      string  `json:"team_name,omitempty"`
	CodeLetter    string  `json:"code_letter,omitempty"`
	Average       float64 `json:"average"`
	Grade         string  `json:"grade"`
	Rank          int     `json:"rank"`
	Points        float64 `json:"points"`
}

// Winner is one entry of a published result snapshot.
type Winner struct {
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
}

type PublishedResult struct {
	ResultID     int                 `json:"result_id"`
	ProgramID    int                 `json:"program_id"`
	ProgramName  string              `json:"program_name"`
	CategoryName string              `json:"category_name"`
	ResultNumber int                 `json:"result_number"`
	Winners      map[string][]Winner `json:"winners"` // keyed "1", "2", "3"
	PublishedAt  string              `json:"published_at,omitempty"`
}

type TeamStanding struct {
	TeamID      int     `json:"team_id"`
	TeamName    string  `json:"team_name"`
	LeaderName  string  `json:"leader_name"`
	TotalPoints float64 `json:"total_points"`
}

type TeamStandings struct {
	Standings   []TeamStanding `json:"standings"`
	ResultCount int            `json:"result_count"`
	PublishedAt string         `json:"published_at,omitempty"`
}
