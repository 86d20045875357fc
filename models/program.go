package models

type Program struct {
	ProgramID       int    `json:"program_id"`
	CategoryID      int    `json:"category_id"`
	ProgramName     string `json:"program_name"`
	Type            string `json:"type"`      // "individual", "group"
	MarkType        string `json:"mark_type"` // "normal", "special-mark"
	Stage           string `json:"stage,omitempty"`
	ScheduledAt     string `json:"scheduled_at,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	MaxParticipants int    `json:"max_participants,omitempty"`
	IsPublished     bool   `json:"is_published"`
	JudgingStatus   string `json:"judging_status"` // "open", "closed"
	PosterURL       string `json:"poster_url,omitempty"`

	CategoryName string `json:"category_name,omitempty"`
}

// ProgramStatus is the derived judging lifecycle of a program, computed
// from assignments, code letters and score cells rather than stored.
type ProgramStatus struct {
	ProgramID          int    `json:"program_id"`
	Status             string `json:"status"` // "not_started", "reporting", "ready", "in_progress", "completed", "published"
	ActiveParticipants int    `json:"active_participants"`
	Reported           int    `json:"reported"`
	ExpectedScores     int    `json:"expected_scores"`
	SubmittedScores    int    `json:"submitted_scores"`
	JudgingStatus      string `json:"judging_status"`
}
