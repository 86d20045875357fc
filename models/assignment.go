package models

type Assignment struct {
	AssignmentID  int     `json:"assignment_id"`
	ProgramID     int     `json:"program_id"`
	ParticipantID int     `json:"participant_id"`
	TeamID        int     `json:"team_id"`
	CodeLetter    *string `json:"code_letter,omitempty"`
	Status        *string `json:"status,omitempty"` // only meaningful value: "cancelled"

	ParticipantFirstName string `json:"participant_first_name,omitempty"`
	ParticipantLastName  string `json:"participant_last_name,omitempty"`
	TeamName             string `json:"team_name,omitempty"`
	ProgramName          string `json:"program_name,omitempty"`
}
