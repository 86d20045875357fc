package models

type Participant struct {
	ParticipantID int    `json:"participant_id"`
	TeamID        int    `json:"team_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	ChestNumber   string `json:"chest_number,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`

	TeamName string `json:"team_name,omitempty"`
}
