package models

type Team struct {
	TeamID     int    `json:"team_id"`
	TeamName   string `json:"team_name"`
	LeaderName string `json:"leader_name"`
	Motto      string `json:"motto,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`

	// Enrichment fields for list responses
	ParticipantCount int `json:"participant_count,omitempty"`
}
