package models

type User struct {
	ID        int    `json:"id"`
	Login     string `json:"login,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"` // "admin", "leader", "judge", "controller"
	TeamID    *int   `json:"team_id,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
