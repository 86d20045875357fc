package models

type ProgramCategory struct {
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
	IsGeneral    bool   `json:"is_general"`
}
