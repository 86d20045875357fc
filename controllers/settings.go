package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/scoring"
	"fest-central/utils"
)

type SettingsController struct{}

const pointsSettingsID = 1

// loadPointsSettings reads the singleton settings row and converts it into
// the scoring package's form. A missing row yields empty tables, which the
// engine treats as all-zero points.
func loadPointsSettings(db *sql.DB) (scoring.Settings, error) {
	var normalJSON, specialJSON, rankJSON []byte
	err := db.QueryRow(
		"SELECT normal_grade_points, special_grade_points, rank_points FROM PointsSettings WHERE id = ?",
		pointsSettingsID,
	).Scan(&normalJSON, &specialJSON, &rankJSON)
	if err == sql.ErrNoRows {
		return scoring.Settings{}, nil
	} else if err != nil {
		return scoring.Settings{}, err
	}

	var raw models.PointsSettings
	if err := json.Unmarshal(normalJSON, &raw.NormalGradePoints); err != nil {
		return scoring.Settings{}, err
	}
	if err := json.Unmarshal(specialJSON, &raw.SpecialGradePoints); err != nil {
		return scoring.Settings{}, err
	}
	if err := json.Unmarshal(rankJSON, &raw.RankPoints); err != nil {
		return scoring.Settings{}, err
	}

	settings := scoring.Settings{
		NormalGradePoints:  make(map[scoring.Grade]float64, len(raw.NormalGradePoints)),
		SpecialGradePoints: make(map[int]map[scoring.Grade]float64, len(raw.SpecialGradePoints)),
		RankPoints: scoring.RankPoints{
			First:  raw.RankPoints.First,
			Second: raw.RankPoints.Second,
			Third:  raw.RankPoints.Third,
		},
	}
	for grade, points := range raw.NormalGradePoints {
		settings.NormalGradePoints[scoring.Grade(grade)] = points
	}
	for programKey, table := range raw.SpecialGradePoints {
		programID, err := strconv.Atoi(programKey)
		if err != nil {
			continue
		}
		converted := make(map[scoring.Grade]float64, len(table))
		for grade, points := range table {
			converted[scoring.Grade(grade)] = points
		}
		settings.SpecialGradePoints[programID] = converted
	}
	return settings, nil
}

func (sc SettingsController) GetPointsSettings(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := utils.VerifyToken(r); err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}

		var settings models.PointsSettings
		var normalJSON, specialJSON, rankJSON []byte
		err := db.QueryRow(
			"SELECT normal_grade_points, special_grade_points, rank_points FROM PointsSettings WHERE id = ?",
			pointsSettingsID,
		).Scan(&normalJSON, &specialJSON, &rankJSON)
		if err == sql.ErrNoRows {
			utils.ResponseJSON(w, models.PointsSettings{
				NormalGradePoints:  map[string]float64{},
				SpecialGradePoints: map[string]map[string]float64{},
			})
			return
		} else if err != nil {
			logging.Log.Errorf("error fetching points settings: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch settings"})
			return
		}

		if err := json.Unmarshal(normalJSON, &settings.NormalGradePoints); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Corrupted settings"})
			return
		}
		if err := json.Unmarshal(specialJSON, &settings.SpecialGradePoints); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Corrupted settings"})
			return
		}
		if err := json.Unmarshal(rankJSON, &settings.RankPoints); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Corrupted settings"})
			return
		}
		utils.ResponseJSON(w, settings)
	}
}

func (sc SettingsController) UpdatePointsSettings(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, userID)
		if err != nil || role != "admin" {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Admin access required"})
			return
		}

		var settings models.PointsSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if settings.NormalGradePoints == nil {
			settings.NormalGradePoints = map[string]float64{}
		}
		if settings.SpecialGradePoints == nil {
			settings.SpecialGradePoints = map[string]map[string]float64{}
		}

		normalJSON, err := json.Marshal(settings.NormalGradePoints)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid normal_grade_points"})
			return
		}
		specialJSON, err := json.Marshal(settings.SpecialGradePoints)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid special_grade_points"})
			return
		}
		rankJSON, err := json.Marshal(settings.RankPoints)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid rank_points"})
			return
		}

		_, err = db.Exec(`
			INSERT INTO PointsSettings (id, normal_grade_points, special_grade_points, rank_points)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				normal_grade_points = VALUES(normal_grade_points),
				special_grade_points = VALUES(special_grade_points),
				rank_points = VALUES(rank_points)`,
			pointsSettingsID, normalJSON, specialJSON, rankJSON,
		)
		if err != nil {
			logging.Log.Errorf("error updating points settings: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to update settings"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Points settings updated"})
	}
}
