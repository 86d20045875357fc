package controllers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TeamController struct{}

func (tc TeamController) GetTeams(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query(`
			SELECT t.team_id, t.team_name, t.leader_name, t.motto, t.logo_url,
			       COUNT(p.participant_id)
			FROM Teams t
			LEFT JOIN Participants p ON p.team_id = t.team_id
			GROUP BY t.team_id
			ORDER BY t.team_name`)
		if err != nil {
			logging.Log.Errorf("error fetching teams: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch teams"})
			return
		}
		defer rows.Close()

		teams := []models.Team{}
		for rows.Next() {
			var t models.Team
			var motto, logoURL sql.NullString
			if err := rows.Scan(&t.TeamID, &t.TeamName, &t.LeaderName, &motto, &logoURL, &t.ParticipantCount); err != nil {
				logging.Log.Errorf("error scanning team: %v", err)
				continue
			}
			t.Motto = motto.String
			t.LogoURL = logoURL.String
			teams = append(teams, t)
		}
		utils.ResponseJSON(w, teams)
	}
}

func (tc TeamController) GetTeam(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team id"})
			return
		}

		var t models.Team
		var motto, logoURL sql.NullString
		err = db.QueryRow(
			"SELECT team_id, team_name, leader_name, motto, logo_url FROM Teams WHERE team_id = ?",
			teamID,
		).Scan(&t.TeamID, &t.TeamName, &t.LeaderName, &motto, &logoURL)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Team not found"})
			return
		} else if err != nil {
			logging.Log.Errorf("error fetching team %d: %v", teamID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch team"})
			return
		}
		t.Motto = motto.String
		t.LogoURL = logoURL.String
		utils.ResponseJSON(w, t)
	}
}

func (tc TeamController) CreateTeam(db *sql.DB) http.HandlerFunc {
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

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Failed to parse form"})
			return
		}

		teamName := r.FormValue("team_name")
		leaderName := r.FormValue("leader_name")
		motto := r.FormValue("motto")
		if teamName == "" || leaderName == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "team_name and leader_name are required"})
			return
		}

		var logoURL string
		file, handler, err := r.FormFile("logo")
		if err == nil {
			defer file.Close()
			fileExt := filepath.Ext(handler.Filename)
			fileName := fmt.Sprintf("teams/%d_%s%s", time.Now().UnixNano(), uuid.New().String(), fileExt)
			logoURL, err = utils.UploadFileToS3(file, fileName, "teamlogo")
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: fmt.Sprintf("Failed to upload logo: %v", err)})
				return
			}
		}

		result, err := db.Exec(
			"INSERT INTO Teams (team_name, leader_name, motto, logo_url) VALUES (?, ?, ?, ?)",
			teamName, leaderName, motto, logoURL,
		)
		if err != nil {
			logging.Log.Errorf("error inserting team: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to create team"})
			return
		}

		id, _ := result.LastInsertId()
		utils.ResponseJSON(w, map[string]interface{}{"message": "Team created successfully", "team_id": id})
	}
}

func (tc TeamController) UpdateTeam(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		teamID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team id"})
			return
		}

		role, callerTeam, err := userRole(db, userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch user info"})
			return
		}
		// a leader may edit their own team only
		if role != "admin" && !(role == "leader" && callerTeam.Valid && int(callerTeam.Int64) == teamID) {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Not allowed to edit this team"})
			return
		}

		var team models.Team
		if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		_, err = db.Exec(
			"UPDATE Teams SET team_name = ?, leader_name = ?, motto = ? WHERE team_id = ?",
			team.TeamName, team.LeaderName, team.Motto, teamID,
		)
		if err != nil {
			logging.Log.Errorf("error updating team %d: %v", teamID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to update team"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Team updated successfully"})
	}
}

func (tc TeamController) DeleteTeam(db *sql.DB) http.HandlerFunc {
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
		teamID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team id"})
			return
		}

		var participantCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM Participants WHERE team_id = ?", teamID).Scan(&participantCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to check roster"})
			return
		}
		if participantCount > 0 {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Team still has participants"})
			return
		}

		if _, err := db.Exec("DELETE FROM Teams WHERE team_id = ?", teamID); err != nil {
			logging.Log.Errorf("error deleting team %d: %v", teamID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to delete team"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Team deleted successfully"})
	}
}

func (tc TeamController) GetTeamParticipants(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team id"})
			return
		}

		rows, err := db.Query(`
			SELECT participant_id, team_id, first_name, last_name, date_of_birth, chest_number, photo_url
			FROM Participants WHERE team_id = ? ORDER BY last_name, first_name`, teamID)
		if err != nil {
			logging.Log.Errorf("error fetching roster for team %d: %v", teamID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch participants"})
			return
		}
		defer rows.Close()

		participants := []models.Participant{}
		for rows.Next() {
			var p models.Participant
			var dob, chest, photo sql.NullString
			if err := rows.Scan(&p.ParticipantID, &p.TeamID, &p.FirstName, &p.LastName, &dob, &chest, &photo); err != nil {
				continue
			}
			p.DateOfBirth = dob.String
			p.ChestNumber = chest.String
			p.PhotoURL = photo.String
			participants = append(participants, p)
		}
		utils.ResponseJSON(w, participants)
	}
}
