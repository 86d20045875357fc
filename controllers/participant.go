package controllers

import (
	"database/sql"
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

type ParticipantController struct{}

// canManageTeam reports whether the caller may modify the given team's
// roster: admins always, leaders for their own team only.
func canManageTeam(db *sql.DB, userID, teamID int) (bool, error) {
	role, callerTeam, err := userRole(db, userID)
	if err != nil {
		return false, err
	}
	if role == "admin" {
		return true, nil
	}
	return role == "leader" && callerTeam.Valid && int(callerTeam.Int64) == teamID, nil
}

func (pc ParticipantController) GetParticipants(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT p.participant_id, p.team_id, p.first_name, p.last_name,
			       p.date_of_birth, p.chest_number, p.photo_url, t.team_name
			FROM Participants p
			JOIN Teams t ON t.team_id = p.team_id`
		args := []interface{}{}
		if teamParam := r.URL.Query().Get("team_id"); teamParam != "" {
			teamID, err := utils.StrToInt(teamParam)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team_id"})
				return
			}
			query += " WHERE p.team_id = ?"
			args = append(args, teamID)
		}
		query += " ORDER BY p.last_name, p.first_name"

		rows, err := db.Query(query, args...)
		if err != nil {
			logging.Log.Errorf("error fetching participants: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch participants"})
			return
		}
		defer rows.Close()

		participants := []models.Participant{}
		for rows.Next() {
			var p models.Participant
			var dob, chest, photo sql.NullString
			if err := rows.Scan(&p.ParticipantID, &p.TeamID, &p.FirstName, &p.LastName, &dob, &chest, &photo, &p.TeamName); err != nil {
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

func (pc ParticipantController) CreateParticipant(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Failed to parse form"})
			return
		}

		teamID, err := utils.StrToInt(r.FormValue("team_id"))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team_id"})
			return
		}
		firstName := r.FormValue("first_name")
		lastName := r.FormValue("last_name")
		dateOfBirth := r.FormValue("date_of_birth")
		chestNumber := r.FormValue("chest_number")
		if firstName == "" || lastName == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "first_name and last_name are required"})
			return
		}
		if dateOfBirth != "" {
			if _, err := time.Parse("2006-01-02", dateOfBirth); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid date format. Use YYYY-MM-DD"})
				return
			}
		}

		allowed, err := canManageTeam(db, userID, teamID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch user info"})
			return
		}
		if !allowed {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Participant does not belong to your team"})
			return
		}

		var photoURL string
		file, handler, err := r.FormFile("photo")
		if err == nil {
			defer file.Close()
			fileExt := filepath.Ext(handler.Filename)
			fileName := fmt.Sprintf("participants/%d_%s%s", time.Now().UnixNano(), uuid.New().String(), fileExt)
			photoURL, err = utils.UploadFileToS3(file, fileName, "participantphoto")
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: fmt.Sprintf("Failed to upload photo: %v", err)})
				return
			}
		}

		result, err := db.Exec(
			"INSERT INTO Participants (team_id, first_name, last_name, date_of_birth, chest_number, photo_url) VALUES (?, ?, ?, ?, ?, ?)",
			teamID, firstName, lastName, nullIfEmpty(dateOfBirth), chestNumber, photoURL,
		)
		if err != nil {
			logging.Log.Errorf("error inserting participant: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to create participant"})
			return
		}

		id, _ := result.LastInsertId()
		utils.ResponseJSON(w, map[string]interface{}{"message": "Participant created successfully", "participant_id": id})
	}
}

func (pc ParticipantController) UpdateParticipant(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		participantID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid participant id"})
			return
		}

		var teamID int
		err = db.QueryRow("SELECT team_id FROM Participants WHERE participant_id = ?", participantID).Scan(&teamID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Participant not found"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch participant"})
			return
		}

		allowed, err := canManageTeam(db, userID, teamID)
		if err != nil || !allowed {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Participant does not belong to your team"})
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Failed to parse form"})
			return
		}

		firstName := r.FormValue("first_name")
		lastName := r.FormValue("last_name")
		dateOfBirth := r.FormValue("date_of_birth")
		chestNumber := r.FormValue("chest_number")

		file, handler, err := r.FormFile("photo")
		if err == nil {
			defer file.Close()
			fileExt := filepath.Ext(handler.Filename)
			fileName := fmt.Sprintf("participants/%d_%s%s", time.Now().UnixNano(), uuid.New().String(), fileExt)
			photoURL, err := utils.UploadFileToS3(file, fileName, "participantphoto")
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: fmt.Sprintf("Failed to upload photo: %v", err)})
				return
			}
			if _, err := db.Exec("UPDATE Participants SET photo_url = ? WHERE participant_id = ?", photoURL, participantID); err != nil {
				logging.Log.Errorf("error updating participant photo: %v", err)
			}
		}

		_, err = db.Exec(
			"UPDATE Participants SET first_name = ?, last_name = ?, date_of_birth = ?, chest_number = ? WHERE participant_id = ?",
			firstName, lastName, nullIfEmpty(dateOfBirth), chestNumber, participantID,
		)
		if err != nil {
			logging.Log.Errorf("error updating participant %d: %v", participantID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to update participant"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Participant updated successfully"})
	}
}

func (pc ParticipantController) DeleteParticipant(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		participantID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid participant id"})
			return
		}

		var teamID int
		err = db.QueryRow("SELECT team_id FROM Participants WHERE participant_id = ?", participantID).Scan(&teamID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Participant not found"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch participant"})
			return
		}

		allowed, err := canManageTeam(db, userID, teamID)
		if err != nil || !allowed {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Participant does not belong to your team"})
			return
		}

		// participants with program assignments keep their history; cancel
		// the assignments instead of deleting the participant
		var assignmentCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM Assignments WHERE participant_id = ?", participantID).Scan(&assignmentCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to check assignments"})
			return
		}
		if assignmentCount > 0 {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Participant has program assignments"})
			return
		}

		if _, err := db.Exec("DELETE FROM Participants WHERE participant_id = ?", participantID); err != nil {
			logging.Log.Errorf("error deleting participant %d: %v", participantID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to delete participant"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Participant deleted successfully"})
	}
}
