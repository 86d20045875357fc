package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/utils"

	"github.com/gorilla/mux"
)

type JudgeController struct{}

func (jc JudgeController) GetProgramJudges(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}

		rows, err := db.Query(`
			SELECT u.id, u.first_name, u.last_name
			FROM ProgramJudges pj
			JOIN users u ON u.id = pj.judge_id
			WHERE pj.program_id = ?
			ORDER BY u.last_name, u.first_name`, programID)
		if err != nil {
			logging.Log.Errorf("error fetching judges for program %d: %v", programID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch judges"})
			return
		}
		defer rows.Close()

		judges := []models.User{}
		for rows.Next() {
			var u models.User
			var firstName, lastName sql.NullString
			if err := rows.Scan(&u.ID, &firstName, &lastName); err != nil {
				continue
			}
			u.FirstName = firstName.String
			u.LastName = lastName.String
			u.Role = "judge"
			judges = append(judges, u)
		}
		utils.ResponseJSON(w, judges)
	}
}

func (jc JudgeController) AssignJudge(db *sql.DB) http.HandlerFunc {
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
		programID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}

		var body struct {
			JudgeID int `json:"judge_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		var judgeRole string
		err = db.QueryRow("SELECT role FROM users WHERE id = ?", body.JudgeID).Scan(&judgeRole)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Judge does not exist"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch judge"})
			return
		}
		if judgeRole != "judge" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "User is not a judge"})
			return
		}

		var exists bool
		if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM Programs WHERE program_id = ?)", programID).Scan(&exists); err != nil || !exists {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Program does not exist"})
			return
		}

		_, err = db.Exec("INSERT INTO ProgramJudges (program_id, judge_id) VALUES (?, ?)", programID, body.JudgeID)
		if err != nil {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Judge already assigned to this program"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Judge assigned successfully"})
	}
}

func (jc JudgeController) RemoveJudge(db *sql.DB) http.HandlerFunc {
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
		vars := mux.Vars(r)
		programID, err := utils.StrToInt(vars["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}
		judgeID, err := utils.StrToInt(vars["judgeId"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid judge id"})
			return
		}

		// scores the judge already submitted stay; removal only stops
		// further submissions
		result, err := db.Exec("DELETE FROM ProgramJudges WHERE program_id = ? AND judge_id = ?", programID, judgeID)
		if err != nil {
			logging.Log.Errorf("error removing judge %d from program %d: %v", judgeID, programID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to remove judge"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Judge is not assigned to this program"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Judge removed successfully"})
	}
}
