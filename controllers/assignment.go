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

type AssignmentController struct{}

func (ac AssignmentController) CreateAssignment(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}

		var assignment models.Assignment
		if err := json.NewDecoder(r.Body).Decode(&assignment); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		var participantTeam int
		err = db.QueryRow("SELECT team_id FROM Participants WHERE participant_id = ?", assignment.ParticipantID).Scan(&participantTeam)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Participant does not exist"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch participant"})
			return
		}

		allowed, err := canManageTeam(db, userID, participantTeam)
		if err != nil || !allowed {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Participant does not belong to your team"})
			return
		}

		var maxParticipants int
		var isPublished bool
		err = db.QueryRow("SELECT max_participants, is_published FROM Programs WHERE program_id = ?", assignment.ProgramID).Scan(&maxParticipants, &isPublished)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Program does not exist"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch program"})
			return
		}
		if isPublished {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Program results are already published"})
			return
		}

		if maxParticipants > 0 {
			var current int
			err = db.QueryRow(
				"SELECT COUNT(*) FROM Assignments WHERE program_id = ? AND (status IS NULL OR status <> 'cancelled')",
				assignment.ProgramID,
			).Scan(&current)
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to check capacity"})
				return
			}
			if current >= maxParticipants {
				utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Program is full"})
				return
			}
		}

		result, err := db.Exec(
			"INSERT INTO Assignments (program_id, participant_id, team_id) VALUES (?, ?, ?)",
			assignment.ProgramID, assignment.ParticipantID, participantTeam,
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Participant is already assigned to this program"})
			return
		}
		id, _ := result.LastInsertId()
		utils.ResponseJSON(w, map[string]interface{}{"message": "Assignment created successfully", "assignment_id": id})
	}
}

func (ac AssignmentController) GetAssignments(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT a.assignment_id, a.program_id, a.participant_id, a.team_id,
			       a.code_letter, a.status, p.first_name, p.last_name, t.team_name, pr.program_name
			FROM Assignments a
			JOIN Participants p ON p.participant_id = a.participant_id
			JOIN Teams t ON t.team_id = a.team_id
			JOIN Programs pr ON pr.program_id = a.program_id`
		args := []interface{}{}
		where := ""
		if p := r.URL.Query().Get("program_id"); p != "" {
			programID, err := utils.StrToInt(p)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program_id"})
				return
			}
			where = " WHERE a.program_id = ?"
			args = append(args, programID)
		}
		if t := r.URL.Query().Get("team_id"); t != "" {
			teamID, err := utils.StrToInt(t)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid team_id"})
				return
			}
			if where == "" {
				where = " WHERE a.team_id = ?"
			} else {
				where += " AND a.team_id = ?"
			}
			args = append(args, teamID)
		}
		query += where + " ORDER BY a.assignment_id"

		rows, err := db.Query(query, args...)
		if err != nil {
			logging.Log.Errorf("error fetching assignments: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch assignments"})
			return
		}
		defer rows.Close()

		assignments := []models.Assignment{}
		for rows.Next() {
			var a models.Assignment
			var codeLetter, status sql.NullString
			if err := rows.Scan(&a.AssignmentID, &a.ProgramID, &a.ParticipantID, &a.TeamID,
				&codeLetter, &status, &a.ParticipantFirstName, &a.ParticipantLastName, &a.TeamName, &a.ProgramName); err != nil {
				continue
			}
			if codeLetter.Valid {
				a.CodeLetter = &codeLetter.String
			}
			if status.Valid {
				a.Status = &status.String
			}
			assignments = append(assignments, a)
		}
		utils.ResponseJSON(w, assignments)
	}
}

// ReportAssignment draws a random unused code letter for a participant who
// has reported to the stage. The whole draw runs inside one transaction
// that locks the program's assignment rows, so two simultaneous reports
// cannot claim the same letter.
func (ac AssignmentController) ReportAssignment(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, userID)
		if err != nil || (role != "admin" && role != "controller") {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Stage controller access required"})
			return
		}
		assignmentID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid assignment id"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		var programID int
		var codeLetter, status sql.NullString
		err = tx.QueryRow(
			"SELECT program_id, code_letter, status FROM Assignments WHERE assignment_id = ? FOR UPDATE",
			assignmentID,
		).Scan(&programID, &codeLetter, &status)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Assignment not found"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch assignment"})
			return
		}
		if status.Valid && status.String == "cancelled" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Assignment is cancelled"})
			return
		}
		if codeLetter.Valid {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Participant has already reported"})
			return
		}

		// lock the whole program's rows so the pool snapshot stays valid
		// until commit
		rows, err := tx.Query(
			"SELECT code_letter FROM Assignments WHERE program_id = ? AND (status IS NULL OR status <> 'cancelled') FOR UPDATE",
			programID,
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch code letters"})
			return
		}
		taken := map[string]bool{}
		total := 0
		for rows.Next() {
			var letter sql.NullString
			if err := rows.Scan(&letter); err != nil {
				continue
			}
			total++
			if letter.Valid {
				taken[letter.String] = true
			}
		}
		rows.Close()

		letter, err := utils.RandomCodeLetter(taken, total)
		if err != nil {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: err.Error()})
			return
		}

		if _, err := tx.Exec("UPDATE Assignments SET code_letter = ? WHERE assignment_id = ?", letter, assignmentID); err != nil {
			logging.Log.Errorf("error assigning code letter: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to assign code letter"})
			return
		}
		if err := tx.Commit(); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to commit"})
			return
		}

		utils.ResponseJSON(w, map[string]string{"message": "Participant reported", "code_letter": letter})
	}
}

// UnreportAssignment releases the code letter back to the pool.
func (ac AssignmentController) UnreportAssignment(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, userID)
		if err != nil || (role != "admin" && role != "controller") {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Stage controller access required"})
			return
		}
		assignmentID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid assignment id"})
			return
		}

		result, err := db.Exec("UPDATE Assignments SET code_letter = NULL WHERE assignment_id = ?", assignmentID)
		if err != nil {
			logging.Log.Errorf("error clearing code letter: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to clear code letter"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Assignment not found"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Code letter cleared"})
	}
}

// CancelAssignment excludes a participant from judging without deleting
// history. The code letter is always cleared so it returns to the pool.
func (ac AssignmentController) CancelAssignment(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, userID)
		if err != nil || (role != "admin" && role != "controller") {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Stage controller access required"})
			return
		}
		assignmentID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid assignment id"})
			return
		}

		result, err := db.Exec(
			"UPDATE Assignments SET status = 'cancelled', code_letter = NULL WHERE assignment_id = ?",
			assignmentID,
		)
		if err != nil {
			logging.Log.Errorf("error cancelling assignment %d: %v", assignmentID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to cancel assignment"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Assignment not found"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Assignment cancelled"})
	}
}

// RestoreAssignment clears the cancelled status. The code letter is not
// restored; the participant reports again.
func (ac AssignmentController) RestoreAssignment(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, userID)
		if err != nil || (role != "admin" && role != "controller") {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Stage controller access required"})
			return
		}
		assignmentID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid assignment id"})
			return
		}

		result, err := db.Exec("UPDATE Assignments SET status = NULL WHERE assignment_id = ?", assignmentID)
		if err != nil {
			logging.Log.Errorf("error restoring assignment %d: %v", assignmentID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to restore assignment"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Assignment not found"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Assignment restored"})
	}
}

func (ac AssignmentController) DeleteAssignment(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		assignmentID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid assignment id"})
			return
		}

		var teamID int
		err = db.QueryRow("SELECT team_id FROM Assignments WHERE assignment_id = ?", assignmentID).Scan(&teamID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Assignment not found"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch assignment"})
			return
		}

		allowed, err := canManageTeam(db, userID, teamID)
		if err != nil || !allowed {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Assignment does not belong to your team"})
			return
		}

		// once a judge has scored it, the assignment is history; cancel
		// instead of deleting
		var scoreCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM Scores WHERE assignment_id = ?", assignmentID).Scan(&scoreCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to check scores"})
			return
		}
		if scoreCount > 0 {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Assignment has scores. Cancel it instead"})
			return
		}

		if _, err := db.Exec("DELETE FROM Assignments WHERE assignment_id = ?", assignmentID); err != nil {
			logging.Log.Errorf("error deleting assignment %d: %v", assignmentID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to delete assignment"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Assignment deleted"})
	}
}
