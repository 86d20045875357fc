package controllers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/utils"
)

type ScoreController struct{}

// SubmitScores saves one judge's batch of scores for a program. Each row
// upserts on (assignment_id, judge_id), so resubmitting overwrites the
// judge's earlier entry. The whole batch is one transaction.
func (sc ScoreController) SubmitScores(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		judgeID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, judgeID)
		if err != nil || role != "judge" {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Judge access required"})
			return
		}

		var batch models.ScoreBatch
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if len(batch.Scores) == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "No scores submitted"})
			return
		}

		var judgingStatus string
		err = db.QueryRow("SELECT judging_status FROM Programs WHERE program_id = ?", batch.ProgramID).Scan(&judgingStatus)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Program does not exist"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch program"})
			return
		}
		if judgingStatus == "closed" {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Judging is closed for this program"})
			return
		}

		var assigned bool
		err = db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM ProgramJudges WHERE program_id = ? AND judge_id = ?)",
			batch.ProgramID, judgeID,
		).Scan(&assigned)
		if err != nil || !assigned {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "You are not assigned to judge this program"})
			return
		}

		for _, entry := range batch.Scores {
			if entry.Score < 0 || entry.Score > 100 {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: fmt.Sprintf("Score for assignment %d must be between 0 and 100", entry.AssignmentID)})
				return
			}
		}

		tx, err := db.Begin()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for _, entry := range batch.Scores {
			var programID int
			var status sql.NullString
			err := tx.QueryRow(
				"SELECT program_id, status FROM Assignments WHERE assignment_id = ?",
				entry.AssignmentID,
			).Scan(&programID, &status)
			if err == sql.ErrNoRows {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: fmt.Sprintf("Assignment %d does not exist", entry.AssignmentID)})
				return
			} else if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch assignment"})
				return
			}
			if programID != batch.ProgramID {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: fmt.Sprintf("Assignment %d belongs to another program", entry.AssignmentID)})
				return
			}
			if status.Valid && status.String == "cancelled" {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: fmt.Sprintf("Assignment %d is cancelled", entry.AssignmentID)})
				return
			}

			_, err = tx.Exec(`
				INSERT INTO Scores (program_id, assignment_id, judge_id, score, review)
				VALUES (?, ?, ?, ?, ?)
				ON DUPLICATE KEY UPDATE score = VALUES(score), review = VALUES(review)`,
				batch.ProgramID, entry.AssignmentID, judgeID, entry.Score, nullIfEmpty(entry.Review),
			)
			if err != nil {
				logging.Log.Errorf("error upserting score for assignment %d: %v", entry.AssignmentID, err)
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to save scores"})
				return
			}
		}

		if err := tx.Commit(); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to commit"})
			return
		}
		utils.ResponseJSON(w, map[string]interface{}{"message": "Scores saved", "count": len(batch.Scores)})
	}
}

// GetMyScores lists the calling judge's scoring sheet for a program: every
// reported, non-cancelled assignment by code letter, with the judge's own
// score where one exists. Identities stay hidden.
func (sc ScoreController) GetMyScores(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		judgeID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, judgeID)
		if err != nil || role != "judge" {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Judge access required"})
			return
		}
		programID, err := utils.StrToInt(r.URL.Query().Get("program_id"))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program_id"})
			return
		}

		rows, err := db.Query(`
			SELECT a.assignment_id, a.code_letter, s.score_id, s.score, s.review
			FROM Assignments a
			LEFT JOIN Scores s ON s.assignment_id = a.assignment_id AND s.judge_id = ?
			WHERE a.program_id = ? AND a.code_letter IS NOT NULL
			  AND (a.status IS NULL OR a.status <> 'cancelled')
			ORDER BY a.code_letter`,
			judgeID, programID)
		if err != nil {
			logging.Log.Errorf("error fetching judge sheet: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch scores"})
			return
		}
		defer rows.Close()

		sheet := []models.Score{}
		for rows.Next() {
			var entry models.Score
			var codeLetter string
			var scoreID sql.NullInt64
			var score sql.NullFloat64
			var review sql.NullString
			if err := rows.Scan(&entry.AssignmentID, &codeLetter, &scoreID, &score, &review); err != nil {
				continue
			}
			entry.ProgramID = programID
			entry.JudgeID = judgeID
			entry.CodeLetter = codeLetter
			entry.ScoreID = int(scoreID.Int64)
			entry.Score = score.Float64
			entry.Review = review.String
			sheet = append(sheet, entry)
		}
		utils.ResponseJSON(w, sheet)
	}
}

// GetProgramScores returns the full score matrix of a program with judge
// names, for admins and stage controllers.
func (sc ScoreController) GetProgramScores(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}
		role, _, err := userRole(db, userID)
		if err != nil || (role != "admin" && role != "controller") {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Admin or stage controller access required"})
			return
		}
		programID, err := utils.StrToInt(r.URL.Query().Get("program_id"))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program_id"})
			return
		}

		rows, err := db.Query(`
			SELECT s.score_id, s.program_id, s.assignment_id, s.judge_id, s.score, s.review,
			       a.code_letter, CONCAT(u.first_name, ' ', u.last_name)
			FROM Scores s
			JOIN Assignments a ON a.assignment_id = s.assignment_id
			JOIN users u ON u.id = s.judge_id
			WHERE s.program_id = ?
			ORDER BY a.code_letter, s.judge_id`, programID)
		if err != nil {
			logging.Log.Errorf("error fetching program scores: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch scores"})
			return
		}
		defer rows.Close()

		scores := []models.Score{}
		for rows.Next() {
			var s models.Score
			var codeLetter, review sql.NullString
			if err := rows.Scan(&s.ScoreID, &s.ProgramID, &s.AssignmentID, &s.JudgeID, &s.Score, &review, &codeLetter, &s.JudgeName); err != nil {
				continue
			}
			s.CodeLetter = codeLetter.String
			s.Review = review.String
			scores = append(scores, s)
		}
		utils.ResponseJSON(w, scores)
	}
}
