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

type ProgramController struct{}

func scanProgram(scanner interface {
	Scan(dest ...interface{}) error
}, p *models.Program) error {
	var stage, posterURL, categoryName sql.NullString
	var scheduledAt sql.NullString
	err := scanner.Scan(
		&p.ProgramID, &p.CategoryID, &p.ProgramName, &p.Type, &p.MarkType,
		&stage, &scheduledAt, &p.DurationMinutes, &p.MaxParticipants,
		&p.IsPublished, &p.JudgingStatus, &posterURL, &categoryName,
	)
	if err != nil {
		return err
	}
	p.Stage = stage.String
	p.ScheduledAt = scheduledAt.String
	p.PosterURL = posterURL.String
	p.CategoryName = categoryName.String
	return nil
}

const programSelect = `
	SELECT p.program_id, p.category_id, p.program_name, p.type, p.mark_type,
	       p.stage, p.scheduled_at, p.duration_minutes, p.max_participants,
	       p.is_published, p.judging_status, p.poster_url, c.category_name
	FROM Programs p
	JOIN ProgramCategories c ON c.category_id = p.category_id`

func (pc ProgramController) GetPrograms(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := programSelect
		args := []interface{}{}
		where := ""
		if t := r.URL.Query().Get("type"); t != "" {
			where = " WHERE p.type = ?"
			args = append(args, t)
		}
		if c := r.URL.Query().Get("category_id"); c != "" {
			categoryID, err := utils.StrToInt(c)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid category_id"})
				return
			}
			if where == "" {
				where = " WHERE p.category_id = ?"
			} else {
				where += " AND p.category_id = ?"
			}
			args = append(args, categoryID)
		}
		query += where + " ORDER BY p.scheduled_at, p.program_name"

		rows, err := db.Query(query, args...)
		if err != nil {
			logging.Log.Errorf("error fetching programs: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch programs"})
			return
		}
		defer rows.Close()

		programs := []models.Program{}
		for rows.Next() {
			var p models.Program
			if err := scanProgram(rows, &p); err != nil {
				logging.Log.Errorf("error scanning program: %v", err)
				continue
			}
			programs = append(programs, p)
		}
		utils.ResponseJSON(w, programs)
	}
}

func (pc ProgramController) GetProgram(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}

		var p models.Program
		err = scanProgram(db.QueryRow(programSelect+" WHERE p.program_id = ?", programID), &p)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Program not found"})
			return
		} else if err != nil {
			logging.Log.Errorf("error fetching program %d: %v", programID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch program"})
			return
		}
		utils.ResponseJSON(w, p)
	}
}

func (pc ProgramController) CreateProgram(db *sql.DB) http.HandlerFunc {
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

		categoryID, err := utils.StrToInt(r.FormValue("category_id"))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid category_id"})
			return
		}
		programName := r.FormValue("program_name")
		programType := r.FormValue("type")
		markType := r.FormValue("mark_type")
		stage := r.FormValue("stage")
		scheduledAt := r.FormValue("scheduled_at")
		durationMinutes, _ := utils.StrToInt(r.FormValue("duration_minutes"))
		maxParticipants, _ := utils.StrToInt(r.FormValue("max_participants"))

		if programName == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "program_name is required"})
			return
		}
		if programType != "individual" && programType != "group" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid type"})
			return
		}
		if markType == "" {
			markType = "normal"
		}
		if markType != "normal" && markType != "special-mark" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid mark_type"})
			return
		}
		if scheduledAt != "" {
			if _, err := time.Parse("2006-01-02 15:04:05", scheduledAt); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid scheduled_at. Use YYYY-MM-DD HH:MM:SS"})
				return
			}
		}

		var exists bool
		if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM ProgramCategories WHERE category_id = ?)", categoryID).Scan(&exists); err != nil || !exists {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Category does not exist"})
			return
		}

		var posterURL string
		file, handler, err := r.FormFile("poster")
		if err == nil {
			defer file.Close()
			fileExt := filepath.Ext(handler.Filename)
			fileName := fmt.Sprintf("posters/%d_%s%s", time.Now().UnixNano(), uuid.New().String(), fileExt)
			posterURL, err = utils.UploadFileToS3(file, fileName, "poster")
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: fmt.Sprintf("Failed to upload poster: %v", err)})
				return
			}
		}

		result, err := db.Exec(`
			INSERT INTO Programs (category_id, program_name, type, mark_type, stage, scheduled_at, duration_minutes, max_participants, poster_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			categoryID, programName, programType, markType, stage, nullIfEmpty(scheduledAt), durationMinutes, maxParticipants, posterURL,
		)
		if err != nil {
			logging.Log.Errorf("error inserting program: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to create program"})
			return
		}
		id, _ := result.LastInsertId()
		utils.ResponseJSON(w, map[string]interface{}{"message": "Program created successfully", "program_id": id})
	}
}

func (pc ProgramController) UpdateProgram(db *sql.DB) http.HandlerFunc {
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

		var p models.Program
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if p.Type != "individual" && p.Type != "group" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid type"})
			return
		}
		if p.MarkType != "normal" && p.MarkType != "special-mark" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid mark_type"})
			return
		}

		_, err = db.Exec(`
			UPDATE Programs
			SET category_id = ?, program_name = ?, type = ?, mark_type = ?, stage = ?,
			    scheduled_at = ?, duration_minutes = ?, max_participants = ?
			WHERE program_id = ?`,
			p.CategoryID, p.ProgramName, p.Type, p.MarkType, p.Stage,
			nullIfEmpty(p.ScheduledAt), p.DurationMinutes, p.MaxParticipants, programID,
		)
		if err != nil {
			logging.Log.Errorf("error updating program %d: %v", programID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to update program"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Program updated successfully"})
	}
}

func (pc ProgramController) DeleteProgram(db *sql.DB) http.HandlerFunc {
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

		var assignmentCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM Assignments WHERE program_id = ?", programID).Scan(&assignmentCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to check assignments"})
			return
		}
		if assignmentCount > 0 {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Program has participant assignments"})
			return
		}

		if _, err := db.Exec("DELETE FROM ProgramJudges WHERE program_id = ?", programID); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to delete program judges"})
			return
		}
		if _, err := db.Exec("DELETE FROM Programs WHERE program_id = ?", programID); err != nil {
			logging.Log.Errorf("error deleting program %d: %v", programID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to delete program"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Program deleted successfully"})
	}
}

// GetProgramStatus derives the judging lifecycle of a program from the raw
// data: reported code letters and filled judge x participant score cells.
func (pc ProgramController) GetProgramStatus(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}

		var isPublished bool
		var judgingStatus string
		err = db.QueryRow("SELECT is_published, judging_status FROM Programs WHERE program_id = ?", programID).Scan(&isPublished, &judgingStatus)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Program not found"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch program"})
			return
		}

		var active, reported int
		err = db.QueryRow(`
			SELECT COUNT(*), COUNT(code_letter)
			FROM Assignments
			WHERE program_id = ? AND (status IS NULL OR status <> 'cancelled')`,
			programID,
		).Scan(&active, &reported)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch assignments"})
			return
		}

		var judgeCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM ProgramJudges WHERE program_id = ?", programID).Scan(&judgeCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch judges"})
			return
		}

		var submitted int
		err = db.QueryRow(`
			SELECT COUNT(*)
			FROM Scores s
			JOIN Assignments a ON a.assignment_id = s.assignment_id
			JOIN ProgramJudges pj ON pj.program_id = s.program_id AND pj.judge_id = s.judge_id
			WHERE s.program_id = ? AND a.code_letter IS NOT NULL
			  AND (a.status IS NULL OR a.status <> 'cancelled')`,
			programID,
		).Scan(&submitted)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch scores"})
			return
		}

		expected := judgeCount * reported
		status := "not_started"
		switch {
		case isPublished:
			status = "published"
		case reported == 0:
			status = "not_started"
		case reported < active:
			status = "reporting"
		case submitted == 0:
			status = "ready"
		case expected > 0 && submitted >= expected:
			status = "completed"
		default:
			status = "in_progress"
		}

		utils.ResponseJSON(w, models.ProgramStatus{
			ProgramID:          programID,
			Status:             status,
			ActiveParticipants: active,
			Reported:           reported,
			ExpectedScores:     expected,
			SubmittedScores:    submitted,
			JudgingStatus:      judgingStatus,
		})
	}
}

// SetJudgingStatus toggles the admin gate that blocks judges from writing
// scores; it is orthogonal to the derived lifecycle.
func (pc ProgramController) SetJudgingStatus(db *sql.DB) http.HandlerFunc {
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
			JudgingStatus string `json:"judging_status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if body.JudgingStatus != "open" && body.JudgingStatus != "closed" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "judging_status must be 'open' or 'closed'"})
			return
		}

		result, err := db.Exec("UPDATE Programs SET judging_status = ? WHERE program_id = ?", body.JudgingStatus, programID)
		if err != nil {
			logging.Log.Errorf("error updating judging status for program %d: %v", programID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to update judging status"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Program not found"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Judging status updated", "judging_status": body.JudgingStatus})
	}
}
