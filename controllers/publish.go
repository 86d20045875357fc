package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/scoring"
	"fest-central/utils"

	"github.com/gorilla/mux"
)

type PublishController struct{}

const teamStandingsID = 1

// PublishProgramResult freezes a program's top three ranks into the public
// results. Snapshot insert, is_published flip and judging close are one
// transaction: either a published program has its snapshot or neither
// effect happened.
func (pc PublishController) PublishProgramResult(db *sql.DB) http.HandlerFunc {
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

		var programName, categoryName string
		var isPublished bool
		err = db.QueryRow(`
			SELECT p.program_name, c.category_name, p.is_published
			FROM Programs p
			JOIN ProgramCategories c ON c.category_id = p.category_id
			WHERE p.program_id = ?`, programID,
		).Scan(&programName, &categoryName, &isPublished)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Program not found"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch program"})
			return
		}
		if isPublished {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Program is already published"})
			return
		}

		in, participants, teams, err := loadScoringInput(db)
		if err != nil {
			logging.Log.Errorf("error loading scoring input: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to compute results"})
			return
		}
		names := map[int]string{}
		teamOf := map[int]int{}
		for _, p := range participants {
			names[p.ID] = p.Name
			teamOf[p.ID] = p.TeamID
		}
		teamNames := map[int]string{}
		for _, t := range teams {
			teamNames[t.ID] = t.Name
		}

		winners := map[string][]models.Winner{}
		for _, e := range scoring.ProgramResults(programID, in) {
			if e.Rank < 1 || e.Rank > 3 {
				continue
			}
			key := map[int]string{1: "1", 2: "2", 3: "3"}[e.Rank]
			winners[key] = append(winners[key], models.Winner{
				Name:     names[e.ParticipantID],
				TeamName: teamNames[teamOf[e.ParticipantID]],
			})
		}
		winnersJSON, err := json.Marshal(winners)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to encode winners"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		var resultNumber int
		if err := tx.QueryRow("SELECT COALESCE(MAX(result_number), 0) + 1 FROM PublishedResults").Scan(&resultNumber); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to compute result number"})
			return
		}

		_, err = tx.Exec(`
			INSERT INTO PublishedResults (program_id, program_name, category_name, result_number, winners)
			VALUES (?, ?, ?, ?, ?)`,
			programID, programName, categoryName, resultNumber, winnersJSON,
		)
		if err != nil {
			logging.Log.Errorf("error inserting published result: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to publish result"})
			return
		}

		_, err = tx.Exec("UPDATE Programs SET is_published = TRUE, judging_status = 'closed' WHERE program_id = ?", programID)
		if err != nil {
			logging.Log.Errorf("error flipping publish flag: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to publish result"})
			return
		}

		if err := tx.Commit(); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to commit"})
			return
		}
		utils.ResponseJSON(w, map[string]interface{}{"message": "Program result published", "result_number": resultNumber})
	}
}

// UnpublishProgramResult deletes the snapshot and clears is_published.
// Judging stays closed; an admin reopens it explicitly.
func (pc PublishController) UnpublishProgramResult(db *sql.DB) http.HandlerFunc {
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

		tx, err := db.Begin()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		result, err := tx.Exec("DELETE FROM PublishedResults WHERE program_id = ?", programID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to unpublish"})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Program is not published"})
			return
		}

		if _, err := tx.Exec("UPDATE Programs SET is_published = FALSE WHERE program_id = ?", programID); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to unpublish"})
			return
		}

		if err := tx.Commit(); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to commit"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Program result unpublished"})
	}
}

// PublishTeamStandings snapshots the team leaderboard over published
// programs, together with the published-result count at that moment.
func (pc PublishController) PublishTeamStandings(db *sql.DB) http.HandlerFunc {
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

		in, participants, teams, err := loadScoringInput(db)
		if err != nil {
			logging.Log.Errorf("error loading scoring input: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to compute standings"})
			return
		}

		leaderNames := map[int]string{}
		rows, err := db.Query("SELECT team_id, leader_name FROM Teams")
		if err == nil {
			for rows.Next() {
				var id int
				var name string
				if err := rows.Scan(&id, &name); err == nil {
					leaderNames[id] = name
				}
			}
			rows.Close()
		}

		totals := scoring.AggregateTeams(in, participants, teams, scoring.Options{
			Filter:        scoring.FilterAll,
			PublishedOnly: true,
		})
		standings := make([]models.TeamStanding, 0, len(totals))
		for _, total := range totals {
			standings = append(standings, models.TeamStanding{
				TeamID:      total.ID,
				TeamName:    total.Name,
				LeaderName:  leaderNames[total.ID],
				TotalPoints: total.Points,
			})
		}
		standingsJSON, err := json.Marshal(standings)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to encode standings"})
			return
		}

		var resultCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM PublishedResults").Scan(&resultCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to count results"})
			return
		}

		_, err = db.Exec(`
			INSERT INTO TeamStandings (id, standings, result_count, published_at)
			VALUES (?, ?, ?, NOW())
			ON DUPLICATE KEY UPDATE
				standings = VALUES(standings),
				result_count = VALUES(result_count),
				published_at = NOW()`,
			teamStandingsID, standingsJSON, resultCount,
		)
		if err != nil {
			logging.Log.Errorf("error publishing standings: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to publish standings"})
			return
		}
		utils.ResponseJSON(w, map[string]interface{}{"message": "Team standings published", "result_count": resultCount})
	}
}

// GetPublishedResults is the public results feed, ordered by result number.
func (pc PublishController) GetPublishedResults(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query(`
			SELECT result_id, program_id, program_name, category_name, result_number, winners, published_at
			FROM PublishedResults
			ORDER BY result_number DESC`)
		if err != nil {
			logging.Log.Errorf("error fetching published results: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch results"})
			return
		}
		defer rows.Close()

		results := []models.PublishedResult{}
		for rows.Next() {
			var res models.PublishedResult
			var winnersJSON []byte
			if err := rows.Scan(&res.ResultID, &res.ProgramID, &res.ProgramName, &res.CategoryName, &res.ResultNumber, &winnersJSON, &res.PublishedAt); err != nil {
				continue
			}
			if err := json.Unmarshal(winnersJSON, &res.Winners); err != nil {
				continue
			}
			results = append(results, res)
		}
		utils.ResponseJSON(w, results)
	}
}

func (pc PublishController) GetPublishedResult(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID, err := utils.StrToInt(mux.Vars(r)["programId"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}

		var res models.PublishedResult
		var winnersJSON []byte
		err = db.QueryRow(`
			SELECT result_id, program_id, program_name, category_name, result_number, winners, published_at
			FROM PublishedResults WHERE program_id = ?`, programID,
		).Scan(&res.ResultID, &res.ProgramID, &res.ProgramName, &res.CategoryName, &res.ResultNumber, &winnersJSON, &res.PublishedAt)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Result not published"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch result"})
			return
		}
		if err := json.Unmarshal(winnersJSON, &res.Winners); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Corrupted result record"})
			return
		}
		utils.ResponseJSON(w, res)
	}
}

func (pc PublishController) GetPublishedStandings(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var standings models.TeamStandings
		var standingsJSON []byte
		err := db.QueryRow(
			"SELECT standings, result_count, published_at FROM TeamStandings WHERE id = ?",
			teamStandingsID,
		).Scan(&standingsJSON, &standings.ResultCount, &standings.PublishedAt)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Standings not published yet"})
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch standings"})
			return
		}
		if err := json.Unmarshal(standingsJSON, &standings.Standings); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Corrupted standings record"})
			return
		}
		utils.ResponseJSON(w, standings)
	}
}
