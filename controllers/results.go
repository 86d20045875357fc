package controllers

import (
	"database/sql"
	"net/http"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/scoring"
	"fest-central/utils"

	"github.com/gorilla/mux"
)

type ResultsController struct{}

// loadScoringInput snapshots every collection the scoring pipeline reads.
// Leaderboards are recomputed from this snapshot on each request; nothing
// derived is stored outside the explicit publish action.
func loadScoringInput(db *sql.DB) (scoring.Input, []scoring.Participant, []scoring.Team, error) {
	var in scoring.Input

	rows, err := db.Query("SELECT program_id, category_id, type, mark_type, is_published FROM Programs")
	if err != nil {
		return in, nil, nil, err
	}
	for rows.Next() {
		var p scoring.Program
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Type, &p.MarkType, &p.IsPublished); err != nil {
			rows.Close()
			return in, nil, nil, err
		}
		in.Programs = append(in.Programs, p)
	}
	rows.Close()

	rows, err = db.Query("SELECT category_id, is_general FROM ProgramCategories")
	if err != nil {
		return in, nil, nil, err
	}
	for rows.Next() {
		var c scoring.Category
		if err := rows.Scan(&c.ID, &c.IsGeneral); err != nil {
			rows.Close()
			return in, nil, nil, err
		}
		in.Categories = append(in.Categories, c)
	}
	rows.Close()

	rows, err = db.Query("SELECT assignment_id, program_id, participant_id, team_id, status FROM Assignments")
	if err != nil {
		return in, nil, nil, err
	}
	for rows.Next() {
		var a scoring.Assignment
		var status sql.NullString
		if err := rows.Scan(&a.ID, &a.ProgramID, &a.ParticipantID, &a.TeamID, &status); err != nil {
			rows.Close()
			return in, nil, nil, err
		}
		a.Cancelled = status.Valid && status.String == "cancelled"
		in.Assignments = append(in.Assignments, a)
	}
	rows.Close()

	rows, err = db.Query("SELECT assignment_id, score FROM Scores")
	if err != nil {
		return in, nil, nil, err
	}
	for rows.Next() {
		var s scoring.Score
		if err := rows.Scan(&s.AssignmentID, &s.Value); err != nil {
			rows.Close()
			return in, nil, nil, err
		}
		in.Scores = append(in.Scores, s)
	}
	rows.Close()

	in.Settings, err = loadPointsSettings(db)
	if err != nil {
		return in, nil, nil, err
	}

	var participants []scoring.Participant
	rows, err = db.Query("SELECT participant_id, team_id, CONCAT(first_name, ' ', last_name) FROM Participants")
	if err != nil {
		return in, nil, nil, err
	}
	for rows.Next() {
		var p scoring.Participant
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name); err != nil {
			rows.Close()
			return in, nil, nil, err
		}
		participants = append(participants, p)
	}
	rows.Close()

	var teams []scoring.Team
	rows, err = db.Query("SELECT team_id, team_name FROM Teams")
	if err != nil {
		return in, nil, nil, err
	}
	for rows.Next() {
		var t scoring.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			rows.Close()
			return in, nil, nil, err
		}
		teams = append(teams, t)
	}
	rows.Close()

	return in, participants, teams, nil
}

func parseAggregateOptions(r *http.Request) (scoring.Options, bool) {
	opt := scoring.Options{Filter: scoring.FilterAll}
	switch f := r.URL.Query().Get("filter"); f {
	case "", "all":
		opt.Filter = scoring.FilterAll
	case "individual":
		opt.Filter = scoring.FilterIndividual
	case "group":
		opt.Filter = scoring.FilterGroup
	case "specific":
		opt.Filter = scoring.FilterSpecific
	case "individual-specific":
		opt.Filter = scoring.FilterIndividualSpecific
	case "group-specific":
		opt.Filter = scoring.FilterGroupSpecific
	default:
		return opt, false
	}
	opt.PublishedOnly = r.URL.Query().Get("published") == "true"
	return opt, true
}

func (rc ResultsController) GetTopParticipants(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opt, ok := parseAggregateOptions(r)
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid filter"})
			return
		}

		in, participants, _, err := loadScoringInput(db)
		if err != nil {
			logging.Log.Errorf("error loading scoring input: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to compute results"})
			return
		}

		teamNames := map[int]string{}
		teamOf := map[int]int{}
		for _, p := range participants {
			teamOf[p.ID] = p.TeamID
		}
		rows, err := db.Query("SELECT team_id, team_name FROM Teams")
		if err == nil {
			for rows.Next() {
				var id int
				var name string
				if err := rows.Scan(&id, &name); err == nil {
					teamNames[id] = name
				}
			}
			rows.Close()
		}

		totals := scoring.AggregateParticipants(in, participants, opt)
		results := make([]models.ParticipantResult, 0, len(totals))
		for _, total := range totals {
			results = append(results, models.ParticipantResult{
				ParticipantID: total.ID,
				Name:          total.Name,
				TeamName:      teamNames[teamOf[total.ID]],
				TotalPoints:   total.Points,
			})
		}
		utils.ResponseJSON(w, results)
	}
}

func (rc ResultsController) GetTeamLeaderboard(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opt, ok := parseAggregateOptions(r)
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid filter"})
			return
		}

		in, participants, teams, err := loadScoringInput(db)
		if err != nil {
			logging.Log.Errorf("error loading scoring input: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to compute results"})
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

		totals := scoring.AggregateTeams(in, participants, teams, opt)
		results := make([]models.TeamResult, 0, len(totals))
		for _, total := range totals {
			results = append(results, models.TeamResult{
				TeamID:      total.ID,
				TeamName:    total.Name,
				LeaderName:  leaderNames[total.ID],
				TotalPoints: total.Points,
			})
		}
		utils.ResponseJSON(w, results)
	}
}

// GetProgramResults is the live result sheet of one program: every scored
// assignment with its average, grade band, dense rank and points.
func (rc ResultsController) GetProgramResults(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid program id"})
			return
		}

		var exists bool
		if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM Programs WHERE program_id = ?)", programID).Scan(&exists); err != nil || !exists {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Program not found"})
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
		letters := map[int]string{}
		rows, err := db.Query("SELECT assignment_id, code_letter FROM Assignments WHERE program_id = ? AND code_letter IS NOT NULL", programID)
		if err == nil {
			for rows.Next() {
				var id int
				var letter string
				if err := rows.Scan(&id, &letter); err == nil {
					letters[id] = letter
				}
			}
			rows.Close()
		}

		entries := scoring.ProgramResults(programID, in)
		results := make([]models.ProgramEntryResult, 0, len(entries))
		for _, e := range entries {
			results = append(results, models.ProgramEntryResult{
				AssignmentID:  e.AssignmentID,
				ParticipantID: e.ParticipantID,
				Name:          names[e.ParticipantID],
				TeamName:      teamNames[teamOf[e.ParticipantID]],
				CodeLetter:    letters[e.AssignmentID],
				Average:       e.Average,
				Grade:         string(e.Grade),
				Rank:          e.Rank,
				Points:        e.Points,
			})
		}
		utils.ResponseJSON(w, results)
	}
}
