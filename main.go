package main

import (
	"database/sql"
	"net/http"
	"os"

	"fest-central/controllers"
	"fest-central/driver"
	"fest-central/logging"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

var db *sql.DB

func main() {
	logging.BootstrapLogger()

	if err := godotenv.Load(); err != nil {
		logging.Log.Warn("No .env file found, relying on environment")
	}
	if os.Getenv("SECRET") == "" {
		logging.Log.Fatal("SECRET variable is not set")
	}

	db = driver.ConnectDB()
	defer db.Close()
	driver.RunMigrations(db)

	controller := controllers.Controller{}
	teamController := controllers.TeamController{}
	participantController := controllers.ParticipantController{}
	categoryController := controllers.CategoryController{}
	programController := controllers.ProgramController{}
	judgeController := controllers.JudgeController{}
	assignmentController := controllers.AssignmentController{}
	scoreController := controllers.ScoreController{}
	resultsController := controllers.ResultsController{}
	publishController := controllers.PublishController{}
	settingsController := controllers.SettingsController{}

	router := mux.NewRouter()

	router.HandleFunc("/signup", controller.Signup(db)).Methods("POST")
	router.HandleFunc("/login", controller.Login(db)).Methods("POST")
	router.HandleFunc("/getMe", controller.GetMe(db)).Methods("GET")

	router.HandleFunc("/teams", teamController.GetTeams(db)).Methods("GET")
	router.HandleFunc("/teams/create", teamController.CreateTeam(db)).Methods("POST")
	router.HandleFunc("/teams/{id}", teamController.GetTeam(db)).Methods("GET")
	router.HandleFunc("/teams/{id}", teamController.UpdateTeam(db)).Methods("PUT")
	router.HandleFunc("/teams/{id}", teamController.DeleteTeam(db)).Methods("DELETE")
	router.HandleFunc("/teams/{id}/participants", teamController.GetTeamParticipants(db)).Methods("GET")

	router.HandleFunc("/participants", participantController.GetParticipants(db)).Methods("GET")
	router.HandleFunc("/participants/create", participantController.CreateParticipant(db)).Methods("POST")
	router.HandleFunc("/participants/{id}", participantController.UpdateParticipant(db)).Methods("PUT")
	router.HandleFunc("/participants/{id}", participantController.DeleteParticipant(db)).Methods("DELETE")

	router.HandleFunc("/categories", categoryController.GetCategories(db)).Methods("GET")
	router.HandleFunc("/categories/create", categoryController.CreateCategory(db)).Methods("POST")
	router.HandleFunc("/categories/{id}", categoryController.UpdateCategory(db)).Methods("PUT")
	router.HandleFunc("/categories/{id}", categoryController.DeleteCategory(db)).Methods("DELETE")

	router.HandleFunc("/programs", programController.GetPrograms(db)).Methods("GET")
	router.HandleFunc("/programs/create", programController.CreateProgram(db)).Methods("POST")
	router.HandleFunc("/programs/{id}", programController.GetProgram(db)).Methods("GET")
	router.HandleFunc("/programs/{id}", programController.UpdateProgram(db)).Methods("PUT")
	router.HandleFunc("/programs/{id}", programController.DeleteProgram(db)).Methods("DELETE")
	router.HandleFunc("/programs/{id}/status", programController.GetProgramStatus(db)).Methods("GET")
	router.HandleFunc("/programs/{id}/judging", programController.SetJudgingStatus(db)).Methods("PUT")

	router.HandleFunc("/programs/{id}/judges", judgeController.GetProgramJudges(db)).Methods("GET")
	router.HandleFunc("/programs/{id}/judges", judgeController.AssignJudge(db)).Methods("POST")
	router.HandleFunc("/programs/{id}/judges/{judgeId}", judgeController.RemoveJudge(db)).Methods("DELETE")

	router.HandleFunc("/assignments", assignmentController.GetAssignments(db)).Methods("GET")
	router.HandleFunc("/assignments/create", assignmentController.CreateAssignment(db)).Methods("POST")
	router.HandleFunc("/assignments/{id}", assignmentController.DeleteAssignment(db)).Methods("DELETE")
	router.HandleFunc("/assignments/{id}/report", assignmentController.ReportAssignment(db)).Methods("POST")
	router.HandleFunc("/assignments/{id}/report", assignmentController.UnreportAssignment(db)).Methods("DELETE")
	router.HandleFunc("/assignments/{id}/cancel", assignmentController.CancelAssignment(db)).Methods("POST")
	router.HandleFunc("/assignments/{id}/restore", assignmentController.RestoreAssignment(db)).Methods("POST")

	router.HandleFunc("/scores/submit", scoreController.SubmitScores(db)).Methods("POST")
	router.HandleFunc("/scores/mine", scoreController.GetMyScores(db)).Methods("GET")
	router.HandleFunc("/scores", scoreController.GetProgramScores(db)).Methods("GET")

	router.HandleFunc("/results/top-participants", resultsController.GetTopParticipants(db)).Methods("GET")
	router.HandleFunc("/results/teams", resultsController.GetTeamLeaderboard(db)).Methods("GET")
	router.HandleFunc("/results/programs/{id}", resultsController.GetProgramResults(db)).Methods("GET")
	router.HandleFunc("/results/programs/{id}/publish", publishController.PublishProgramResult(db)).Methods("POST")
	router.HandleFunc("/results/programs/{id}/unpublish", publishController.UnpublishProgramResult(db)).Methods("POST")
	router.HandleFunc("/results/standings/publish", publishController.PublishTeamStandings(db)).Methods("POST")

	router.HandleFunc("/public/results", publishController.GetPublishedResults(db)).Methods("GET")
	router.HandleFunc("/public/results/{programId}", publishController.GetPublishedResult(db)).Methods("GET")
	router.HandleFunc("/public/standings", publishController.GetPublishedStandings(db)).Methods("GET")

	router.HandleFunc("/settings/points", settingsController.GetPointsSettings(db)).Methods("GET")
	router.HandleFunc("/settings/points", settingsController.UpdatePointsSettings(db)).Methods("PUT")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logging.Log.Infof("Server started on port %s", port)
	logging.Log.Fatal(http.ListenAndServe(":"+port, router))
}
