package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fest-central/logging"
	"fest-central/models"
	"fest-central/utils"

	"golang.org/x/crypto/bcrypt"
)

type Controller struct{}

// userRole loads the caller's role and team from the users table.
func userRole(db *sql.DB, userID int) (string, sql.NullInt64, error) {
	var role string
	var teamID sql.NullInt64
	err := db.QueryRow("SELECT role, team_id FROM users WHERE id = ?", userID).Scan(&role, &teamID)
	return role, teamID, err
}

func (c Controller) Signup(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		var error models.Error

		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			error.Message = "Invalid request body."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		if user.Login == "" && user.Email == "" {
			error.Message = "Login or email is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}
		if user.Email != "" && !strings.Contains(user.Email, "@") {
			error.Message = "Invalid email format."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}
		if user.Password == "" {
			error.Message = "Password is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		// Only an admin may create judges, stage controllers or other
		// admins; self-registration is always a team leader account.
		role := "leader"
		if user.Role != "" && user.Role != "leader" {
			callerID, err := utils.VerifyToken(r)
			if err != nil {
				error.Message = "Only an admin can assign roles."
				utils.RespondWithError(w, http.StatusUnauthorized, error)
				return
			}
			callerRole, _, err := userRole(db, callerID)
			if err != nil || callerRole != "admin" {
				error.Message = "Only an admin can assign roles."
				utils.RespondWithError(w, http.StatusForbidden, error)
				return
			}
			if user.Role != "admin" && user.Role != "judge" && user.Role != "controller" {
				error.Message = "Invalid role."
				utils.RespondWithError(w, http.StatusBadRequest, error)
				return
			}
			role = user.Role
		}

		var existingID int
		var query, identifier string
		if user.Email != "" {
			query = "SELECT id FROM users WHERE email = ?"
			identifier = user.Email
		} else {
			query = "SELECT id FROM users WHERE login = ?"
			identifier = user.Login
		}
		err := db.QueryRow(query, identifier).Scan(&existingID)
		if err == nil {
			error.Message = "Login or email already exists."
			utils.RespondWithError(w, http.StatusConflict, error)
			return
		} else if err != sql.ErrNoRows {
			logging.Log.Errorf("error checking existing user: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			logging.Log.Errorf("error hashing password: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		_, err = db.Exec(
			"INSERT INTO users (login, email, password, first_name, last_name, role, team_id, avatar_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			nullIfEmpty(user.Login), nullIfEmpty(user.Email), string(hash),
			user.FirstName, user.LastName, role, user.TeamID, nullIfEmpty(user.AvatarURL),
		)
		if err != nil {
			logging.Log.Errorf("error inserting user: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		utils.ResponseJSON(w, map[string]string{"message": "User registered successfully."})
	}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (c Controller) Login(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		var error models.Error

		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			error.Message = "Invalid request body."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		var query, identifier string
		if user.Email != "" {
			query = "SELECT id, login, email, password, first_name, last_name, role, team_id FROM users WHERE email = ?"
			identifier = user.Email
		} else if user.Login != "" {
			query = "SELECT id, login, email, password, first_name, last_name, role, team_id FROM users WHERE login = ?"
			identifier = user.Login
		} else {
			error.Message = "Login or email is required."
			utils.RespondWithError(w, http.StatusBadRequest, error)
			return
		}

		var login, email sql.NullString
		var teamID sql.NullInt64
		var hashedPassword string
		err := db.QueryRow(query, identifier).Scan(
			&user.ID, &login, &email, &hashedPassword,
			&user.FirstName, &user.LastName, &user.Role, &teamID,
		)
		if err == sql.ErrNoRows {
			error.Message = "Invalid credentials."
			utils.RespondWithError(w, http.StatusUnauthorized, error)
			return
		} else if err != nil {
			logging.Log.Errorf("error fetching user: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		if !utils.ComparePasswords(hashedPassword, []byte(user.Password)) {
			error.Message = "Invalid credentials."
			utils.RespondWithError(w, http.StatusUnauthorized, error)
			return
		}

		user.Login = login.String
		user.Email = email.String
		user.Password = ""
		if teamID.Valid {
			id := int(teamID.Int64)
			user.TeamID = &id
		}

		token, err := utils.GenerateToken(user, 24*time.Hour)
		if err != nil {
			logging.Log.Errorf("error generating token: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user, 7*24*time.Hour)
		if err != nil {
			logging.Log.Errorf("error generating refresh token: %v", err)
			error.Message = "Server error."
			utils.RespondWithError(w, http.StatusInternalServerError, error)
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{
			"token":         token,
			"refresh_token": refreshToken,
			"user":          user,
		})
	}
}

func (c Controller) GetMe(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.VerifyToken(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Unauthorized"})
			return
		}

		var user models.User
		var login, email, firstName, lastName, avatarURL sql.NullString
		var teamID sql.NullInt64
		err = db.QueryRow(
			"SELECT id, login, email, first_name, last_name, role, team_id, avatar_url FROM users WHERE id = ?",
			userID,
		).Scan(&user.ID, &login, &email, &firstName, &lastName, &user.Role, &teamID, &avatarURL)
		if err != nil {
			logging.Log.Errorf("error fetching user %d: %v", userID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch user"})
			return
		}

		user.Login = login.String
		user.Email = email.String
		user.FirstName = firstName.String
		user.LastName = lastName.String
		user.AvatarURL = avatarURL.String
		if teamID.Valid {
			id := int(teamID.Int64)
			user.TeamID = &id
		}

		utils.ResponseJSON(w, user)
	}
}
