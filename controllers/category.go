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

type CategoryController struct{}

func (cc CategoryController) GetCategories(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query("SELECT category_id, category_name, is_general FROM ProgramCategories ORDER BY category_name")
		if err != nil {
			logging.Log.Errorf("error fetching categories: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to fetch categories"})
			return
		}
		defer rows.Close()

		categories := []models.ProgramCategory{}
		for rows.Next() {
			var c models.ProgramCategory
			if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.IsGeneral); err != nil {
				continue
			}
			categories = append(categories, c)
		}
		utils.ResponseJSON(w, categories)
	}
}

func (cc CategoryController) CreateCategory(db *sql.DB) http.HandlerFunc {
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

		var category models.ProgramCategory
		if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if category.CategoryName == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "category_name is required"})
			return
		}

		result, err := db.Exec(
			"INSERT INTO ProgramCategories (category_name, is_general) VALUES (?, ?)",
			category.CategoryName, category.IsGeneral,
		)
		if err != nil {
			logging.Log.Errorf("error inserting category: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to create category"})
			return
		}
		id, _ := result.LastInsertId()
		utils.ResponseJSON(w, map[string]interface{}{"message": "Category created successfully", "category_id": id})
	}
}

func (cc CategoryController) UpdateCategory(db *sql.DB) http.HandlerFunc {
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
		categoryID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid category id"})
			return
		}

		var category models.ProgramCategory
		if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		_, err = db.Exec(
			"UPDATE ProgramCategories SET category_name = ?, is_general = ? WHERE category_id = ?",
			category.CategoryName, category.IsGeneral, categoryID,
		)
		if err != nil {
			logging.Log.Errorf("error updating category %d: %v", categoryID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to update category"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Category updated successfully"})
	}
}

func (cc CategoryController) DeleteCategory(db *sql.DB) http.HandlerFunc {
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
		categoryID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid category id"})
			return
		}

		var programCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM Programs WHERE category_id = ?", categoryID).Scan(&programCount); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to check programs"})
			return
		}
		if programCount > 0 {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Category still has programs"})
			return
		}

		if _, err := db.Exec("DELETE FROM ProgramCategories WHERE category_id = ?", categoryID); err != nil {
			logging.Log.Errorf("error deleting category %d: %v", categoryID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Failed to delete category"})
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Category deleted successfully"})
	}
}
