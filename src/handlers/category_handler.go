package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			util.WriteValidationError(w, util.NewValidationError().Add("name", "This field is required."))
			return
		}

		created, err := db.CreateCategory(r.Context(), pool, &models.Category{UserID: userID, Name: req.Name})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				writeUniqueViolation(w, "name", "Category with this name already exists.")
				return
			}
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		nameContains := r.URL.Query().Get("name")

		categories, err := db.GetAllCategoriesForUser(r.Context(), pool, userID, nameContains)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func GetCategoryByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID, err := pathID(r, "category_id")
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		category, err := db.GetCategoryByID(r.Context(), pool, userID, categoryID)
		if err != nil {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID, err := pathID(r, "category_id")
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			util.WriteValidationError(w, util.NewValidationError().Add("name", "This field is required."))
			return
		}

		updated, err := db.UpdateCategory(r.Context(), pool, &models.Category{ID: categoryID, UserID: userID, Name: req.Name})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				writeUniqueViolation(w, "name", "Category with this name already exists.")
				return
			}
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID, err := pathID(r, "category_id")
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteCategory(r.Context(), pool, userID, categoryID); err != nil {
			log.Printf("ERROR: Failed to delete category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted category id %d for user %d", categoryID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
	}
}
