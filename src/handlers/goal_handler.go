package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type goalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *string         `json:"target_date"`
}

func validateGoalRequest(userID int64, req goalRequest) (*models.SavingsGoal, *util.ValidationError) {
	vErr := util.NewValidationError()

	if strings.TrimSpace(req.Name) == "" {
		vErr.Add("name", "This field is required.")
	}
	if !util.ValidatePositiveAmount(req.TargetAmount) {
		vErr.Add("target_amount", "Target amount must be positive.")
	}
	if req.CurrentAmount.IsNegative() {
		vErr.Add("current_amount", "Current amount cannot be negative.")
	}

	var targetDate *time.Time
	if req.TargetDate != nil && *req.TargetDate != "" {
		date, err := util.ParseDate(*req.TargetDate)
		if err != nil {
			vErr.Add("target_date", "Date must be in YYYY-MM-DD format.")
		} else {
			targetDate = &date
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	return &models.SavingsGoal{
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    targetDate,
	}, nil
}

func CreateSavingsGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req goalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create goal request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		goal, vErr := validateGoalRequest(userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}

		created, err := db.CreateSavingsGoal(r.Context(), pool, goal)
		if err != nil {
			log.Printf("ERROR: Failed to create savings goal for user %d: %v", userID, err)
			http.Error(w, "failed to create savings goal", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created savings goal id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllSavingsGoals(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goals, err := db.GetAllSavingsGoalsForUser(r.Context(), pool, userID, r.URL.Query().Get("name"))
		if err != nil {
			log.Printf("ERROR: Failed to get savings goals for user %d: %v", userID, err)
			http.Error(w, "failed to get savings goals", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, goals)
	}
}

func GetSavingsGoalByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID, err := pathID(r, "goal_id")
		if err != nil {
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		goal, err := db.GetSavingsGoalByID(r.Context(), pool, userID, goalID)
		if err != nil {
			http.Error(w, "savings goal not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, goal)
	}
}

func UpdateSavingsGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID, err := pathID(r, "goal_id")
		if err != nil {
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		var req goalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		goal, vErr := validateGoalRequest(userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}
		goal.ID = goalID

		updated, err := db.UpdateSavingsGoal(r.Context(), pool, goal)
		if err != nil {
			log.Printf("ERROR: Failed to update savings goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "savings goal not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteSavingsGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID, err := pathID(r, "goal_id")
		if err != nil {
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteSavingsGoal(r.Context(), pool, userID, goalID); err != nil {
			http.Error(w, "savings goal not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted savings goal id %d for user %d", goalID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "savings goal deleted"})
	}
}
