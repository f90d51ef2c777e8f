package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type budgetRequest struct {
	CategoryID int64           `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
	Period     string          `json:"period"`
}

func validateBudgetRequest(r *http.Request, pool *pgxpool.Pool, userID int64, req budgetRequest) (*models.Budget, *util.ValidationError) {
	vErr := util.NewValidationError()

	if !util.ValidatePositiveAmount(req.Limit) {
		vErr.Add("limit", "Limit must be positive.")
	}
	if req.Period == "" {
		req.Period = models.PeriodMonthly
	}
	if !models.ValidBudgetPeriod(req.Period) {
		vErr.Add("period", "Period must be M or Y.")
	}

	if req.CategoryID == 0 {
		vErr.Add("category_id", "This field is required.")
	} else {
		owned, err := db.CategoryOwned(r.Context(), pool, userID, req.CategoryID)
		if err != nil {
			log.Printf("ERROR: Category ownership check failed for user %d: %v", userID, err)
			vErr.Add("category_id", "Invalid category.")
		} else if !owned {
			vErr.Add("category_id", "Category not found.")
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	return &models.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Limit:      req.Limit,
		Period:     req.Period,
	}, nil
}

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		budget, vErr := validateBudgetRequest(r, pool, userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}

		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				writeUniqueViolation(w, "category_id", "Budget for this category and period already exists.")
				return
			}
			log.Printf("ERROR: Failed to create budget for user %d: %v", userID, err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget id %d for user %d, category %d", created.ID, userID, created.CategoryID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllBudgets(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)

		filters := db.BudgetFilters{
			CategoryID: queryInt64(r, "category"),
			Period:     r.URL.Query().Get("period"),
			MinLimit:   queryDecimal(r, "min_limit"),
			MaxLimit:   queryDecimal(r, "max_limit"),
			Ordering:   r.URL.Query().Get("ordering"),
		}

		budgets, err := db.GetAllBudgetUsageForUser(r.Context(), pool, userID, time.Now().UTC(), filters)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, budgets)
	}
}

func GetBudgetByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID, err := pathID(r, "budget_id")
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		budget, err := db.GetBudgetUsageByID(r.Context(), pool, userID, budgetID, time.Now().UTC())
		if err != nil {
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, budget)
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID, err := pathID(r, "budget_id")
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		budget, vErr := validateBudgetRequest(r, pool, userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}
		budget.ID = budgetID

		updated, err := db.UpdateBudget(r.Context(), pool, budget)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				writeUniqueViolation(w, "category_id", "Budget for this category and period already exists.")
				return
			}
			log.Printf("ERROR: Failed to update budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID, err := pathID(r, "budget_id")
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}
