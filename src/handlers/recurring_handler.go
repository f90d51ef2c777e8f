package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/recurrence"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type recurringRequest struct {
	CategoryID     int64           `json:"category_id"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	RRule          string          `json:"rrule"`
	NextOccurrence string          `json:"next_occurrence"`
	EndDate        *string         `json:"end_date"`
	Active         *bool           `json:"active"`
}

func validateRecurringRequest(r *http.Request, pool *pgxpool.Pool, userID int64, req recurringRequest, isCreate bool) (*models.RecurringTransaction, *util.ValidationError) {
	vErr := util.NewValidationError()

	if !util.ValidatePositiveAmount(req.Amount) {
		vErr.Add("amount", "Amount must be positive.")
	}
	if !models.ValidTransactionType(req.Type) {
		vErr.Add("type", "Type must be IN or EX.")
	}
	if strings.TrimSpace(req.Description) == "" {
		vErr.Add("description", "This field is required.")
	}
	if err := recurrence.Validate(req.RRule); err != nil {
		vErr.Add("rrule", "Invalid recurrence rule.")
	}

	var next time.Time
	if req.NextOccurrence == "" {
		vErr.Add("next_occurrence", "This field is required.")
	} else {
		parsed, err := util.ParseDate(req.NextOccurrence)
		if err != nil {
			vErr.Add("next_occurrence", "Date must be in YYYY-MM-DD format.")
		} else {
			next = parsed
			today := time.Now().UTC().Truncate(24 * time.Hour)
			if isCreate && next.Before(today) {
				vErr.Add("next_occurrence", "Next occurrence cannot be in the past.")
			}
		}
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := util.ParseDate(*req.EndDate)
		if err != nil {
			vErr.Add("end_date", "Date must be in YYYY-MM-DD format.")
		} else {
			endDate = &parsed
			if !next.IsZero() && parsed.Before(next) {
				vErr.Add("end_date", "End date cannot be before the next occurrence.")
			}
		}
	}

	owned, err := db.CategoryOwned(r.Context(), pool, userID, req.CategoryID)
	if err != nil || !owned {
		vErr.Add("category_id", "Category not found.")
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.RecurringTransaction{
		UserID:         userID,
		CategoryID:     req.CategoryID,
		Amount:         req.Amount,
		Type:           req.Type,
		Description:    strings.TrimSpace(req.Description),
		RRule:          req.RRule,
		NextOccurrence: next,
		EndDate:        endDate,
		Active:         active,
	}, nil
}

func CreateRecurringTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req recurringRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create recurring request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		recurring, vErr := validateRecurringRequest(r, pool, userID, req, true)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}

		created, err := db.CreateRecurringTransaction(r.Context(), pool, recurring)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				writeUniqueViolation(w, util.NonFieldErrors, "A recurring transaction with this description and rule already exists.")
				return
			}
			log.Printf("ERROR: Failed to create recurring transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create recurring transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created recurring transaction id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllRecurringTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		recurrings, err := db.GetAllRecurringTransactionsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get recurring transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get recurring transactions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, recurrings)
	}
}

func GetRecurringTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		recurringID, err := pathID(r, "recurring_id")
		if err != nil {
			http.Error(w, "invalid recurring transaction id", http.StatusBadRequest)
			return
		}

		recurring, err := db.GetRecurringTransactionByID(r.Context(), pool, userID, recurringID)
		if err != nil {
			http.Error(w, "recurring transaction not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, recurring)
	}
}

func UpdateRecurringTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		recurringID, err := pathID(r, "recurring_id")
		if err != nil {
			http.Error(w, "invalid recurring transaction id", http.StatusBadRequest)
			return
		}

		var req recurringRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		recurring, vErr := validateRecurringRequest(r, pool, userID, req, false)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}
		recurring.ID = recurringID

		updated, err := db.UpdateRecurringTransaction(r.Context(), pool, recurring)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				writeUniqueViolation(w, util.NonFieldErrors, "A recurring transaction with this description and rule already exists.")
				return
			}
			log.Printf("ERROR: Failed to update recurring transaction id %d for user %d: %v", recurringID, userID, err)
			http.Error(w, "recurring transaction not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteRecurringTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		recurringID, err := pathID(r, "recurring_id")
		if err != nil {
			http.Error(w, "invalid recurring transaction id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteRecurringTransaction(r.Context(), pool, userID, recurringID); err != nil {
			http.Error(w, "recurring transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted recurring transaction id %d for user %d", recurringID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "recurring transaction deleted"})
	}
}

// PostDueRecurring posts every due occurrence for the authenticated user.
// With ?dry_run=true the work is computed and rolled back, so the response
// shows what would have been posted without writing anything.
func PostDueRecurring(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		dryRun := r.URL.Query().Get("dry_run") == "true"

		result, err := db.PostDueRecurring(r.Context(), pool, &userID, time.Now().UTC(), dryRun)
		if err != nil {
			log.Printf("ERROR: Failed to post due recurring transactions for user %d: %v", userID, err)
			http.Error(w, "failed to post recurring transactions", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Posted %d recurring transaction(s) for user %d (dry_run=%t)", result.Posted, userID, dryRun)
		writeJSON(w, http.StatusOK, result)
	}
}
