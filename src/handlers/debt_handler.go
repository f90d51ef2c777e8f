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

type debtRequest struct {
	Name           string          `json:"name"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	OpenedDate     *string         `json:"opened_date"`
	CategoryID     *int64          `json:"category_id"`
}

func validateDebtRequest(r *http.Request, pool *pgxpool.Pool, userID int64, req debtRequest) (*models.Debt, *util.ValidationError) {
	vErr := util.NewValidationError()

	if strings.TrimSpace(req.Name) == "" {
		vErr.Add("name", "This field is required.")
	}
	if !util.ValidatePositiveAmount(req.Principal) {
		vErr.Add("principal", "Principal must be positive.")
	}
	if req.InterestRate.IsNegative() {
		vErr.Add("interest_rate", "Interest rate cannot be negative.")
	}
	if req.MinimumPayment.IsNegative() {
		vErr.Add("minimum_payment", "Minimum payment cannot be negative.")
	}

	var openedDate *time.Time
	if req.OpenedDate != nil && *req.OpenedDate != "" {
		date, err := util.ParseDate(*req.OpenedDate)
		if err != nil {
			vErr.Add("opened_date", "Date must be in YYYY-MM-DD format.")
		} else {
			openedDate = &date
		}
	}

	if req.CategoryID != nil {
		owned, err := db.CategoryOwned(r.Context(), pool, userID, *req.CategoryID)
		if err != nil || !owned {
			vErr.Add("category_id", "Category not found.")
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	return &models.Debt{
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Principal:      req.Principal,
		InterestRate:   req.InterestRate,
		MinimumPayment: req.MinimumPayment,
		OpenedDate:     openedDate,
		CategoryID:     req.CategoryID,
	}, nil
}

func CreateDebt(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req debtRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create debt request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		debt, vErr := validateDebtRequest(r, pool, userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}

		created, err := db.CreateDebt(r.Context(), pool, debt)
		if err != nil {
			log.Printf("ERROR: Failed to create debt for user %d: %v", userID, err)
			http.Error(w, "failed to create debt", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created debt id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllDebts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		debts, err := db.GetAllDebtsForUser(r.Context(), pool, userID, queryInt64(r, "category"), r.URL.Query().Get("ordering"))
		if err != nil {
			log.Printf("ERROR: Failed to get debts for user %d: %v", userID, err)
			http.Error(w, "failed to get debts", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, debts)
	}
}

func GetDebtByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		debtID, err := pathID(r, "debt_id")
		if err != nil {
			http.Error(w, "invalid debt id", http.StatusBadRequest)
			return
		}

		debt, err := db.GetDebtByID(r.Context(), pool, userID, debtID)
		if err != nil {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, debt)
	}
}

func UpdateDebt(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		debtID, err := pathID(r, "debt_id")
		if err != nil {
			http.Error(w, "invalid debt id", http.StatusBadRequest)
			return
		}

		var req debtRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		debt, vErr := validateDebtRequest(r, pool, userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}
		debt.ID = debtID

		updated, err := db.UpdateDebt(r.Context(), pool, debt)
		if err != nil {
			log.Printf("ERROR: Failed to update debt id %d for user %d: %v", debtID, userID, err)
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteDebt(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		debtID, err := pathID(r, "debt_id")
		if err != nil {
			http.Error(w, "invalid debt id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteDebt(r.Context(), pool, userID, debtID); err != nil {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted debt id %d for user %d", debtID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "debt deleted"})
	}
}

type paymentRequest struct {
	DebtID int64           `json:"debt_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Memo   string          `json:"memo"`
}

func CreatePayment(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create payment request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		vErr := util.NewValidationError()
		if !util.ValidatePositiveAmount(req.Amount) {
			vErr.Add("amount", "Amount must be positive.")
		}
		date, err := util.ParseDate(req.Date)
		if err != nil {
			vErr.Add("date", "Date must be in YYYY-MM-DD format.")
		}
		if vErr.HasErrors() {
			util.WriteValidationError(w, vErr)
			return
		}

		// the payment must target a debt the caller owns
		if _, err := db.GetDebtByID(r.Context(), pool, userID, req.DebtID); err != nil {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}

		created, err := db.CreatePayment(r.Context(), pool, &models.Payment{
			UserID: userID,
			DebtID: req.DebtID,
			Amount: req.Amount,
			Date:   date,
			Memo:   req.Memo,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create payment for user %d: %v", userID, err)
			http.Error(w, "failed to create payment", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created payment id %d for user %d against debt %d", created.ID, userID, created.DebtID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllPayments(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		payments, err := db.GetAllPaymentsForUser(r.Context(), pool, userID, queryInt64(r, "debt"))
		if err != nil {
			log.Printf("ERROR: Failed to get payments for user %d: %v", userID, err)
			http.Error(w, "failed to get payments", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	}
}

func DeletePayment(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		paymentID, err := pathID(r, "payment_id")
		if err != nil {
			http.Error(w, "invalid payment id", http.StatusBadRequest)
			return
		}

		if err := db.DeletePayment(r.Context(), pool, userID, paymentID); err != nil {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted payment id %d for user %d", paymentID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "payment deleted"})
	}
}
