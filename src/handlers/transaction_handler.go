package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// validateTransactionRequest runs every check before any write is
// attempted, collecting field-keyed errors the way the API reports them.
func validateTransactionRequest(r *http.Request, pool *pgxpool.Pool, userID int64, req transactionRequest) (*models.Transaction, *util.ValidationError) {
	vErr := util.NewValidationError()

	if !util.ValidatePositiveAmount(req.Amount) {
		vErr.Add("amount", "Amount must be positive.")
	}
	if !models.ValidTransactionType(req.Type) {
		vErr.Add("type", "Type must be IN or EX.")
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		vErr.Add("date", "Date must be in YYYY-MM-DD format.")
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

	return &models.Transaction{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Date:        date,
	}, nil
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		transaction, vErr := validateTransactionRequest(r, pool, userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}

		created, err := db.CreateTransaction(r.Context(), pool, transaction)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transaction id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)

		filters := db.TransactionFilters{
			CategoryID:  queryInt64(r, "category"),
			Type:        r.URL.Query().Get("type"),
			AmountGTE:   queryDecimal(r, "amount_gte"),
			AmountLTE:   queryDecimal(r, "amount_lte"),
			DateGTE:     queryDate(r, "date_gte"),
			DateLTE:     queryDate(r, "date_lte"),
			Description: r.URL.Query().Get("description"),
			Ordering:    r.URL.Query().Get("ordering"),
		}

		transactions, err := db.GetAllTransactionsForUser(r.Context(), pool, userID, filters)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, transactions)
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transactionID, err := pathID(r, "transaction_id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		transaction, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, transaction)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transactionID, err := pathID(r, "transaction_id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		transaction, vErr := validateTransactionRequest(r, pool, userID, req)
		if vErr != nil {
			util.WriteValidationError(w, vErr)
			return
		}
		transaction.ID = transactionID

		updated, err := db.UpdateTransaction(r.Context(), pool, transaction)
		if err != nil {
			if errors.Is(err, db.ErrTransferManaged) {
				util.WriteValidationError(w, util.NewValidationError().AddNonField("Transfer-linked transactions cannot be edited directly."))
				return
			}
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transactionID, err := pathID(r, "transaction_id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteTransaction(r.Context(), pool, userID, transactionID); err != nil {
			if errors.Is(err, db.ErrTransferManaged) {
				util.WriteValidationError(w, util.NewValidationError().AddNonField("Transfer-linked transactions cannot be deleted directly."))
				return
			}
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted transaction id %d for user %d", transactionID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}
