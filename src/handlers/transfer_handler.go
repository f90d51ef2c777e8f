package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type transferCreateRequest struct {
	SourceCategoryID      int64           `json:"source_category"`
	DestinationCategoryID int64           `json:"destination_category"`
	Amount                decimal.Decimal `json:"amount"`
	Date                  string          `json:"date"`
	Description           string          `json:"description"`
}

// transferUpdateRequest keeps every field optional so partial updates can
// patch any subset; absent fields stay untouched.
type transferUpdateRequest struct {
	SourceCategoryID      *int64           `json:"source_category"`
	DestinationCategoryID *int64           `json:"destination_category"`
	Amount                *decimal.Decimal `json:"amount"`
	Date                  *string          `json:"date"`
	Description           *string          `json:"description"`
}

func checkTransferCategories(r *http.Request, pool *pgxpool.Pool, userID int64, sourceID, destinationID int64, vErr *util.ValidationError) {
	if sourceID == destinationID {
		vErr.AddNonField("Source and destination must differ.")
		return
	}

	if owned, err := db.CategoryOwned(r.Context(), pool, userID, sourceID); err != nil || !owned {
		vErr.Add("source_category", "Category not found.")
	}
	if owned, err := db.CategoryOwned(r.Context(), pool, userID, destinationID); err != nil || !owned {
		vErr.Add("destination_category", "Category not found.")
	}
}

func CreateTransfer(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req transferCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transfer request body for user %d: %v", userID, err)
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
		checkTransferCategories(r, pool, userID, req.SourceCategoryID, req.DestinationCategoryID, vErr)
		if vErr.HasErrors() {
			util.WriteValidationError(w, vErr)
			return
		}

		created, err := db.CreateTransfer(r.Context(), pool, &models.Transfer{
			UserID:                userID,
			SourceCategoryID:      req.SourceCategoryID,
			DestinationCategoryID: req.DestinationCategoryID,
			Amount:                req.Amount,
			Date:                  date,
			Description:           req.Description,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create transfer for user %d: %v", userID, err)
			http.Error(w, "failed to create transfer", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transfer id %d for user %d (%s from category %d to %d)",
			created.ID, userID, created.Amount, created.SourceCategoryID, created.DestinationCategoryID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllTransfers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)

		filters := db.TransferFilters{
			SourceCategoryID:      queryInt64(r, "source_category"),
			DestinationCategoryID: queryInt64(r, "destination_category"),
			Date:                  queryDate(r, "date"),
			DateGTE:               queryDate(r, "date_gte"),
			DateLTE:               queryDate(r, "date_lte"),
			Ordering:              r.URL.Query().Get("ordering"),
		}

		transfers, err := db.GetAllTransfersForUser(r.Context(), pool, userID, filters)
		if err != nil {
			log.Printf("ERROR: Failed to get transfers for user %d: %v", userID, err)
			http.Error(w, "failed to get transfers", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, transfers)
	}
}

func GetTransferByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transferID, err := pathID(r, "transfer_id")
		if err != nil {
			http.Error(w, "invalid transfer id", http.StatusBadRequest)
			return
		}

		transfer, err := db.GetTransferByID(r.Context(), pool, userID, transferID)
		if err != nil {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, transfer)
	}
}

func UpdateTransfer(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transferID, err := pathID(r, "transfer_id")
		if err != nil {
			http.Error(w, "invalid transfer id", http.StatusBadRequest)
			return
		}

		var req transferUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		existing, err := db.GetTransferByID(r.Context(), pool, userID, transferID)
		if err != nil {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}

		vErr := util.NewValidationError()
		patch := db.TransferPatch{
			SourceCategoryID:      req.SourceCategoryID,
			DestinationCategoryID: req.DestinationCategoryID,
			Amount:                req.Amount,
			Description:           req.Description,
		}

		if req.Amount != nil && !util.ValidatePositiveAmount(*req.Amount) {
			vErr.Add("amount", "Amount must be positive.")
		}
		if req.Date != nil {
			date, err := util.ParseDate(*req.Date)
			if err != nil {
				vErr.Add("date", "Date must be in YYYY-MM-DD format.")
			} else {
				patch.Date = &date
			}
		}

		// validate the post-patch category pair
		source := existing.SourceCategoryID
		if req.SourceCategoryID != nil {
			source = *req.SourceCategoryID
		}
		destination := existing.DestinationCategoryID
		if req.DestinationCategoryID != nil {
			destination = *req.DestinationCategoryID
		}
		checkTransferCategories(r, pool, userID, source, destination, vErr)

		if vErr.HasErrors() {
			util.WriteValidationError(w, vErr)
			return
		}

		updated, err := db.UpdateTransfer(r.Context(), pool, userID, transferID, patch)
		if err != nil {
			log.Printf("ERROR: Failed to update transfer id %d for user %d: %v", transferID, userID, err)
			http.Error(w, "failed to update transfer", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated transfer id %d for user %d", transferID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransfer(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transferID, err := pathID(r, "transfer_id")
		if err != nil {
			http.Error(w, "invalid transfer id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteTransfer(r.Context(), pool, userID, transferID); err != nil {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted transfer id %d for user %d", transferID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "transfer deleted"})
	}
}
