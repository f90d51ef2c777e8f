package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func currentUserID(r *http.Request) int64 {
	return r.Context().Value("user_id").(int64)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func pathID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// query-string parsing helpers for the list endpoints

func queryInt64(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryDecimal(r *http.Request, key string) *decimal.Decimal {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryDate(r *http.Request, key string) *time.Time {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := util.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &v
}

// writeUniqueViolation renders a storage-level unique violation the same
// way pre-write validation failures are rendered.
func writeUniqueViolation(w http.ResponseWriter, field, message string) {
	util.WriteValidationError(w, util.NewValidationError().Add(field, message))
}
