package handlers

import (
	"log"
	"net/http"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetSummary reports income, spending and goal progress over a date
// range. Without explicit bounds the current calendar month is used.
func GetSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)

		start, end := models.MonthWindow(time.Now().UTC())
		vErr := util.NewValidationError()
		if raw := r.URL.Query().Get("start"); raw != "" {
			parsed, err := util.ParseDate(raw)
			if err != nil {
				vErr.Add("start", "Date must be in YYYY-MM-DD format.")
			} else {
				start = parsed
			}
		}
		if raw := r.URL.Query().Get("end"); raw != "" {
			parsed, err := util.ParseDate(raw)
			if err != nil {
				vErr.Add("end", "Date must be in YYYY-MM-DD format.")
			} else {
				end = parsed
			}
		}
		if !vErr.HasErrors() && !start.Before(end) {
			vErr.AddNonField("Start date must be before end date.")
		}
		if vErr.HasErrors() {
			util.WriteValidationError(w, vErr)
			return
		}

		summary, err := db.GetSummaryForUser(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to build summary for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
