package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"fintrack-server/src/db"
	sqldb "fintrack-server/src/db/sql"

	"github.com/joho/godotenv"
)

// Posts every due recurring transaction across all users. Meant to run
// from cron once a day; safe to run more often since posting advances
// next_occurrence inside the same transaction.
func main() {
	dryRun := flag.Bool("dry-run", false, "compute postings and roll back instead of committing")
	flag.Parse()

	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Connect(databaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	result, err := sqldb.PostDueRecurring(context.Background(), pool, nil, time.Now().UTC(), *dryRun)
	if err != nil {
		log.Fatalf("Posting recurring transactions failed: %v", err)
	}

	if *dryRun {
		log.Printf("INFO: Dry run: %d transaction(s) would have been posted as of %s", result.Posted, result.Date)
		for _, p := range result.Postings {
			log.Printf("INFO: Would post user=%d recurring=%d %s %s on %s", p.UserID, p.RecurringID, p.Type, p.Amount, p.Date.Format("2006-01-02"))
		}
		return
	}
	log.Printf("INFO: Posted %d recurring transaction(s) as of %s", result.Posted, result.Date)
}
