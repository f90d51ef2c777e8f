package api

import (
	"net/http"

	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(pool)).Group(func(r chi.Router) {
			// User
			r.Get("/user", handlers.GetCurrentUser(pool))
			r.Delete("/user", handlers.DeleteCurrentUser(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategories(pool))
			r.Get("/categories/{category_id}", handlers.GetCategoryByID(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetAllTransactions(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Transfers
			r.Post("/transfers", handlers.CreateTransfer(pool))
			r.Get("/transfers", handlers.GetAllTransfers(pool))
			r.Get("/transfers/{transfer_id}", handlers.GetTransferByID(pool))
			r.Put("/transfers/{transfer_id}", handlers.UpdateTransfer(pool))
			r.Delete("/transfers/{transfer_id}", handlers.DeleteTransfer(pool))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgets(pool))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Savings Goals
			r.Post("/goals", handlers.CreateSavingsGoal(pool))
			r.Get("/goals", handlers.GetAllSavingsGoals(pool))
			r.Get("/goals/{goal_id}", handlers.GetSavingsGoalByID(pool))
			r.Put("/goals/{goal_id}", handlers.UpdateSavingsGoal(pool))
			r.Delete("/goals/{goal_id}", handlers.DeleteSavingsGoal(pool))

			// Debts
			r.Post("/debts", handlers.CreateDebt(pool))
			r.Get("/debts", handlers.GetAllDebts(pool))
			r.Get("/debts/{debt_id}", handlers.GetDebtByID(pool))
			r.Put("/debts/{debt_id}", handlers.UpdateDebt(pool))
			r.Delete("/debts/{debt_id}", handlers.DeleteDebt(pool))

			// Payments
			r.Post("/payments", handlers.CreatePayment(pool))
			r.Get("/payments", handlers.GetAllPayments(pool))
			r.Delete("/payments/{payment_id}", handlers.DeletePayment(pool))

			// Recurring Transactions
			r.Post("/recurring", handlers.CreateRecurringTransaction(pool))
			r.Get("/recurring", handlers.GetAllRecurringTransactions(pool))
			r.Get("/recurring/{recurring_id}", handlers.GetRecurringTransactionByID(pool))
			r.Put("/recurring/{recurring_id}", handlers.UpdateRecurringTransaction(pool))
			r.Delete("/recurring/{recurring_id}", handlers.DeleteRecurringTransaction(pool))
			r.Post("/recurring/post-due", handlers.PostDueRecurring(pool))

			// Summary
			r.Get("/summary", handlers.GetSummary(pool))
		})
	})

	return r
}
