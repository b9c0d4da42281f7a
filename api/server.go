/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:      Request logging
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. RequestID:   Unique ID per request for tracing
  4. CORS:        Cross-origin requests for frontend
  5. requireAuth: Bearer token verification (domain routes only)

ROUTE GROUPS:
  /api/auth/*          Registration, login, token verification (public)
  /api/health          Liveness probe (public)
  /api/activities/*    Tasks, goals, priorities, routines
  /api/finance/*       Transactions, categories, goals, reports
  /api/health/*        Metrics, goals, insights (sub-paths are guarded)
  /api/development/*   Plans, milestones, habits, skills

SEE ALSO:
  - handlers.go: Handler implementations and error mapping
  - middleware.go: requireAuth
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.RegisterUser)
			r.Post("/login", h.Login)
			r.Get("/verify", h.VerifyToken)
		})
		r.Get("/health", h.Liveness)

		// Guarded routes
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			// Activity routes
			r.Route("/activities", func(r chi.Router) {
				r.Get("/", h.ListActivities)
				r.Post("/", h.CreateActivity)
				r.Delete("/", h.ClearActivities)
				r.Get("/daily", h.ListDailyActivities)
				r.Get("/goals", h.ListGoalActivities)
				r.Get("/priorities", h.ListPriorities)
				r.Get("/date/{date}", h.ListActivitiesByDate)
				r.Get("/completion", h.GetCompletionRate)
				r.Get("/productivity", h.GetProductivity)
				r.Get("/export", h.ExportActivities)
				r.Post("/import", h.ImportActivities)
				r.Get("/{id}", h.GetActivity)
				r.Put("/{id}", h.UpdateActivity)
				r.Post("/{id}/toggle", h.ToggleActivity)
				r.Delete("/{id}", h.DeleteActivity)
			})

			// Finance routes
			r.Route("/finance", func(r chi.Router) {
				r.Delete("/", h.ClearFinance)
				r.Get("/export", h.ExportFinance)
				r.Post("/import", h.ImportFinance)

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", h.ListTransactions)
					r.Post("/", h.CreateTransaction)
					r.Get("/{id}", h.GetTransaction)
					r.Put("/{id}", h.UpdateTransaction)
					r.Post("/{id}/toggle", h.ToggleTransactionPaid)
					r.Delete("/{id}", h.DeleteTransaction)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", h.ListCategories)
					r.Post("/", h.CreateCategory)
					r.Put("/{id}", h.UpdateCategory)
					r.Delete("/{id}", h.DeleteCategory)
				})

				r.Route("/goals", func(r chi.Router) {
					r.Get("/", h.ListFinanceGoals)
					r.Post("/", h.CreateFinanceGoal)
					r.Put("/{id}", h.UpdateFinanceGoal)
					r.Delete("/{id}", h.DeleteFinanceGoal)
					r.Post("/{id}/progress", h.AddFinanceGoalProgress)
				})

				r.Route("/monthly", func(r chi.Router) {
					r.Get("/", h.ListMonthlyExpenses)
					r.Get("/by-category", h.GetMonthlyCategoryTotals)
					r.Post("/", h.CreateMonthlyExpense)
					r.Put("/{id}", h.UpdateMonthlyExpense)
					r.Post("/{id}/toggle", h.ToggleMonthlyExpense)
					r.Delete("/{id}", h.DeleteMonthlyExpense)
				})

				r.Get("/balance", h.GetBalance)
				r.Get("/summary", h.GetSummary)
				r.Route("/reports", func(r chi.Router) {
					r.Get("/categories", h.GetCategoryTotals)
					r.Get("/daily", h.GetDailySpending)
					r.Get("/cashflow", h.GetCashFlow)
					r.Get("/budgets", h.GetBudgets)
					r.Get("/upcoming", h.GetUpcomingPayments)
				})
			})

			// Health routes (sub-paths of the public liveness probe)
			r.Get("/health/metrics", h.ListMetrics)
			r.Post("/health/metrics", h.CreateMetric)
			r.Get("/health/metrics/today", h.ListTodaysMetrics)
			r.Delete("/health/metrics/{id}", h.DeleteMetric)
			r.Get("/health/goals", h.ListHealthGoals)
			r.Post("/health/goals", h.CreateHealthGoal)
			r.Delete("/health/goals/{id}", h.DeleteHealthGoal)
			r.Get("/health/goals/{id}/progress", h.GetHealthGoalProgress)
			r.Get("/health/score", h.GetHealthScore)
			r.Get("/health/insights", h.ListHealthInsights)

			// Development routes
			r.Route("/development/plans", func(r chi.Router) {
				r.Get("/", h.ListPlans)
				r.Post("/", h.CreatePlan)
				r.Get("/{id}", h.GetPlan)
				r.Delete("/{id}", h.DeletePlan)
				r.Get("/{id}/progress", h.GetPlanProgress)

				r.Post("/{id}/milestones", h.CreateMilestone)
				r.Post("/{id}/milestones/{milestoneID}/toggle", h.ToggleMilestone)
				r.Delete("/{id}/milestones/{milestoneID}", h.DeleteMilestone)

				r.Post("/{id}/habits", h.CreateHabit)
				r.Post("/{id}/habits/{habitID}/done", h.MarkHabitDone)
				r.Delete("/{id}/habits/{habitID}", h.DeleteHabit)

				r.Post("/{id}/skills", h.CreateSkill)
				r.Put("/{id}/skills/{skillID}/progress", h.UpdateSkillProgress)
			})
		})
	})

	return r
}
