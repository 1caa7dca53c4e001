/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client IP from proxy headers
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/planners/*   Planner records and projections
  /api/cards/*      Invoice creation under a card
  /api/demo         Demo data seeding (dev only)
  /healthz          Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/planners", func(r chi.Router) {
			r.Get("/", h.ListPlanners)
			r.Post("/", h.CreatePlanner)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPlanner)

				// Projections
				r.Get("/dashboard", h.GetDashboard)
				r.Get("/series", h.GetSeries)
				r.Get("/balances", h.GetBalances)
				r.Get("/alerts", h.GetAlerts)
				r.Get("/breakdown", h.GetBreakdown)

				// Records
				r.Route("/incomes", func(r chi.Router) {
					r.Get("/", h.ListIncomes)
					r.Post("/", h.CreateIncome)
					r.Delete("/{incomeID}", h.DeleteIncome)
				})
				r.Route("/expenses", func(r chi.Router) {
					r.Get("/", h.ListExpenses)
					r.Post("/", h.CreateExpense)
					r.Delete("/{expenseID}", h.DeleteExpense)
					r.Put("/{expenseID}/paid", h.SetExpensePaid)
				})
				r.Route("/cards", func(r chi.Router) {
					r.Get("/", h.ListCards)
					r.Post("/", h.CreateCard)
				})
				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", h.ListInvoices)
					r.Delete("/{invoiceID}", h.DeleteInvoice)
					r.Put("/{invoiceID}/paid", h.SetInvoicePaid)
				})
				r.Route("/adjustments", func(r chi.Router) {
					r.Get("/", h.ListAdjustments)
					r.Post("/", h.CreateAdjustment)
					r.Delete("/{adjustmentID}", h.DeleteAdjustment)
				})
			})
		})

		// Invoices are created under their card, not the planner.
		r.Post("/cards/{cardID}/invoices", h.CreateInvoice)

		r.Post("/demo", h.LoadDemo)
	})

	return r
}
