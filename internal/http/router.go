package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/finboard/internal/http/account"
	"github.com/MrJamesThe3rd/finboard/internal/http/bill"
	"github.com/MrJamesThe3rd/finboard/internal/http/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/http/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	"github.com/MrJamesThe3rd/finboard/internal/http/matching"
	"github.com/MrJamesThe3rd/finboard/internal/http/transaction"
)

type Handlers struct {
	Accounts     *account.Handler
	Transactions *transaction.Handler
	Bills        *bill.Handler
	Dashboard    *dashboard.Handler
	Import       *importcsv.Handler
	Matching     *matching.Handler
	Export       *export.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func New(h Handlers, corsOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Accounts.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Bills.Routes(r)
		})

		r.Route("/dashboard", h.Dashboard.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/matching", h.Matching.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
