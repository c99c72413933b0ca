package httpserver

import (
	"net/http"
	"time"

	"fintrack-api/internal/config"
	"fintrack-api/internal/transport/httpserver/handler"
	authmw "fintrack-api/internal/transport/httpserver/middleware"
	"fintrack-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))
	r.Use(authmw.Metrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewProviderAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/categories", handlers.ListCategories)
			r.Post("/categories", handlers.CreateCategory)
			r.Post("/categories/seed", handlers.SeedCategories)
			r.Get("/categories/{id}", handlers.GetCategory)
			r.Put("/categories/{id}", handlers.UpdateCategory)
			r.Delete("/categories/{id}", handlers.DeleteCategory)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Get("/transactions/recent", handlers.RecentTransactions)
			r.Get("/transactions/{id}", handlers.GetTransaction)
			r.Put("/transactions/{id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)
			r.Post("/transactions/{id}/attachments", handlers.AddAttachment)
			r.Delete("/transactions/{id}/attachments/{attachmentId}", handlers.DeleteAttachment)

			r.Get("/reports/summary", handlers.SummaryReport)
			r.Get("/reports/cash-flow", handlers.CashFlowReport)
			r.Get("/reports/comparison", handlers.ComparisonReport)
			r.Get("/reports/export", handlers.ExportTransactions)
		})
	})

	return r
}
