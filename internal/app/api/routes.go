package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	adminboards "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/boards"
	adminmaterials "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/materials"
	adminpayments "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/payments"
	adminstats "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/stats"
	adminsubjects "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/subjects"
	adminsubscriptions "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/subscriptions"
	adminupdates "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/updates"
	adminusers "github.com/HarshG200/neuron-edtech/internal/http/handlers/admin/users"
	"github.com/HarshG200/neuron-edtech/internal/http/handlers/auth/changepassword"
	"github.com/HarshG200/neuron-edtech/internal/http/handlers/auth/login"
	"github.com/HarshG200/neuron-edtech/internal/http/handlers/auth/me"
	"github.com/HarshG200/neuron-edtech/internal/http/handlers/auth/register"
	"github.com/HarshG200/neuron-edtech/internal/http/handlers/auth/updateprofile"
	boardlist "github.com/HarshG200/neuron-edtech/internal/http/handlers/board/list"
	"github.com/HarshG200/neuron-edtech/internal/http/handlers/health"
	materiallist "github.com/HarshG200/neuron-edtech/internal/http/handlers/material/list"
	paymentcreate "github.com/HarshG200/neuron-edtech/internal/http/handlers/payment/create"
	paymentverify "github.com/HarshG200/neuron-edtech/internal/http/handlers/payment/verify"
	paymentwebhook "github.com/HarshG200/neuron-edtech/internal/http/handlers/payment/webhook"
	subjectlist "github.com/HarshG200/neuron-edtech/internal/http/handlers/subject/list"
	subscriptioncheck "github.com/HarshG200/neuron-edtech/internal/http/handlers/subscription/check"
	subscriptionlist "github.com/HarshG200/neuron-edtech/internal/http/handlers/subscription/list"
	updatelist "github.com/HarshG200/neuron-edtech/internal/http/handlers/update/list"
	"github.com/HarshG200/neuron-edtech/internal/http/middlewarectx"
	"github.com/HarshG200/neuron-edtech/internal/lib/jwt"
	authservice "github.com/HarshG200/neuron-edtech/internal/services/auth"
	catalogservice "github.com/HarshG200/neuron-edtech/internal/services/catalog"
	materialservice "github.com/HarshG200/neuron-edtech/internal/services/material"
	paymentservice "github.com/HarshG200/neuron-edtech/internal/services/payment"
	statsservice "github.com/HarshG200/neuron-edtech/internal/services/stats"
	subscriptionservice "github.com/HarshG200/neuron-edtech/internal/services/subscription"
	updateservice "github.com/HarshG200/neuron-edtech/internal/services/update"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

// Services bundles the business services the router needs.
type Services struct {
	Auth         *authservice.AuthService
	Catalog      *catalogservice.CatalogService
	Subscription *subscriptionservice.SubscriptionService
	Material     *materialservice.MaterialService
	Payment      *paymentservice.PaymentService
	Update       *updateservice.UpdateService
	Stats        *statsservice.StatsService
}

// RegisterRoutes registers every application route.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, db *repository.Storage, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	authLimiter := rate.NewLimiter(5, 10)
	paymentLimiter := rate.NewLimiter(2, 5)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/subjects", subjectlist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/boards", boardlist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/updates", updatelist.New(logger, s.Update).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, authLimiter))
			r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		})

		// Gateway callbacks authenticate by signature, not bearer token.
		r.Post("/payments/webhook", paymentwebhook.New(logger, s.Payment).ServeHTTP)

		// Signed-in students
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Get("/auth/me", me.New(logger, s.Auth).ServeHTTP)
			r.Put("/auth/profile", updateprofile.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/change-password", changepassword.New(logger, s.Auth).ServeHTTP)

			r.Get("/subscriptions/my", subscriptionlist.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/check/{subjectID}", subscriptioncheck.New(logger, s.Subscription).ServeHTTP)
			r.Get("/materials/{subjectID}", materiallist.New(logger, s.Material).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RateLimitMiddleware(logger, paymentLimiter))
				r.Post("/payments/create-order", paymentcreate.New(logger, s.Payment).ServeHTTP)
				r.Post("/payments/verify", paymentverify.New(logger, s.Payment).ServeHTTP)
			})
		})

		// Back-office
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RequireAdmin(logger))

			boards := adminboards.New(logger, s.Catalog)
			r.Get("/boards", boards.List)
			r.Post("/boards", boards.Create)
			r.Put("/boards/{id}", boards.Update)
			r.Delete("/boards/{id}", boards.Remove)

			subjects := adminsubjects.New(logger, s.Catalog)
			r.Get("/subjects", subjects.List)
			r.Post("/subjects", subjects.Create)
			r.Put("/subjects/{id}", subjects.Update)
			r.Patch("/subjects/{id}/visibility", subjects.SetVisibility)
			r.Delete("/subjects/{id}", subjects.Remove)

			materials := adminmaterials.New(logger, s.Material)
			r.Get("/materials", materials.List)
			r.Post("/materials", materials.Create)
			r.Put("/materials/{id}", materials.Update)
			r.Delete("/materials/{id}", materials.Remove)

			updates := adminupdates.New(logger, s.Update)
			r.Get("/updates", updates.List)
			r.Post("/updates", updates.Create)
			r.Put("/updates/{id}", updates.Update)
			r.Patch("/updates/{id}/toggle", updates.Toggle)
			r.Delete("/updates/{id}", updates.Remove)

			r.Get("/users", adminusers.New(logger, db).List)
			r.Get("/subscriptions", adminsubscriptions.New(logger, s.Subscription).List)
			r.Get("/payments", adminpayments.New(logger, db).List)
			r.Get("/stats", adminstats.New(logger, s.Stats).Summary)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
