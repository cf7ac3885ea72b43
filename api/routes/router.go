package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kavindu-dev/furnicraft-backend/api/controllers"
	webhookcontrollers "github.com/kavindu-dev/furnicraft-backend/api/controllers/webhooks"
	"github.com/kavindu-dev/furnicraft-backend/api/middleware"
	"github.com/kavindu-dev/furnicraft-backend/api/responses"
	authsvc "github.com/kavindu-dev/furnicraft-backend/internal/auth"
	"github.com/kavindu-dev/furnicraft-backend/internal/catalog"
	"github.com/kavindu-dev/furnicraft-backend/internal/dashboard"
	ordersvc "github.com/kavindu-dev/furnicraft-backend/internal/orders"
	"github.com/kavindu-dev/furnicraft-backend/internal/payhere"
	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
	"github.com/kavindu-dev/furnicraft-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     *redis.Client
	Auth      authsvc.Service
	Catalog   catalog.Service
	Orders    ordersvc.Service
	Dashboard dashboard.Service
	Adapter   *payhere.Adapter
	Registry  *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	loginLimiter := middleware.AuthRateLimit(loginPolicy, nil, logg)
	if deps.Redis != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	secureCookies := cfg.App.IsProd()

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", controllers.ListCategories(deps.Catalog, logg))
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/similar", controllers.SimilarProducts(deps.Catalog, logg))
		r.Get("/products/{id}", controllers.GetProduct(deps.Catalog, logg))

		r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))

		r.Route("/payhere", func(r chi.Router) {
			r.Post("/", controllers.InitiateCheckout(deps.Orders, deps.Adapter, logg))
			r.Post("/notify", webhookcontrollers.PayHereNotify(deps.Orders, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(loginLimiter).Post("/login", controllers.AdminLogin(deps.Auth, secureCookies, logg))
			r.Post("/logout", controllers.AdminLogout(secureCookies))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(deps.Auth, logg))

				r.Get("/session", controllers.AdminSession(logg))
				r.Get("/dashboard", controllers.DashboardStats(deps.Dashboard, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.ListOrders(deps.Orders, logg))
					r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
					r.Delete("/{id}", controllers.DeleteOrder(deps.Orders, logg))
				})
				r.Route("/categories", func(r chi.Router) {
					r.Post("/", controllers.CreateCategory(deps.Catalog, logg))
					r.Put("/{id}", controllers.UpdateCategory(deps.Catalog, logg))
					r.Delete("/{id}", controllers.DeleteCategory(deps.Catalog, logg))
				})
				r.Route("/products", func(r chi.Router) {
					r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
					r.Put("/{id}", controllers.UpdateProduct(deps.Catalog, logg))
					r.Delete("/{id}", controllers.DeleteProduct(deps.Catalog, logg))
				})
			})
		})
	})

	// Browser-facing console shell. The real pages are rendered by the
	// storefront; these endpoints exist so the session redirect policy is
	// enforced at the edge.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminPageGate(deps.Auth))
		r.Get("/login", consolePage("login"))
		r.Get("/dashboard", consolePage("dashboard"))
		r.Get("/*", consolePage("console"))
	})

	return r
}

func consolePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"page": name})
	}
}
