package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/daap14/stockroom/internal/api/handler"
	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/auth"
	"github.com/daap14/stockroom/internal/product"
	"github.com/daap14/stockroom/internal/user"
)

// Roles recognized by the route guards.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Verifier       auth.Verifier
	ClientID       string
	ProductService *product.Service
	UserService    *user.Service
	Introspector   handler.Introspector
	DBPinger       handler.DBPinger
	StorageDriver  string
	Version        string
	AllowedOrigins []string
	OpenAPI        *handler.OpenAPIHandler
	Metrics        middleware.HTTPObserver
	MetricsHandler http.Handler
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Every /api route runs Authenticate, so a presented but invalid token is
// rejected even on public routes; role checks are applied per route group.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORS(deps.AllowedOrigins...))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.StorageDriver, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if deps.OpenAPI != nil {
		r.Get("/openapi.json", deps.OpenAPI.ServeHTTP)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	editors := middleware.RequireRole(RoleUser, RoleAdmin)
	admins := middleware.RequireRole(RoleAdmin)
	authenticated := middleware.RequireAuthenticated()

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.Verifier, deps.ClientID))

		public := handler.NewPublicHandler(deps.Version)
		r.Get("/public/health", public.Health)
		r.Get("/public/info", public.Info)

		products := handler.NewProductHandler(deps.ProductService)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/search", products.Search)
			r.Get("/category/{category}", products.ListByCategory)
			r.Get("/{id}", products.Get)

			r.With(editors).Post("/", products.Create)
			r.With(editors).Put("/{id}", products.Update)
			r.With(editors).Delete("/{id}", products.Delete)
			r.With(editors).Patch("/{id}/quantity", products.SetQuantity)
		})

		users := handler.NewUserHandler(deps.UserService)
		r.Route("/users", func(r chi.Router) {
			r.With(authenticated).Get("/current", users.Current)
			r.With(authenticated).Post("/sync", users.Sync)

			r.Group(func(r chi.Router) {
				r.Use(admins)
				r.Get("/", users.List)
				r.Get("/{id}", users.Get)
				r.Put("/{id}", users.Update)
				r.Delete("/{id}", users.Delete)
			})
		})

		introspection := handler.NewIntrospectHandler(deps.Introspector)
		r.Get("/introspect/health", introspection.Health)
		r.With(authenticated).Post("/introspect", introspection.Introspect)
	})

	return r
}
