// Package kernel builds the HTTP handler: the global middleware stack, the
// infrastructure routes and the /api routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/brewandco/app/routes"
	"github.com/shashiranjanraj/brewandco/app/schema"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/graphql"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/metrics"
	"github.com/shashiranjanraj/brewandco/pkg/middleware"
	"github.com/shashiranjanraj/brewandco/pkg/reqid"
	"github.com/shashiranjanraj/brewandco/pkg/response"
	"github.com/shashiranjanraj/brewandco/pkg/router"
	"github.com/shashiranjanraj/brewandco/pkg/storage"
	"github.com/shashiranjanraj/brewandco/pkg/ws"
	"gorm.io/gorm"
)

const serviceName = "Brew & Co API"

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel wires every route against db. hub may be nil, which leaves
// the live order feed unmounted.
func NewHTTPKernel(db *gorm.DB, hub *ws.Hub) *HTTPKernel {
	r := router.New()

	// Outermost first: metrics see total latency, the request id exists
	// before anything logs, and Recovery logs through the request logger.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.AllowedOrigins())))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", "home", index)
	r.Mount("/metrics", "metrics", metrics.Handler())

	if disk, ok := storage.Local(); ok {
		files := http.StripPrefix("/storage", http.FileServer(http.Dir(disk.Root())))
		r.Mount("/storage", "storage", files)
	}

	if s, err := schema.Catalog(services.NewCatalogService(db)); err != nil {
		logger.Error("kernel: graphql schema disabled", "error", err)
	} else {
		r.Post("/api/graphql", "graphql", graphql.Handler(s).ServeHTTP)
	}

	routes.RegisterAPI(r, db, hub)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Router() *router.Router { return k.router }

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func index(w http.ResponseWriter, _ *http.Request) {
	response.Message(w, "Welcome to "+serviceName, map[string]any{
		"service": serviceName,
		"endpoints": map[string]string{
			"health":   "/api/health",
			"auth":     "/api/auth",
			"products": "/api/products",
			"orders":   "/api/orders",
			"admin":    "/api/admin",
			"graphql":  "/api/graphql",
			"metrics":  "/metrics",
		},
	})
}
