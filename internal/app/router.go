package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shinshu-solutions/shinshu-web/internal/assets"
	"github.com/shinshu-solutions/shinshu-web/internal/auth"
	"github.com/shinshu-solutions/shinshu-web/internal/content"
	"github.com/shinshu-solutions/shinshu-web/internal/messages"
	"github.com/shinshu-solutions/shinshu-web/internal/observability"
	"github.com/shinshu-solutions/shinshu-web/internal/platform/httpx"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
	"github.com/shinshu-solutions/shinshu-web/internal/users"
	"github.com/shinshu-solutions/shinshu-web/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *auth.SessionManager
	CSRFManager     *shared.CSRFManager
	AuthHandler     *auth.Handler
	AssetsHandler   *assets.Handler
	ContentHandler  *content.Handler
	MessagesHandler *messages.Handler
	UsersHandler    *users.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults. The asset
// catch-all is registered last so API routes always win.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		env := "production"
		if params.Config != nil {
			env = params.Config.AppEnv
		}
		httpx.JSON(w, http.StatusOK, map[string]string{
			"status":      "healthy",
			"environment": env,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api/content", params.ContentHandler.MountPublicRoutes)
	r.Route("/api/contact", params.MessagesHandler.MountPublicRoutes)

	// Unknown API paths must not fall through to the asset catch-all.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) >= 5 && r.URL.Path[:5] == "/api/" {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "API endpoint not found")
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "")
			return
		}
		params.AssetsHandler.ServeSite(w, r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireUser(params.SessionManager, params.Config.SessionCookie, params.Logger))
		r.Use(CSRFProtect(params.CSRFManager, params.Config.SessionCookie, params.Logger))
		r.Route("/assets", params.AssetsHandler.MountAdminRoutes)
		r.Route("/content", params.ContentHandler.MountAdminRoutes)
		r.Route("/messages", params.MessagesHandler.MountAdminRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
