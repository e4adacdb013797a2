// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	announcementsfeature "github.com/dalemusser/campushub/internal/app/features/announcements"
	healthfeature "github.com/dalemusser/campushub/internal/app/features/health"
	"github.com/dalemusser/campushub/internal/app/system/httplog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. CampusHub applies access-log
// middleware and mounts the health and announcements feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// One structured access-log line per request, tagged with a request id.
	r.Use(httplog.Middleware(logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CampusHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Announcements API
	annHandler := announcementsfeature.NewHandler(deps.CampusHubMongoDatabase, logger)
	r.Mount("/announcements", announcementsfeature.Routes(annHandler))

	return r, nil
}
