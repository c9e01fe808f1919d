package handlers

import (
	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/dashboard"
	dochandler "github.com/docdesk/docdesk/backend/go-services/internal/document/handler"
	docservice "github.com/docdesk/docdesk/backend/go-services/internal/document/service"
	"github.com/docdesk/docdesk/backend/go-services/internal/ingestion"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/qa"
	"github.com/docdesk/docdesk/backend/go-services/internal/sessions"
	"github.com/docdesk/docdesk/backend/go-services/internal/users"
	"github.com/docdesk/docdesk/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps are the services behind the HTTP API.
type Deps struct {
	Config    *config.Config
	Documents docservice.Service
	Engine    *ingestion.Engine
	Users     *users.Service
	QA        *qa.Service
	Dashboard *dashboard.Service
	Sessions  *sessions.Provider
	Blacklist *sessions.Blacklist
	// Redis backs the rate limiter when the config selects it; may be nil.
	Redis *redis.Client
}

// RegisterRoutes mounts the auth, document, ingestion, QA, dashboard, user
// and swagger routes on r, behind optional auth and the configured rate limiter.
func RegisterRoutes(r *gin.Engine, d Deps) {
	verifier := middleware.JWTVerifier{Config: d.Config}
	r.Use(middleware.OptionalAuth(verifier, d.Blacklist))
	// after OptionalAuth so authenticated callers get their own bucket
	if limit := middleware.NewRateLimiter(d.Config.RateLimit, d.Redis); limit != nil {
		r.Use(limit)
	}

	NewAuthHandler(d.Config, d.Sessions, d.Blacklist).Register(r.Group("/"))
	RegisterSwagger(r)

	dochandler.RegisterDocumentRoutes(r, d.Documents)
	NewIngestionHandler(d.Engine).Register(r)
	RegisterQARoutes(r, d.QA)
	RegisterDashboardRoutes(r, d.Dashboard)

	admin := r.Group("/api",
		middleware.AuthMiddleware(verifier, d.Blacklist),
		middleware.RequireRole(models.RoleAdmin),
	)
	NewUsersHandler(d.Users).Register(admin)
}
