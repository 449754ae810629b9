package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/config"
	"github.com/instihub/instihub-backend/internal/handler"
	"github.com/instihub/instihub-backend/internal/middleware"
	"github.com/instihub/instihub-backend/internal/response"
	"github.com/instihub/instihub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Admin       *handler.AdminHandler
	Institution *handler.InstitutionHandler
	Access      *handler.AccessHandler
	SystemWS    *handler.SystemWSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	limiter middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.RateLimit(limiter, "auth", log))
	{
		auth.POST("/login", handlers.Auth.UniversalLogin)
		auth.POST("/institution/login", handlers.Auth.InstitutionLogin)
	}

	// ─── 2. Institution Group ──────────────────────────────────────────
	institutions := router.Group("/api/v1/institutions")
	{
		// Public registration intake, rate limited separately.
		institutions.POST("/register",
			middleware.RateLimit(limiter, "register", log),
			handlers.Institution.Register,
		)

		// Authenticated institution surface.
		authed := institutions.Group("")
		authed.Use(middleware.RequireInstitutionJWT(authService))
		{
			authed.GET("/me", handlers.Institution.GetProfile)
			authed.PUT("/me", handlers.Institution.UpdateProfile)

			// Delegated admin registry; the service re-checks that the
			// caller is the institution's superadmin on every call.
			authed.GET("/:slug/access-control", handlers.Access.ListAdmins)
			authed.POST("/:slug/access-control", handlers.Access.AddAdmin)
			authed.DELETE("/:slug/access-control/:email", handlers.Access.RemoveAdmin)
		}
	}

	// ─── 3. Platform Admin Group ───────────────────────────────────────
	admin := router.Group("/api/v1/admin")
	{
		admin.POST("/login",
			middleware.RateLimit(limiter, "auth", log),
			handlers.Admin.Login,
		)

		authed := admin.Group("")
		authed.Use(middleware.RequirePlatformJWT(authService))
		{
			authed.GET("/me", handlers.Admin.GetProfile)

			authed.GET("/institutions", handlers.Admin.ListInstitutions)
			authed.GET("/institutions/pending", handlers.Admin.ListPending)
			authed.POST("/institutions/:id/approve", handlers.Admin.Approve)
			authed.POST("/institutions/:id/reject", handlers.Admin.Reject)

			// Destructive operations require the platform superadmin role.
			authed.DELETE("/institutions/:id",
				middleware.RequirePlatformSuperadmin(),
				handlers.Admin.Delete,
			)
			authed.PATCH("/institutions/:id/active",
				middleware.RequirePlatformSuperadmin(),
				handlers.Admin.SetActive,
			)

			authed.GET("/system/status", handlers.Admin.SystemStatus)
		}
	}

	// ─── 4. WebSocket Group (Platform WS Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequirePlatformWSAuth(authService))
	{
		ws.GET("/admin/system/stream", handlers.SystemWS.SystemStatusStream)
	}

	return router
}
