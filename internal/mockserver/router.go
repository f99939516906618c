package mockserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/config"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/response"
)

// SetupRouter configures the mock portal routes.
func SetupRouter(h *Handler, tokens *TokenService, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so the browser portal works in dev
	// without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Public ────────────────────────────────────────────────────────
	router.POST("/auth/guest", h.GuestToken)
	router.GET("/forms", h.ListForms)
	router.GET("/forms/:form_id", h.GetForm)

	// ─── Authenticated ─────────────────────────────────────────────────
	authed := router.Group("/")
	authed.Use(RequireGuestJWT(tokens))
	{
		authed.POST("/forms/:form_id/submit", h.SubmitForm)
		authed.GET("/certificates/my", h.MyCertificates)
	}

	return router
}
