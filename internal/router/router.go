package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/handlers"
	"github.com/monocle-dev/hackhub/internal/middleware"
	"github.com/monocle-dev/hackhub/internal/models"
	"github.com/monocle-dev/hackhub/internal/rate"
)

type Options struct {
	Handler  *handlers.Handler
	Sessions middleware.SessionVerifier

	WebhookLimiter rate.Limiter

	// Metrics serves /metrics when set.
	Metrics http.Handler

	AllowedOrigins []string
	CookieDomain   string
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	h := opts.Handler
	session := []gin.HandlerFunc{
		middleware.RequireSession(opts.Sessions),
		middleware.CurrentProfile(h.Provisioner, opts.CookieDomain),
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ready", h.Ready)

		webhooks := api.Group("/webhooks")
		if opts.WebhookLimiter != nil {
			webhooks.Use(middleware.RateLimit(opts.WebhookLimiter, "webhook"))
		}
		webhooks.POST("/clerk", h.ClerkWebhook)

		authed := api.Group("", session...)
		{
			authed.GET("/me", h.Me)
			authed.GET("/ws/:project_id", h.WebSocket)

			projects := authed.Group("/projects")
			{
				projects.POST("", h.CreateProject)
				projects.GET("", h.ListProjects)
				projects.DELETE("/:project_id", h.DeleteProject)
				projects.POST("/:project_id/invites", h.InviteToProject)
			}

			authed.POST("/invites/:invite_id/accept", h.AcceptInvite)

			events := authed.Group("/events")
			{
				events.POST("/:event_id/register", h.RegisterForEvent)
				events.POST("/:event_id/projects", h.SubmitProject)
			}

			admin := authed.Group("/admin", middleware.RequireAdmin())
			{
				admin.POST("/profiles/:profile_id/ban", h.Moderate(models.AuditActionBan))
				admin.POST("/profiles/:profile_id/unban", h.Moderate(models.AuditActionUnban))
				admin.POST("/profiles/:profile_id/hide", h.Moderate(models.AuditActionHide))
				admin.POST("/profiles/:profile_id/unhide", h.Moderate(models.AuditActionUnhide))
			}
		}
	}

	return r
}
