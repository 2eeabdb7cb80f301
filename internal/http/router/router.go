package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paltattoo/paltattoo-backend/internal/config"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers"
	"github.com/paltattoo/paltattoo-backend/internal/http/middleware"
	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// Handlers agrupa todos los handlers que el router conecta.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Offer        *handlers.OfferHandler
	Proposal     *handlers.ProposalHandler
	Rating       *handlers.RatingHandler
	Appointment  *handlers.AppointmentHandler
	Subscription *handlers.SubscriptionHandler
	Notification *handlers.NotificationHandler
	Media        *handlers.MediaHandler
	Stats        *handlers.StatsHandler
	Health       *handlers.HealthHandler
	Seed         *handlers.SeedHandler
	WS           *handlers.WSHandler
}

// SetupRouter arma el router con todos los grupos de rutas y middleware.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	if h.Seed != nil && cfg.Env == "development" {
		api.POST("/seed", h.Seed.Seed)
	}

	// Autenticación con rate limit agresivo contra fuerza bruta.
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Rutas públicas.
	api.GET("/offers", h.Offer.List)
	api.GET("/offers/:id", middleware.UUIDValidator("id"), h.Offer.Get)
	api.GET("/artists", h.Profile.SearchArtists)
	api.GET("/users/:id/profile", middleware.UUIDValidator("id"), h.Profile.GetPublicProfile)
	api.GET("/users/:id/ratings", middleware.UUIDValidator("id"), h.Rating.ListForUser)
	api.GET("/ws", h.WS.Handle)

	// Rutas protegidas.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile/me", h.Profile.GetMe)
		protected.PUT("/profile/me", h.Profile.UpdateMe)
		protected.POST("/media/avatar", h.Media.UploadAvatar)

		protected.GET("/offers/mine", h.Offer.ListMine)
		protected.POST("/offers", h.Offer.Create)
		protected.PUT("/offers/:id", middleware.UUIDValidator("id"), h.Offer.Update)
		protected.POST("/offers/:id/close", middleware.UUIDValidator("id"), h.Offer.Close)

		protected.POST("/offers/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.Create)
		protected.GET("/offers/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.ListForOffer)
		protected.GET("/proposals/mine", h.Proposal.ListMine)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), h.Proposal.Get)
		protected.PUT("/proposals/:id", middleware.UUIDValidator("id"), h.Proposal.Update)
		protected.POST("/proposals/:id/withdraw", middleware.UUIDValidator("id"), h.Proposal.Withdraw)
		protected.PUT("/proposals/:id/status", middleware.UUIDValidator("id"), h.Proposal.UpdateStatus)

		protected.GET("/ratings/can-rate", h.Rating.CanRate)
		protected.POST("/ratings", h.Rating.Create)

		protected.GET("/appointments", h.Appointment.ListMine)
		protected.POST("/appointments", h.Appointment.Schedule)
		protected.POST("/appointments/:id/confirm", middleware.UUIDValidator("id"), h.Appointment.Confirm)
		protected.POST("/appointments/:id/complete", middleware.UUIDValidator("id"), h.Appointment.Complete)
		protected.POST("/appointments/:id/cancel", middleware.UUIDValidator("id"), h.Appointment.Cancel)

		protected.GET("/subscription", h.Subscription.GetMine)
		protected.PUT("/subscription", h.Subscription.ChangeTier)

		protected.GET("/notifications", h.Notification.List)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
		protected.PUT("/notifications/read-all", h.Notification.MarkAllAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), h.Notification.Delete)

		protected.GET("/stats/dashboard", h.Stats.Dashboard)
	}

	return r
}
