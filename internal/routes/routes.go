package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/config"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/handlers"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/middleware"
	"github.com/synap5e/homehero-web/internal/search"
	"github.com/synap5e/homehero-web/internal/session"
	"github.com/synap5e/homehero-web/internal/timezone"
	ucBooking "github.com/synap5e/homehero-web/internal/usecase/booking"
	ucReview "github.com/synap5e/homehero-web/internal/usecase/review"
)

// Infra holds the process-wide singletons built by main.
type Infra struct {
	API      *api.Client
	Sessions *session.Manager
	Searches *search.Registry
	Guard    *inflight.Guard
	Limiter  *middleware.Limiter
	Recorder audit.Recorder
	// Activity is nil when no database is configured.
	Activity *audit.Logger
	Log      *zap.Logger
	// Clock pins "now" for lead-time checks; nil means time.Now.
	Clock timezone.Clock
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, in Infra) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	cookie := middleware.Cookie{Name: cfg.SessionCookie, Secure: cfg.CookieSecure}

	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(in.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SessionMiddleware(in.Sessions, cookie, in.Log))

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(in.Guard, in.Recorder, in.Clock, cfg.LeadTime, in.Log)
	respondBookingUC := ucBooking.NewRespondBooking(in.Guard, in.Recorder, in.Log)
	cancelBookingUC := ucBooking.NewCancelBooking(in.Guard, in.Recorder, in.Log)
	rescheduleBookingUC := ucBooking.NewRescheduleBooking(in.Guard, in.Recorder, in.Clock, cfg.LeadTime, in.Log)
	completeBookingUC := ucBooking.NewCompleteBooking(in.Guard, in.Recorder, in.Log)

	submitReviewUC := ucReview.NewSubmitReview(in.Guard, in.Recorder, in.Log)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	base := handlers.Base{
		API:      in.API,
		Sessions: in.Sessions,
		Cookie:   cookie,
		Log:      in.Log,
	}

	authHandler := handlers.NewAuthHandler(base, in.Searches, in.Recorder)
	meHandler := handlers.NewMeHandler(base)
	dashboardHandler := handlers.NewDashboardHandler(base, in.Guard)
	searchHandler := handlers.NewSearchHandler(base, in.Searches)
	providerHandler := handlers.NewProviderHandler(base, in.Recorder)
	reviewHandler := handlers.NewReviewHandler(base, submitReviewUC)
	adminHandler := handlers.NewAdminHandler(base, in.Recorder)
	auditLogsHandler := handlers.NewAuditLogsHandler(in.Activity, cfg.Timezone, in.Log)

	bookingHandler := handlers.NewBookingHandler(
		base,
		in.Guard,
		cfg.Timezone,
		createBookingUC,
		respondBookingUC,
		cancelBookingUC,
		rescheduleBookingUC,
		completeBookingUC,
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	apiGroup := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(in.Limiter.Middleware(in.Log))
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// ------------------------------
		// 🔐 SIGNED IN
		// ------------------------------
		secured := apiGroup.Group("/")
		secured.Use(middleware.RequireSession())
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PUT("/me", meHandler.UpdateMe)
			secured.PUT("/me/location", meHandler.UpdateLocation)

			secured.GET("/dashboard", dashboardHandler.Show)

			secured.GET("/search", searchHandler.State)
			secured.GET("/search/options", searchHandler.Options)
			secured.PUT("/search/filters", searchHandler.UpdateFilters)
			secured.POST("/search", searchHandler.Search)
			secured.DELETE("/search", searchHandler.Clear)
			secured.GET("/search/stream", searchHandler.Stream)

			secured.GET("/providers/:id", providerHandler.Get)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.POST("/bookings", bookingHandler.Create)
			secured.POST("/bookings/:id/respond", bookingHandler.Respond)
			secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)
			secured.POST("/bookings/:id/complete", bookingHandler.Complete)

			secured.POST("/reviews", reviewHandler.Create)
			secured.GET("/reviews/mine", reviewHandler.Mine)
		}

		// ------------------------------
		// 🧰 PROVIDER
		// ------------------------------
		provider := apiGroup.Group("/provider")
		provider.Use(middleware.RequireRole(in.Log, domain.RoleProvider))
		{
			provider.GET("/profile", providerHandler.MyProfile)
			provider.POST("/profile", providerHandler.CreateProfile)
			provider.PUT("/profile", providerHandler.UpdateProfile)
			provider.PUT("/availability", providerHandler.UpdateAvailability)
			provider.PUT("/pricing", providerHandler.UpdatePricing)
		}

		// ------------------------------
		// 🛡️ ADMIN
		// ------------------------------
		admin := apiGroup.Group("/admin")
		admin.Use(middleware.RequireRole(in.Log, domain.RoleAdmin))
		{
			admin.GET("/users", adminHandler.Users)
			admin.GET("/providers", adminHandler.Providers)
			admin.POST("/providers/:id/approve", adminHandler.ApproveProvider)
			admin.GET("/bookings", adminHandler.Bookings)
			admin.GET("/activity", auditLogsHandler.List)
		}
	}
}
