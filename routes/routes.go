package routes

import (
	"fmt"
	"net/http"
	"time"

	"campsite-backend/controllers"
	"campsite-backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router needs to mount handlers.
type Deps struct {
	Logger      *zap.Logger
	Tokens      middleware.TokenParser
	AuthLimiter *middleware.RateLimiter
	CORSOrigins []string
	UploadDir   string

	// TrustedProxies may set X-Forwarded-For. Empty means the client IP is
	// always the socket peer.
	TrustedProxies []string

	Auth      *controllers.AuthController
	Campsites *controllers.CampsiteController
	Bookings  *controllers.BookingController
	Admin     *controllers.AdminController
	Weather   *controllers.WeatherController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(middleware.Recovery(d.Logger), middleware.Logger(d.Logger))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	api := r.Group("/api")

	requireAuth := middleware.RequireAuth(d.Tokens)
	requireAdmin := middleware.RequireAdmin()

	auth := api.Group("/auth")
	{
		limited := auth.Group("")
		if d.AuthLimiter != nil {
			limited.Use(d.AuthLimiter.Limit())
		}
		limited.POST("/register", d.Auth.Register)
		limited.POST("/login", d.Auth.Login)

		auth.GET("/profile", requireAuth, d.Auth.Profile)
	}

	campsites := api.Group("/campsites", middleware.OptionalAuth(d.Tokens))
	{
		campsites.GET("", d.Campsites.List)
		campsites.GET("/:id", d.Campsites.Get)
	}

	api.GET("/weather/forecast", requireAuth, d.Weather.Forecast)

	bookings := api.Group("/bookings", requireAuth)
	{
		bookings.POST("", d.Bookings.Create)
		bookings.GET("/my-bookings", d.Bookings.MyBookings)
		bookings.GET("/bookings-list", requireAdmin, d.Bookings.ListAll)
		bookings.GET("/:id/ticket", d.Bookings.Ticket)
	}

	admin := api.Group("/admin", requireAuth, requireAdmin)
	{
		admin.GET("/campsites", d.Campsites.AdminList)
		admin.POST("/campsites", d.Campsites.Create)
		admin.PUT("/campsites/:id", d.Campsites.Update)
		admin.DELETE("/campsites/:id", d.Campsites.Delete)
		admin.PUT("/campsites/:id/image", d.Campsites.UploadImage)

		admin.GET("/users", d.Admin.ListUsers)
		admin.GET("/users/pending", d.Admin.PendingUsers)
		admin.GET("/users/total", d.Admin.UserTotals)
		admin.GET("/users/:id", d.Admin.GetUser)
		admin.PUT("/users/:id/approval", d.Admin.ReviewUser)

		admin.GET("/bookings/total", d.Admin.BookingTotals)
		admin.GET("/bookings/today", d.Admin.BookingsToday)
		admin.GET("/bookings/export", d.Admin.ExportBookings)
		admin.GET("/bookings/:id", d.Admin.GetBooking)
		admin.PUT("/bookings/:id/status", d.Admin.UpdateBookingStatus)
	}

	return r, nil
}
