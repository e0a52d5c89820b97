package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campsite-backend/config"
	"campsite-backend/controllers"
	"campsite-backend/middleware"
	"campsite-backend/routes"
	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config load failed: %v", err)
	}

	lg := config.NewLogger(cfg.Environment)
	defer func() { _ = lg.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg, lg)
	if err != nil {
		lg.Fatal("❌ Database connect failed", zap.Error(err))
	}
	lg.Info("✅ Database connection established and migrations applied", zap.String("driver", cfg.DBDriver))

	if err := config.SeedDatabase(db, cfg, lg); err != nil {
		lg.Fatal("❌ Seeding failed", zap.Error(err))
	}

	// Forecast cache is optional.
	var cache services.ForecastCache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := services.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			lg.Warn("⚠️  Redis unavailable; forecast cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cache = services.NewRedisForecastCache(client)
			lg.Info("✅ Forecast cache enabled", zap.Duration("ttl", cfg.WeatherCacheTTL))
		}
	}

	policy, err := services.StatusPolicyByName(cfg.BookingStatusPolicy)
	if err != nil {
		lg.Fatal("❌ Invalid BOOKING_STATUS_POLICY", zap.Error(err))
	}

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(db, tokenService, lg.Named("auth"))
	mailer := utils.NewMailer(utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
	}, lg.Named("mail"))
	userService := services.NewUserService(db, mailer, lg.Named("users"))
	campsiteService := services.NewCampsiteService(db, services.NewImageStore(cfg.UploadDir, "/uploads"), lg.Named("campsites"))
	bookingService := services.NewBookingService(db, policy, lg.Named("bookings"))
	ticketService := services.NewTicketService(bookingService, cfg.TicketSecret)
	reportService := services.NewReportService(bookingService)
	weatherService := services.NewWeatherService(db, cfg.WeatherBaseURL, cfg.WeatherTimeout, cache, cfg.WeatherCacheTTL, lg.Named("weather"))

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	stopCleanup := make(chan struct{})
	go limiter.Run(time.Minute, stopCleanup)

	router, err := routes.SetupRouter(routes.Deps{
		Logger:         lg.Named("http"),
		Tokens:         tokenService,
		AuthLimiter:    limiter,
		CORSOrigins:    cfg.CORSOrigins,
		UploadDir:      cfg.UploadDir,
		TrustedProxies: cfg.TrustedProxies,
		Auth:           controllers.NewAuthController(authService),
		Campsites:      controllers.NewCampsiteController(campsiteService),
		Bookings:       controllers.NewBookingController(bookingService, ticketService),
		Admin:          controllers.NewAdminController(userService, bookingService, reportService),
		Weather:        controllers.NewWeatherController(weatherService),
	})
	if err != nil {
		lg.Fatal("❌ Router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		lg.Info("🚀 Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("❌ ListenAndServe()", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	lg.Info("⚠️  Shutdown signal received, shutting down server...")
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	userService.Wait()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	lg.Info("✅ Server stopped gracefully")
}
