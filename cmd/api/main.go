package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/banquethub/banquethub-backend/internal/config"
	"github.com/banquethub/banquethub-backend/internal/database"
	"github.com/banquethub/banquethub-backend/internal/handlers"
	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/services"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	cache, err := services.NewCache(cfg.Redis.URL)
	if err != nil {
		logrus.Fatalf("Failed to initialize Redis: %v", err)
	}

	storage, err := services.NewStorage(cfg.Storage)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Venue ownership is verified against the sibling venue service
	// when one is configured, otherwise against the local store.
	var venues services.VenueDirectory = services.NewLocalVenues(db)
	if cfg.Services.VenueServiceURL != "" {
		venues = services.NewVenueClient(cfg.Services.VenueServiceURL, cfg.Services.Timeout)
	}
	var users services.UserDirectory = services.NewLocalUsers(db)
	if cfg.Services.AuthServiceURL != "" {
		users = services.NewUserClient(cfg.Services.AuthServiceURL, cfg.Services.Timeout)
	}

	mailer := utils.NewMailer(cfg.Email)

	hub := services.NewHub()
	go hub.Run()

	notifier := &services.Notifier{
		Mailer: mailer,
		Hub:    hub,
		Cache:  cache,
		Users:  users,
	}

	r := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Id", "X-User-Role", "X-Kyc-Status"}
	r.Use(cors.New(corsConfig))

	// Serve locally stored uploads
	r.Static("/uploads", cfg.Storage.UploadDir)

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, cfg.JWT))
			auth.POST("/login", handlers.Login(db, cfg.JWT))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(cfg.JWT), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWT))
		{
			userRoutes := protected.Group("/users")
			{
				userRoutes.GET("/profile", handlers.GetProfile(db))
				userRoutes.PUT("/profile", handlers.UpdateProfile(db))
				userRoutes.GET("/:id", handlers.GetUser(db))
				userRoutes.PATCH("/:id/kyc", middleware.RequireRoles(models.RoleAdmin), handlers.UpdateKycStatus(db))
			}

			venueRoutes := protected.Group("/venues")
			{
				venueRoutes.POST("", handlers.CreateVenue(db))
				venueRoutes.GET("", handlers.GetVenues(db))
				venueRoutes.GET("/:id", handlers.GetVenue(db))
				venueRoutes.PUT("/:id", handlers.UpdateVenue(db))
				venueRoutes.DELETE("/:id", handlers.DeleteVenue(db))
				venueRoutes.GET("/:id/calendar", handlers.GetVenueCalendar(db))
				venueRoutes.PUT("/:id/calendar", handlers.SetVenueAvailability(db, cache))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, venues, notifier))
				bookings.GET("", handlers.GetBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(db, notifier))
				bookings.DELETE("/:id", handlers.DeleteBooking(db, notifier))
			}

			media := protected.Group("/media")
			{
				media.POST("", handlers.UploadMedia(db, storage))
				media.GET("", handlers.ListMediaByReference(db))
				media.GET("/:id", handlers.GetMedia(db))
				media.DELETE("/:id", handlers.DeleteMedia(db))
			}

			quotes := protected.Group("/quotes")
			{
				quotes.POST("", handlers.CreateQuote(db))
				quotes.GET("", handlers.GetQuotes(db))
				quotes.GET("/:id", handlers.GetQuote(db))
				quotes.POST("/:id/send", handlers.SendQuote(db, notifier))
				quotes.POST("/:id/accept", handlers.AcceptQuote(db, notifier))
				quotes.POST("/:id/reject", handlers.RejectQuote(db, notifier))
				quotes.POST("/:id/invoice", handlers.CreateInvoiceFromQuote(db, notifier))
			}

			invoices := protected.Group("/invoices")
			{
				invoices.GET("", handlers.GetInvoices(db))
				invoices.GET("/:id", handlers.GetInvoice(db))
				invoices.POST("/:id/pay", handlers.PayInvoice(db))
				invoices.POST("/:id/cancel", handlers.CancelInvoice(db))
				invoices.POST("/sweep-overdue", middleware.RequireRoles(models.RoleAdmin), handlers.SweepOverdueInvoices(db))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.POST("/send", handlers.SendNotification(db, mailer))
			}
		}
	}

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
