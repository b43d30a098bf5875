package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/config"
	"github.com/stayhub/stayhub-backend/internal/database"
	"github.com/stayhub/stayhub-backend/internal/handlers"
	"github.com/stayhub/stayhub-backend/internal/middleware"
	"github.com/stayhub/stayhub-backend/internal/services"
	"github.com/stayhub/stayhub-backend/pkg/logger"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	logger.InitLoggers()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(cfg); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(cfg); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	stripe.Key = cfg.StripeSecretKey

	queue, err := services.NewBookingQueue(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize booking queue: %v", err)
	}

	store := booking.NewStore(db)
	dedupe := services.NewRedisDeduper(services.RedisClient)

	// WebSocket hub for booking status pushes
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"}
	r.Use(cors.New(corsConfig))

	// Local storage fallback serves uploads from disk
	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Stripe calls this; signature verification replaces auth
		api.POST("/payments/webhook", handlers.PaymentWebhook(store, dedupe, hub, cfg.StripeWebhookSecret))

		// Public room browsing
		api.GET("/rooms", handlers.GetAllRooms(db))
		api.POST("/bookings/check-availability", handlers.CheckAvailability(store))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("", handlers.GetUserData(db))
				users.POST("/searched-cities", handlers.StoreRecentSearchedCity())
			}

			hotels := protected.Group("/hotels")
			{
				hotels.POST("", handlers.RegisterHotel(db))
			}

			rooms := protected.Group("/rooms")
			{
				rooms.POST("", middleware.RequireRoles("owner", "admin"), handlers.CreateRoom(db))
				rooms.GET("/owner", middleware.RequireRoles("owner", "admin"), handlers.GetOwnerRooms(db))
				rooms.POST("/toggle-availability", middleware.RequireRoles("owner", "admin"), handlers.ToggleRoomAvailability(db))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("/book", handlers.Book(store, queue))
				bookings.GET("/user", handlers.GetUserBookings(store))
				bookings.GET("/hotel", middleware.RequireRoles("owner", "admin"), handlers.GetHotelBookings(db, store))
				bookings.PATCH("/:id", handlers.UpdateBooking(store, queue))
				bookings.DELETE("/:id", handlers.DeleteBooking(store, queue))
			}

			protected.POST("/payments/checkout", handlers.CreateCheckoutSession(store))

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRoles("admin"))
			{
				admin.GET("/users", handlers.ListUsers(db))
				admin.GET("/hotels", handlers.ListHotels(db))
				admin.GET("/bookings", handlers.ListBookings(db))
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
