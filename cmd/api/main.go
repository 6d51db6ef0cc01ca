package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/skyline-estates/api/internal/config"
	"github.com/skyline-estates/api/internal/database"
	"github.com/skyline-estates/api/internal/handlers"
	"github.com/skyline-estates/api/internal/middleware"
	"github.com/skyline-estates/api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg := config.Load()
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGODB_URI is not set")
	}

	// --- Database Connection ---
	// The connector retries with exponential backoff; exhausting the ceiling
	// is fatal at startup.
	connector := database.NewConnector(cfg.Mongo)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := connector.Get(ctx)
	if err != nil {
		cancel()
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()
	defer connector.Disconnect(context.Background())

	// --- Image Storage ---
	uploads, err := services.NewUploadService(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
	if err != nil {
		log.Fatalf("Failed to configure Cloudinary: %v", err)
	}
	if uploads == nil {
		log.Println("CLOUDINARY_URL not set, image uploads disabled.")
	}

	h := handlers.NewHandler(db, uploads, cfg)

	// --- Gin Router ---
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Rate limits: a general ceiling per client, and a tighter one on login
	// to blunt credential guessing.
	generalLimiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthRequests, cfg.RateLimit.Window)
	go generalLimiter.Cleanup(time.Hour)
	go authLimiter.Cleanup(time.Hour)

	api := r.Group("/api")
	api.Use(generalLimiter.Middleware())

	// --- Public Routes ---
	api.GET("/health", h.Health)
	api.GET("/properties", h.ListProperties)
	api.GET("/properties/similar/:id", h.GetSimilarProperties)
	api.GET("/properties/:id", h.GetProperty)
	api.POST("/enquiries", h.CreateEnquiry)
	api.GET("/settings", h.GetSettings)
	api.POST("/auth/login", authLimiter.Middleware(), h.Login)

	// --- Admin Routes ---
	admin := api.Group("")
	admin.Use(middleware.RequireAdmin(cfg.JWT.Secret))
	{
		admin.POST("/properties", h.CreateProperty)
		admin.PUT("/properties/:id", h.UpdateProperty)
		admin.DELETE("/properties/:id", h.DeleteProperty)

		admin.GET("/enquiries", h.ListEnquiries)
		admin.PATCH("/enquiries/:id", h.UpdateEnquiryStatus)
		admin.DELETE("/enquiries/:id", h.DeleteEnquiry)

		admin.GET("/auth/verify", h.Verify)
		admin.POST("/auth/register", h.RegisterAdmin)

		admin.PUT("/settings", h.UpdateSettings)
	}

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
