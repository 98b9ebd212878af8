// @title           EcoScan Backend API
// @version         1.0.0
// @description     Backend API for scanning product photos and returning structured sustainability assessments (material, recyclability, carbon footprint, disposal, alternatives) via Gemini vision.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoscan-backend/internal/config"
	"ecoscan-backend/internal/database"
	"ecoscan-backend/internal/gemini"
	"ecoscan-backend/internal/handlers"
	"ecoscan-backend/internal/middleware"
	"ecoscan-backend/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required. Set it to your Supabase PostgreSQL connection string.")
	}

	// Run migrations before serving traffic
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	adminClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	geminiClient := gemini.NewClient(cfg.GeminiEndpoint, cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)

	scansHandler := handlers.NewScansHandler(dbClient, storageClient, geminiClient)
	uploadHandler := handlers.NewUploadHandler(storageClient)
	usersHandler := handlers.NewUsersHandler(dbClient, adminClient)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes: error translation wraps auth so auth failures also come
	// back in the uniform envelope.
	api := router.Group("/api/v1")
	api.Use(middleware.ErrorMiddleware(cfg))
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/scans", scansHandler.CreateScan)
	api.GET("/scans", scansHandler.ListScans)
	api.GET("/scans/:id", scansHandler.GetScan)
	api.DELETE("/scans/:id", scansHandler.DeleteScan)

	api.POST("/upload", uploadHandler.Upload)

	api.POST("/users/sync", usersHandler.SyncProfile)
	api.GET("/users/profile/:id", usersHandler.GetProfile)
	api.DELETE("/users/me", usersHandler.DeleteAccount)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
