package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"stockroom/cmd"
	"stockroom/internal/assets"
	"stockroom/internal/assignment"
	auditlog_handler "stockroom/internal/auditlog"
	"stockroom/internal/database"
	"stockroom/internal/licenses"
	"stockroom/internal/locations"
	"stockroom/internal/logger"
	"stockroom/internal/middleware"
	"stockroom/internal/repository"
	"stockroom/internal/statuses"
	"stockroom/internal/users"
	"stockroom/pkg/auditlog"
	"stockroom/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if err := database.RunMigrations(logger.NewLogger(), "migrations"); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)
	resolver := assignment.NewResolver(repo)

	assetsRepo := assets.NewAssetsRepository(repo)
	assetService := assets.NewAssetService(assetsRepo, repo, auditLog)
	assetHandler := assets.NewAssetHandler(assetsRepo, assetService, resolver)

	licensesRepo := licenses.NewLicensesRepository(repo)
	seatsRepo := licenses.NewSeatsRepository(repo)
	seatService := licenses.NewSeatService(seatsRepo, licensesRepo, repo, auditLog)
	licenseService := licenses.NewLicenseService(licensesRepo, seatService, repo, auditLog)
	licenseHandler := licenses.NewLicenseHandler(licensesRepo, seatsRepo, licenseService, seatService)

	userHandler := users.NewUserHandler(users.NewUserRepository(repo))
	locationHandler := locations.NewLocationHandler(locations.NewLocationRepository(repo))
	statusHandler := statuses.NewStatusHandler(statuses.NewStatusRepository(repo))
	auditLogHandler := auditlog_handler.NewAuditLogHandler(repo)
	loginHandler := security.NewLoginHandler(repo)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())

	middleware.RegisterHealthRoutes(router, db)
	loginHandler.RegisterRoutes(router)
	assetHandler.RegisterRoutes(router)
	licenseHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	locationHandler.RegisterRoutes(router)
	statusHandler.RegisterRoutes(router)
	auditLogHandler.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
