package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/config"
	"github.com/noah-isme/athlos-portal-api/internal/database"
	"github.com/noah-isme/athlos-portal-api/internal/handler"
	"github.com/noah-isme/athlos-portal-api/internal/middleware"
	"github.com/noah-isme/athlos-portal-api/internal/models"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
	"github.com/noah-isme/athlos-portal-api/internal/router"
	"github.com/noah-isme/athlos-portal-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.StudentProfile{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, delivery replay guard disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewStudentProfileRepository(db)

	syncService := service.NewIdentitySyncService(userRepo, redisClient, logger)
	roleService := service.NewRoleQueryService(userRepo, profileRepo, logger)
	directoryService := service.NewUserDirectoryService(userRepo, validate, logger)
	studentService := service.NewStudentProfileService(userRepo, profileRepo, validate, logger)
	resolver := service.NewActorResolver(userRepo)

	rootCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()

		consumer := service.NewIdentityEventConsumer(natsConn, cfg.IdentityEventsSubject, syncService, logger)
		consumer.Start(rootCtx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Use(middleware.SessionAuth(cfg.SessionJWTSecret, resolver, logger))
	app.Use(middleware.AccessGate(middleware.GateConfig{
		Public:     rbac.DefaultPublicPaths(),
		SignInPath: cfg.SignInPath,
	}, logger))

	router.Register(app, cfg, router.Dependencies{
		WebhookHandler:        handler.NewIdentityWebhookHandler(syncService, logger),
		RoleHandler:           handler.NewRoleHandler(roleService, logger),
		AdminUserHandler:      handler.NewAdminUserHandler(directoryService, studentService, logger),
		StudentProfileHandler: handler.NewStudentProfileHandler(studentService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
