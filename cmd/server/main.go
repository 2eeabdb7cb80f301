package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/paltattoo/paltattoo-backend/internal/cache"
	"github.com/paltattoo/paltattoo-backend/internal/config"
	"github.com/paltattoo/paltattoo-backend/internal/db"
	httpHandlers "github.com/paltattoo/paltattoo-backend/internal/http/handlers"
	httpRouter "github.com/paltattoo/paltattoo-backend/internal/http/router"
	"github.com/paltattoo/paltattoo-backend/internal/logger"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/service"
	"github.com/paltattoo/paltattoo-backend/internal/storage"
	"github.com/paltattoo/paltattoo-backend/internal/ws"
)

func main() {
	// Contexto para el apagado ordenado.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: error al cargar la configuración: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Base de datos y migraciones.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: error de conexión a la base: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: error en las migraciones: %v", err)
	}

	// Cache de lectura sobre Redis; si no hay REDIS_ADDR queda deshabilitada.
	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	readCache := cache.New(redisClient, cfg.CacheTTL)

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: no se pudo preparar el almacenamiento de archivos: %v", err)
	}

	// Repositorios.
	userRepo := repository.NewUserRepository(dbConn)
	offerRepo := repository.NewOfferRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	ratingRepo := repository.NewRatingRepository(dbConn)
	appointmentRepo := repository.NewAppointmentRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Servicios.
	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo)
	offerService := service.NewOfferService(offerRepo, readCache)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, proposalRepo)
	proposalService := service.NewProposalService(proposalRepo, offerService, userRepo, subscriptionService, cfg.SingleAcceptance)
	ratingService := service.NewRatingService(ratingRepo, proposalRepo, offerService)
	appointmentService := service.NewAppointmentService(appointmentRepo, proposalRepo, offerService, cfg.AppointmentCancelWindow)
	statsService := service.NewStatsService(offerRepo, proposalRepo, ratingRepo)
	seedService := service.NewSeedService(dbConn, userRepo, offerRepo, proposalRepo, subscriptionRepo)

	// WebSockets y fan-out de eventos.
	hub := ws.NewHub()
	go hub.Run()
	notificationService.SetHub(hub)
	proposalService.SetEvents(notificationService)
	ratingService.SetEvents(notificationService)
	appointmentService.SetEvents(notificationService)

	// Handlers HTTP.
	handlers := httpRouter.Handlers{
		Auth:         httpHandlers.NewAuthHandler(authService),
		Profile:      httpHandlers.NewProfileHandler(userRepo),
		Offer:        httpHandlers.NewOfferHandler(offerService),
		Proposal:     httpHandlers.NewProposalHandler(proposalService),
		Rating:       httpHandlers.NewRatingHandler(ratingService),
		Appointment:  httpHandlers.NewAppointmentHandler(appointmentService),
		Subscription: httpHandlers.NewSubscriptionHandler(subscriptionService),
		Notification: httpHandlers.NewNotificationHandler(notificationService),
		Media:        httpHandlers.NewMediaHandler(userRepo, mediaStorage),
		Stats:        httpHandlers.NewStatsHandler(statsService),
		Health:       httpHandlers.NewHealthHandler(dbConn),
		Seed:         httpHandlers.NewSeedHandler(seedService),
		WS:           httpHandlers.NewWSHandler(hub, tokenManager),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Apagamos el servidor al recibir la señal.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: error al detener el servidor http: %v", err)
		}
	}()

	log.Printf("main: servidor HTTP escuchando en el puerto %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: el servidor terminó con error: %v", err)
	}
}

// safeClose cierra la conexión a la base.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: error al cerrar la base: %v", err)
	}
}
