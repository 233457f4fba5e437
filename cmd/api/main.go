package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/skybook/skybook/internal/api"
	"github.com/skybook/skybook/internal/auth"
	"github.com/skybook/skybook/internal/cache"
	"github.com/skybook/skybook/internal/mailer"
	"github.com/skybook/skybook/internal/ports"
	"github.com/skybook/skybook/internal/repository"
	"github.com/skybook/skybook/internal/service"
	"github.com/skybook/skybook/internal/utils"
	"github.com/skybook/skybook/pkg/config"
	"github.com/skybook/skybook/pkg/health"
)

type App struct {
	config *config.Config
	server *http.Server
	db     *pgxpool.Pool
	cache  *cache.FlightCache
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	a.cache = cache.NewFlightCache(
		a.config.Redis.Addr,
		a.config.Redis.Password,
		a.config.Redis.DB,
		a.config.Redis.CacheTTL,
	)

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) setupServer() error {
	services := a.setupServices()
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

type Services struct {
	BookingService ports.BookingService
	FlightService  ports.FlightService
	Verifier       ports.AuthVerifier
}

func (a *App) setupServices() Services {
	bookingRepo := repository.NewBookingRepository(a.db)
	flightRepo := repository.NewFlightRepository(a.db)

	sender := mailer.NewMailer(
		a.config.SMTP.Host,
		a.config.SMTP.Port,
		a.config.SMTP.Username,
		a.config.SMTP.Password,
		mailer.WithFrom(a.config.SMTP.From),
	)
	admins := auth.NewAllowList(a.config.Auth.AdminEmails)

	return Services{
		BookingService: service.NewBookingService(bookingRepo, flightRepo, sender),
		FlightService:  service.NewFlightService(flightRepo, sender, admins, a.cache),
		Verifier:       auth.NewVerifier(a.config.Auth.JWTSecret),
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := http.NewServeMux()
	const versionPrefix = "/v1"

	router.HandleFunc(versionPrefix+"/health", health.HealthGet(a.db))

	bookingHandler := utils.AllowedMethods(
		utils.AllowedContentTypes(
			api.BookingHandler(services.BookingService, services.Verifier),
			"application/json",
		),
		"POST", "GET", "PATCH",
	)
	router.HandleFunc(versionPrefix+"/bookings", bookingHandler)

	router.HandleFunc(versionPrefix+"/tickets/", utils.AllowedMethods(
		api.TicketHandler(services.BookingService, services.Verifier),
		"GET",
	))

	router.HandleFunc(versionPrefix+"/flights", utils.AllowedMethods(
		api.FlightsHandler(services.FlightService),
		"GET",
	))
	router.HandleFunc(versionPrefix+"/flights/", utils.AllowedMethods(
		api.SeatsHandler(services.FlightService),
		"GET",
	))

	adminFlightHandler := utils.AllowedMethods(
		utils.AllowedContentTypes(
			api.AdminFlightHandler(services.FlightService, services.Verifier),
			"application/json",
		),
		"PATCH",
	)
	router.HandleFunc(versionPrefix+"/admin/flights/", adminFlightHandler)

	return router
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("Starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("cache close failed: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}

	return nil
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
