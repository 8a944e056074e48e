package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/config"
	"github.com/creditosas/prestamo-engine/internal/database"
	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/handler"
	"github.com/creditosas/prestamo-engine/internal/repository"
	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/internal/session"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

const dashboardCacheTTL = 60 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	setupLogging(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	defer db.Close()

	if err := database.MigrateUp(db); err != nil {
		log.WithError(err).Fatal("running migrations")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	clientRepo := repository.NewClientRepository(db)
	userRepo := repository.NewUserRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	sessions := session.NewManager(cfg.Session.Secret, "prestamo-engine", cfg.GetSessionTTL())

	clientService := service.NewClientService(clientRepo)
	userService := service.NewUserService(userRepo)
	loanService := service.NewLoanService(loanRepo, clientRepo, userRepo)
	portfolioService := service.NewPortfolioService(loanRepo, clientRepo, redisClient, dashboardCacheTTL)
	settingService := service.NewSettingService(settingRepo, cfg.Uploads.Dir)

	authHandler := handler.NewAuthHandler(userService, sessions)
	clientHandler := handler.NewClientHandler(clientService)
	userHandler := handler.NewUserHandler(userService)
	loanHandler := handler.NewLoanHandler(loanService, portfolioService)
	dashboardHandler := handler.NewDashboardHandler(portfolioService)
	settingsHandler := handler.NewSettingsHandler(settingService)
	publicHandler := handler.NewPublicHandler(loanService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(
		cfg.Uploads.Dir,
		sessions,
		authHandler,
		clientHandler,
		userHandler,
		loanHandler,
		dashboardHandler,
		settingsHandler,
		publicHandler,
		healthHandler,
	)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func setupRoutes(
	uploadDir string,
	sessions *session.Manager,
	auth *handler.AuthHandler,
	clients *handler.ClientHandler,
	users *handler.UserHandler,
	loans *handler.LoanHandler,
	dashboards *handler.DashboardHandler,
	settings *handler.SettingsHandler,
	public *handler.PublicHandler,
	health *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", health.Health).Methods("GET")
	router.HandleFunc("/health/ready", health.Ready).Methods("GET")

	// Uploaded assets (the configured logo).
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Public API: simulation, status checks and login need no session.
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", auth.Login).Methods("POST")
	api.HandleFunc("/auth/logout", auth.Logout).Methods("POST")
	api.HandleFunc("/simulate", public.Simulate).Methods("POST")
	api.HandleFunc("/status/{cedula}", public.Status).Methods("GET")
	api.HandleFunc("/settings/logo", settings.GetLogo).Methods("GET")

	// Authenticated API
	authed := api.NewRoute().Subrouter()
	authed.Use(sessions.Middleware)

	authed.HandleFunc("/auth/me", auth.Me).Methods("GET")

	authed.HandleFunc("/clients", session.Require(domain.Role.CanManageClients, clients.Create)).Methods("POST")
	authed.HandleFunc("/clients", session.Require(domain.Role.CanManageClients, clients.List)).Methods("GET")
	authed.HandleFunc("/clients/lookup/{cedula}", session.Require(domain.Role.CanCollect, clients.Lookup)).Methods("GET")
	authed.HandleFunc("/clients/{clientId}", session.Require(domain.Role.CanManageClients, clients.Get)).Methods("GET")
	authed.HandleFunc("/clients/{clientId}", session.Require(domain.Role.CanManageClients, clients.Update)).Methods("PUT")
	authed.HandleFunc("/clients/{clientId}", session.Require(domain.Role.CanManageClients, clients.Delete)).Methods("DELETE")

	authed.HandleFunc("/users", session.Require(domain.Role.CanManageUsers, users.Create)).Methods("POST")
	authed.HandleFunc("/users", session.Require(domain.Role.CanManageUsers, users.List)).Methods("GET")
	authed.HandleFunc("/users/{userId}", session.Require(domain.Role.CanManageUsers, users.Update)).Methods("PUT")
	authed.HandleFunc("/users/{userId}", session.Require(domain.Role.CanManageUsers, users.Delete)).Methods("DELETE")

	authed.HandleFunc("/loans", session.Require(domain.Role.CanManageLoans, loans.Create)).Methods("POST")
	authed.HandleFunc("/loans/{loanId}", session.Require(domain.Role.CanCollect, loans.Get)).Methods("GET")
	authed.HandleFunc("/loans/{loanId}/collector", session.Require(domain.Role.CanManageLoans, loans.Reassign)).Methods("PUT")
	authed.HandleFunc("/loans/{loanId}", session.Require(domain.Role.CanManageLoans, loans.Delete)).Methods("DELETE")
	authed.HandleFunc("/installments/{installmentId}/pay", session.Require(domain.Role.CanCollect, loans.PayInstallment)).Methods("POST")
	authed.HandleFunc("/installments/{installmentId}/revert", session.Require(domain.Role.CanManageLoans, loans.RevertInstallment)).Methods("POST")

	authed.HandleFunc("/dashboard", session.Require(domain.Role.CanManageLoans, dashboards.Admin)).Methods("GET")
	authed.HandleFunc("/dashboard/collector", session.Require(domain.Role.CanCollect, dashboards.Collector)).Methods("GET")

	authed.HandleFunc("/settings/template", session.Require(domain.Role.CanManageSettings, settings.GetTemplate)).Methods("GET")
	authed.HandleFunc("/settings/template", session.Require(domain.Role.CanManageSettings, settings.SetTemplate)).Methods("PUT")
	authed.HandleFunc("/settings/logo", session.Require(domain.Role.CanManageSettings, settings.UploadLogo)).Methods("POST")

	return router
}
