package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenpulse/internal/eventbus"
	"greenpulse/internal/handlers"
	"greenpulse/internal/logger"
	"greenpulse/internal/repository"
	"greenpulse/internal/repository/kv"
	"greenpulse/internal/server"
	"greenpulse/internal/service"

	"github.com/spf13/viper"
)

// @title           GreenPulse API
// @version         1.0
// @description     Plant monitoring dashboard: accounts, plants, telemetry, watering history.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	bus := eventbus.New()

	store, err := openStore(bus, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(store)
	services := service.NewService(repos, bus, authConfig())
	apiHandler := handlers.NewHandler(services, log, bus)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the telemetry mirror follows sensor writes for as long as we run
	go services.Telemetry.Run(ctx)

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func authConfig() service.AuthConfig {
	ttl := viper.GetDuration("auth.token_ttl")
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	return service.AuthConfig{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   ttl,
	}
}

// openStore opens the key-value store file named in config.
func openStore(bus *eventbus.Bus, log *logger.Logger) (*kv.Store, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "greenpulse.db")
		dbPath = "greenpulse.db"
	}
	return kv.Open(dbPath, bus)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
