package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/employee-records/internal/api"
	"github.com/isdelr/employee-records/internal/auth"
	"github.com/isdelr/employee-records/internal/config"
	"github.com/isdelr/employee-records/internal/database"
	"github.com/isdelr/employee-records/internal/logger"
	"github.com/isdelr/employee-records/internal/repositories/employees"
	"github.com/isdelr/employee-records/internal/repositories/users"
	"github.com/isdelr/employee-records/internal/services"
	"github.com/isdelr/employee-records/internal/views"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to a dotenv file with configuration overrides")
	port := pflag.Int("port", 0, "port to listen on (overrides PORT)")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.ServerPort = *port
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())
	if cfg.UsingDevelopmentSecret() {
		log.Warn().Msg("JWT_SECRET is not set; signing tokens with the development secret")
	}

	// Set up storage
	userRepo, employeeRepo, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to initialize store")
	}
	defer closeStore()

	// Set up services
	userService := services.NewUserService(userRepo)
	employeeService := services.NewEmployeeService(employeeRepo)

	codec := auth.NewCodec([]byte(cfg.JWTSecret), auth.DefaultTokenTTL)
	guard := auth.NewGuard(auth.CookieExtractor(auth.SessionCookieName), codec, auth.WithUserLookup(userService.UserExists))

	renderer, err := views.NewTemplateRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Set up router
	router := api.NewRouter(api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	}, userService, employeeService, codec, guard, renderer)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// openStore connects the configured backend and returns its repositories
// along with a function that releases the connection.
func openStore(cfg *config.Config) (users.Repository, employees.Repository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect from mongo")
			}
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")
		return users.NewMongoRepository(db.Collection(database.UsersCollection)),
			employees.NewMongoRepository(db.Collection(database.EmployeesCollection)),
			closeFn, nil

	default:
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}
		log.Info().Str("path", cfg.DatabasePath).Msg("Opened SQLite database")
		return users.NewSQLiteRepository(db), employees.NewSQLiteRepository(db), closeFn, nil
	}
}
