package app

import (
	"context"
	"fmt"

	"github.com/upb/casting-agency/auth0"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/repositories/postgres"
	"github.com/upb/casting-agency/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Movies    repositories.MovieRepository
	Actors    repositories.ActorRepository
	TxManager repositories.TransactionManager

	// Services
	MovieService *services.MovieService
	ActorService *services.ActorService

	// Auth
	KeySet         *auth0.KeySetCache
	Authenticator  *auth0.Authenticator
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies opens the database, prepares the schema and wires up all
// application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := prepareSchema(ctx, factory.GetDB(), cfg.Database, logger); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	keySet := auth0.NewKeySetCache(auth0.KeySetConfig{
		Domain:             cfg.Auth.Domain,
		HTTPTimeout:        cfg.Auth.JWKSTimeout,
		CacheTTL:           cfg.Auth.JWKSCacheTTL,
		MinRefreshInterval: cfg.Auth.MinRefreshInterval,
	}, logger)

	deps, err := NewDependenciesFromFactory(cfg, factory, keySet, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	deps.KeySet = keySet

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesFromFactory wires repositories, services and auth over an
// open repository factory. keys resolves token signing keys.
func NewDependenciesFromFactory(cfg *config.Config, factory *postgres.RepositoryFactory, keys auth0.KeyResolver, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()
	deps.initServices()

	if err := deps.initAuth(cfg.Auth, keys); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	return deps, nil
}

// prepareSchema creates the tables, or drops and reseeds them when configured
func prepareSchema(ctx context.Context, db *postgres.DB, cfg config.DatabaseConfig, logger *zap.Logger) error {
	if cfg.DropOnStartup {
		logger.Warn("DROP_DB_ON_STARTUP set, resetting database")
		return db.Reset(ctx)
	}
	return db.InitSchema(ctx)
}

func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Movies = repos.Movies
	d.Actors = repos.Actors
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.MovieService = services.NewMovieService(d.Movies, d.TxManager, d.Logger)
	d.ActorService = services.NewActorService(d.Actors, d.TxManager, d.Logger)
}

func (d *Dependencies) initAuth(cfg config.AuthConfig, keys auth0.KeyResolver) error {
	authenticator, err := auth0.NewAuthenticator(auth0.Config{
		Domain:     cfg.Domain,
		Audience:   cfg.Audience,
		Algorithms: cfg.Algorithms,
		Leeway:     cfg.Leeway,
	}, keys, d.Logger)
	if err != nil {
		return err
	}

	d.Authenticator = authenticator
	d.AuthMiddleware = middleware.NewAuthMiddleware(authenticator, d.Logger)
	d.Logger.Info("auth initialized",
		zap.String("domain", cfg.Domain),
		zap.String("audience", cfg.Audience),
		zap.Strings("algorithms", cfg.Algorithms))
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
