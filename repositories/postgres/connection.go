package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/casting-agency/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return WrapDB(db, logger), nil
}

// WrapDB wraps an already opened pool
func WrapDB(db *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck pings the database and runs a trivial query
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS movies (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(120) NOT NULL,
		release_date DATE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actors (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		age INTEGER NOT NULL,
		gender VARCHAR(50) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS movie_actor (
		movie_id BIGINT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		actor_id BIGINT NOT NULL REFERENCES actors(id) ON DELETE CASCADE,
		PRIMARY KEY (movie_id, actor_id)
	);

	CREATE INDEX IF NOT EXISTS idx_movie_actor_actor_id ON movie_actor(actor_id);
`

// InitSchema creates the tables if they do not exist
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

// DropSchema drops every table owned by the service
func (db *DB) DropSchema(ctx context.Context) error {
	const drop = `DROP TABLE IF EXISTS movie_actor, actors, movies CASCADE`
	if _, err := db.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	db.logger.Warn("database schema dropped")
	return nil
}

// Seed inserts the sample movie and actor and links them
func (db *DB) Seed(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var movieID, actorID int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO movies (title, release_date) VALUES ($1, $2) RETURNING id`,
		"The Matrix", time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC),
	).Scan(&movieID); err != nil {
		return fmt.Errorf("failed to seed movie: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`INSERT INTO actors (name, age, gender) VALUES ($1, $2, $3) RETURNING id`,
		"Keanu Reeves", 56, "Male",
	).Scan(&actorID); err != nil {
		return fmt.Errorf("failed to seed actor: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO movie_actor (movie_id, actor_id) VALUES ($1, $2)`,
		movieID, actorID,
	); err != nil {
		return fmt.Errorf("failed to seed cast: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	db.logger.Info("database seeded",
		zap.Int64("movie_id", movieID),
		zap.Int64("actor_id", actorID))
	return nil
}

// Reset drops, recreates and seeds the schema
func (db *DB) Reset(ctx context.Context) error {
	if err := db.DropSchema(ctx); err != nil {
		return err
	}
	if err := db.InitSchema(ctx); err != nil {
		return err
	}
	return db.Seed(ctx)
}
