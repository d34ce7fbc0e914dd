package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// ActorRepository implements repositories.ActorRepository
type ActorRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewActorRepository creates a new actor repository
func NewActorRepository(db *DB, logger *zap.Logger) repositories.ActorRepository {
	return &ActorRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new actor
func (r *ActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	query := `
		INSERT INTO actors (name, age, gender)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, actor.Name, actor.Age, actor.Gender).Scan(&actor.ID); err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}
	if actor.Movies == nil {
		actor.Movies = []models.MovieRef{}
	}

	r.logger.Debug("actor created", zap.Int64("id", actor.ID))
	return nil
}

// GetByID retrieves an actor by ID
func (r *ActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	query := `
		SELECT id, name, age, gender
		FROM actors
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	actor := &models.Actor{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&actor.ID,
		&actor.Name,
		&actor.Age,
		&actor.Gender,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isNumericOutOfRange(err) {
			return nil, fmt.Errorf("actor %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}

	if err := r.loadMovies(ctx, executor, []*models.Actor{actor}); err != nil {
		return nil, err
	}
	return actor, nil
}

// List retrieves all actors ordered by ID
func (r *ActorRepository) List(ctx context.Context) ([]*models.Actor, error) {
	query := `
		SELECT id, name, age, gender
		FROM actors
		ORDER BY id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	actors := []*models.Actor{}
	for rows.Next() {
		actor := &models.Actor{}
		if err := rows.Scan(&actor.ID, &actor.Name, &actor.Age, &actor.Gender); err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actor rows: %w", err)
	}

	if err := r.loadMovies(ctx, executor, actors); err != nil {
		return nil, err
	}
	return actors, nil
}

// Update updates an actor
func (r *ActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	query := `
		UPDATE actors
		SET name = $2,
		    age = $3,
		    gender = $4
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, actor.ID, actor.Name, actor.Age, actor.Gender)
	if err != nil {
		if isNumericOutOfRange(err) {
			return fmt.Errorf("actor %d: %w", actor.ID, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to update actor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("actor %d: %w", actor.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("actor updated", zap.Int64("id", actor.ID))
	return nil
}

// Delete deletes an actor
func (r *ActorRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM actors WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		if isNumericOutOfRange(err) {
			return fmt.Errorf("actor %d: %w", id, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to delete actor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("actor %d: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("actor deleted", zap.Int64("id", id))
	return nil
}

func (r *ActorRepository) loadMovies(ctx context.Context, executor Executor, actors []*models.Actor) error {
	if len(actors) == 0 {
		return nil
	}

	ids := make([]int64, len(actors))
	byID := make(map[int64]*models.Actor, len(actors))
	for i, a := range actors {
		ids[i] = a.ID
		a.Movies = []models.MovieRef{}
		byID[a.ID] = a
	}

	query := `
		SELECT ma.actor_id, m.id, m.title
		FROM movie_actor ma
		JOIN movies m ON m.id = ma.movie_id
		WHERE ma.actor_id = ANY($1)
		ORDER BY m.id
	`
	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load filmography: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var actorID int64
		var ref models.MovieRef
		if err := rows.Scan(&actorID, &ref.ID, &ref.Title); err != nil {
			return fmt.Errorf("failed to scan filmography: %w", err)
		}
		if a, ok := byID[actorID]; ok {
			a.Movies = append(a.Movies, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating filmography rows: %w", err)
	}
	return nil
}
