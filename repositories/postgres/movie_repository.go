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

// MovieRepository implements repositories.MovieRepository
type MovieRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *DB, logger *zap.Logger) repositories.MovieRepository {
	return &MovieRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new movie
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (title, release_date)
		VALUES ($1, $2)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, movie.Title, movie.ReleaseDate).Scan(&movie.ID); err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	if movie.Actors == nil {
		movie.Actors = []models.ActorRef{}
	}

	r.logger.Debug("movie created", zap.Int64("id", movie.ID))
	return nil
}

// GetByID retrieves a movie by ID
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := `
		SELECT id, title, release_date
		FROM movies
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	movie := &models.Movie{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isNumericOutOfRange(err) {
			return nil, fmt.Errorf("movie %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	if err := r.loadActors(ctx, executor, []*models.Movie{movie}); err != nil {
		return nil, err
	}
	return movie, nil
}

// List retrieves all movies ordered by ID
func (r *MovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	query := `
		SELECT id, title, release_date
		FROM movies
		ORDER BY id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := []*models.Movie{}
	for rows.Next() {
		movie := &models.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.ReleaseDate); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movie rows: %w", err)
	}

	if err := r.loadActors(ctx, executor, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Update updates a movie's title and release date
func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	query := `
		UPDATE movies
		SET title = $2,
		    release_date = $3
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, movie.ID, movie.Title, movie.ReleaseDate)
	if err != nil {
		if isNumericOutOfRange(err) {
			return fmt.Errorf("movie %d: %w", movie.ID, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to update movie: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("movie %d: %w", movie.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("movie updated", zap.Int64("id", movie.ID))
	return nil
}

// Delete deletes a movie
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM movies WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		if isNumericOutOfRange(err) {
			return fmt.Errorf("movie %d: %w", id, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("movie %d: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("movie deleted", zap.Int64("id", id))
	return nil
}

// SetActors replaces the cast of a movie. Run it inside a transaction so the
// delete and insert land together.
func (r *MovieRepository) SetActors(ctx context.Context, movieID int64, actorIDs []int64) error {
	executor := GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, `DELETE FROM movie_actor WHERE movie_id = $1`, movieID); err != nil {
		return fmt.Errorf("failed to clear cast: %w", err)
	}
	if len(actorIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO movie_actor (movie_id, actor_id)
		SELECT $1, actor_id FROM unnest($2::bigint[]) AS actor_id
		ON CONFLICT DO NOTHING
	`
	if _, err := executor.ExecContext(ctx, query, movieID, pq.Array(actorIDs)); err != nil {
		if isForeignKeyViolation(err) || isNumericOutOfRange(err) {
			return fmt.Errorf("cast of movie %d: %w", movieID, repositories.ErrUnknownReference)
		}
		return fmt.Errorf("failed to set cast: %w", err)
	}

	r.logger.Debug("movie cast replaced",
		zap.Int64("id", movieID),
		zap.Int("actors", len(actorIDs)))
	return nil
}

func (r *MovieRepository) loadActors(ctx context.Context, executor Executor, movies []*models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]int64, len(movies))
	byID := make(map[int64]*models.Movie, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
		m.Actors = []models.ActorRef{}
		byID[m.ID] = m
	}

	query := `
		SELECT ma.movie_id, a.id, a.name
		FROM movie_actor ma
		JOIN actors a ON a.id = ma.actor_id
		WHERE ma.movie_id = ANY($1)
		ORDER BY a.id
	`
	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load cast: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movieID int64
		var ref models.ActorRef
		if err := rows.Scan(&movieID, &ref.ID, &ref.Name); err != nil {
			return fmt.Errorf("failed to scan cast: %w", err)
		}
		if m, ok := byID[movieID]; ok {
			m.Actors = append(m.Actors, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating cast rows: %w", err)
	}
	return nil
}
