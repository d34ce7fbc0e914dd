package services

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// MovieInput carries movie fields from a request. A nil field was not
// supplied; a non-nil ActorIDs replaces the cast, even when empty.
type MovieInput struct {
	Title       *string
	ReleaseDate *string
	ActorIDs    *[]int64
}

func (in MovieInput) empty() bool {
	return in.Title == nil && in.ReleaseDate == nil && in.ActorIDs == nil
}

// MovieService implements movie use cases
type MovieService struct {
	movies repositories.MovieRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewMovieService creates a new MovieService
func NewMovieService(movies repositories.MovieRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		txMgr:  txMgr,
		logger: logger,
	}
}

// ListMovies returns every movie ordered by ID
func (s *MovieService) ListMovies(ctx context.Context) ([]*models.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list movies", err)
	}
	return movies, nil
}

// CreateMovie creates a movie and, when actor IDs are given, its cast
func (s *MovieService) CreateMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	if in.Title == nil || in.ReleaseDate == nil {
		return nil, ErrInvalidInput
	}
	releaseDate, err := models.ParseReleaseDate(*in.ReleaseDate)
	if err != nil {
		return nil, NewDomainError(ErrorTypeUnprocessable, ErrInvalidReleaseDate.Message, err)
	}

	movie, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Movie, error) {
		movie := models.NewMovie(*in.Title, releaseDate)
		if err := s.movies.Create(ctx, movie); err != nil {
			return nil, WrapInternal("failed to create movie", err)
		}
		if in.ActorIDs == nil || len(*in.ActorIDs) == 0 {
			return movie, nil
		}
		return s.replaceCast(ctx, movie.ID, *in.ActorIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("movie created", zap.Int64("movie_id", movie.ID))
	return movie, nil
}

// UpdateMovie applies the supplied fields to an existing movie
func (s *MovieService) UpdateMovie(ctx context.Context, id int64, in MovieInput) (*models.Movie, error) {
	movie, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Movie, error) {
		movie, err := s.movies.GetByID(ctx, id)
		if err != nil {
			return nil, movieRepoError(err, "failed to get movie")
		}
		if in.empty() {
			return nil, ErrEmptyPatch
		}

		if in.Title != nil {
			movie.Title = *in.Title
		}
		if in.ReleaseDate != nil {
			releaseDate, err := models.ParseReleaseDate(*in.ReleaseDate)
			if err != nil {
				return nil, NewDomainError(ErrorTypeUnprocessable, ErrInvalidReleaseDate.Message, err)
			}
			movie.ReleaseDate = releaseDate
		}

		if err := s.movies.Update(ctx, movie); err != nil {
			return nil, movieRepoError(err, "failed to update movie")
		}
		if in.ActorIDs == nil {
			return movie, nil
		}
		return s.replaceCast(ctx, id, *in.ActorIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("movie updated", zap.Int64("movie_id", id))
	return movie, nil
}

// DeleteMovie deletes a movie and its cast associations
func (s *MovieService) DeleteMovie(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return movieRepoError(err, "failed to delete movie")
	}
	s.logger.Info("movie deleted", zap.Int64("movie_id", id))
	return nil
}

// replaceCast sets the cast and reloads the movie so the response carries it
func (s *MovieService) replaceCast(ctx context.Context, movieID int64, actorIDs []int64) (*models.Movie, error) {
	if err := s.movies.SetActors(ctx, movieID, uniqueIDs(actorIDs)); err != nil {
		if errors.Is(err, repositories.ErrUnknownReference) {
			return nil, NewDomainError(ErrorTypeUnprocessable, ErrUnknownActor.Message, err)
		}
		return nil, WrapInternal("failed to set cast", err)
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, movieRepoError(err, "failed to reload movie")
	}
	return movie, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func movieRepoError(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NewDomainError(ErrorTypeNotFound, ErrMovieNotFound.Message, err)
	}
	return WrapInternal(message, err)
}
