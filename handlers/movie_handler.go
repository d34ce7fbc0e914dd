package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateMovieRequest represents a request to create a movie
type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	ReleaseDate string   `json:"release_date" validate:"required"`
	ActorIDs    *[]int64 `json:"actor_ids,omitempty"`
}

// UpdateMovieRequest represents a partial update. A present actor_ids
// replaces the cast; an empty list clears it.
type UpdateMovieRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=120"`
	ReleaseDate *string  `json:"release_date,omitempty"`
	ActorIDs    *[]int64 `json:"actor_ids,omitempty"`
}

// MovieService defines the movie operations the handler depends on
type MovieService interface {
	ListMovies(ctx context.Context) ([]*models.Movie, error)
	CreateMovie(ctx context.Context, in services.MovieInput) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, in services.MovieInput) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

// MovieHandler handles movie-related HTTP requests
type MovieHandler struct {
	movies MovieService
	logger *zap.Logger
}

// NewMovieHandler creates a new MovieHandler
func NewMovieHandler(movies MovieService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		movies: movies,
		logger: logger,
	}
}

// HandleListMovies handles GET /movies
func (h *MovieHandler) HandleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.ListMovies(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	views := make([]models.MovieView, len(movies))
	for i, m := range movies {
		views[i] = m.Format()
	}
	_ = utils.WriteSuccess(w, map[string]interface{}{"movies": views})
}

// HandleCreateMovie handles POST /movies
func (h *MovieHandler) HandleCreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	movie, err := h.movies.CreateMovie(ctx, services.MovieInput{
		Title:       &req.Title,
		ReleaseDate: &req.ReleaseDate,
		ActorIDs:    req.ActorIDs,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("movie created",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.Int64("movie_id", movie.ID))
	_ = utils.WriteSuccess(w, map[string]interface{}{"movie": movie.Format()})
}

// HandleUpdateMovie handles PATCH /movies/{id}
func (h *MovieHandler) HandleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w)
		return
	}

	var req UpdateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeDecodeError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	movie, err := h.movies.UpdateMovie(r.Context(), id, services.MovieInput{
		Title:       req.Title,
		ReleaseDate: req.ReleaseDate,
		ActorIDs:    req.ActorIDs,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteSuccess(w, map[string]interface{}{"movie": movie.Format()})
}

// HandleDeleteMovie handles DELETE /movies/{id}
func (h *MovieHandler) HandleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w)
		return
	}

	if err := h.movies.DeleteMovie(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteSuccess(w, map[string]interface{}{"delete": id})
}
