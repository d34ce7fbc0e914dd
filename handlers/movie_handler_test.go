package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"go.uber.org/zap"
)

func newMovieRouter(svc MovieService) http.Handler {
	h := NewMovieHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/movies", h.HandleListMovies)
	r.Post("/movies", h.HandleCreateMovie)
	r.Patch("/movies/{id:[0-9]+}", h.HandleUpdateMovie)
	r.Delete("/movies/{id:[0-9]+}", h.HandleDeleteMovie)
	return r
}

var matrix = &models.Movie{
	ID:          1,
	Title:       "The Matrix",
	ReleaseDate: time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC),
	Actors:      []models.ActorRef{{ID: 1, Name: "Keanu Reeves"}},
}

func TestHandleListMovies(t *testing.T) {
	svc := new(MockMovieService)
	svc.On("ListMovies", mock.Anything).Return([]*models.Movie{matrix}, nil)

	w := serve(t, newMovieRouter(svc), http.MethodGet, "/movies", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"movies":[
		{"id":1,"title":"The Matrix","release_date":"1999-03-31","actors":[{"id":1,"name":"Keanu Reeves"}]}
	]}`, w.Body.String())
}

func TestHandleCreateMovie(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(*MockMovieService)
		expectedStatus int
	}{
		{
			name: "success with cast",
			body: `{"title":"The Matrix","release_date":"1999-03-31","actor_ids":[1]}`,
			setup: func(svc *MockMovieService) {
				svc.On("CreateMovie", mock.Anything, mock.MatchedBy(func(in services.MovieInput) bool {
					return *in.Title == "The Matrix" && *in.ReleaseDate == "1999-03-31" &&
						in.ActorIDs != nil && len(*in.ActorIDs) == 1
				})).Return(matrix, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "success without cast",
			body: `{"title":"The Matrix","release_date":"1999-03-31"}`,
			setup: func(svc *MockMovieService) {
				svc.On("CreateMovie", mock.Anything, mock.MatchedBy(func(in services.MovieInput) bool {
					return in.ActorIDs == nil
				})).Return(matrix, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing release date",
			body:           `{"title":"The Matrix"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "release date wrong type",
			body:           `{"title":"The Matrix","release_date":19990331}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unparseable release date",
			body: `{"title":"The Matrix","release_date":"31/03/1999"}`,
			setup: func(svc *MockMovieService) {
				svc.On("CreateMovie", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidReleaseDate)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown actor",
			body: `{"title":"The Matrix","release_date":"1999-03-31","actor_ids":[404]}`,
			setup: func(svc *MockMovieService) {
				svc.On("CreateMovie", mock.Anything, mock.Anything).Return(nil, services.ErrUnknownActor)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "trailing data",
			body:           `{"title":"The Matrix","release_date":"1999-03-31"} {}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockMovieService)
			if tt.setup != nil {
				tt.setup(svc)
			}

			w := serve(t, newMovieRouter(svc), http.MethodPost, "/movies", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleUpdateMovie(t *testing.T) {
	t.Run("replaces cast", func(t *testing.T) {
		svc := new(MockMovieService)
		svc.On("UpdateMovie", mock.Anything, int64(1), mock.MatchedBy(func(in services.MovieInput) bool {
			return in.Title == nil && in.ActorIDs != nil && len(*in.ActorIDs) == 0
		})).Return(&models.Movie{ID: 1, Title: "The Matrix", ReleaseDate: matrix.ReleaseDate}, nil)

		w := serve(t, newMovieRouter(svc), http.MethodPatch, "/movies/1", `{"actor_ids":[]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"movie":{"id":1,"title":"The Matrix","release_date":"1999-03-31","actors":[]}}`, w.Body.String())
	})

	t.Run("unknown movie", func(t *testing.T) {
		svc := new(MockMovieService)
		svc.On("UpdateMovie", mock.Anything, int64(7), mock.Anything).Return(nil, services.ErrMovieNotFound)

		w := serve(t, newMovieRouter(svc), http.MethodPatch, "/movies/7", `{"title":"Updated Title"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("title too long", func(t *testing.T) {
		svc := new(MockMovieService)
		long := make([]byte, 121)
		for i := range long {
			long[i] = 'a'
		}

		w := serve(t, newMovieRouter(svc), http.MethodPatch, "/movies/1", `{"title":"`+string(long)+`"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleDeleteMovie(t *testing.T) {
	svc := new(MockMovieService)
	svc.On("DeleteMovie", mock.Anything, int64(1)).Return(nil)

	w := serve(t, newMovieRouter(svc), http.MethodDelete, "/movies/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"delete":1}`, w.Body.String())
}
