package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
)

// MockActorService is a mock implementation of ActorService
type MockActorService struct {
	mock.Mock
}

func (m *MockActorService) ListActors(ctx context.Context) ([]*models.Actor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Actor), args.Error(1)
}

func (m *MockActorService) CreateActor(ctx context.Context, in services.ActorInput) (*models.Actor, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorService) UpdateActor(ctx context.Context, id int64, in services.ActorInput) (*models.Actor, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorService) DeleteActor(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMovieService is a mock implementation of MovieService
type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) ListMovies(ctx context.Context) ([]*models.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockMovieService) CreateMovie(ctx context.Context, in services.MovieInput) (*models.Movie, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id int64, in services.MovieInput) (*models.Movie, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
