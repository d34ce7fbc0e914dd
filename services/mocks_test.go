package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
)

// fakeTxManager runs fn directly and records the outcome
type fakeTxManager struct {
	calls      int
	rolledBack int
}

func (m *fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return &fakeTx{ctx: ctx}, nil
}

func (m *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	m.calls++
	err := fn(ctx, &fakeTx{ctx: ctx})
	if err != nil {
		m.rolledBack++
	}
	return err
}

type fakeTx struct{ ctx context.Context }

func (t *fakeTx) Commit() error           { return nil }
func (t *fakeTx) Rollback() error         { return nil }
func (t *fakeTx) Context() context.Context { return t.ctx }

// MockMovieRepository is a mock implementation of MovieRepository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieRepository) SetActors(ctx context.Context, movieID int64, actorIDs []int64) error {
	args := m.Called(ctx, movieID, actorIDs)
	return args.Error(0)
}

// MockActorRepository is a mock implementation of ActorRepository
type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockActorRepository) List(ctx context.Context) ([]*models.Actor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Actor), args.Error(1)
}

func (m *MockActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockActorRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
