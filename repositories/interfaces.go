package repositories

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
)

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrUnknownReference is returned when an association names a row that does not exist
	ErrUnknownReference = errors.New("referenced record does not exist")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Repositories called with the ctx passed to fn run inside it.
	// Commits if fn succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// MovieRepository handles movie data operations
type MovieRepository interface {
	// Create inserts a movie and sets its ID
	Create(ctx context.Context, movie *models.Movie) error

	// GetByID retrieves a movie with its cast
	GetByID(ctx context.Context, id int64) (*models.Movie, error)

	// List retrieves all movies with their casts, ordered by ID
	List(ctx context.Context) ([]*models.Movie, error)

	// Update writes title and release date
	Update(ctx context.Context, movie *models.Movie) error

	// Delete deletes a movie and its cast associations
	Delete(ctx context.Context, id int64) error

	// SetActors replaces the movie's cast
	SetActors(ctx context.Context, movieID int64, actorIDs []int64) error
}

// ActorRepository handles actor data operations
type ActorRepository interface {
	// Create inserts an actor and sets its ID
	Create(ctx context.Context, actor *models.Actor) error

	// GetByID retrieves an actor with their movies
	GetByID(ctx context.Context, id int64) (*models.Actor, error)

	// List retrieves all actors with their movies, ordered by ID
	List(ctx context.Context) ([]*models.Actor, error)

	// Update writes the actor's scalar columns
	Update(ctx context.Context, actor *models.Actor) error

	// Delete deletes an actor and their cast associations
	Delete(ctx context.Context, id int64) error
}

// Repositories is a container for all repositories
type Repositories struct {
	Movies MovieRepository
	Actors ActorRepository
}
