package services

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// ActorInput carries actor fields from a request. A nil field was not supplied.
type ActorInput struct {
	Name   *string
	Age    *int
	Gender *string
}

func (in ActorInput) empty() bool {
	return in.Name == nil && in.Age == nil && in.Gender == nil
}

// ActorService implements actor use cases
type ActorService struct {
	actors repositories.ActorRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewActorService creates a new ActorService
func NewActorService(actors repositories.ActorRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *ActorService {
	return &ActorService{
		actors: actors,
		txMgr:  txMgr,
		logger: logger,
	}
}

// ListActors returns every actor ordered by ID
func (s *ActorService) ListActors(ctx context.Context) ([]*models.Actor, error) {
	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list actors", err)
	}
	return actors, nil
}

// CreateActor creates an actor. Every field is required.
func (s *ActorService) CreateActor(ctx context.Context, in ActorInput) (*models.Actor, error) {
	if in.Name == nil || in.Age == nil || in.Gender == nil {
		return nil, ErrInvalidInput
	}

	actor := models.NewActor(*in.Name, *in.Age, *in.Gender)
	if err := s.actors.Create(ctx, actor); err != nil {
		return nil, WrapInternal("failed to create actor", err)
	}

	s.logger.Info("actor created", zap.Int64("actor_id", actor.ID))
	return actor, nil
}

// UpdateActor applies the supplied fields to an existing actor
func (s *ActorService) UpdateActor(ctx context.Context, id int64, in ActorInput) (*models.Actor, error) {
	return WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Actor, error) {
		actor, err := s.actors.GetByID(ctx, id)
		if err != nil {
			return nil, actorRepoError(err, "failed to get actor")
		}
		if in.empty() {
			return nil, ErrEmptyPatch
		}

		if in.Name != nil {
			actor.Name = *in.Name
		}
		if in.Age != nil {
			actor.Age = *in.Age
		}
		if in.Gender != nil {
			actor.Gender = *in.Gender
		}

		if err := s.actors.Update(ctx, actor); err != nil {
			return nil, actorRepoError(err, "failed to update actor")
		}

		s.logger.Info("actor updated", zap.Int64("actor_id", id))
		return actor, nil
	})
}

// DeleteActor deletes an actor and removes them from every cast
func (s *ActorService) DeleteActor(ctx context.Context, id int64) error {
	if err := s.actors.Delete(ctx, id); err != nil {
		return actorRepoError(err, "failed to delete actor")
	}
	s.logger.Info("actor deleted", zap.Int64("actor_id", id))
	return nil
}

func actorRepoError(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NewDomainError(ErrorTypeNotFound, ErrActorNotFound.Message, err)
	}
	return WrapInternal(message, err)
}
