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

// CreateActorRequest represents a request to create an actor
type CreateActorRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Age    *int   `json:"age" validate:"required,gte=0"`
	Gender string `json:"gender" validate:"required,max=50"`
}

// UpdateActorRequest represents a partial update; absent fields are left unchanged
type UpdateActorRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Age    *int    `json:"age,omitempty" validate:"omitempty,gte=0"`
	Gender *string `json:"gender,omitempty" validate:"omitempty,max=50"`
}

// ActorService defines the actor operations the handler depends on
type ActorService interface {
	ListActors(ctx context.Context) ([]*models.Actor, error)
	CreateActor(ctx context.Context, in services.ActorInput) (*models.Actor, error)
	UpdateActor(ctx context.Context, id int64, in services.ActorInput) (*models.Actor, error)
	DeleteActor(ctx context.Context, id int64) error
}

// ActorHandler handles actor-related HTTP requests
type ActorHandler struct {
	actors ActorService
	logger *zap.Logger
}

// NewActorHandler creates a new ActorHandler
func NewActorHandler(actors ActorService, logger *zap.Logger) *ActorHandler {
	return &ActorHandler{
		actors: actors,
		logger: logger,
	}
}

// HandleListActors handles GET /actors
func (h *ActorHandler) HandleListActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.actors.ListActors(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	views := make([]models.ActorView, len(actors))
	for i, a := range actors {
		views[i] = a.Format()
	}
	_ = utils.WriteSuccess(w, map[string]interface{}{"actors": views})
}

// HandleCreateActor handles POST /actors
func (h *ActorHandler) HandleCreateActor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateActorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	actor, err := h.actors.CreateActor(ctx, services.ActorInput{
		Name:   &req.Name,
		Age:    req.Age,
		Gender: &req.Gender,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("actor created",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.Int64("actor_id", actor.ID))
	_ = utils.WriteSuccess(w, map[string]interface{}{"actor": actor.Format()})
}

// HandleUpdateActor handles PATCH /actors/{id}
func (h *ActorHandler) HandleUpdateActor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w)
		return
	}

	// an empty body is an empty patch, reported after the record lookup
	var req UpdateActorRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeDecodeError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	actor, err := h.actors.UpdateActor(r.Context(), id, services.ActorInput{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteSuccess(w, map[string]interface{}{"actor": actor.Format()})
}

// HandleDeleteActor handles DELETE /actors/{id}
func (h *ActorHandler) HandleDeleteActor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w)
		return
	}

	if err := h.actors.DeleteActor(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteSuccess(w, map[string]interface{}{"delete": id})
}
