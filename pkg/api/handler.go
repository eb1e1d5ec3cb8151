package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// Evaluator is the availability checker as seen by the HTTP layer
type Evaluator interface {
	Evaluate(resources []model.Resource, date string, excludeAssignmentID string)
	Status() model.StatusMap
	Checking() bool
	Generation() uint64
}

// Scanner is the personnel scanner as seen by the HTTP layer
type Scanner interface {
	Scan(ctx context.Context, date string) []model.Conflict
	Conflicts() []model.Conflict
	CheckUserConflict(userID string) *model.Conflict
	ListAvailablePersonnel(ctx context.Context, date string, role model.Role) []model.PersonStatus
}

// RosterSource resolves resource ids for evaluation requests
type RosterSource interface {
	ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	checker Evaluator
	scanner Scanner
	roster  RosterSource
	logger  *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(checker Evaluator, scanner Scanner, roster RosterSource, logger *zap.Logger) *Handler {
	return &Handler{
		checker: checker,
		scanner: scanner,
		roster:  roster,
		logger:  logger,
	}
}
