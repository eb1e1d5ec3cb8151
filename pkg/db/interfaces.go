package db

import (
	"context"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// AvailabilityStore answers single-resource, single-date conflict queries.
// The first blocking assignment by creation order is the conflict.
type AvailabilityStore interface {
	ValidateResourceAvailability(ctx context.Context, query model.ConflictQuery) (model.ConflictResult, error)
}

// AssignmentLister returns every active assignment on a date with its team list
type AssignmentLister interface {
	ListAssignmentsForDate(ctx context.Context, date string) ([]model.Assignment, error)
}

// RosterStore lists crews and personnel. An empty role lists everyone.
type RosterStore interface {
	ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error)
}

// SeedWriter loads resources and assignments into a store
type SeedWriter interface {
	InsertResources(ctx context.Context, resources []model.Resource) error
	InsertAssignments(ctx context.Context, assignments []model.Assignment) error
}

// Database defines the interface for all database operations.
// Both the SQLite-backed db.DB and postgres.DB implement this interface.
type Database interface {
	AvailabilityStore
	AssignmentLister
	RosterStore
	SeedWriter
	Migrate(ctx context.Context) error
	Close() error
}
