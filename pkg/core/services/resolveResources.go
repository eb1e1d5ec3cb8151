package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// RosterSource lists crews and personnel. An empty role lists everyone.
type RosterSource interface {
	ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error)
}

// UnknownResourcesError lists requested IDs missing from the roster
type UnknownResourcesError struct {
	IDs []string
}

func (e *UnknownResourcesError) Error() string {
	return fmt.Sprintf("unknown resources: %s", strings.Join(e.IDs, ", "))
}

// ResolveResources looks up ids in the roster, preserving request order.
// Duplicate ids are resolved once.
func ResolveResources(ctx context.Context, roster RosterSource, ids []string) ([]model.Resource, error) {
	all, err := roster.ListRoster(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	byID := make(map[string]model.Resource, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}

	seen := make(map[string]bool, len(ids))
	resources := make([]model.Resource, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		r, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		resources = append(resources, r)
	}

	if len(unknown) > 0 {
		return nil, &UnknownResourcesError{IDs: unknown}
	}

	return resources, nil
}
