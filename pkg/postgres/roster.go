package postgres

import (
	"context"
	"fmt"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// ListRoster returns crews and personnel ordered by name.
// A non-empty role restricts the result to personnel with that role.
func (d *DB) ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, kind, COALESCE(role, ''), is_emergency_standby, member_ids
		FROM resource
		WHERE $1::text = '' OR role = $1::text
		ORDER BY name, id
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var r model.Resource
		var kind, role string
		if err := rows.Scan(&r.ID, &r.Name, &kind, &role, &r.IsEmergencyStandby, &r.MemberIDs); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		r.Kind = model.ResourceKind(kind)
		r.Role = model.Role(role)
		if len(r.MemberIDs) == 0 {
			r.MemberIDs = nil
		}
		resources = append(resources, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}

	return resources, nil
}

// InsertResources inserts multiple resource records in a transaction
func (d *DB) InsertResources(ctx context.Context, resources []model.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range resources {
		var role *string
		if r.Role != "" {
			s := string(r.Role)
			role = &s
		}
		memberIDs := r.MemberIDs
		if memberIDs == nil {
			memberIDs = []string{}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO resource (id, name, kind, role, is_emergency_standby, member_ids)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.ID, r.Name, string(r.Kind), role, r.IsEmergencyStandby, memberIDs)
		if err != nil {
			return fmt.Errorf("failed to insert resource %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
