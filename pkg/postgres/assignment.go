package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// ValidateResourceAvailability returns the first active, non-standby
// assignment on the query date that commits the resource directly or
// through a non-standby team member row.
func (d *DB) ValidateResourceAvailability(ctx context.Context, query model.ConflictQuery) (model.ConflictResult, error) {
	var id, code string
	err := d.pool.QueryRow(ctx, `
		SELECT a.id, a.immersion_code
		FROM assignment a
		WHERE a.assignment_date = $1::date
		  AND a.state = 'active'
		  AND NOT a.is_emergency_standby
		  AND ($3::text = '' OR a.id <> $3::text)
		  AND (
			a.resource_id = $2
			OR EXISTS (
				SELECT 1 FROM assignment_member m
				WHERE m.assignment_id = a.id
				  AND m.user_id = $2
				  AND NOT m.is_emergency_standby
			)
		  )
		ORDER BY a.created_at, a.id
		LIMIT 1
	`, query.Date, query.ResourceID, query.ExcludeAssignmentID).Scan(&id, &code)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Available(), nil
	}
	if err != nil {
		return model.ConflictResult{}, fmt.Errorf("failed to query conflicts for %s: %w", query.ResourceID, err)
	}

	return model.Conflicting(id, code), nil
}

// ListAssignmentsForDate returns the active assignments on date, with their
// team lists, in creation order
func (d *DB) ListAssignmentsForDate(ctx context.Context, date string) ([]model.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.resource_id, a.immersion_id, a.immersion_code, a.assignment_date,
		       a.start_time, a.end_time, a.state, a.is_emergency_standby,
		       m.user_id, m.role, m.is_emergency_standby
		FROM assignment a
		LEFT JOIN assignment_member m ON m.assignment_id = a.id
		WHERE a.assignment_date = $1::date AND a.state = 'active'
		ORDER BY a.created_at, a.id, m.position
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments for %s: %w", date, err)
	}
	defer rows.Close()

	assignments := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		var assignmentDate time.Time
		var state string
		var userID, role *string
		var memberStandby *bool
		if err := rows.Scan(&a.ID, &a.ResourceID, &a.ImmersionID, &a.ImmersionCode, &assignmentDate,
			&a.StartTime, &a.EndTime, &state, &a.IsEmergencyStandby,
			&userID, &role, &memberStandby); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Date = assignmentDate.Format(model.DateLayout)
		a.State = model.AssignmentState(state)

		// Rows for one assignment are adjacent
		if n := len(assignments); n == 0 || assignments[n-1].ID != a.ID {
			assignments = append(assignments, a)
		}
		if userID != nil {
			last := &assignments[len(assignments)-1]
			member := model.TeamMember{UserID: *userID}
			if role != nil {
				member.Role = model.Role(*role)
			}
			if memberStandby != nil {
				member.IsEmergencyStandby = *memberStandby
			}
			last.Members = append(last.Members, member)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// InsertAssignments inserts assignments and their team members in a transaction
func (d *DB) InsertAssignments(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range assignments {
		state := a.State
		if state == "" {
			state = model.AssignmentActive
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, resource_id, immersion_id, immersion_code, assignment_date,
			                        start_time, end_time, state, is_emergency_standby)
			VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9)
		`, a.ID, a.ResourceID, a.ImmersionID, a.ImmersionCode, a.Date,
			a.StartTime, a.EndTime, string(state), a.IsEmergencyStandby)
		if err != nil {
			return fmt.Errorf("failed to insert assignment %s: %w", a.ID, err)
		}

		for i, m := range a.Members {
			_, err := tx.Exec(ctx, `
				INSERT INTO assignment_member (assignment_id, user_id, role, is_emergency_standby, position)
				VALUES ($1, $2, $3, $4, $5)
			`, a.ID, m.UserID, string(m.Role), m.IsEmergencyStandby, i)
			if err != nil {
				return fmt.Errorf("failed to insert member %s of assignment %s: %w", m.UserID, a.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
