package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// ValidateResourceAvailability finds the first active, non-standby
// assignment on the query date that commits the resource, either directly
// or through a crew team list. The excluded assignment is ignored.
func (db *DB) ValidateResourceAvailability(ctx context.Context, query model.ConflictQuery) (model.ConflictResult, error) {
	tx := db.gorm.WithContext(ctx).
		Where("assignment_date = ? AND state = ? AND is_emergency_standby = ?",
			query.Date, string(model.AssignmentActive), false)
	if query.ExcludeAssignmentID != "" {
		tx = tx.Where("id <> ?", query.ExcludeAssignmentID)
	}

	var records []AssignmentRecord
	if err := tx.Order("created_at, id").Find(&records).Error; err != nil {
		return model.ConflictResult{}, fmt.Errorf("failed to query assignments for %s: %w", query.ResourceID, err)
	}

	// Team lists are JSON, so membership is matched here rather than in SQL
	for _, r := range records {
		a := r.toModel()
		if a.BlocksResource(query.ResourceID) {
			return model.Conflicting(a.ID, a.ImmersionCode), nil
		}
	}

	return model.Available(), nil
}

// ListAssignmentsForDate returns the active assignments on date in creation order
func (db *DB) ListAssignmentsForDate(ctx context.Context, date string) ([]model.Assignment, error) {
	var records []AssignmentRecord
	err := db.gorm.WithContext(ctx).
		Where("assignment_date = ? AND state = ?", date, string(model.AssignmentActive)).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for %s: %w", date, err)
	}

	assignments := make([]model.Assignment, 0, len(records))
	for _, r := range records {
		assignments = append(assignments, r.toModel())
	}
	return assignments, nil
}

// InsertAssignments inserts multiple assignment records in one transaction
func (db *DB) InsertAssignments(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			record := assignmentFromModel(a)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to insert assignment %s: %w", a.ID, err)
			}
		}
		return nil
	})
}
