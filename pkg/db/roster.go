package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// ListRoster returns crews and personnel ordered by name.
// A non-empty role restricts the result to personnel with that role.
func (db *DB) ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error) {
	tx := db.gorm.WithContext(ctx)
	if role != "" {
		tx = tx.Where("role = ?", string(role))
	}

	var records []ResourceRecord
	if err := tx.Order("name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}

	resources := make([]model.Resource, 0, len(records))
	for _, r := range records {
		resources = append(resources, r.toModel())
	}
	return resources, nil
}

// InsertResources inserts multiple resource records in one transaction
func (db *DB) InsertResources(ctx context.Context, resources []model.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	return db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range resources {
			record := resourceFromModel(r)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to insert resource %s: %w", r.ID, err)
			}
		}
		return nil
	})
}
