package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// PersonnelScanner is the part of availability.PersonnelScanner the personnel services use
type PersonnelScanner interface {
	Scan(ctx context.Context, date string) []model.Conflict
	ListAvailablePersonnel(ctx context.Context, date string, role model.Role) []model.PersonStatus
}

// ScanPersonnelConflicts returns every committed person on date
func ScanPersonnelConflicts(ctx context.Context, scanner PersonnelScanner, logger *zap.Logger, date string) ([]model.Conflict, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}

	conflicts := scanner.Scan(ctx, date)
	logger.Info("Personnel conflicts scanned",
		zap.String("date", date),
		zap.Int("conflicts", len(conflicts)))

	return conflicts, nil
}

// ListAvailablePersonnel returns the roster for role annotated with availability on date.
// An empty role lists divers and supervisors together.
func ListAvailablePersonnel(ctx context.Context, scanner PersonnelScanner, logger *zap.Logger, date string, role model.Role) ([]model.PersonStatus, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}
	if role != "" && !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q: expected %s or %s", role, model.RoleDiver, model.RoleSupervisor)
	}

	personnel := scanner.ListAvailablePersonnel(ctx, date, role)

	available := 0
	for _, p := range personnel {
		if p.IsAvailable {
			available++
		}
	}
	logger.Info("Available personnel listed",
		zap.String("date", date),
		zap.String("role", string(role)),
		zap.Int("personnel", len(personnel)),
		zap.Int("available", available))

	return personnel, nil
}
