package availability

import (
	"context"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// AssignmentLister loads every assignment on a date with its team list
type AssignmentLister interface {
	ListAssignmentsForDate(ctx context.Context, date string) ([]model.Assignment, error)
}

// RosterSource lists the personnel and crew directory. An empty role lists everyone.
type RosterSource interface {
	ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error)
}

// PersonnelScanner derives per-person conflicts for a date from a single
// bulk assignment query.
type PersonnelScanner struct {
	assignments AssignmentLister
	roster      RosterSource
	metrics     *Metrics
	logger      *zap.Logger

	conflicts atomic.Pointer[[]model.Conflict]
}

// NewPersonnelScanner creates a scanner. metrics may be nil.
func NewPersonnelScanner(assignments AssignmentLister, roster RosterSource, metrics *Metrics, logger *zap.Logger) *PersonnelScanner {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	s := &PersonnelScanner{
		assignments: assignments,
		roster:      roster,
		metrics:     metrics,
		logger:      logger,
	}
	s.store(nil)
	return s
}

// Scan loads the assignments on date and replaces the current conflict set.
// A missing or malformed date, or a store failure, yields an empty set.
func (s *PersonnelScanner) Scan(ctx context.Context, date string) []model.Conflict {
	if date == "" {
		s.store(nil)
		return []model.Conflict{}
	}

	s.metrics.PersonnelScans.Inc()

	if _, err := model.ParseDate(date); err != nil {
		s.metrics.PersonnelScanFailures.Inc()
		s.logger.Warn("Ignoring personnel scan with invalid date", zap.Error(err))
		s.store(nil)
		return []model.Conflict{}
	}

	assignments, err := s.assignments.ListAssignmentsForDate(ctx, date)
	if err != nil {
		s.metrics.PersonnelScanFailures.Inc()
		s.logger.Warn("Failed to load assignments, reporting no personnel conflicts",
			zap.String("date", date),
			zap.Error(err))
		s.store(nil)
		return []model.Conflict{}
	}

	conflicts := DeriveConflicts(date, assignments)
	s.store(conflicts)

	s.logger.Debug("Scanned personnel conflicts",
		zap.String("date", date),
		zap.Int("assignments", len(assignments)),
		zap.Int("conflicts", len(conflicts)))

	return slices.Clone(conflicts)
}

// DeriveConflicts emits one conflict per committed person: each team member,
// or the assigned resource itself for a direct person booking.
// Cancelled and emergency-standby assignments, and standby members, never conflict.
func DeriveConflicts(date string, assignments []model.Assignment) []model.Conflict {
	conflicts := []model.Conflict{}
	for _, a := range assignments {
		if !a.Blocks() {
			continue
		}

		conflictDate := a.Date
		if conflictDate == "" {
			conflictDate = date
		}

		for _, userID := range a.CommittedPersonIDs() {
			conflicts = append(conflicts, model.Conflict{
				UserID:        userID,
				AssignmentID:  a.ID,
				ImmersionCode: a.ImmersionCode,
				Date:          conflictDate,
			})
		}
	}
	return conflicts
}

// CheckUserConflict returns the first conflict for userID in the current set
func (s *PersonnelScanner) CheckUserConflict(userID string) *model.Conflict {
	conflicts := *s.conflicts.Load()
	i := slices.IndexFunc(conflicts, func(c model.Conflict) bool {
		return c.UserID == userID
	})
	if i < 0 {
		return nil
	}
	conflict := conflicts[i]
	return &conflict
}

// Conflicts returns a copy of the current conflict set
func (s *PersonnelScanner) Conflicts() []model.Conflict {
	return slices.Clone(*s.conflicts.Load())
}

// ListAvailablePersonnel scans date and marks every person in the roster
// for role as available unless they hold a conflict.
func (s *PersonnelScanner) ListAvailablePersonnel(ctx context.Context, date string, role model.Role) []model.PersonStatus {
	conflicts := s.Scan(ctx, date)

	byUser := make(map[string]model.Conflict, len(conflicts))
	for _, c := range conflicts {
		if _, seen := byUser[c.UserID]; !seen {
			byUser[c.UserID] = c
		}
	}

	roster, err := s.roster.ListRoster(ctx, role)
	if err != nil {
		s.logger.Warn("Failed to load roster, returning no personnel",
			zap.String("role", string(role)),
			zap.Error(err))
		return []model.PersonStatus{}
	}

	personnel := make([]model.PersonStatus, 0, len(roster))
	for _, r := range roster {
		if !r.IsPerson() {
			continue
		}
		status := model.PersonStatus{Resource: r, IsAvailable: true}
		if c, ok := byUser[r.ID]; ok {
			status.IsAvailable = false
			status.Conflict = &c
		}
		personnel = append(personnel, status)
	}

	return personnel
}

func (s *PersonnelScanner) store(conflicts []model.Conflict) {
	if conflicts == nil {
		conflicts = []model.Conflict{}
	}
	s.conflicts.Store(&conflicts)
}
