package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// maxSweepDates bounds how many occurrences a sweep will check
const maxSweepDates = 366

// CrewChecker is the part of availability.Checker the crew services use
type CrewChecker interface {
	Evaluate(resources []model.Resource, date string, excludeAssignmentID string)
	Subscribe() (<-chan model.StatusMap, func())
}

// CrewAvailability is the published status of a set of crews on one date
type CrewAvailability struct {
	Date      string
	Resources []model.Resource
	Status    model.StatusMap
}

// Unavailable returns the resources that have a conflict, in request order
func (c *CrewAvailability) Unavailable() []model.Resource {
	var out []model.Resource
	for _, r := range c.Resources {
		if result, ok := c.Status[r.ID]; ok && !result.IsAvailable {
			out = append(out, r)
		}
	}
	return out
}

// CheckCrewAvailability evaluates crewIDs on date through checker and waits
// for the status map covering every requested crew.
func CheckCrewAvailability(
	ctx context.Context,
	roster RosterSource,
	checker CrewChecker,
	logger *zap.Logger,
	date string,
	crewIDs []string,
	excludeAssignmentID string,
) (*CrewAvailability, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}
	if len(crewIDs) == 0 {
		return nil, fmt.Errorf("at least one crew id is required")
	}

	resources, err := ResolveResources(ctx, roster, crewIDs)
	if err != nil {
		return nil, err
	}

	logger.Debug("Checking crew availability",
		zap.String("date", date),
		zap.Int("crews", len(resources)),
		zap.String("exclude_assignment_id", excludeAssignmentID))

	status, err := evaluateAndWait(ctx, checker, resources, date, excludeAssignmentID)
	if err != nil {
		return nil, err
	}

	result := &CrewAvailability{Date: date, Resources: resources, Status: status}
	logger.Info("Crew availability checked",
		zap.String("date", date),
		zap.Int("crews", len(resources)),
		zap.Int("unavailable", len(result.Unavailable())))

	return result, nil
}

// SweepResult holds one CrewAvailability per occurrence of the sweep rule
type SweepResult struct {
	Rule  string
	Dates []CrewAvailability
}

// SweepCrewAvailability checks crewIDs on every date produced by rule
// between from and to (inclusive). Dates are checked one after another so
// the checker's batch bound still holds.
func SweepCrewAvailability(
	ctx context.Context,
	roster RosterSource,
	checker CrewChecker,
	logger *zap.Logger,
	rule string,
	from string,
	to string,
	crewIDs []string,
) (*SweepResult, error) {
	dates, err := SweepDates(rule, from, to)
	if err != nil {
		return nil, err
	}
	if len(crewIDs) == 0 {
		return nil, fmt.Errorf("at least one crew id is required")
	}

	resources, err := ResolveResources(ctx, roster, crewIDs)
	if err != nil {
		return nil, err
	}

	logger.Debug("Sweeping crew availability",
		zap.String("rule", rule),
		zap.Int("dates", len(dates)),
		zap.Int("crews", len(resources)))

	result := &SweepResult{Rule: rule, Dates: make([]CrewAvailability, 0, len(dates))}
	for _, date := range dates {
		status, err := evaluateAndWait(ctx, checker, resources, date, "")
		if err != nil {
			return nil, err
		}
		result.Dates = append(result.Dates, CrewAvailability{Date: date, Resources: resources, Status: status})
	}

	return result, nil
}

// SweepDates expands rule into ISO dates between from and to, inclusive
func SweepDates(rule, from, to string) ([]string, error) {
	start, err := model.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep start: %w", err)
	}
	end, err := model.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("sweep end %s is before start %s", to, from)
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep rule: %w", err)
	}
	r.DTStart(start)

	occurrences := r.Between(start, end.Add(24*time.Hour-time.Nanosecond), true)
	if len(occurrences) > maxSweepDates {
		return nil, fmt.Errorf("sweep produces %d dates, more than the limit of %d", len(occurrences), maxSweepDates)
	}

	dates := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		date := model.FormatDate(occurrence)
		if n := len(dates); n > 0 && dates[n-1] == date {
			continue
		}
		dates = append(dates, date)
	}
	return dates, nil
}

// evaluateAndWait starts an evaluation and returns the first published map
// that covers every requested resource
func evaluateAndWait(ctx context.Context, checker CrewChecker, resources []model.Resource, date, excludeAssignmentID string) (model.StatusMap, error) {
	updates, unsubscribe := checker.Subscribe()
	defer unsubscribe()

	checker.Evaluate(resources, date, excludeAssignmentID)

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to wait for availability on %s: %w", date, ctx.Err())
		case status, ok := <-updates:
			if !ok {
				return nil, fmt.Errorf("availability checker closed while checking %s", date)
			}
			if covers(status, resources) {
				return status, nil
			}
			// An empty map means the run failed; every check is best-effort
			if len(status) == 0 {
				return status, nil
			}
		}
	}
}

func covers(status model.StatusMap, resources []model.Resource) bool {
	for _, r := range resources {
		if _, ok := status[r.ID]; !ok {
			return false
		}
	}
	return true
}
