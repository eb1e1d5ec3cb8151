package db

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// Seed is a roster and assignment fixture loaded from YAML
type Seed struct {
	Resources   []model.Resource   `yaml:"resources"`
	Assignments []model.Assignment `yaml:"assignments"`
}

// LoadSeed reads and validates a seed file. Missing assignment IDs are
// generated and a missing state defaults to active.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}

	for i, r := range seed.Resources {
		if r.ID == "" {
			return nil, fmt.Errorf("resource %d has no id", i)
		}
		if !r.Kind.IsValid() {
			return nil, fmt.Errorf("resource %s has invalid kind %q", r.ID, r.Kind)
		}
		if r.IsPerson() && r.Role != "" && !r.Role.IsValid() {
			return nil, fmt.Errorf("resource %s has invalid role %q", r.ID, r.Role)
		}
	}

	for i := range seed.Assignments {
		a := &seed.Assignments[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.State == "" {
			a.State = model.AssignmentActive
		}
		if a.ResourceID == "" {
			return nil, fmt.Errorf("assignment %s has no resourceId", a.ID)
		}
		if a.ImmersionCode == "" {
			return nil, fmt.Errorf("assignment %s has no immersionCode", a.ID)
		}
		if _, err := model.ParseDate(a.Date); err != nil {
			return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
	}

	return &seed, nil
}

// Apply writes the seed's resources, then its assignments, in file order
func (s *Seed) Apply(ctx context.Context, store SeedWriter) error {
	if err := store.InsertResources(ctx, s.Resources); err != nil {
		return fmt.Errorf("failed to seed resources: %w", err)
	}
	if err := store.InsertAssignments(ctx, s.Assignments); err != nil {
		return fmt.Errorf("failed to seed assignments: %w", err)
	}
	return nil
}
