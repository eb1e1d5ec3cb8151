package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/robvandam12/breus-sub011/internal/config"
	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// Expected column names in the roster tab
const (
	fieldID      = "ID"
	fieldName    = "Name"
	fieldKind    = "Kind"
	fieldRole    = "Role"
	fieldStandby = "Emergency standby"
	fieldMembers = "Members"
)

var requiredRosterFields = []string{fieldID, fieldName, fieldKind}

// ValueGetter reads a range of cells
type ValueGetter interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// RosterSource reads crews and personnel from a roster tab
type RosterSource struct {
	values ValueGetter
	cfg    *config.RosterConfig
}

// NewRosterSource creates a roster source for the configured sheet and tab
func NewRosterSource(values ValueGetter, cfg *config.RosterConfig) *RosterSource {
	return &RosterSource{values: values, cfg: cfg}
}

// ListRoster reads the roster tab. A non-empty role restricts the result to
// personnel with that role.
func (s *RosterSource) ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error) {
	values, err := s.values.GetValues(ctx, s.cfg.SheetID, s.cfg.Tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("roster sheet is empty")
	}

	resources, err := parseRoster(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	if role == "" {
		return resources, nil
	}

	filtered := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if r.Role == role {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// parseRoster converts raw spreadsheet data into resources
func parseRoster(raw [][]interface{}) ([]model.Resource, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	headerRow := raw[0]
	for i, cell := range headerRow {
		if cellStr, ok := cell.(string); ok {
			fieldIndexes[strings.TrimSpace(cellStr)] = i
		}
	}
	for _, field := range requiredRosterFields {
		if _, ok := fieldIndexes[field]; !ok {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return ""
	}

	resources := make([]model.Resource, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField(fieldID, row)
		// Skip empty rows
		if id == "" {
			continue
		}

		kind := model.ResourceKind(strings.ToLower(getField(fieldKind, row)))
		if !kind.IsValid() {
			return nil, fmt.Errorf("invalid kind for resource %s in row %d", id, i+1)
		}

		resource := model.Resource{
			ID:   id,
			Name: getField(fieldName, row),
			Kind: kind,
		}

		switch kind {
		case model.ResourceKindPerson:
			if r := getField(fieldRole, row); r != "" {
				resource.Role = model.Role(strings.ToLower(r))
				if !resource.Role.IsValid() {
					return nil, fmt.Errorf("invalid role for resource %s in row %d", id, i+1)
				}
			}
			resource.IsEmergencyStandby = parseBool(getField(fieldStandby, row))
		case model.ResourceKindCrew:
			resource.MemberIDs = splitList(getField(fieldMembers, row))
		}

		resources = append(resources, resource)
	}

	return resources, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "x", "1":
		return true
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
