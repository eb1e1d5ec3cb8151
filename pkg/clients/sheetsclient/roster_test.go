package sheetsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robvandam12/breus-sub011/internal/config"
	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

type mockValueGetter struct {
	values [][]interface{}
	err    error
	ranges []string
}

func (m *mockValueGetter) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	m.ranges = append(m.ranges, spreadsheetID+"!"+sheetRange)
	return m.values, m.err
}

func rosterSheet() [][]interface{} {
	return [][]interface{}{
		{"ID", "Name", "Kind", "Role", "Emergency standby", "Members"},
		{"crew-north", "Cuadrilla Norte", "crew", "", "", "ana, bruno"},
		{"ana", "Ana", "person", "diver", "", ""},
		{"bruno", "Bruno", "Person", "Supervisor", "no", ""},
		{"", "", "", "", "", ""},
		{"carla", "Carla", "person", "diver", "yes"},
	}
}

func TestParseRoster(t *testing.T) {
	resources, err := parseRoster(rosterSheet())
	require.NoError(t, err)

	assert.Equal(t, []model.Resource{
		{ID: "crew-north", Name: "Cuadrilla Norte", Kind: model.ResourceKindCrew, MemberIDs: []string{"ana", "bruno"}},
		{ID: "ana", Name: "Ana", Kind: model.ResourceKindPerson, Role: model.RoleDiver},
		{ID: "bruno", Name: "Bruno", Kind: model.ResourceKindPerson, Role: model.RoleSupervisor},
		{ID: "carla", Name: "Carla", Kind: model.ResourceKindPerson, Role: model.RoleDiver, IsEmergencyStandby: true},
	}, resources)
}

func TestParseRoster_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]interface{}
	}{
		{"no header", [][]interface{}{}},
		{"missing kind column", [][]interface{}{{"ID", "Name"}, {"ana", "Ana"}}},
		{"invalid kind", [][]interface{}{{"ID", "Name", "Kind"}, {"ana", "Ana", "boat"}}},
		{"invalid role", [][]interface{}{{"ID", "Name", "Kind", "Role"}, {"ana", "Ana", "person", "cook"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRoster(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestRosterSource_ListRoster(t *testing.T) {
	getter := &mockValueGetter{values: rosterSheet()}
	source := NewRosterSource(getter, &config.RosterConfig{SheetID: "sheet-1", Tab: "Roster"})

	divers, err := source.ListRoster(context.Background(), model.RoleDiver)
	require.NoError(t, err)
	require.Len(t, divers, 2)
	assert.Equal(t, "ana", divers[0].ID)
	assert.Equal(t, "carla", divers[1].ID)

	all, err := source.ListRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	assert.Equal(t, []string{"sheet-1!Roster", "sheet-1!Roster"}, getter.ranges)
}

func TestRosterSource_ListRosterErrors(t *testing.T) {
	cfg := &config.RosterConfig{SheetID: "sheet-1", Tab: "Roster"}

	_, err := NewRosterSource(&mockValueGetter{err: errors.New("403")}, cfg).ListRoster(context.Background(), "")
	assert.Error(t, err)

	_, err = NewRosterSource(&mockValueGetter{}, cfg).ListRoster(context.Background(), "")
	assert.Error(t, err)
}
