package services

import (
	"context"
	"sync"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

type mockRoster struct {
	resources []model.Resource
	err       error
}

func (m *mockRoster) ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Resource
	for _, r := range m.resources {
		if role == "" || r.Role == role {
			out = append(out, r)
		}
	}
	return out, nil
}

type evaluation struct {
	ids     []string
	date    string
	exclude string
}

// mockChecker publishes synchronously to its single subscriber
type mockChecker struct {
	busy    map[string]map[string]model.ConflictResult // date -> resource -> result
	publish func(resources []model.Resource, date string) model.StatusMap

	mu          sync.Mutex
	evaluations []evaluation
	ch          chan model.StatusMap
}

func (m *mockChecker) Subscribe() (<-chan model.StatusMap, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ch = make(chan model.StatusMap, 4)
	return m.ch, func() {}
}

func (m *mockChecker) Evaluate(resources []model.Resource, date string, exclude string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}
	m.evaluations = append(m.evaluations, evaluation{ids: ids, date: date, exclude: exclude})

	if m.publish != nil {
		if status := m.publish(resources, date); status != nil {
			m.ch <- status
		}
		return
	}

	status := model.StatusMap{}
	for _, r := range resources {
		if result, ok := m.busy[date][r.ID]; ok {
			status[r.ID] = result
			continue
		}
		status[r.ID] = model.Available()
	}
	m.ch <- status
}

type mockScanner struct {
	conflicts []model.Conflict
	personnel []model.PersonStatus
	dates     []string
	roles     []model.Role
}

func (m *mockScanner) Scan(ctx context.Context, date string) []model.Conflict {
	m.dates = append(m.dates, date)
	return m.conflicts
}

func (m *mockScanner) ListAvailablePersonnel(ctx context.Context, date string, role model.Role) []model.PersonStatus {
	m.dates = append(m.dates, date)
	m.roles = append(m.roles, role)
	return m.personnel
}

func testRoster() *mockRoster {
	return &mockRoster{resources: []model.Resource{
		{ID: "crew-north", Name: "Norte", Kind: model.ResourceKindCrew},
		{ID: "crew-south", Name: "Sur", Kind: model.ResourceKindCrew},
		{ID: "crew-east", Name: "Este", Kind: model.ResourceKindCrew},
		{ID: "ana", Name: "Ana", Kind: model.ResourceKindPerson, Role: model.RoleDiver},
	}}
}
