package commands

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestAvailabilityBadge(t *testing.T) {
	tests := []struct {
		name     string
		result   model.ConflictResult
		known    bool
		expected string
	}{
		{"available", model.Available(), true, "FREE   "},
		{"conflicting", model.Conflicting("asg-1", "IMM-001"), true, "BUSY   "},
		{"not in status map", model.ConflictResult{}, false, "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, availabilityBadge(tt.result, tt.known))
		})
	}
}

func TestConflictDetail(t *testing.T) {
	assert.Empty(t, conflictDetail(model.Available()))
	assert.Equal(t, "IMM-004 (assignment asg-4)", conflictDetail(model.Conflicting("asg-4", "IMM-004")))
}

func TestSweepCell(t *testing.T) {
	status := model.StatusMap{
		"crew-north": model.Available(),
		"crew-south": model.Conflicting("asg-4", "IMM-004"),
	}

	assert.Equal(t, "✓   ", sweepCell(status, "crew-north", 4))
	assert.Equal(t, "IMM-004 ", sweepCell(status, "crew-south", 8))
	assert.Equal(t, "?   ", sweepCell(status, "crew-east", 4))
}

func TestNameColumnWidth(t *testing.T) {
	assert.Equal(t, 22, nameColumnWidth([]model.Resource{{Name: "Norte"}}))
	assert.Equal(t, 28, nameColumnWidth([]model.Resource{{Name: "Cuadrilla de buceo del sur"}, {Name: "Norte"}}))
}
