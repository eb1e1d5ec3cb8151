package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// newTestDB connects to BREUS_TEST_POSTGRES_DSN, skipping when it is unset
func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("BREUS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BREUS_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.Migrate(ctx))
	// Migrating twice is a no-op
	require.NoError(t, database.Migrate(ctx))
	return database
}

func TestValidateResourceAvailability_Postgres(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	// Unique ids keep reruns against the same database independent
	suffix := uuid.NewString()[:8]
	crew := "crew-" + suffix
	diver := "ana-" + suffix
	standby := "carla-" + suffix
	first := "asg-1-" + suffix
	second := "asg-2-" + suffix

	require.NoError(t, database.InsertAssignments(ctx, []model.Assignment{{
		ID: first, ResourceID: crew, ImmersionCode: "IMM-001", Date: "2031-06-10",
		Members: []model.TeamMember{
			{UserID: diver, Role: model.RoleDiver},
			{UserID: standby, Role: model.RoleDiver, IsEmergencyStandby: true},
		},
	}}))
	require.NoError(t, database.InsertAssignments(ctx, []model.Assignment{{
		ID: second, ResourceID: crew, ImmersionCode: "IMM-002", Date: "2031-06-10",
	}}))

	tests := []struct {
		name  string
		query model.ConflictQuery
		want  model.ConflictResult
	}{
		{"crew on its date", model.ConflictQuery{ResourceID: crew, Date: "2031-06-10"}, model.Conflicting(first, "IMM-001")},
		{"excluding the first", model.ConflictQuery{ResourceID: crew, Date: "2031-06-10", ExcludeAssignmentID: first}, model.Conflicting(second, "IMM-002")},
		{"member", model.ConflictQuery{ResourceID: diver, Date: "2031-06-10"}, model.Conflicting(first, "IMM-001")},
		{"standby member", model.ConflictQuery{ResourceID: standby, Date: "2031-06-10"}, model.Available()},
		{"other date", model.ConflictQuery{ResourceID: crew, Date: "2031-06-11"}, model.Available()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := database.ValidateResourceAvailability(ctx, tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}

	assignments, err := database.ListAssignmentsForDate(ctx, "2031-06-10")
	require.NoError(t, err)
	var found int
	for _, a := range assignments {
		if a.ID == first {
			found++
			assert.Equal(t, "2031-06-10", a.Date)
			assert.Len(t, a.Members, 2)
		}
	}
	assert.Equal(t, 1, found)
}
