package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/store"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

func newScenarioService(t *testing.T) (*ScenarioService, *store.Store) {
	t.Helper()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	st := store.New(store.Dependencies{Clock: func() time.Time { return now }})
	return NewScenarioService(st), st
}

func TestRunUnknownScenario(t *testing.T) {
	svc, _ := newScenarioService(t)
	_, err := svc.Run(context.Background(), domain.Actor{Name: "Marta", Role: domain.RoleManager}, "no-such-thing")
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
}

func TestRunBlockingIssue(t *testing.T) {
	svc, st := newScenarioService(t)
	actor := domain.Actor{Name: "Marta", Role: domain.RoleManager}

	trace, err := svc.Run(context.Background(), actor, ScenarioBlockingIssue)
	require.NoError(t, err)
	require.Len(t, trace, 2)

	// The seed's top ticket gets escalated to the maximum non-age score.
	board := st.TicketBoard()
	require.NotEmpty(t, board)
	top := board[0]
	assert.Equal(t, domain.UrgencyHigh, top.Urgency)
	assert.Equal(t, domain.ImpactBlocking, top.Impact)
	assert.True(t, top.IsOccupied)
}

func TestRunPartWorkflow(t *testing.T) {
	svc, st := newScenarioService(t)
	actor := domain.Actor{Name: "Ana", Role: domain.RoleTechnician}

	trace, err := svc.Run(context.Background(), actor, ScenarioPartWorkflow)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(trace), 2)

	// One unit moved through reserve and issue: a RESERVE and an ISSUE
	// movement exist and reserved stock is back to zero.
	var reserves, issues int
	for _, m := range st.ListMovements(store.MovementFilter{}) {
		switch m.Type {
		case domain.MovementReserve:
			reserves++
		case domain.MovementIssue:
			issues++
		}
	}
	assert.Equal(t, 1, reserves)
	assert.Equal(t, 1, issues)
	for _, part := range st.ListParts() {
		assert.Zero(t, part.StockReserved, part.ID)
	}
}

func TestRunReplenishment(t *testing.T) {
	svc, st := newScenarioService(t)
	actor := domain.Actor{Name: "Marta", Role: domain.RoleManager}

	trace, err := svc.Run(context.Background(), actor, ScenarioReplenishment)
	require.NoError(t, err)
	require.Len(t, trace, 2)

	orders := st.ListPurchaseOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, domain.POStatusReceived, orders[0].Status)
}

func TestRunPartWorkflowRequiresMaintenanceRole(t *testing.T) {
	svc, _ := newScenarioService(t)
	actor := domain.Actor{Name: "Mr. Smith", Role: domain.RoleGuest}

	_, err := svc.Run(context.Background(), actor, ScenarioPartWorkflow)
	assert.True(t, util.IsCode(err, "PERMISSION_DENIED"))
}
