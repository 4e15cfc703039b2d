package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

var (
	technician = domain.Actor{Name: "Ana", Role: domain.RoleTechnician}
	manager    = domain.Actor{Name: "Marta", Role: domain.RoleManager}
	guest      = domain.Actor{Name: "Mr. Smith", Role: domain.RoleGuest}
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return New(Dependencies{Clock: func() time.Time { return now }})
}

func mustPart(t *testing.T, s *Store, id string) *domain.InventoryPart {
	t.Helper()
	part, err := s.GetPart(id)
	require.NoError(t, err)
	return part
}

func TestCreateTicketScoresAndAudits(t *testing.T) {
	s := newTestStore(t)

	ticket, err := s.CreateTicket(context.Background(), guest, TicketCreateInput{
		RoomNumber:  "412",
		IsOccupied:  true,
		Asset:       "Heating",
		IssueType:   "No heat",
		Description: "Room is freezing.",
		Urgency:     domain.UrgencyHigh,
		Impact:      domain.ImpactBlocking,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.RoleGuest, ticket.CreatedBy)
	// high 50 + blocking 40 + occupied 30, no age yet
	assert.Equal(t, 120, ticket.PriorityScore)
	require.Len(t, ticket.History, 1)
	assert.Equal(t, "Ticket created", ticket.History[0].Action)
}

func TestUpdateTicketRecomputesPriorityAndAppendsAudit(t *testing.T) {
	s := newTestStore(t)

	urgency := domain.UrgencyHigh
	impact := domain.ImpactBlocking
	occupied := true
	updated, err := s.UpdateTicket(context.Background(), technician, "T-1002", TicketPatch{
		Urgency:    &urgency,
		Impact:     &impact,
		IsOccupied: &occupied,
	}, "Escalated after inspection")
	require.NoError(t, err)

	// 50 + 40 + 30 + age: seed T-1002 is three days old -> 15
	assert.Equal(t, 135, updated.PriorityScore)
	last := updated.History[len(updated.History)-1]
	assert.Equal(t, "Escalated after inspection", last.Action)
	assert.Equal(t, technician.Name, last.Actor)
}

func TestUpdateTicketNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateTicket(context.Background(), technician, "T-NOPE", TicketPatch{}, "")
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestVerifiedIsTerminal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	resolved := domain.TicketStatusResolved
	_, err := s.UpdateTicket(ctx, technician, "T-1003", TicketPatch{Status: &resolved}, "Work done")
	require.NoError(t, err)

	verified := domain.TicketStatusVerified
	ticket, err := s.UpdateTicket(ctx, manager, "T-1003", TicketPatch{Status: &verified}, "Verified and closed")
	require.NoError(t, err)
	assert.Zero(t, ticket.PriorityScore)
	require.NotNil(t, ticket.VerifiedBy)
	assert.Equal(t, manager.Name, *ticket.VerifiedBy)
	assert.NotNil(t, ticket.ClosedAt)

	reopen := domain.TicketStatusInProgress
	_, err = s.UpdateTicket(ctx, manager, "T-1003", TicketPatch{Status: &reopen}, "")
	assert.True(t, util.IsCode(err, "INVALID_STATE"))

	// Notes may still append after verification.
	note := "Guest confirmed the fix."
	ticket, err = s.UpdateTicket(ctx, manager, "T-1003", TicketPatch{AddNote: &note}, "Note added")
	require.NoError(t, err)
	assert.Contains(t, ticket.Notes, note)
	assert.Equal(t, domain.TicketStatusVerified, ticket.Status)
}

func TestReserveHappyPath(t *testing.T) {
	s := newTestStore(t)

	ticket, err := s.ReservePart(context.Background(), technician, "T-1001", "P-002", 2)
	require.NoError(t, err)

	assert.True(t, ticket.NeedsPart)
	assert.Equal(t, domain.TicketStatusWaitingPart, ticket.Status)
	require.NotNil(t, ticket.PartID)
	assert.Equal(t, "P-002", *ticket.PartID)
	assert.Equal(t, 2, ticket.PartQty)

	part := mustPart(t, s, "P-002")
	assert.Equal(t, 2, part.StockReserved)
	assert.Equal(t, 4, part.StockOnHand)
	assert.Equal(t, 2, part.Available())

	movements := s.ListMovements(MovementFilter{PartID: strPtrOf("P-002")})
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementReserve, movements[0].Type)
	assert.Equal(t, 2, movements[0].Qty)
}

func TestReserveNormalizesQtyToOne(t *testing.T) {
	s := newTestStore(t)
	ticket, err := s.ReservePart(context.Background(), technician, "T-1001", "P-003", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, ticket.PartQty)
}

func TestReserveInsufficientStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// P-006 has exactly one unit on hand.
	_, err := s.ReservePart(ctx, technician, "T-1001", "P-006", 1)
	require.NoError(t, err)
	available, err := s.AvailableStock("P-006")
	require.NoError(t, err)
	assert.Zero(t, available)

	_, err = s.ReservePart(ctx, technician, "T-1002", "P-006", 1)
	assert.True(t, util.IsCode(err, "INSUFFICIENT_STOCK"))

	part := mustPart(t, s, "P-006")
	assert.Equal(t, 1, part.StockOnHand)
	assert.Equal(t, 1, part.StockReserved)
}

func TestReserveUnknownIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReservePart(ctx, technician, "T-NOPE", "P-002", 1)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))

	_, err = s.ReservePart(ctx, technician, "T-1001", "P-NOPE", 1)
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestReserveRequiresMaintenanceRole(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReservePart(context.Background(), guest, "T-1001", "P-002", 1)
	assert.True(t, util.IsCode(err, "PERMISSION_DENIED"))
}

func TestReleaseRestoresReservedExactly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := mustPart(t, s, "P-004").StockReserved
	_, err := s.ReservePart(ctx, technician, "T-1001", "P-004", 3)
	require.NoError(t, err)

	ticket, err := s.ReleaseReservation(ctx, technician, "T-1001", nil)
	require.NoError(t, err)

	part := mustPart(t, s, "P-004")
	assert.Equal(t, before, part.StockReserved)

	// Linkage survives for traceability.
	assert.False(t, ticket.NeedsPart)
	require.NotNil(t, ticket.PartID)
	assert.Equal(t, "P-004", *ticket.PartID)
	require.NotNil(t, ticket.PartName)
}

func TestReleaseWithoutReservation(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReleaseReservation(context.Background(), technician, "T-1001", nil)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))
}

func TestReserveThenIssueConsumesBothCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReservePart(ctx, technician, "T-1001", "P-002", 2)
	require.NoError(t, err)

	ticket, err := s.IssuePart(ctx, technician, "T-1001", nil)
	require.NoError(t, err)
	assert.False(t, ticket.NeedsPart)

	part := mustPart(t, s, "P-002")
	assert.Equal(t, 2, part.StockOnHand)
	assert.Equal(t, 0, part.StockReserved)

	// Redundant issues clamp at zero, never go negative.
	_, err = s.IssuePart(ctx, technician, "T-1001", nil)
	require.NoError(t, err)
	_, err = s.IssuePart(ctx, technician, "T-1001", nil)
	require.NoError(t, err)

	part = mustPart(t, s, "P-002")
	assert.GreaterOrEqual(t, part.StockOnHand, 0)
	assert.GreaterOrEqual(t, part.StockReserved, 0)
}

func TestIssueWithoutLinkage(t *testing.T) {
	s := newTestStore(t)
	_, err := s.IssuePart(context.Background(), technician, "T-1002", nil)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))
}

func TestReservationSupersession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReservePart(ctx, technician, "T-1001", "P-003", 4)
	require.NoError(t, err)
	_, err = s.ReservePart(ctx, technician, "T-1001", "P-002", 1)
	require.NoError(t, err)

	// The old hold is fully released before the new one applies.
	assert.Equal(t, 0, mustPart(t, s, "P-003").StockReserved)
	assert.Equal(t, 1, mustPart(t, s, "P-002").StockReserved)

	// Ledger shows RELEASE before the new RESERVE.
	movements := s.ListMovements(MovementFilter{TicketID: strPtrOf("T-1001")})
	require.Len(t, movements, 3)
	assert.Equal(t, domain.MovementReserve, movements[0].Type)
	assert.Equal(t, domain.MovementRelease, movements[1].Type)
	assert.Equal(t, "P-003", movements[1].PartID)
	assert.Equal(t, 4, movements[1].Qty)
	assert.Equal(t, domain.MovementReserve, movements[2].Type)
	assert.Equal(t, "P-002", movements[2].PartID)
}

func TestSupersessionSamePartNetsToNewQty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReservePart(ctx, technician, "T-1001", "P-003", 5)
	require.NoError(t, err)
	_, err = s.ReservePart(ctx, technician, "T-1001", "P-003", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, mustPart(t, s, "P-003").StockReserved)
}

func TestAdjustStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AdjustStock(ctx, manager, "P-003", 0, nil)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))

	part, err := s.AdjustStock(ctx, manager, "P-003", -5, nil)
	require.NoError(t, err)
	assert.Equal(t, 19, part.StockOnHand)

	// Movement qty is absolute; the signed delta lives in the note.
	movements := s.ListMovements(MovementFilter{PartID: strPtrOf("P-003")})
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementAdjust, movements[0].Type)
	assert.Equal(t, 5, movements[0].Qty)
	require.NotNil(t, movements[0].Note)
	assert.Contains(t, *movements[0].Note, "-5")

	// Large negative deltas clamp at zero.
	part, err = s.AdjustStock(ctx, manager, "P-003", -100, nil)
	require.NoError(t, err)
	assert.Zero(t, part.StockOnHand)

	_, err = s.AdjustStock(ctx, technician, "P-003", 1, nil)
	assert.True(t, util.IsCode(err, "PERMISSION_DENIED"))
}

func TestStocksNeverNegative(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReservePart(ctx, technician, "T-1001", "P-006", 1)
	require.NoError(t, err)
	_, err = s.IssuePart(ctx, technician, "T-1001", nil)
	require.NoError(t, err)
	_, err = s.IssuePart(ctx, technician, "T-1001", nil)
	require.NoError(t, err)
	_, err = s.AdjustStock(ctx, manager, "P-006", -10, nil)
	require.NoError(t, err)

	for _, part := range s.ListParts() {
		assert.GreaterOrEqual(t, part.StockOnHand, 0, part.ID)
		assert.GreaterOrEqual(t, part.StockReserved, 0, part.ID)
	}
}

func TestLedgerReplayReproducesStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	baseline := map[string][2]int{}
	for _, part := range s.ListParts() {
		baseline[part.ID] = [2]int{part.StockOnHand, part.StockReserved}
	}

	_, err := s.ReservePart(ctx, technician, "T-1001", "P-002", 2)
	require.NoError(t, err)
	_, err = s.ReservePart(ctx, technician, "T-1002", "P-002", 1)
	require.NoError(t, err)
	_, err = s.IssuePart(ctx, technician, "T-1001", nil)
	require.NoError(t, err)
	_, err = s.ReleaseReservation(ctx, technician, "T-1002", nil)
	require.NoError(t, err)
	po, err := s.CreatePurchaseOrder(ctx, manager, PurchaseOrderInput{PartID: "P-002", Qty: 6})
	require.NoError(t, err)
	_, err = s.ReceivePurchaseOrder(ctx, manager, po.ID)
	require.NoError(t, err)

	onHand, reserved := baseline["P-002"][0], baseline["P-002"][1]
	for _, m := range s.ListMovements(MovementFilter{PartID: strPtrOf("P-002")}) {
		switch m.Type {
		case domain.MovementReserve:
			reserved += m.Qty
		case domain.MovementRelease:
			reserved = clampNonNegative(reserved - m.Qty)
		case domain.MovementIssue:
			reserved = clampNonNegative(reserved - m.Qty)
			onHand = clampNonNegative(onHand - m.Qty)
		case domain.MovementReceive:
			onHand += m.Qty
		}
	}

	part := mustPart(t, s, "P-002")
	assert.Equal(t, part.StockOnHand, onHand)
	assert.Equal(t, part.StockReserved, reserved)
}

func TestTicketBoardSortsByPriority(t *testing.T) {
	s := newTestStore(t)
	board := s.TicketBoard()
	require.NotEmpty(t, board)
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].PriorityScore, board[i].PriorityScore)
	}
}

func TestResetToSeedRestoresDataset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReservePart(ctx, technician, "T-1001", "P-002", 2)
	require.NoError(t, err)
	_, err = s.AdjustStock(ctx, manager, "P-003", -3, nil)
	require.NoError(t, err)

	require.NoError(t, s.ResetToSeed(ctx, manager))

	assert.Equal(t, 0, mustPart(t, s, "P-002").StockReserved)
	assert.Equal(t, 24, mustPart(t, s, "P-003").StockOnHand)
	assert.Empty(t, s.ListMovements(MovementFilter{}))
	assert.Empty(t, s.ListPurchaseOrders())
}

func TestLowStockParts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// P-005: 3 on hand, min 2. Reserving two drops availability to 1.
	_, err := s.ReservePart(ctx, technician, "T-1001", "P-005", 2)
	require.NoError(t, err)

	reports := s.LowStockParts()
	var found bool
	for _, report := range reports {
		if report.Part.ID == "P-005" {
			found = true
			// target max(2, 2*2)=4, available 1 -> suggest 3
			assert.Equal(t, 3, report.SuggestedQty)
		}
	}
	assert.True(t, found)
}

func TestReserveRejectsVerifiedTicket(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	resolved := domain.TicketStatusResolved
	_, err := s.UpdateTicket(ctx, technician, "T-1003", TicketPatch{Status: &resolved}, "Work done")
	require.NoError(t, err)
	verified := domain.TicketStatusVerified
	_, err = s.UpdateTicket(ctx, manager, "T-1003", TicketPatch{Status: &verified}, "Verified and closed")
	require.NoError(t, err)

	_, err = s.ReservePart(ctx, technician, "T-1003", "P-002", 1)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))

	ticket, err := s.GetTicket("T-1003")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusVerified, ticket.Status)
	assert.Equal(t, 0, mustPart(t, s, "P-002").StockReserved)
}

func TestSeedTicketsAreScored(t *testing.T) {
	s := newTestStore(t)

	// T-1001: high 50 + blocking 40 + occupied 30 + 26h of age (~5.4)
	ticket, err := s.GetTicket("T-1001")
	require.NoError(t, err)
	assert.Equal(t, 125, ticket.PriorityScore)

	require.NoError(t, s.ResetToSeed(context.Background(), manager))
	ticket, err = s.GetTicket("T-1001")
	require.NoError(t, err)
	assert.Equal(t, 125, ticket.PriorityScore)
}

type captureSnapshots struct {
	mu    sync.Mutex
	saved []*State
}

func (c *captureSnapshots) Load(context.Context) (*State, error) { return nil, nil }

func (c *captureSnapshots) Save(_ context.Context, state *State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved = append(c.saved, state)
	return nil
}

func (c *captureSnapshots) last() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.saved) == 0 {
		return nil
	}
	return c.saved[len(c.saved)-1]
}

func TestSnapshotNeverMovesBackwards(t *testing.T) {
	snaps := &captureSnapshots{}
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s := New(Dependencies{Snapshots: snaps, Clock: func() time.Time { return now }})
	ctx := context.Background()

	_, err := s.AdjustStock(ctx, manager, "P-003", -1, nil)
	require.NoError(t, err)
	_, err = s.AdjustStock(ctx, manager, "P-003", -2, nil)
	require.NoError(t, err)

	// Whatever order the async writes land in, the newest state wins.
	assert.Eventually(t, func() bool {
		state := snaps.last()
		if state == nil {
			return false
		}
		part := state.findPart("P-003")
		return part != nil && part.StockOnHand == 21
	}, time.Second, 10*time.Millisecond)
}

func TestReceiveSummaryNamesFirstCreditedPart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// First line references a part that no longer resolves.
	s.mu.Lock()
	s.state.PurchaseOrders = append(s.state.PurchaseOrders, domain.PurchaseOrder{
		ID:        "PO-MIXED",
		Status:    domain.POStatusOrdered,
		CreatedAt: s.now(),
		CreatedBy: manager.Name,
		Vendor:    "AquaParts",
		Items: []domain.PurchaseOrderItem{
			{PartID: "P-GONE", PartName: "Retired part", Qty: 3, Unit: "pc"},
			{PartID: "P-002", PartName: "Shower cartridge", Qty: 4, Unit: "pc"},
		},
	})
	s.mu.Unlock()

	_, err := s.ReceivePurchaseOrder(ctx, manager, "PO-MIXED")
	require.NoError(t, err)
	assert.Equal(t, 8, mustPart(t, s, "P-002").StockOnHand)

	var summary *domain.PartMovement
	for _, m := range s.ListMovements(MovementFilter{}) {
		if m.Type == domain.MovementPOReceived {
			found := m
			summary = &found
		}
	}
	require.NotNil(t, summary)
	assert.Equal(t, "P-002", summary.PartID)
	assert.Equal(t, 4, summary.Qty)
	require.NotNil(t, summary.Note)
	assert.Contains(t, *summary.Note, "received 1")
}

func TestReceiveSkipsSummaryWhenNothingCredited(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.mu.Lock()
	s.state.PurchaseOrders = append(s.state.PurchaseOrders, domain.PurchaseOrder{
		ID:        "PO-GHOST",
		Status:    domain.POStatusOrdered,
		CreatedAt: s.now(),
		CreatedBy: manager.Name,
		Vendor:    "TBD",
		Items: []domain.PurchaseOrderItem{
			{PartID: "P-GONE", PartName: "Retired part", Qty: 3, Unit: "pc"},
		},
	})
	s.mu.Unlock()

	po, err := s.ReceivePurchaseOrder(ctx, manager, "PO-GHOST")
	require.NoError(t, err)
	assert.Equal(t, domain.POStatusReceived, po.Status)

	for _, m := range s.ListMovements(MovementFilter{}) {
		assert.NotEqual(t, domain.MovementPOReceived, m.Type)
	}
}

func strPtrOf(s string) *string { return &s }
