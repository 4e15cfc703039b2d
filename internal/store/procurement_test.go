package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

func TestCreatePurchaseOrderDefaults(t *testing.T) {
	s := newTestStore(t)
	now := s.now()

	po, err := s.CreatePurchaseOrder(context.Background(), manager, PurchaseOrderInput{PartID: "P-005", Qty: 12, ETADays: intPtrOf(5)})
	require.NoError(t, err)

	assert.Equal(t, domain.POStatusOrdered, po.Status)
	assert.Equal(t, manager.Name, po.CreatedBy)
	assert.Equal(t, "RoomTech", po.Vendor)
	require.NotNil(t, po.ETADate)
	assert.Equal(t, now.Add(5*24*time.Hour), *po.ETADate)
	require.Len(t, po.Items, 1)
	assert.Equal(t, "P-005", po.Items[0].PartID)
	assert.Equal(t, 12, po.Items[0].Qty)
}

func TestCreatePurchaseOrderSuggestsQty(t *testing.T) {
	s := newTestStore(t)

	// P-005: 3 available, min 2, target max(2, 2*2)=4 -> suggest 1.
	po, err := s.CreatePurchaseOrder(context.Background(), manager, PurchaseOrderInput{PartID: "P-005"})
	require.NoError(t, err)
	assert.Equal(t, 1, po.Items[0].Qty)
}

func TestCreatePurchaseOrderVendorFallback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// P-003 has no catalog vendor.
	po, err := s.CreatePurchaseOrder(ctx, manager, PurchaseOrderInput{PartID: "P-003", Qty: 10})
	require.NoError(t, err)
	assert.Equal(t, "TBD", po.Vendor)

	po, err = s.CreatePurchaseOrder(ctx, manager, PurchaseOrderInput{PartID: "P-003", Qty: 10, Vendor: strPtrOf("LumenDirect")})
	require.NoError(t, err)
	assert.Equal(t, "LumenDirect", po.Vendor)
}

func TestCreatePurchaseOrderETAFallsBackToLeadTime(t *testing.T) {
	s := newTestStore(t)
	now := s.now()

	// P-006 lead time is ten days.
	po, err := s.CreatePurchaseOrder(context.Background(), manager, PurchaseOrderInput{PartID: "P-006", Qty: 2})
	require.NoError(t, err)
	require.NotNil(t, po.ETADate)
	assert.Equal(t, now.Add(10*24*time.Hour), *po.ETADate)
}

func TestCreatePurchaseOrderLinksTicket(t *testing.T) {
	s := newTestStore(t)

	po, err := s.CreatePurchaseOrder(context.Background(), manager, PurchaseOrderInput{PartID: "P-001", Qty: 3, TicketID: strPtrOf("T-1001")})
	require.NoError(t, err)

	ticket, err := s.GetTicket("T-1001")
	require.NoError(t, err)
	require.NotNil(t, ticket.POID)
	assert.Equal(t, po.ID, *ticket.POID)
	// Linking never changes ticket status.
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestCreatePurchaseOrderUnknownTicketStillSucceeds(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreatePurchaseOrder(context.Background(), manager, PurchaseOrderInput{PartID: "P-001", Qty: 3, TicketID: strPtrOf("T-NOPE")})
	assert.NoError(t, err)
}

func TestCreatePurchaseOrderPermissions(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreatePurchaseOrder(context.Background(), technician, PurchaseOrderInput{PartID: "P-001", Qty: 1})
	assert.True(t, util.IsCode(err, "PERMISSION_DENIED"))
}

func TestReceivePurchaseOrderOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	po, err := s.CreatePurchaseOrder(ctx, manager, PurchaseOrderInput{PartID: "P-005", Qty: 12})
	require.NoError(t, err)

	received, err := s.ReceivePurchaseOrder(ctx, manager, po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.POStatusReceived, received.Status)
	assert.Equal(t, 15, mustPart(t, s, "P-005").StockOnHand)

	// A second receive must not credit stock again.
	_, err = s.ReceivePurchaseOrder(ctx, manager, po.ID)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))
	assert.Equal(t, 15, mustPart(t, s, "P-005").StockOnHand)

	movements := s.ListMovements(MovementFilter{PartID: strPtrOf("P-005")})
	var receives int
	for _, m := range movements {
		if m.Type == domain.MovementReceive {
			receives++
		}
	}
	assert.Equal(t, 1, receives)
}

func TestReceivePurchaseOrderNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ReceivePurchaseOrder(context.Background(), manager, "PO-NOPE")
	assert.True(t, util.IsCode(err, "NOT_FOUND"))
}

func TestCancelPurchaseOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	po, err := s.CreatePurchaseOrder(ctx, manager, PurchaseOrderInput{PartID: "P-002", Qty: 4})
	require.NoError(t, err)
	before := mustPart(t, s, "P-002").StockOnHand

	canceled, err := s.CancelPurchaseOrder(ctx, manager, po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.POStatusCanceled, canceled.Status)
	assert.Equal(t, before, mustPart(t, s, "P-002").StockOnHand)

	_, err = s.ReceivePurchaseOrder(ctx, manager, po.ID)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))

	_, err = s.CancelPurchaseOrder(ctx, manager, po.ID)
	assert.True(t, util.IsCode(err, "INVALID_STATE"))
}

func intPtrOf(i int) *int { return &i }
