// Package store implements the maintenance core: the ticket lifecycle,
// the parts inventory with its movement ledger, and the purchase order
// workflow. All commands run to completion under one mutex covering the
// whole aggregate, so no interleaving can reserve against stale
// availability. Snapshots are written fire-and-forget after each
// successful mutation.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-core/internal/domain"
	"github.com/spec-kit/maintenance-core/internal/events"
	"github.com/spec-kit/maintenance-core/internal/priority"
	"github.com/spec-kit/maintenance-core/pkg/util"
)

// Store owns the aggregate and exposes the command/query surface.
type Store struct {
	mu    sync.Mutex
	state *State

	snapshots  Snapshotter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	// snapMu serializes snapshot writes; savedSeq tracks the newest
	// sequence persisted so a slow save cannot overwrite a newer one.
	snapMu   sync.Mutex
	snapSeq  uint64
	savedSeq uint64
}

// Dependencies bundles collaborators for the store.
type Dependencies struct {
	Snapshots  Snapshotter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// New constructs an empty store; call Load before serving commands.
func New(deps Dependencies) *Store {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:      SeedState(clock()),
		snapshots:  deps.Snapshots,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// Load restores the last snapshot, falling back to the seed dataset when
// no snapshot exists or it cannot be decoded. The fallback is a recovery
// path, not an error.
func (s *Store) Load(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("snapshot load failed; falling back to seed dataset", zap.Error(err))
		return
	}
	if state == nil {
		s.logger.Info("no snapshot found; using seed dataset")
		return
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.logger.Info("snapshot restored",
		zap.Int("tickets", len(state.Tickets)),
		zap.Int("parts", len(state.Parts)),
		zap.Int("movements", len(state.Movements)),
		zap.Int("purchase_orders", len(state.PurchaseOrders)))
}

// ResetToSeed discards all state and restores the built-in dataset.
func (s *Store) ResetToSeed(ctx context.Context, actor domain.Actor) error {
	s.mu.Lock()
	s.state = SeedState(s.now())
	snap, seq := s.cloneForSnapshot()
	s.mu.Unlock()

	s.afterMutation(ctx, seq, snap, []events.Event{{
		Type:  events.EventDatasetReset,
		Actor: actor,
	}})
	return nil
}

// ListTickets returns copies of all tickets.
func (s *Store) ListTickets() []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Ticket, 0, len(s.state.Tickets))
	for i := range s.state.Tickets {
		out = append(out, cloneTicket(&s.state.Tickets[i]))
	}
	return out
}

// TicketBoard returns tickets with scores refreshed against the current
// instant, sorted highest priority first. Stored scores are not mutated;
// they remain as of the last mutation.
func (s *Store) TicketBoard() []domain.Ticket {
	now := s.now()
	board := s.ListTickets()
	for i := range board {
		board[i].PriorityScore = priority.Score(&board[i], now)
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].PriorityScore > board[j].PriorityScore
	})
	return board
}

// GetTicket returns a copy of one ticket.
func (s *Store) GetTicket(id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.state.findTicket(id)
	if t == nil {
		return nil, util.NewNotFound("ticket", id)
	}
	out := cloneTicket(t)
	return &out, nil
}

// PriorityFor computes the current score for a ticket.
func (s *Store) PriorityFor(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.state.findTicket(id)
	if t == nil {
		return 0, util.NewNotFound("ticket", id)
	}
	return priority.Score(t, s.now()), nil
}

// ListParts returns copies of the parts catalog.
func (s *Store) ListParts() []domain.InventoryPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.InventoryPart, 0, len(s.state.Parts))
	for i := range s.state.Parts {
		out = append(out, clonePart(&s.state.Parts[i]))
	}
	return out
}

// GetPart returns a copy of one part.
func (s *Store) GetPart(id string) (*domain.InventoryPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.state.findPart(id)
	if p == nil {
		return nil, util.NewNotFound("part", id)
	}
	out := clonePart(p)
	return &out, nil
}

// AvailableStock returns max(0, onHand - reserved) for a part.
func (s *Store) AvailableStock(partID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.state.findPart(partID)
	if p == nil {
		return 0, util.NewNotFound("part", partID)
	}
	return p.Available(), nil
}

// LowStockReport pairs a part with its suggested reorder quantity.
type LowStockReport struct {
	Part         domain.InventoryPart `json:"part"`
	SuggestedQty int                  `json:"suggested_qty"`
}

// LowStockParts lists parts whose availability is under their threshold.
func (s *Store) LowStockParts() []LowStockReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LowStockReport
	for i := range s.state.Parts {
		p := &s.state.Parts[i]
		if p.BelowMin() {
			out = append(out, LowStockReport{Part: clonePart(p), SuggestedQty: p.SuggestedReorderQty()})
		}
	}
	return out
}

// MovementFilter narrows ledger listings.
type MovementFilter struct {
	PartID   *string
	TicketID *string
}

// ListMovements returns ledger entries, oldest first.
func (s *Store) ListMovements(filter MovementFilter) []domain.PartMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PartMovement, 0, len(s.state.Movements))
	for i := range s.state.Movements {
		m := &s.state.Movements[i]
		if filter.PartID != nil && m.PartID != *filter.PartID {
			continue
		}
		if filter.TicketID != nil && (m.TicketID == nil || *m.TicketID != *filter.TicketID) {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	return out
}

// ListPurchaseOrders returns copies of all purchase orders.
func (s *Store) ListPurchaseOrders() []domain.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PurchaseOrder, 0, len(s.state.PurchaseOrders))
	for i := range s.state.PurchaseOrders {
		out = append(out, clonePurchaseOrder(&s.state.PurchaseOrders[i]))
	}
	return out
}

// appendMovement writes one ledger entry and returns it.
func (s *Store) appendMovement(m domain.PartMovement) domain.PartMovement {
	if m.ID == "" {
		m.ID = newKey("M")
	}
	if m.Date.IsZero() {
		m.Date = s.now()
	}
	s.state.Movements = append(s.state.Movements, m)
	return m
}

// cloneForSnapshot copies the state and stamps it with the mutation
// sequence number. Call with s.mu held.
func (s *Store) cloneForSnapshot() (*State, uint64) {
	s.snapSeq++
	return s.state.Clone(), s.snapSeq
}

// afterMutation persists the snapshot fire-and-forget and fans out events.
// Called outside the store mutex; a crash before the snapshot lands is an
// accepted loss window. Writes are serialized and stale sequences dropped,
// so the persisted state never moves backwards.
func (s *Store) afterMutation(ctx context.Context, seq uint64, snap *State, evts []events.Event) {
	if s.snapshots != nil {
		go func() {
			s.snapMu.Lock()
			defer s.snapMu.Unlock()
			if seq <= s.savedSeq {
				return
			}
			if err := s.snapshots.Save(context.Background(), snap); err != nil {
				s.logger.Warn("snapshot save failed", zap.Error(err))
				return
			}
			s.savedSeq = seq
		}()
	}
	if s.dispatcher == nil {
		return
	}
	for _, evt := range evts {
		if evt.ID == "" {
			evt.ID = uuid.NewString()
		}
		if evt.Timestamp.IsZero() {
			evt.Timestamp = s.now()
		}
		_ = s.dispatcher.Publish(ctx, evt)
	}
}

// stockPayload captures the inventory side of a movement for subscribers.
func stockPayload(m domain.PartMovement, p *domain.InventoryPart) events.StockChangedPayload {
	return events.StockChangedPayload{
		MovementID: m.ID,
		PartID:     p.ID,
		PartName:   p.Name,
		Qty:        m.Qty,
		TicketID:   m.TicketID,
		OnHand:     p.StockOnHand,
		Reserved:   p.StockReserved,
		Available:  p.Available(),
		MinStock:   p.MinStock,
	}
}

// lowStockEvent builds the replenishment suggestion event when a part has
// dropped below its threshold, or nil when stock is fine.
func lowStockEvent(actor domain.Actor, p *domain.InventoryPart) *events.Event {
	if !p.BelowMin() {
		return nil
	}
	return &events.Event{
		Type:  events.EventStockLow,
		Actor: actor,
		Payload: events.StockLowPayload{
			PartID:       p.ID,
			PartName:     p.Name,
			Available:    p.Available(),
			MinStock:     p.MinStock,
			SuggestedQty: p.SuggestedReorderQty(),
		},
	}
}

func newKey(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
