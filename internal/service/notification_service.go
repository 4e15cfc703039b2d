package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-core/internal/config"
	"github.com/spec-kit/maintenance-core/internal/events"
	"github.com/spec-kit/maintenance-core/internal/persistence"
)

// NotificationService fans domain events out to operators: structured log
// lines for every event, plus a JSON copy on a Redis channel so external
// consumers (dashboards, pagers) can follow along. Publishing is
// best-effort; a missing Redis never fails a command.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *persistence.Redis
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, redis *persistence.Redis, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redis,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventPartReserved,
		events.EventPartReleased,
		events.EventPartIssued,
		events.EventStockAdjusted,
		events.EventPOCreated,
		events.EventPOReceived,
		events.EventPOCanceled,
		events.EventDatasetReset,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
	n.dispatcher.Subscribe(events.EventStockLow, n.handleStockLow)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("actor", event.Actor.Name),
		zap.Any("payload", event.Payload))
	n.publishToChannel(ctx, event)
	return nil
}

func (n *NotificationService) handleStockLow(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StockLowPayload)
	if ok {
		n.logger.Warn("stock below threshold",
			zap.String("part_id", payload.PartID),
			zap.String("part_name", payload.PartName),
			zap.Int("available", payload.Available),
			zap.Int("min_stock", payload.MinStock),
			zap.Int("suggested_reorder_qty", payload.SuggestedQty))
	}
	n.publishToChannel(ctx, event)
	return nil
}

func (n *NotificationService) publishToChannel(ctx context.Context, event events.Event) {
	if n.redis == nil || n.cfg.EventChannel == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Debug("event marshal failed", zap.Error(err))
		return
	}
	if err := n.redis.Publish(ctx, n.cfg.EventChannel, body); err != nil {
		n.logger.Debug("event publish failed", zap.Error(err))
	}
}
