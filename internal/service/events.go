package service

import (
	"context"
	"strconv"
	"time"

	"github.com/swingeats/swingeats/internal/metrics"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventItemChanged        = "order_item.changed"
	EventBayFlagged         = "bay.flagged"
)

// OrderEvent is the record published for every lifecycle mutation.
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        uint      `json:"orderId,omitempty"`
	ItemID         uint      `json:"itemId,omitempty"`
	BayID          uint      `json:"bayId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	At             time.Time `json:"at"`
}

// publish logs failures and never returns them.
func (s *OrderService) publish(ctx context.Context, ev OrderEvent) {
	if s.Events == nil {
		return
	}
	key := strconv.FormatUint(uint64(ev.BayID), 10)
	if err := s.Events.Publish(ctx, key, ev); err != nil {
		s.logger().Warn("event_publish_failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}

func (s *OrderService) record(op string, err error) {
	metrics.RecordOperation(op, err == nil)
}
