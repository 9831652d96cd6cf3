package service

import (
	"context"
	"errors"
	"time"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/repo"
	"github.com/swingeats/swingeats/internal/transport"
)

type itemMove func(ctx context.Context, id uint, now time.Time) (*models.OrderItem, error)

// FireItem starts cooking a NEW item.
func (s *OrderService) FireItem(ctx context.Context, id uint) (*ItemChange, error) {
	return s.moveItem(ctx, "fire_item", id, s.Store.FireOrderItem)
}

// MarkReady records that a COOKING (or never fired) item came off the line.
// A second call on a READY item fails with ErrInvalidTransition.
func (s *OrderService) MarkReady(ctx context.Context, id uint) (*ItemChange, error) {
	return s.moveItem(ctx, "mark_ready", id, s.Store.MarkOrderItemReady)
}

func (s *OrderService) MarkDelivered(ctx context.Context, id uint) (*ItemChange, error) {
	return s.moveItem(ctx, "mark_delivered", id, s.Store.MarkOrderItemDelivered)
}

func (s *OrderService) VoidItem(ctx context.Context, id uint) (*ItemChange, error) {
	return s.moveItem(ctx, "void_item", id, s.Store.VoidOrderItem)
}

func (s *OrderService) moveItem(ctx context.Context, op string, id uint, move itemMove) (change *ItemChange, err error) {
	defer func() { s.record(op, err) }()
	l := s.logger().With("op", op, "item_id", id)

	now := s.Timing.Now()
	item, err := move(ctx, id, now)
	if err != nil {
		return nil, storeErr(err, "order item %d", id)
	}

	order, previous, err := s.recompute(ctx, item.OrderID, now)
	if err != nil {
		return nil, err
	}

	change = &ItemChange{
		Item:  itemView(s.Timing, *item, order.EstimatedCompletionAt),
		Order: orderView(s.Timing, *order),
	}
	l.Info("item_transition", "order_id", order.ID, "item_status", item.Status, "order_status", order.Status)

	s.notifier().SendToBay(order.BayID, transport.MsgOrderItemUpdated, change)
	s.broadcastActive(ctx)
	ev := OrderEvent{
		Type:    EventItemChanged,
		OrderID: order.ID,
		ItemID:  item.ID,
		BayID:   order.BayID,
		Status:  string(item.Status),
		At:      now,
	}
	if previous != order.Status {
		ev.PreviousStatus = string(previous)
	}
	s.publish(ctx, ev)
	return change, nil
}

// recompute re-derives the order status from its items and stores it when
// it moved. It returns the order with items and the status before.
func (s *OrderService) recompute(ctx context.Context, orderID uint, now time.Time) (*models.Order, models.OrderStatus, error) {
	order, err := s.Store.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, "", storeErr(err, "order %d", orderID)
	}
	previous := order.Status
	next := AggregateStatus(order.Status, order.Items)
	if next == previous {
		return order, previous, nil
	}

	updated, err := s.Store.UpdateOrderStatus(ctx, orderID, []models.OrderStatus{previous}, next, now)
	switch {
	case errors.Is(err, repo.ErrStatusMismatch):
		// another writer moved the order first
		fresh, err := s.Store.GetOrderWithItems(ctx, orderID)
		if err != nil {
			return nil, "", storeErr(err, "order %d", orderID)
		}
		return fresh, previous, nil
	case err != nil:
		return nil, "", storeErr(err, "order %d", orderID)
	}
	updated.Items = order.Items

	s.logger().Info("order_status_changed", "order_id", orderID, "bay_id", order.BayID, "from", previous, "to", next)
	if next == models.OrderServed {
		s.settleBay(ctx, order.BayID, next)
	}
	return updated, previous, nil
}
