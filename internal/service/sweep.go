package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/transport"
)

// AutoFlipCandidates lists COOKING items whose predicted ready time has
// passed. Nothing is marked; a person still confirms each item.
func (s *OrderService) AutoFlipCandidates(ctx context.Context) ([]OrderItemView, error) {
	items, err := s.Store.CookingItemsDue(ctx, s.Timing.Now())
	if err != nil {
		return nil, storeErr(err, "cooking items")
	}
	out := make([]OrderItemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView(s.Timing, it, nil))
	}
	return out, nil
}

// FlagDelayedBays moves bays with a delayed open order from active to
// flagged and returns the bays that changed.
func (s *OrderService) FlagDelayedBays(ctx context.Context) ([]models.Bay, error) {
	orders, err := s.Store.GetActiveOrders(ctx)
	if err != nil {
		return nil, storeErr(err, "active orders")
	}

	flagged := []models.Bay{}
	seen := map[uint]bool{}
	for _, o := range orders {
		if seen[o.BayID] || !s.Timing.OrderDelayed(o.CreatedAt, o.EstimatedCompletionAt) {
			continue
		}
		seen[o.BayID] = true

		changed, err := s.Store.SetBayStatusIf(ctx, o.BayID, []models.BayStatus{models.BayActive}, models.BayFlagged)
		if err != nil {
			return flagged, storeErr(err, "bay %d", o.BayID)
		}
		if !changed {
			continue
		}
		bay, err := s.Store.GetBay(ctx, o.BayID)
		if err != nil {
			return flagged, storeErr(err, "bay %d", o.BayID)
		}
		flagged = append(flagged, *bay)
		s.logger().Warn("bay_flagged", "bay_id", bay.ID, "order_id", o.ID,
			"seconds_delayed", s.Timing.OrderSecondsDelayed(o.CreatedAt, o.EstimatedCompletionAt))
		s.notifier().Broadcast(transport.MsgBayUpdated, bay)
		s.publish(ctx, OrderEvent{
			Type:    EventBayFlagged,
			OrderID: o.ID,
			BayID:   bay.ID,
			Status:  string(bay.Status),
			At:      s.Timing.Now(),
		})
	}
	return flagged, nil
}

// PromoteDiningOrders marks orders PAID once they have sat in DINING for
// at least dwell. Orders moved concurrently by someone else are skipped.
func (s *OrderService) PromoteDiningOrders(ctx context.Context, dwell time.Duration) (int, error) {
	cutoff := s.Timing.Now().Add(-dwell)
	orders, err := s.Store.DiningOrdersBefore(ctx, cutoff)
	if err != nil {
		return 0, storeErr(err, "dining orders")
	}

	var (
		promoted int
		errs     []error
	)
	for _, o := range orders {
		_, err := s.UpdateOrderStatus(ctx, o.ID, models.OrderPaid)
		switch {
		case err == nil:
			promoted++
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotFound):
			s.logger().Debug("dining_promotion_skipped", "order_id", o.ID, "error", err)
		default:
			errs = append(errs, fmt.Errorf("order %d: %w", o.ID, err))
		}
	}
	return promoted, errors.Join(errs...)
}
