package service

import (
	"context"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/timing"
)

// bayStatusFor derives a bay's status from its orders after an order on it
// reached trigger:
//
//	any open order delayed          -> flagged
//	any open order                  -> active
//	paid and nothing else unpaid    -> empty
//	otherwise                       -> occupied
func bayStatusFor(calc timing.Calculator, orders []models.Order, trigger models.OrderStatus) models.BayStatus {
	var open, unpaid int
	for _, o := range orders {
		switch {
		case o.Status.Open():
			if calc.OrderDelayed(o.CreatedAt, o.EstimatedCompletionAt) {
				return models.BayFlagged
			}
			open++
		case o.Status == models.OrderServed, o.Status == models.OrderDining:
			unpaid++
		}
	}

	switch {
	case open > 0:
		return models.BayActive
	case trigger == models.OrderPaid && unpaid == 0:
		return models.BayEmpty
	default:
		return models.BayOccupied
	}
}

// settleBay stores the status derived from the bay's orders. It returns the
// bay and whether its status changed.
func (s *OrderService) settleBay(ctx context.Context, bayID uint, trigger models.OrderStatus) (*models.Bay, bool) {
	l := s.logger().With("bay_id", bayID)

	orders, err := s.Store.GetOrdersByBay(ctx, bayID)
	if err != nil {
		l.Warn("bay_settle_failed", "error", err)
		return nil, false
	}
	current, err := s.Store.GetBay(ctx, bayID)
	if err != nil {
		l.Warn("bay_settle_failed", "error", err)
		return nil, false
	}

	next := bayStatusFor(s.Timing, orders, trigger)
	if current.Status == next {
		return current, false
	}
	bay, err := s.Store.UpdateBayStatus(ctx, bayID, next)
	if err != nil {
		l.Warn("bay_settle_failed", "error", err)
		return current, false
	}
	l.Info("bay_status_changed", "from", current.Status, "to", next)
	return bay, true
}
