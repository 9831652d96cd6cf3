package service

import "github.com/swingeats/swingeats/internal/models"

// AggregateStatus derives an open order's status from its items, ignoring
// voided ones:
//
//	any COOKING                               -> COOKING
//	all READY/DELIVERED with at least 1 READY -> READY
//	all DELIVERED                             -> SERVED
//	otherwise                                 -> current
//
// Orders that left the kitchen (served, dining, paid, cancelled) keep their
// status.
func AggregateStatus(current models.OrderStatus, items []models.OrderItem) models.OrderStatus {
	if !current.Open() {
		return current
	}

	var live, cooking, ready, delivered int
	for _, it := range items {
		switch it.Status {
		case models.ItemVoided:
			continue
		case models.ItemCooking:
			cooking++
		case models.ItemReady:
			ready++
		case models.ItemDelivered:
			delivered++
		}
		live++
	}

	switch {
	case live == 0:
		return current
	case cooking > 0:
		return models.OrderCooking
	case ready > 0 && ready+delivered == live:
		return models.OrderReady
	case delivered == live:
		return models.OrderServed
	default:
		return current
	}
}

// allowedFrom lists the statuses a direct update to "to" may start from.
func allowedFrom(to models.OrderStatus) []models.OrderStatus {
	switch to {
	case models.OrderNew, models.OrderCooking, models.OrderReady, models.OrderServed:
		return models.OpenOrderStatuses
	case models.OrderDining:
		return []models.OrderStatus{models.OrderServed}
	case models.OrderPaid:
		return []models.OrderStatus{models.OrderServed, models.OrderDining}
	case models.OrderCancelled:
		return models.UnpaidOrderStatuses
	}
	return nil
}

func canMove(from, to models.OrderStatus) bool {
	if from == to || from.Final() {
		return false
	}
	for _, s := range allowedFrom(to) {
		if s == from {
			return true
		}
	}
	return false
}
