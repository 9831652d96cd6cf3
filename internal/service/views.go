package service

import (
	"time"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/timing"
)

// OrderItemView is an item plus fields derived at read time.
type OrderItemView struct {
	models.OrderItem
	DropAt           *time.Time `json:"dropAt,omitempty"`
	SecondsUntilDrop *int       `json:"secondsUntilDrop,omitempty"`
	ReadyToCheck     bool       `json:"readyToCheck"`
}

// OrderView is an order plus fields derived at read time. Timing fields
// stay zero once the order leaves the kitchen.
type OrderView struct {
	models.Order
	Items          []OrderItemView `json:"items"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	IsDelayed      bool            `json:"isDelayed"`
	SecondsDelayed int             `json:"secondsDelayed"`
}

// ItemChange is the result of an item transition.
type ItemChange struct {
	Item  OrderItemView `json:"item"`
	Order OrderView     `json:"order"`
}

func itemView(calc timing.Calculator, it models.OrderItem, estimate *time.Time) OrderItemView {
	v := OrderItemView{OrderItem: it}
	switch it.Status {
	case models.ItemNew:
		if estimate != nil {
			drop := calc.DropAt(it.CookSeconds, *estimate)
			secs := calc.SecondsUntilDrop(drop)
			v.DropAt = &drop
			v.SecondsUntilDrop = &secs
		}
	case models.ItemCooking:
		v.ReadyToCheck = it.PredictedReadyAt != nil && !it.PredictedReadyAt.After(calc.Now())
	}
	return v
}

func orderView(calc timing.Calculator, o models.Order) OrderView {
	v := OrderView{Order: o, Items: make([]OrderItemView, 0, len(o.Items))}
	v.Order.Items = nil
	for _, it := range o.Items {
		v.Items = append(v.Items, itemView(calc, it, o.EstimatedCompletionAt))
	}
	if o.Status.Open() {
		v.ElapsedSeconds = calc.ElapsedSeconds(o.CreatedAt)
		v.IsDelayed = calc.OrderDelayed(o.CreatedAt, o.EstimatedCompletionAt)
		v.SecondsDelayed = calc.OrderSecondsDelayed(o.CreatedAt, o.EstimatedCompletionAt)
	}
	return v
}

func orderViews(calc timing.Calculator, orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView(calc, o))
	}
	return out
}
