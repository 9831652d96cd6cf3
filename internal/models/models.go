package models

import (
	"time"
)

type BayStatus string

const (
	BayEmpty    BayStatus = "empty"
	BayOccupied BayStatus = "occupied"
	BayActive   BayStatus = "active"
	BayFlagged  BayStatus = "flagged"
	BayAlert    BayStatus = "alert"
)

type OrderStatus string

const (
	OrderNew       OrderStatus = "NEW"
	OrderCooking   OrderStatus = "COOKING"
	OrderReady     OrderStatus = "READY"
	OrderServed    OrderStatus = "SERVED"
	OrderDining    OrderStatus = "DINING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OpenOrderStatuses are the statuses the kitchen still works on.
var OpenOrderStatuses = []OrderStatus{OrderNew, OrderCooking, OrderReady}

// UnpaidOrderStatuses keep a bay seated.
var UnpaidOrderStatuses = []OrderStatus{OrderNew, OrderCooking, OrderReady, OrderServed, OrderDining}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderCooking, OrderReady, OrderServed, OrderDining, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Open() bool {
	return s == OrderNew || s == OrderCooking || s == OrderReady
}

// Final statuses never change again.
func (s OrderStatus) Final() bool {
	return s == OrderPaid || s == OrderCancelled
}

type OrderType string

const (
	OrderTypeCustomer OrderType = "customer"
	OrderTypeServer   OrderType = "server"
)

type ItemStatus string

const (
	ItemNew       ItemStatus = "NEW"
	ItemCooking   ItemStatus = "COOKING"
	ItemReady     ItemStatus = "READY"
	ItemDelivered ItemStatus = "DELIVERED"
	ItemVoided    ItemStatus = "VOIDED"
)

type Bay struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Floor     int       `gorm:"not null" json:"floor"`
	Status    BayStatus `gorm:"type:varchar(16);not null;default:'empty'" json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MenuItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Category    string `gorm:"not null;index" json:"category"`
	Description string `json:"description"`
	PriceCents  int64  `gorm:"not null;check:price_cents >= 0" json:"priceCents"`
	Station     string `gorm:"not null" json:"station"`
	PrepSeconds int    `gorm:"not null" json:"prepSeconds"`
	Active      bool   `gorm:"not null" json:"active"`
}

type Order struct {
	ID                    uint        `gorm:"primaryKey" json:"id"`
	BayID                 uint        `gorm:"not null;index" json:"bayId"`
	Status                OrderStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	OrderType             OrderType   `gorm:"type:varchar(16);not null" json:"orderType"`
	SpecialInstructions   string      `json:"specialInstructions,omitempty"`
	TotalCents            int64       `gorm:"not null" json:"totalCents"`
	EstimatedCompletionAt *time.Time  `json:"estimatedCompletionTime"`
	StatusChangedAt       time.Time   `gorm:"not null" json:"statusChangedAt"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
	Items                 []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrderID          uint       `gorm:"not null;index" json:"orderId"`
	MenuItemID       uint       `gorm:"not null" json:"menuItemId"`
	Name             string     `gorm:"not null" json:"name"`
	Quantity         int        `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPriceCents   int64      `gorm:"not null" json:"unitPriceCents"`
	Station          string     `json:"station,omitempty"`
	Status           ItemStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CookSeconds      int        `gorm:"not null" json:"cookSeconds"`
	FiredAt          *time.Time `json:"firedAt"`
	PredictedReadyAt *time.Time `gorm:"index" json:"predictedReadyAt"`
	ActualReadyAt    *time.Time `json:"actualReadyAt"`
	DeliveredAt      *time.Time `json:"deliveredAt"`
	Completed        bool       `gorm:"not null;default:false" json:"completed"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (i OrderItem) LineTotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// All returns every model in migration order.
func All() []any {
	return []any{&Bay{}, &MenuItem{}, &Order{}, &OrderItem{}}
}
