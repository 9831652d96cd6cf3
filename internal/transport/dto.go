package transport

type CreateOrderItem struct {
	MenuItemID uint   `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

type CreateOrderRequest struct {
	BayID               uint              `json:"bayId"`
	OrderType           string            `json:"orderType"`
	SpecialInstructions string            `json:"specialInstructions"`
	Items               []CreateOrderItem `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
