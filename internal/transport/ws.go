package transport

import "encoding/json"

// Server to client message types.
const (
	MsgOrdersUpdate      = "ordersUpdate"
	MsgOrderUpdated      = "order_updated"
	MsgOrderItemUpdated  = "order_item_updated"
	MsgBayUpdated        = "bay_updated"
	MsgOrderStatusUpdate = "orderStatusUpdate"
)

// Client to server message types.
const (
	MsgRegister       = "register"
	MsgSubscribeToBay = "subscribeToBay"
)

type ClientRole string

const (
	RoleGuest   ClientRole = "guest"
	RoleServer  ClientRole = "server"
	RoleKitchen ClientRole = "kitchen"
)

func (r ClientRole) Valid() bool {
	return r == RoleGuest || r == RoleServer || r == RoleKitchen
}

// Envelope is the only frame shape on the socket.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// InboundEnvelope defers decoding of data until the type is known.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type RegisterMessage struct {
	ClientType ClientRole `json:"clientType"`
	BayID      *uint      `json:"bayId,omitempty"`
}

type SubscribeToBayMessage struct {
	BayID uint `json:"bayId"`
}
