package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/transport"
)

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 5, env.Fries, env.Wings)
	require.NotZero(t, v.ID)
	assert.Equal(t, models.OrderNew, v.Status)
	assert.Equal(t, models.OrderTypeCustomer, v.OrderType)
	assert.Equal(t, int64(450+1600), v.TotalCents)
	require.NotNil(t, v.EstimatedCompletionAt)
	assert.True(t, t0.Add(720*time.Second).Equal(*v.EstimatedCompletionAt))
	assert.Equal(t, models.BayActive, env.bayStatus(t, 5))

	require.Len(t, v.Items, 2)
	fries, wings := v.Items[0], v.Items[1]
	assert.Equal(t, "Fries", fries.Name)
	assert.Equal(t, "Fryer", fries.Station)
	assert.Equal(t, 300, fries.CookSeconds)
	require.NotNil(t, fries.SecondsUntilDrop)
	assert.Equal(t, 360, *fries.SecondsUntilDrop)
	require.NotNil(t, wings.SecondsUntilDrop)
	assert.Equal(t, 60, *wings.SecondsUntilDrop)

	msgs := env.Notes.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, sent{BayID: 5, Type: transport.MsgOrderUpdated}, sent{BayID: msgs[0].BayID, Type: msgs[0].Type})
	assert.Equal(t, transport.MsgOrdersUpdate, msgs[1].Type)
	assert.Zero(t, msgs[1].BayID)
	require.Len(t, msgs[1].Data, 1)

	require.Len(t, env.Events.events, 1)
	assert.Equal(t, EventOrderCreated, env.Events.events[0].Type)
}

func TestCreateOrder_DefaultCookTime(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 1, env.Instant)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 300, v.Items[0].CookSeconds)
	assert.True(t, t0.Add(420*time.Second).Equal(*v.EstimatedCompletionAt))
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  transport.CreateOrderRequest
	}{
		{"empty cart", transport.CreateOrderRequest{BayID: 1}},
		{"no bay", transport.CreateOrderRequest{Items: []transport.CreateOrderItem{{MenuItemID: env.Fries.ID, Quantity: 1}}}},
		{"unknown bay", transport.CreateOrderRequest{BayID: 99, Items: []transport.CreateOrderItem{{MenuItemID: env.Fries.ID, Quantity: 1}}}},
		{"zero quantity", transport.CreateOrderRequest{BayID: 1, Items: []transport.CreateOrderItem{{MenuItemID: env.Fries.ID}}}},
		{"negative quantity", transport.CreateOrderRequest{BayID: 1, Items: []transport.CreateOrderItem{{MenuItemID: env.Fries.ID, Quantity: -2}}}},
		{"unknown menu item", transport.CreateOrderRequest{BayID: 1, Items: []transport.CreateOrderItem{{MenuItemID: 999, Quantity: 1}}}},
		{"inactive menu item", transport.CreateOrderRequest{BayID: 1, Items: []transport.CreateOrderItem{{MenuItemID: env.Sold.ID, Quantity: 1}}}},
		{"bad order type", transport.CreateOrderRequest{BayID: 1, OrderType: "delivery", Items: []transport.CreateOrderItem{{MenuItemID: env.Fries.ID, Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Svc.CreateOrder(env.ctx, tc.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	active, err := env.Svc.GetActiveOrders(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Equal(t, models.BayEmpty, env.bayStatus(t, 1))
	assert.Empty(t, env.Notes.take())
}

func TestServerOrderType(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Svc.CreateOrder(env.ctx, transport.CreateOrderRequest{
		BayID:     3,
		OrderType: "Server",
		Items:     []transport.CreateOrderItem{{MenuItemID: env.Wings.ID, Quantity: 2, Notes: " extra hot "}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeServer, v.OrderType)
	assert.Equal(t, int64(3200), v.TotalCents)
	assert.Equal(t, "extra hot", v.Items[0].Notes)
}

// Two items at 300s and 600s on bay 5 walked through the whole kitchen.
func TestOrderLifecycle_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 5, env.Fries, env.Wings)
	a, b := v.Items[0].ID, v.Items[1].ID
	assert.Equal(t, models.OrderNew, v.Status)

	ch, err := env.Svc.FireItem(env.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCooking, ch.Order.Status)
	assert.Equal(t, models.ItemCooking, ch.Item.Status)
	require.NotNil(t, ch.Item.FiredAt)
	require.NotNil(t, ch.Item.PredictedReadyAt)
	assert.True(t, ch.Item.FiredAt.Add(300*time.Second).Equal(*ch.Item.PredictedReadyAt))
	assert.Nil(t, ch.Item.ActualReadyAt)

	env.Clock.Advance(30 * time.Second)
	ch, err = env.Svc.FireItem(env.ctx, b)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCooking, ch.Order.Status)

	env.Clock.Advance(5 * time.Minute)
	ch, err = env.Svc.MarkReady(env.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, models.ItemReady, ch.Item.Status)
	require.NotNil(t, ch.Item.ActualReadyAt)
	assert.Equal(t, models.OrderCooking, ch.Order.Status)

	env.Clock.Advance(5 * time.Minute)
	ch, err = env.Svc.MarkReady(env.ctx, b)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, ch.Order.Status)

	ch, err = env.Svc.MarkDelivered(env.ctx, a)
	require.NoError(t, err)
	assert.True(t, ch.Item.Completed)
	assert.Equal(t, models.OrderReady, ch.Order.Status)

	ch, err = env.Svc.MarkDelivered(env.ctx, b)
	require.NoError(t, err)
	assert.Equal(t, models.OrderServed, ch.Order.Status)
	assert.Equal(t, models.BayOccupied, env.bayStatus(t, 5))

	active, err := env.Svc.GetActiveOrders(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestItemTransitions_Notify(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 2, env.Fries)
	env.Notes.take()

	_, err := env.Svc.FireItem(env.ctx, v.Items[0].ID)
	require.NoError(t, err)

	msgs := env.Notes.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, uint(2), msgs[0].BayID)
	assert.Equal(t, transport.MsgOrderItemUpdated, msgs[0].Type)
	assert.Equal(t, transport.MsgOrdersUpdate, msgs[1].Type)

	payload := wire(t, msgs[0].Data)
	item := payload["item"].(map[string]any)
	order := payload["order"].(map[string]any)
	assert.Equal(t, "COOKING", item["status"])
	assert.Equal(t, "COOKING", order["status"])
	assert.Contains(t, order, "estimatedCompletionTime")
	assert.Len(t, order["items"], 1)
}

func TestMarkReady_SecondCallRejected(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 4, env.Fries)
	id := v.Items[0].ID
	_, err := env.Svc.FireItem(env.ctx, id)
	require.NoError(t, err)
	_, err = env.Svc.MarkReady(env.ctx, id)
	require.NoError(t, err)
	env.Notes.take()

	_, err = env.Svc.MarkReady(env.ctx, id)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.OrderReady, env.orderStatus(t, v.ID))
	assert.Empty(t, env.Notes.take())
}

func TestItemTransitions_Rejected(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 4, env.Fries, env.Wings)
	a, b := v.Items[0].ID, v.Items[1].ID

	_, err := env.Svc.MarkDelivered(env.ctx, a)
	require.ErrorIs(t, err, ErrInvalidTransition, "NEW cannot be delivered")

	_, err = env.Svc.FireItem(env.ctx, a)
	require.NoError(t, err)
	_, err = env.Svc.FireItem(env.ctx, a)
	require.ErrorIs(t, err, ErrInvalidTransition, "already cooking")

	_, err = env.Svc.VoidItem(env.ctx, b)
	require.NoError(t, err)
	_, err = env.Svc.FireItem(env.ctx, b)
	require.ErrorIs(t, err, ErrInvalidTransition, "voided")

	_, err = env.Svc.FireItem(env.ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVoidItem_Reaggregates(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 6, env.Fries, env.Wings)
	a, b := v.Items[0].ID, v.Items[1].ID

	_, err := env.Svc.FireItem(env.ctx, a)
	require.NoError(t, err)
	_, err = env.Svc.MarkReady(env.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCooking, env.orderStatus(t, v.ID))

	ch, err := env.Svc.VoidItem(env.ctx, b)
	require.NoError(t, err)
	assert.Equal(t, models.ItemVoided, ch.Item.Status)
	assert.Equal(t, models.OrderReady, ch.Order.Status)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 8, env.Fries)

	_, err := env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderPaid)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderNew)
	require.ErrorIs(t, err, ErrInvalidTransition, "same status")
	_, err = env.Svc.UpdateOrderStatus(env.ctx, v.ID, "EATING")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.Svc.UpdateOrderStatus(env.ctx, 4242, models.OrderServed)
	require.ErrorIs(t, err, ErrNotFound)

	env.Notes.take()
	env.Clock.Advance(time.Minute)
	out, err := env.Svc.UpdateOrderStatus(env.ctx, v.ID, "served")
	require.NoError(t, err)
	assert.Equal(t, models.OrderServed, out.Status)
	assert.True(t, t0.Add(time.Minute).Equal(out.StatusChangedAt))
	assert.Equal(t, models.BayOccupied, env.bayStatus(t, 8))

	msgs := env.Notes.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, transport.MsgOrderStatusUpdate, msgs[0].Type)
	change := msgs[0].Data.(OrderStatusChange)
	assert.Equal(t, models.OrderNew, change.PreviousStatus)
	assert.Equal(t, models.OrderServed, change.Status)
	require.NotNil(t, change.Bay)
	assert.Equal(t, models.BayOccupied, change.Bay.Status)

	_, err = env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderDining)
	require.NoError(t, err)
	_, err = env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, models.BayEmpty, env.bayStatus(t, 8))

	_, err = env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition, "paid is final")
}

func TestCancelOrder_VoidsItems(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 9, env.Fries, env.Wings)
	_, err := env.Svc.FireItem(env.ctx, v.Items[0].ID)
	require.NoError(t, err)

	out, err := env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, out.Status)
	for _, it := range out.Items {
		assert.Equal(t, models.ItemVoided, it.Status)
	}
	assert.Zero(t, out.ElapsedSeconds)
	assert.False(t, out.IsDelayed)
	assert.Equal(t, models.BayOccupied, env.bayStatus(t, 9))

	_, err = env.Svc.MarkReady(env.ctx, v.Items[0].ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

// Serving one order must not release a bay that still has food cooking.
func TestBayStatus_OtherOpenOrders(t *testing.T) {
	env := newTestEnv(t)

	first := env.order(t, 7, env.Instant)
	second := env.order(t, 7, env.Fries)
	_, err := env.Svc.FireItem(env.ctx, second.Items[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.BayActive, env.bayStatus(t, 7))

	_, err = env.Svc.UpdateOrderStatus(env.ctx, first.ID, models.OrderServed)
	require.NoError(t, err)
	assert.Equal(t, models.BayActive, env.bayStatus(t, 7))

	_, err = env.Svc.UpdateOrderStatus(env.ctx, second.ID, models.OrderServed)
	require.NoError(t, err)
	assert.Equal(t, models.BayOccupied, env.bayStatus(t, 7))

	_, err = env.Svc.UpdateOrderStatus(env.ctx, first.ID, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, models.BayOccupied, env.bayStatus(t, 7), "second order still unpaid")

	_, err = env.Svc.UpdateOrderStatus(env.ctx, second.ID, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, models.BayEmpty, env.bayStatus(t, 7))
}

func TestBayStatus_SingleOrderServed(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 7, env.Fries)
	require.Equal(t, models.BayActive, env.bayStatus(t, 7))

	_, err := env.Svc.UpdateOrderStatus(env.ctx, v.ID, models.OrderServed)
	require.NoError(t, err)
	assert.NotEqual(t, models.BayActive, env.bayStatus(t, 7))
}

func TestReadViews(t *testing.T) {
	env := newTestEnv(t)

	v := env.order(t, 3, env.Fries, env.Wings)
	_, err := env.Svc.FireItem(env.ctx, v.Items[0].ID)
	require.NoError(t, err)

	env.Clock.Advance(301 * time.Second)
	got, err := env.Svc.GetOrder(env.ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 301, got.ElapsedSeconds)
	assert.False(t, got.IsDelayed)
	assert.True(t, got.Items[0].ReadyToCheck)
	assert.Nil(t, got.Items[0].SecondsUntilDrop)
	assert.False(t, got.Items[1].ReadyToCheck)
	require.NotNil(t, got.Items[1].SecondsUntilDrop)
	assert.Zero(t, *got.Items[1].SecondsUntilDrop, "wings are late to drop")

	env.Clock.Set(t0.Add(720*time.Second + 2*time.Minute + 5*time.Second))
	got, err = env.Svc.GetOrder(env.ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDelayed)
	assert.Equal(t, 5, got.SecondsDelayed)

	byBay, err := env.Svc.GetOrdersByBay(env.ctx, 3)
	require.NoError(t, err)
	require.Len(t, byBay, 1)
	_, err = env.Svc.GetOrdersByBay(env.ctx, 77)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.Svc.GetOrder(env.ctx, 12345)
	require.ErrorIs(t, err, ErrNotFound)

	bays, err := env.Svc.ListBays(env.ctx)
	require.NoError(t, err)
	assert.Len(t, bays, 10)
	_, err = env.Svc.GetBay(env.ctx, 11)
	require.ErrorIs(t, err, ErrNotFound)

	menu, err := env.Svc.ListMenu(env.ctx)
	require.NoError(t, err)
	assert.Len(t, menu, 3, "inactive items are hidden")
}
