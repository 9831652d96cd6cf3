package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/repo"
	"github.com/swingeats/swingeats/internal/timing"
	"github.com/swingeats/swingeats/internal/transport"
)

var t0 = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

type sent struct {
	BayID uint // zero for broadcasts
	Type  string
	Data  any
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []sent
}

func (f *fakeNotifier) Broadcast(msgType string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, sent{Type: msgType, Data: data})
}

func (f *fakeNotifier) SendToBay(bayID uint, msgType string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, sent{BayID: bayID, Type: msgType, Data: data})
}

func (f *fakeNotifier) take() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.msgs
	f.msgs = nil
	return out
}

type fakePublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event.(OrderEvent))
	return nil
}

type testEnv struct {
	Repo    *repo.GormRepo
	Svc     *OrderService
	Clock   *timing.ManualClock
	Notes   *fakeNotifier
	Events  *fakePublisher
	Fries   models.MenuItem // 300s
	Wings   models.MenuItem // 600s
	Sold    models.MenuItem // inactive
	Instant models.MenuItem // no prep time
	ctx     context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvDSN(t, ":memory:", 1)
}

// newConcurrentTestEnv backs the engine with a file database and a pool, so
// calls from several goroutines reach sqlite on separate connections.
func newConcurrentTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "swingeats.db") +
		"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	return newTestEnvDSN(t, dsn, 8)
}

func newTestEnvDSN(t *testing.T, dsn string, conns int) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))

	bays := make([]models.Bay, 0, 10)
	for i := uint(1); i <= 10; i++ {
		bays = append(bays, models.Bay{ID: i, Floor: int(i%3) + 1, Status: models.BayEmpty})
	}
	require.NoError(t, r.EnsureBays(ctx, bays))

	env := &testEnv{Repo: r, Clock: timing.NewManualClock(t0), Notes: &fakeNotifier{}, Events: &fakePublisher{}, ctx: ctx}
	env.Fries = env.menu(t, "Fries", 450, "Fryer", 300, true)
	env.Wings = env.menu(t, "Wings", 1600, "Fryer", 600, true)
	env.Sold = env.menu(t, "Brisket", 2400, "Smoker", 900, false)
	env.Instant = env.menu(t, "Soda", 300, "Bar", 0, true)

	env.Svc = NewOrderService(r, env.Notes, env.Events, timing.NewCalculator(timing.DefaultConfig(), env.Clock), nil)
	return env
}

func (e *testEnv) menu(t *testing.T, name string, cents int64, station string, prep int, active bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Category: "Food", PriceCents: cents, Station: station, PrepSeconds: prep, Active: active}
	require.NoError(t, e.Repo.UpsertMenuItem(e.ctx, &item))
	return item
}

func (e *testEnv) order(t *testing.T, bayID uint, menu ...models.MenuItem) *OrderView {
	t.Helper()
	req := transport.CreateOrderRequest{BayID: bayID}
	for _, m := range menu {
		req.Items = append(req.Items, transport.CreateOrderItem{MenuItemID: m.ID, Quantity: 1})
	}
	v, err := e.Svc.CreateOrder(e.ctx, req)
	require.NoError(t, err)
	return v
}

func (e *testEnv) bayStatus(t *testing.T, id uint) models.BayStatus {
	t.Helper()
	bay, err := e.Repo.GetBay(e.ctx, id)
	require.NoError(t, err)
	return bay.Status
}

func (e *testEnv) orderStatus(t *testing.T, id uint) models.OrderStatus {
	t.Helper()
	o, err := e.Repo.GetOrder(e.ctx, id)
	require.NoError(t, err)
	return o.Status
}

// wire round-trips a payload the way the hub would serialize it.
func wire(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
