package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

func TestExpectedReady_PicksLongestCook(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	got := ExpectedReady(cfg, base, []int{300, 600})

	assert.Equal(t, base.Add(600*time.Second+60*time.Second+60*time.Second), got)
	assert.NotEqual(t, base.Add(420*time.Second), got)
}

func TestExpectedReady_OrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, ExpectedReady(cfg, base, []int{600, 300, 120}), ExpectedReady(cfg, base, []int{120, 300, 600}))
}

func TestExpectedReady_NoItemsUsesDefaultCook(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, base.Add(420*time.Second), ExpectedReady(cfg, base, nil))
}

func TestExpectedReady_CustomBuffers(t *testing.T) {
	t.Parallel()

	cfg := Config{PrepBuffer: 30 * time.Second, ExpoBuffer: 90 * time.Second, DefaultCookSeconds: 100}
	assert.Equal(t, base.Add(5*time.Minute+2*time.Minute), ExpectedReady(cfg, base, []int{300}))
}

func TestDropAt(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	expected := ExpectedReady(cfg, base, []int{300, 600})

	long := DropAt(cfg, 600, expected)
	short := DropAt(cfg, 300, expected)

	assert.Equal(t, base.Add(60*time.Second), long)
	assert.Equal(t, base.Add(360*time.Second), short)
	// both finish together
	assert.Equal(t, long.Add(600*time.Second), short.Add(300*time.Second))
}

func TestIsDelayed_GraceBoundary(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	expected := base.Add(10 * time.Minute)
	threshold := expected.Add(cfg.DelayGrace)

	assert.False(t, IsDelayed(cfg, threshold.Add(-time.Second), expected))
	assert.False(t, IsDelayed(cfg, threshold, expected))
	assert.True(t, IsDelayed(cfg, threshold.Add(time.Second), expected))
}

func TestCountdownsNeverNegative(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, 0, SecondsUntilDrop(base, base.Add(-time.Hour)))
	assert.Equal(t, 90, SecondsUntilDrop(base, base.Add(90*time.Second)))

	assert.Equal(t, 0, SecondsDelayed(cfg, base, base.Add(time.Hour)))
	assert.Equal(t, 0, SecondsDelayed(cfg, base.Add(cfg.DelayGrace), base))
	assert.Equal(t, 30, SecondsDelayed(cfg, base.Add(cfg.DelayGrace+30*time.Second), base))

	assert.Equal(t, 0, ElapsedSeconds(base, base.Add(time.Minute)))
	assert.Equal(t, 60, ElapsedSeconds(base.Add(time.Minute), base))
}

func TestCalculator_OrderDelayed(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(base)
	calc := NewCalculator(DefaultConfig(), clock)

	estimate := base.Add(10 * time.Minute)
	require.False(t, calc.OrderDelayed(base, &estimate))
	require.False(t, calc.OrderDelayed(base, nil))

	clock.Advance(12*time.Minute + time.Second)
	assert.True(t, calc.OrderDelayed(base, &estimate))
	assert.Equal(t, 1, calc.OrderSecondsDelayed(base, &estimate))
	assert.False(t, calc.OrderDelayed(base, nil), "threshold fallback is 20 minutes")

	clock.Set(base.Add(20*time.Minute + 5*time.Second))
	assert.True(t, calc.OrderDelayed(base, nil))
	assert.Equal(t, 5, calc.OrderSecondsDelayed(base, nil))
}

func TestNewCalculator_DefaultsToSystemClock(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(DefaultConfig(), nil)
	assert.WithinDuration(t, time.Now().UTC(), calc.Now(), time.Second)
	assert.Equal(t, time.UTC, calc.Now().Location())
}
