// Package timing holds the kitchen clock math: expected-ready estimates,
// staggered drop times and delay detection. Every function is pure given
// its inputs and "now".
package timing

import (
	"time"
)

const (
	DefaultPrepBuffer     = 60 * time.Second
	DefaultExpoBuffer     = 60 * time.Second
	DefaultDelayGrace     = 120 * time.Second
	DefaultCookSeconds    = 300
	DefaultDelayThreshold = 20 * time.Minute
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reports wall time in UTC.
var SystemClock Clock = systemClock{}

type Config struct {
	PrepBuffer         time.Duration
	ExpoBuffer         time.Duration
	DelayGrace         time.Duration
	DefaultCookSeconds int
	// DelayThreshold applies to orders that carry no completion estimate.
	DelayThreshold time.Duration
}

func DefaultConfig() Config {
	return Config{
		PrepBuffer:         DefaultPrepBuffer,
		ExpoBuffer:         DefaultExpoBuffer,
		DelayGrace:         DefaultDelayGrace,
		DefaultCookSeconds: DefaultCookSeconds,
		DelayThreshold:     DefaultDelayThreshold,
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ExpectedReady is createdAt plus the longest cook time plus both buffers.
// Without any cook times the default cook duration stands in.
func ExpectedReady(cfg Config, createdAt time.Time, cookSeconds []int) time.Time {
	longest := 0
	for _, s := range cookSeconds {
		if s > longest {
			longest = s
		}
	}
	if len(cookSeconds) == 0 {
		longest = cfg.DefaultCookSeconds
	}
	return createdAt.Add(seconds(longest) + cfg.PrepBuffer + cfg.ExpoBuffer)
}

// DropAt is the latest moment an item can start cooking and still be
// plated by expectedReady.
func DropAt(cfg Config, cookSeconds int, expectedReady time.Time) time.Time {
	return expectedReady.Add(-(seconds(cookSeconds) + cfg.ExpoBuffer))
}

func IsDelayed(cfg Config, now, expectedReadyAt time.Time) bool {
	return now.After(expectedReadyAt.Add(cfg.DelayGrace))
}

func SecondsUntilDrop(now, dropAt time.Time) int {
	return clampSeconds(dropAt.Sub(now))
}

// SecondsDelayed counts from the end of the grace window.
func SecondsDelayed(cfg Config, now, expectedReadyAt time.Time) int {
	return clampSeconds(now.Sub(expectedReadyAt.Add(cfg.DelayGrace)))
}

func ElapsedSeconds(now, since time.Time) int {
	return clampSeconds(now.Sub(since))
}

func clampSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}
