package timing

import "time"

// Calculator binds a Config to a Clock so callers do not thread "now"
// through every call.
type Calculator struct {
	Config Config
	Clock  Clock
}

func NewCalculator(cfg Config, clock Clock) Calculator {
	if clock == nil {
		clock = SystemClock
	}
	return Calculator{Config: cfg, Clock: clock}
}

func (c Calculator) Now() time.Time {
	return c.Clock.Now().UTC()
}

func (c Calculator) ExpectedReady(createdAt time.Time, cookSeconds []int) time.Time {
	return ExpectedReady(c.Config, createdAt, cookSeconds)
}

func (c Calculator) DropAt(cookSeconds int, expectedReady time.Time) time.Time {
	return DropAt(c.Config, cookSeconds, expectedReady)
}

func (c Calculator) IsDelayed(expectedReadyAt time.Time) bool {
	return IsDelayed(c.Config, c.Now(), expectedReadyAt)
}

func (c Calculator) SecondsUntilDrop(dropAt time.Time) int {
	return SecondsUntilDrop(c.Now(), dropAt)
}

func (c Calculator) SecondsDelayed(expectedReadyAt time.Time) int {
	return SecondsDelayed(c.Config, c.Now(), expectedReadyAt)
}

func (c Calculator) ElapsedSeconds(since time.Time) int {
	return ElapsedSeconds(c.Now(), since)
}

// OrderDelayed prefers the stored estimate; orders without one fall back
// to the flat elapsed-time threshold.
func (c Calculator) OrderDelayed(createdAt time.Time, estimate *time.Time) bool {
	if estimate != nil {
		return c.IsDelayed(*estimate)
	}
	return c.Now().Sub(createdAt) > c.Config.DelayThreshold
}

// OrderSecondsDelayed mirrors OrderDelayed.
func (c Calculator) OrderSecondsDelayed(createdAt time.Time, estimate *time.Time) int {
	if estimate != nil {
		return c.SecondsDelayed(*estimate)
	}
	return clampSeconds(c.Now().Sub(createdAt.Add(c.Config.DelayThreshold)))
}
