// Package uptime tracks how long the process has been serving.
package uptime

import (
	"fmt"
	"time"
)

// Clock holds the process start instant. It is set once in New and only read
// afterwards, so a single Clock is safe to share between goroutines.
type Clock struct {
	start time.Time
	now   func() time.Time
}

func New() *Clock {
	return NewAt(time.Now(), time.Now)
}

// NewAt builds a Clock with an explicit start and time source.
func NewAt(start time.Time, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{start: start, now: now}
}

func (c *Clock) Start() time.Time { return c.start }

func (c *Clock) Now() time.Time { return c.now() }

// Elapsed returns whole seconds between start and t, never negative.
// With time.Now on both ends the monotonic reading is used, so wall clock
// steps do not move it backwards.
func (c *Clock) Elapsed(t time.Time) int64 {
	d := t.Sub(c.start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

func (c *Clock) Seconds() int64 {
	return c.Elapsed(c.now())
}

// Human renders seconds as "<H> hours, <M> minutes". Leftover seconds are dropped.
func Human(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
}

// Timestamp formats t as RFC 3339 in UTC ("Z" offset).
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
