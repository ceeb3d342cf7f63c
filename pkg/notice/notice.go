package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a transient notice stays on screen.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notice struct {
	ID   uuid.UUID
	Kind Kind
	Text string
}

// Timer is the stoppable handle behind an auto-clear.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d. Tests substitute a manual clock here.
type TimerFactory func(d time.Duration, fn func()) Timer

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

func afterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// Center holds at most one transient notice. A new notice supersedes the
// previous one and cancels its pending auto-clear, so notices never stack
// and a stale timer cannot wipe a fresher message.
type Center struct {
	mu       sync.Mutex
	ttl      time.Duration
	newTimer TimerFactory
	current  *Notice
	timer    Timer
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, newTimer: afterFunc}
}

// NewCenterWithTimer is the test constructor: the factory decides when the
// auto-clear actually fires.
func NewCenterWithTimer(ttl time.Duration, factory TimerFactory) *Center {
	c := NewCenter(ttl)
	c.newTimer = factory
	return c
}

// Flash replaces the current notice and restarts the auto-clear window.
func (c *Center) Flash(kind Kind, text string) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}

	n := Notice{ID: uuid.New(), Kind: kind, Text: text}
	c.current = &n
	id := n.ID
	c.timer = c.newTimer(c.ttl, func() { c.expire(id) })
	return n
}

// Current returns a copy of the active notice, or nil when none is showing.
func (c *Center) Current() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	n := *c.current
	return &n
}

func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}

// expire clears only the notice it was armed for; a superseded notice's
// expiry must not touch its replacement.
func (c *Center) expire(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.ID == id {
		c.current = nil
		c.timer = nil
	}
}
