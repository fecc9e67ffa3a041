// Package usage implements the free-tier daily generation quota.
package usage

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is how the calendar day is stored
const DateLayout = "2006-01-02"

// DefaultDailyLimit applies when the config leaves usage.daily_limit unset
const DefaultDailyLimit = 3

// ErrQuotaExceeded is returned by Allow once the free quota is spent for the day
var ErrQuotaExceeded = errors.New("daily free quota reached")

// Status is the counter's state
type Status int

const (
	FreeUnderQuota Status = iota
	FreeAtQuota
	Premium
)

func (s Status) String() string {
	switch s {
	case FreeUnderQuota:
		return "free"
	case FreeAtQuota:
		return "free (quota reached)"
	case Premium:
		return "premium"
	default:
		return "unknown"
	}
}

// State is the persisted part of the counter
type State struct {
	Date    string `yaml:"date"`
	Count   int    `yaml:"count"`
	Premium bool   `yaml:"premium"`
}

// Store persists State between runs
type Store interface {
	LoadUsage() (State, error)
	SaveUsage(State) error
}

// Counter gates generation cycles against the daily limit
type Counter struct {
	limit int
	clock func() time.Time
	store Store
	state State
}

// NewCounter loads the stored state. A nil store keeps the state in memory.
func NewCounter(limit int, store Store, clock func() time.Time) (*Counter, error) {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if clock == nil {
		clock = time.Now
	}

	c := &Counter{limit: limit, clock: clock, store: store}
	if store != nil {
		st, err := store.LoadUsage()
		if err != nil {
			return nil, fmt.Errorf("load usage: %w", err)
		}
		c.state = st
	}
	return c, nil
}

func (c *Counter) today() string {
	return c.clock().Format(DateLayout)
}

// rollover resets the count when the stored day is not today.
// Returns true when the state changed.
func (c *Counter) rollover() bool {
	today := c.today()
	if c.state.Date == today {
		return false
	}
	c.state.Date = today
	c.state.Count = 0
	return true
}

func (c *Counter) save() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.SaveUsage(c.state); err != nil {
		return fmt.Errorf("save usage: %w", err)
	}
	return nil
}

// count is today's usage without touching the stored state
func (c *Counter) count() int {
	if c.state.Date != c.today() {
		return 0
	}
	return c.state.Count
}

// Status reports the current state as of the clock's calendar day
func (c *Counter) Status() Status {
	if c.state.Premium {
		return Premium
	}
	if c.count() >= c.limit {
		return FreeAtQuota
	}
	return FreeUnderQuota
}

// Allow checks whether a new generation cycle may start
func (c *Counter) Allow() error {
	if c.state.Premium {
		return nil
	}
	if c.rollover() {
		if err := c.save(); err != nil {
			return err
		}
	}
	if c.state.Count >= c.limit {
		return ErrQuotaExceeded
	}
	return nil
}

// Record counts one completed generation cycle
func (c *Counter) Record() error {
	if c.state.Premium {
		return nil
	}
	c.rollover()
	c.state.Count++
	return c.save()
}

// SetPremium toggles the quota bypass
func (c *Counter) SetPremium(on bool) error {
	c.state.Premium = on
	return c.save()
}

// Remaining is the number of free cycles left today; -1 for premium
func (c *Counter) Remaining() int {
	if c.state.Premium {
		return -1
	}
	if n := c.limit - c.count(); n > 0 {
		return n
	}
	return 0
}

// Limit is the configured daily limit
func (c *Counter) Limit() int {
	return c.limit
}

// State returns a copy of the current state
func (c *Counter) State() State {
	return c.state
}
