package timezone

import (
	"fmt"
	"sync"
	"time"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Zones resolves barbershop timezones, falling back to the configured shop
// timezone when a barbershop has none or an invalid one.
type Zones struct {
	fallback *time.Location
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]*time.Location
}

func New(fallback string) (*Zones, error) {
	loc, err := time.LoadLocation(fallback)
	if err != nil {
		return nil, fmt.Errorf("load fallback timezone %q: %w", fallback, err)
	}
	return &Zones{
		fallback: loc,
		now:      time.Now,
		cache:    map[string]*time.Location{},
	}, nil
}

// WithClock replaces the wall clock, for tests.
func (z *Zones) WithClock(now func() time.Time) *Zones {
	z.now = now
	return z
}

func (z *Zones) Fallback() *time.Location {
	return z.fallback
}

func (z *Zones) Location(tz string) *time.Location {
	if tz == "" {
		return z.fallback
	}

	z.mu.RLock()
	loc, ok := z.cache[tz]
	z.mu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return z.fallback
	}

	z.mu.Lock()
	z.cache[tz] = loc
	z.mu.Unlock()
	return loc
}

func (z *Zones) Now() time.Time {
	return z.now()
}

func (z *Zones) NowIn(tz string) time.Time {
	return z.now().In(z.Location(tz))
}
