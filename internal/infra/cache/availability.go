package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
)

// Key identifies one engine result. Lead time is not part of it: cached
// results are stored before the cutoff is applied.
type Key struct {
	BarberID       uint
	From           calendar.Date
	To             calendar.Date
	ServiceMin     int
	GranularityMin int
	Timezone       string
}

// AvailabilityCache stores engine results in Redis. Every barber has a version
// counter that is part of the key; bumping it orphans all cached results of
// that barber, which then expire on their TTL.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl, log: log}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

type cachedDay struct {
	Date   string      `json:"date"`
	Starts []time.Time `json:"starts"`
}

func versionKey(barberID uint) string {
	return fmt.Sprintf("availability:ver:%d", barberID)
}

func (c *AvailabilityCache) version(ctx context.Context, barberID uint) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(barberID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *AvailabilityCache) resultKey(ctx context.Context, k Key) (string, error) {
	ver, err := c.version(ctx, k.BarberID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("availability:%d:v%d:%s:%s:%d:%d:%s",
		k.BarberID, ver, k.From, k.To, k.ServiceMin, k.GranularityMin, k.Timezone), nil
}

// Entry is a cache slot pinned to the barber version read by Get. A result
// computed after a miss is stored through it, so an Invalidate that lands
// while computing leaves the write under the old version.
type Entry struct {
	key string
}

// Get returns a cached result and the entry to store a fresh one under. Any
// Redis or decoding failure is a miss.
func (c *AvailabilityCache) Get(ctx context.Context, k Key) (availability.Result, Entry, bool) {
	if c.ttl <= 0 {
		return availability.Result{}, Entry{}, false
	}

	key, err := c.resultKey(ctx, k)
	if err != nil {
		c.log.Warn().Err(err).Uint("barber_id", k.BarberID).Msg("availability cache version read failed")
		return availability.Result{}, Entry{}, false
	}
	entry := Entry{key: key}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("availability cache read failed")
		}
		return availability.Result{}, entry, false
	}

	var days []cachedDay
	if err := json.Unmarshal(raw, &days); err != nil {
		return availability.Result{}, entry, false
	}

	res := availability.Result{Days: make([]availability.DaySlots, 0, len(days))}
	for _, d := range days {
		date, err := calendar.ParseDate(d.Date)
		if err != nil {
			return availability.Result{}, entry, false
		}
		starts := d.Starts
		if starts == nil {
			starts = []time.Time{}
		}
		res.Days = append(res.Days, availability.DaySlots{Date: date, Starts: starts})
	}
	return res, entry, true
}

// Set stores res under an entry returned by Get. The zero Entry is ignored.
func (c *AvailabilityCache) Set(ctx context.Context, e Entry, res availability.Result) {
	if c.ttl <= 0 || e.key == "" {
		return
	}

	days := make([]cachedDay, 0, len(res.Days))
	for _, d := range res.Days {
		days = append(days, cachedDay{Date: d.Date.String(), Starts: d.Starts})
	}
	data, err := json.Marshal(days)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, e.key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", e.key).Msg("availability cache write failed")
	}
}

// Invalidate bumps the barber's version.
func (c *AvailabilityCache) Invalidate(ctx context.Context, barberID uint) error {
	return c.rdb.Incr(ctx, versionKey(barberID)).Err()
}

// Nop never hits. It is used when no Redis is configured.
type Nop struct{}

func (Nop) Get(context.Context, Key) (availability.Result, Entry, bool) {
	return availability.Result{}, Entry{}, false
}
func (Nop) Set(context.Context, Entry, availability.Result) {}
func (Nop) Invalidate(context.Context, uint) error          { return nil }
