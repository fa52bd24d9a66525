package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

const (
	keyPrefix     = "docproche:slots:"
	versionPrefix = keyPrefix + "ver:"
)

// NoVersion is returned when the current version could not be read. Results
// computed under it are not cached.
const NoVersion int64 = -1

func doctorPrefix(doctorID string) string {
	return keyPrefix + doctorID + ":"
}

func key(doctorID string, version int64, date string) string {
	return doctorPrefix(doctorID) + "v" + strconv.FormatInt(version, 10) + ":" + date
}

func versionKey(doctorID string) string {
	return versionPrefix + doctorID
}

// Availability caches free slots in process (L1) and optionally in Redis
// (L2) so that several API instances share computed results.
//
// Entries are keyed by a per-doctor version. Invalidate bumps the version,
// in Redis when it is configured, so every instance stops reading older
// entries at once, and results computed before the bump are stored under a
// key nobody reads anymore.
type Availability struct {
	local    *expirable.LRU[string, []models.AvailableSlot]
	redis    *redis.Client
	redisTTL time.Duration
	log      *logger.Logger

	mu       sync.Mutex
	versions map[string]int64 // used without Redis
}

// NewAvailability builds the cache. rdb may be nil to run without L2.
func NewAvailability(size int, localTTL time.Duration, rdb *redis.Client, redisTTL time.Duration, log *logger.Logger) *Availability {
	return &Availability{
		local:    expirable.NewLRU[string, []models.AvailableSlot](size, nil, localTTL),
		redis:    rdb,
		redisTTL: redisTTL,
		log:      log,
		versions: map[string]int64{},
	}
}

func (c *Availability) version(ctx context.Context, doctorID string) int64 {
	if c.redis == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.versions[doctorID]
	}

	v, err := c.redis.Get(ctx, versionKey(doctorID)).Int64()
	switch {
	case err == nil:
		return v
	case errors.Is(err, redis.Nil):
		return 0
	default:
		c.log.WithComponent("cache").WithError(err).Warn("redis version read failed, bypassing cache")
		return NoVersion
	}
}

// Get returns the cached slots and the version they were looked up under.
// On a miss the version is still returned and must be handed to Set.
func (c *Availability) Get(ctx context.Context, doctorID, date string) ([]models.AvailableSlot, int64, bool) {
	version := c.version(ctx, doctorID)
	if version == NoVersion {
		return nil, NoVersion, false
	}

	k := key(doctorID, version, date)
	if slots, ok := c.local.Get(k); ok {
		return slots, version, true
	}
	if c.redis == nil {
		return nil, version, false
	}

	data, err := c.redis.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithComponent("cache").WithError(err).Warn("redis get failed")
		}
		return nil, version, false
	}

	var slots []models.AvailableSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		c.log.WithComponent("cache").WithError(err).Warn("discarding undecodable cache entry")
		c.redis.Del(ctx, k)
		return nil, version, false
	}

	c.local.Add(k, slots)
	return slots, version, true
}

// Set stores slots computed after a Get that returned version.
func (c *Availability) Set(ctx context.Context, doctorID, date string, version int64, slots []models.AvailableSlot) {
	if version == NoVersion {
		return
	}
	k := key(doctorID, version, date)
	c.local.Add(k, slots)
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, k, data, c.redisTTL).Err(); err != nil {
		c.log.WithComponent("cache").WithError(err).Warn("redis set failed")
	}
}

// Invalidate forgets every cached date of the doctor on all instances.
func (c *Availability) Invalidate(ctx context.Context, doctorID string) {
	prefix := doctorPrefix(doctorID)
	for _, k := range c.local.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.local.Remove(k)
		}
	}

	if c.redis == nil {
		c.mu.Lock()
		c.versions[doctorID]++
		c.mu.Unlock()
		return
	}

	if err := c.redis.Incr(ctx, versionKey(doctorID)).Err(); err != nil {
		c.log.WithComponent("cache").WithError(err).WithField("doctor_id", doctorID).Error("redis version bump failed")
		return
	}

	// old versions are unreachable now; drop them instead of waiting for TTL
	var keys []string
	iter := c.redis.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WithComponent("cache").WithError(err).Warn("redis scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.WithComponent("cache").WithError(err).Warn("redis delete failed")
	}
}

func (c *Availability) Len() int {
	return c.local.Len()
}

// Noop disables caching.
type Noop struct{}

func (Noop) Get(context.Context, string, string) ([]models.AvailableSlot, int64, bool) {
	return nil, NoVersion, false
}
func (Noop) Set(context.Context, string, string, int64, []models.AvailableSlot) {}
func (Noop) Invalidate(context.Context, string)                                 {}
