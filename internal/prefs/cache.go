package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
)

const cacheTTL = 10 * time.Minute

// Cache is a read-through redis cache over the preference table. A nil
// *Cache is valid and disables caching; redis trouble is logged and the
// store falls through to the database.
type Cache struct {
	rdb *redis.Client
	log *logging.Logger
}

func NewCache(rdb *redis.Client, log *logging.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, log: log}
}

func cacheKey(callerID int64) string {
	return fmt.Sprintf("prefs:%d", callerID)
}

func (c *Cache) get(ctx context.Context, callerID int64) (CallerPreference, bool) {
	if c == nil {
		return CallerPreference{}, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(callerID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("preference cache read failed", "caller_id", callerID, "error", err)
		}
		return CallerPreference{}, false
	}
	var p CallerPreference
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return CallerPreference{}, false
	}
	return p, true
}

func (c *Cache) put(ctx context.Context, p CallerPreference) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(p.CallerID), raw, cacheTTL).Err(); err != nil {
		c.log.Warn("preference cache write failed", "caller_id", p.CallerID, "error", err)
	}
}

func (c *Cache) invalidate(ctx context.Context, callerID int64) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey(callerID)).Err(); err != nil {
		c.log.Warn("preference cache invalidate failed", "caller_id", callerID, "error", err)
	}
}
