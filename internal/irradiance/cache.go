package irradiance

import (
	"fmt"
	"sync"
	"time"

	"github.com/stwalsh4118/helios/internal/models"
)

type cacheEntry struct {
	data      models.SolarIrradianceData
	expiresAt time.Time
}

// ttlCache holds provider answers keyed by rounded coordinates. Expired
// entries are dropped on read.
type ttlCache struct {
	store sync.Map
	ttl   time.Duration
	now   func() time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{ttl: ttl, now: time.Now}
}

func (c *ttlCache) get(key string) (models.SolarIrradianceData, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return models.SolarIrradianceData{}, false
	}
	e := val.(cacheEntry)
	if c.now().After(e.expiresAt) {
		c.store.Delete(key)
		return models.SolarIrradianceData{}, false
	}
	return e.data, true
}

func (c *ttlCache) set(key string, data models.SolarIrradianceData) {
	if c.ttl <= 0 {
		return
	}
	c.store.Store(key, cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)})
}

// cacheKey rounds to two decimals, roughly a kilometre.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}
