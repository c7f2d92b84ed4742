package irradiance

import (
	"context"
	"time"

	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/models"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a provider answer is reused.
const DefaultCacheTTL = 24 * time.Hour

// Resolver returns irradiance for a location and never fails: provider
// errors and timeouts degrade to Fallback. Fallback answers are not cached,
// so the provider is retried on the next request.
type Resolver struct {
	provider Provider
	cache    *ttlCache
	group    singleflight.Group
	timeout  time.Duration
	log      *logger.Logger
}

// NewResolver wraps provider. A nil provider always yields Fallback.
func NewResolver(provider Provider, cacheTTL, timeout time.Duration, log *logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		provider: provider,
		cache:    newTTLCache(cacheTTL),
		timeout:  timeout,
		log:      log,
	}
}

// Resolve returns irradiance for coords.
func (r *Resolver) Resolve(ctx context.Context, coords models.Coordinates) models.SolarIrradianceData {
	if r.provider == nil {
		return Fallback(coords.Lat)
	}

	key := cacheKey(coords.Lat, coords.Lon)
	if data, ok := r.cache.get(key); ok {
		return data
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := r.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		data, err := r.provider.Fetch(fctx, coords.Lat, coords.Lon)
		if err != nil {
			return nil, err
		}
		r.cache.set(key, *data)
		return *data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			r.warn("irradiance provider failed, using latitude estimate", coords, res.Err)
			return Fallback(coords.Lat)
		}
		return res.Val.(models.SolarIrradianceData)
	case <-ctx.Done():
		r.warn("irradiance lookup abandoned, using latitude estimate", coords, ctx.Err())
		return Fallback(coords.Lat)
	}
}

func (r *Resolver) warn(msg string, coords models.Coordinates, err error) {
	if r.log == nil {
		return
	}
	r.log.Warn(msg, map[string]interface{}{
		"lat":   coords.Lat,
		"lon":   coords.Lon,
		"error": err.Error(),
	})
}
