package dataset

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"nq-browser/internal/observability/metrics"
)

// CountCache memoizes the record count of each dataset for the life of the process.
// Concurrent misses on the same id share one computation; distinct ids never wait
// on each other. Failed computations are not stored.
type CountCache struct {
	values sync.Map // dataset id -> int64
	group  singleflight.Group
	size   atomic.Int64
}

// NewCountCache returns an empty cache.
func NewCountCache() *CountCache {
	return &CountCache{}
}

// GetOrCompute returns the cached count for id, running compute on the first request.
//
// compute runs detached from the cancellation of the caller that started it, so
// callers sharing the flight are not failed by one of them going away. A caller
// whose ctx ends first returns ctx.Err() and the computation carries on for the
// others.
func (c *CountCache) GetOrCompute(ctx context.Context, id string, compute func(context.Context) (int64, error)) (int64, error) {
	if v, ok := c.values.Load(id); ok {
		metrics.RecordCacheHit()
		return v.(int64), nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (interface{}, error) {
		// A flight for id may have finished between Load and DoChan.
		if v, ok := c.values.Load(id); ok {
			metrics.RecordCacheHit()
			return v, nil
		}
		metrics.RecordCacheMiss()

		n, err := compute(detached)
		if err != nil {
			metrics.RecordCacheError()
			return nil, err
		}
		c.values.Store(id, n)
		metrics.SetCacheEntries(int(c.size.Add(1)))
		return n, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Peek returns the cached count for id without computing it.
func (c *CountCache) Peek(id string) (int64, bool) {
	v, ok := c.values.Load(id)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// Len returns the number of cached counts.
func (c *CountCache) Len() int {
	return int(c.size.Load())
}
