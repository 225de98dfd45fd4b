package nnue

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// WeightCache caches parsed Network blobs keyed by a caller-supplied key
// (internal/engine uses the weight file's path), so repeated
// `setoption EvalFile`/`ucinewgame` reloads of the same network skip
// re-parsing the blob. Grounded on hailam-chessplay's transitive use of
// github.com/dgraph-io/ristretto/v2 (pulled in via badger) — promoted here
// to a direct dependency for exactly the small, cost-aware in-memory cache
// ristretto is built for (see SPEC_FULL.md DOMAIN STACK).
type WeightCache struct {
	cache *ristretto.Cache[string, *Network]
}

// NewWeightCache builds a cache sized for a handful of resident networks
// (each Network is about 0.4 MB once quantized; a few dozen MB of
// cache capacity comfortably holds the common case of one or two distinct
// EvalFile reloads per session).
func NewWeightCache() (*WeightCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *Network]{
		NumCounters: 1e4,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("nnue: building weight cache: %w", err)
	}
	return &WeightCache{cache: c}, nil
}

// Get returns a previously cached network for key, if present.
func (wc *WeightCache) Get(key string) (*Network, bool) {
	return wc.cache.Get(key)
}

// Put stores net under key with a cost proportional to its quantized size.
func (wc *WeightCache) Put(key string, net *Network) {
	const cost = int64(FeatureCount*H*2 + H*2 + 2*H + 4)
	wc.cache.Set(key, net, cost)
	wc.cache.Wait()
}
