package cache

import (
	"encoding/binary"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"prediction-service/internal/core/domain"
	ports "prediction-service/internal/core/ports/output"
)

type lruCache struct {
	entries *lru.Cache[string, *domain.PredictionResult]
}

// NewLRU creates a bounded prediction cache. size must be positive.
func NewLRU(size int) (ports.PredictionCache, error) {
	entries, err := lru.New[string, *domain.PredictionResult](size)
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}
	return &lruCache{entries: entries}, nil
}

// Get returns a copy of the cached result.
func (c *lruCache) Get(vec domain.FeatureVector) (*domain.PredictionResult, bool) {
	result, ok := c.entries.Get(key(vec))
	if !ok {
		return nil, false
	}
	return result.Clone(), true
}

// Add stores a copy of result; later changes by the caller are not cached.
func (c *lruCache) Add(vec domain.FeatureVector, result *domain.PredictionResult) {
	c.entries.Add(key(vec), result.Clone())
}

func (c *lruCache) Len() int {
	return c.entries.Len()
}

// key encodes the exact float bits, so 0.1 and 0.1000000001 never collide.
// -0 and +0 map to the same key; every classifier here treats them equally.
func key(vec domain.FeatureVector) string {
	buf := make([]byte, 8*vec.Len())
	for i := 0; i < vec.Len(); i++ {
		v := vec.At(i)
		if v == 0 {
			v = 0
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}
