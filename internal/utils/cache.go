package utils

import (
	"html/template"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// renderCacheSize bounds the number of rendered bodies kept in memory
const renderCacheSize = 500

// RenderCache keeps rendered HTML keyed by a hash of its source, so an edited
// body simply misses and never needs invalidation.
type RenderCache struct {
	lruCache *lru.Cache[uint64, template.HTML]
}

// NewRenderCache creates a cache holding up to size entries
func NewRenderCache(size int) *RenderCache {
	l, err := lru.New[uint64, template.HTML](size)
	if err != nil {
		log.Fatal().Err(err).Int("size", size).Msg("Failed to create render cache")
	}
	return &RenderCache{lruCache: l}
}

func cacheKey(kind, source string) uint64 {
	d := xxhash.New()
	d.WriteString(kind)
	d.WriteString("\x00")
	d.WriteString(source)
	return d.Sum64()
}

// GetOrRender returns the cached output for source or renders and stores it
func (c *RenderCache) GetOrRender(kind, source string, render func(string) template.HTML) template.HTML {
	key := cacheKey(kind, source)
	if out, ok := c.lruCache.Get(key); ok {
		return out
	}
	out := render(source)
	c.lruCache.Add(key, out)
	return out
}

func (c *RenderCache) Len() int {
	return c.lruCache.Len()
}

func (c *RenderCache) Purge() {
	c.lruCache.Purge()
}
