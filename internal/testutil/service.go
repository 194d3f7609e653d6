package testutil

import (
	"time"

	"url-shortener-api/internal/cache"
	"url-shortener-api/internal/sequence"
	"url-shortener-api/internal/shortener"
)

// NewService creates an isolated shortener with a small cache, a random seed
// and 8-symbol tokens.
func NewService(maxEntries int, ttl time.Duration, observers ...shortener.Observer) *shortener.Service {
	links := cache.NewExpiringCache(cache.Options[string, string]{
		MaxEntries: maxEntries,
		TTL:        ttl,
	})
	seq := sequence.NewRandomSource(sequence.DefaultSeedMin, sequence.DefaultSeedMax)
	return shortener.NewService(seq, nil, links, shortener.DefaultWidth, observers...)
}
