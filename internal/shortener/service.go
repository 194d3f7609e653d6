package shortener

import (
	"errors"
	"fmt"
	"log"

	"url-shortener-api/internal/cache"
	"url-shortener-api/internal/codec"
)

// DefaultWidth is the token length used when none is configured.
const DefaultWidth = 8

var (
	// ErrCapacityExhausted means the sequence has outgrown the token width.
	// Restarting with a wider token or a new seed resolves it.
	ErrCapacityExhausted = errors.New("shortener: token space exhausted")
	// ErrNotFound means the token is unknown, evicted or expired.
	ErrNotFound = errors.New("shortener: no matching long URL")
)

// Sequence hands out unique, increasing numbers.
type Sequence interface {
	Next() uint64
}

// Encoder turns a sequence number into a fixed-width token.
type Encoder interface {
	Encode(n uint64, width int) (string, error)
}

// Observer is notified about service outcomes. Methods must not block.
type Observer interface {
	Shortened(token, url string)
	Recovered(token string, found bool)
	Exhausted(seq uint64)
}

// Service maps long URLs to short tokens and back.
type Service struct {
	seq       Sequence
	enc       Encoder
	links     cache.Cache[string, string]
	width     int
	observers []Observer
}

// NewService wires a Service. A nil encoder means the default base-62 codec and
// a width below one means DefaultWidth.
func NewService(seq Sequence, enc Encoder, links cache.Cache[string, string], width int, observers ...Observer) *Service {
	if enc == nil {
		enc = codec.Default
	}
	if width < 1 {
		width = DefaultWidth
	}
	return &Service{
		seq:       seq,
		enc:       enc,
		links:     links,
		width:     width,
		observers: observers,
	}
}

// Width returns the token width.
func (s *Service) Width() int { return s.width }

// Shorten stores url under a fresh token and returns the token. Identical URLs
// get distinct tokens. A sequence number is consumed even when encoding fails.
func (s *Service) Shorten(url string) (string, error) {
	n := s.seq.Next()
	token, err := s.enc.Encode(n, s.width)
	if err != nil {
		if errors.Is(err, codec.ErrOverflow) {
			log.Printf("sequence %d does not fit in %d symbols", n, s.width)
			for _, o := range s.observers {
				o.Exhausted(n)
			}
			return "", fmt.Errorf("%w: %w", ErrCapacityExhausted, err)
		}
		return "", err
	}

	s.links.Put(token, url)
	log.Printf("short url = %s", token)

	for _, o := range s.observers {
		o.Shortened(token, url)
	}
	return token, nil
}

// Recover returns the long URL stored under token.
func (s *Service) Recover(token string) (string, error) {
	url, ok := s.links.Get(token)
	for _, o := range s.observers {
		o.Recovered(token, ok)
	}
	if !ok {
		return "", ErrNotFound
	}
	log.Printf("ori url = %s", url)
	return url, nil
}

// CacheSize returns the number of live mappings.
func (s *Service) CacheSize() int {
	return s.links.Len()
}
