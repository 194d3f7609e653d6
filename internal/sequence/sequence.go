package sequence

import (
	"math/rand/v2"

	"go.uber.org/atomic"
)

// Default seed band. Starting somewhere inside it makes it unlikely that a
// restarted process hands out numbers already issued by the previous one.
const (
	DefaultSeedMin uint64 = 35793459931950
	DefaultSeedMax uint64 = 42317106661483
)

// Source hands out monotonically increasing numbers. It is safe for concurrent use.
type Source struct {
	next atomic.Uint64
}

// NewSource returns a Source whose first number is start.
func NewSource(start uint64) *Source {
	s := &Source{}
	s.next.Store(start)
	return s
}

// NewRandomSource returns a Source seeded uniformly from [min, max).
// If the band is empty, min is used.
func NewRandomSource(min, max uint64) *Source {
	if max <= min {
		return NewSource(min)
	}
	return NewSource(min + rand.Uint64N(max-min))
}

// Next returns the current number and advances the counter by one.
func (s *Source) Next() uint64 {
	return s.next.Inc() - 1
}

// Current returns the number the next call to Next will return.
func (s *Source) Current() uint64 {
	return s.next.Load()
}
