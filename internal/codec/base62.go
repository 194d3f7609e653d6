package codec

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// Base62Alphabet is the default token alphabet. The order is user-visible:
// digits first, then upper case, then lower case.
const Base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	// ErrOverflow is returned when a value needs more symbols than the width allows,
	// or when a decoded token does not fit in a uint64.
	ErrOverflow = errors.New("codec: value overflows token width")
	// ErrInvalidToken is returned when a token is empty or contains a symbol outside the alphabet.
	ErrInvalidToken = errors.New("codec: invalid token")
	// ErrInvalidWidth is returned when the requested width is less than one.
	ErrInvalidWidth = errors.New("codec: width must be at least 1")
)

// Codec converts unsigned integers to fixed-width tokens over an alphabet and back.
type Codec struct {
	alphabet string
	base     uint64
	index    [256]int16 // -1 for bytes outside the alphabet
}

// Default is the base-62 codec used for short tokens.
var Default = MustNew(Base62Alphabet)

// New builds a codec for the given alphabet. The alphabet needs at least two
// unique single-byte symbols; the first one is the padding (zero) symbol.
func New(alphabet string) (*Codec, error) {
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("codec: alphabet needs at least 2 symbols, got %d", len(alphabet))
	}
	c := &Codec{alphabet: alphabet, base: uint64(len(alphabet))}
	for i := range c.index {
		c.index[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		b := alphabet[i]
		if b >= 0x80 {
			return nil, fmt.Errorf("codec: alphabet symbol %q is not single-byte", b)
		}
		if c.index[b] != -1 {
			return nil, fmt.Errorf("codec: duplicate alphabet symbol %q", b)
		}
		c.index[b] = int16(i)
	}
	return c, nil
}

// MustNew is like New but panics on an invalid alphabet.
func MustNew(alphabet string) *Codec {
	c, err := New(alphabet)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode returns n as exactly width symbols, left-padded with the zero symbol.
func (c *Codec) Encode(n uint64, width int) (string, error) {
	if width < 1 {
		return "", ErrInvalidWidth
	}

	// 64 symbols is enough for a uint64 in base 2, the smallest base allowed.
	var buf [64]byte
	i := len(buf)
	for {
		i--
		buf[i] = c.alphabet[n%c.base]
		n /= c.base
		if n == 0 {
			break
		}
	}

	digits := len(buf) - i
	if digits > width {
		return "", ErrOverflow
	}

	out := make([]byte, width)
	pad := width - digits
	for j := 0; j < pad; j++ {
		out[j] = c.alphabet[0]
	}
	copy(out[pad:], buf[i:])
	return string(out), nil
}

// Decode is the inverse of Encode. Leading zero symbols are accepted.
func (c *Codec) Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidToken
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d := c.index[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("%w: symbol %q at position %d", ErrInvalidToken, s[i], i)
		}
		hi, lo := bits.Mul64(n, c.base)
		if hi != 0 {
			return 0, ErrOverflow
		}
		sum, carry := bits.Add64(lo, uint64(d), 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
		n = sum
	}
	return n, nil
}

// MaxValue returns the largest value representable in width symbols. The
// boolean is false when every uint64 fits, in which case math.MaxUint64 is returned.
func (c *Codec) MaxValue(width int) (uint64, bool) {
	if width < 1 {
		return 0, true
	}
	max := uint64(1)
	for i := 0; i < width; i++ {
		hi, lo := bits.Mul64(max, c.base)
		if hi != 0 {
			return math.MaxUint64, false
		}
		max = lo
	}
	return max - 1, true
}

// Encode encodes n with the default base-62 codec.
func Encode(n uint64, width int) (string, error) {
	return Default.Encode(n, width)
}

// Decode decodes s with the default base-62 codec.
func Decode(s string) (uint64, error) {
	return Default.Decode(s)
}
