package codec

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_PadsToWidth(t *testing.T) {
	tok, err := Encode(0, 8)
	require.NoError(t, err)
	require.Equal(t, "00000000", tok)

	tok, err = Encode(61, 8)
	require.NoError(t, err)
	require.Equal(t, "0000000z", tok)

	tok, err = Encode(62, 8)
	require.NoError(t, err)
	require.Equal(t, "00000010", tok)
}

func TestEncode_AlphabetOrder(t *testing.T) {
	for i, want := range []string{"0", "9", "A", "Z", "a", "z"} {
		n := []uint64{0, 9, 10, 35, 36, 61}[i]
		tok, err := Encode(n, 1)
		require.NoError(t, err)
		require.Equal(t, want, tok)
	}
}

func TestEncode_Overflow(t *testing.T) {
	max, ok := Default.MaxValue(8)
	require.True(t, ok)
	require.Equal(t, uint64(218340105584895), max)

	tok, err := Encode(max, 8)
	require.NoError(t, err)
	require.Equal(t, "zzzzzzzz", tok)

	_, err = Encode(max+1, 8)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Encode(62, 1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestEncode_InvalidWidth(t *testing.T) {
	_, err := Encode(1, 0)
	require.ErrorIs(t, err, ErrInvalidWidth)
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 61, 62, 3843, 3844, 35793459931950, 42317106661483, 218340105584895}
	for _, n := range values {
		tok, err := Encode(n, 8)
		require.NoError(t, err)
		require.Len(t, tok, 8)

		got, err := Decode(tok)
		require.NoError(t, err)
		require.Equal(t, n, got, "token %s", tok)
	}

	// widest token covers the whole uint64 range
	tok, err := Encode(math.MaxUint64, 11)
	require.NoError(t, err)
	got, err := Decode(tok)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), got)

	_, ok := Default.MaxValue(11)
	require.False(t, ok)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Decode("abc-def")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Decode("é")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Decode(strings.Repeat("z", 12))
	require.ErrorIs(t, err, ErrOverflow)
}

func TestNew_CustomAlphabet(t *testing.T) {
	hex, err := New("0123456789abcdef")
	require.NoError(t, err)

	tok, err := hex.Encode(255, 4)
	require.NoError(t, err)
	require.Equal(t, "00ff", tok)

	n, err := hex.Decode(tok)
	require.NoError(t, err)
	require.Equal(t, uint64(255), n)

	_, err = New("a")
	require.Error(t, err)
	_, err = New("abca")
	require.Error(t, err)
}
