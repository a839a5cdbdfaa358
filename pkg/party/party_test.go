package party

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
)

func TestNewIDSlice(t *testing.T) {
	ids := NewIDSlice([]ID{"c", "a", "b", "a"})
	assert.Equal(t, IDSlice{"a", "b", "c"}, ids)
	assert.True(t, ids.Valid())
}

func TestContains(t *testing.T) {
	ids := NewIDSlice([]ID{"a", "b", "c"})
	assert.True(t, ids.Contains("a", "c"))
	assert.False(t, ids.Contains("d"))
	assert.False(t, ids.Contains("a", "d"))
}

func TestRemove(t *testing.T) {
	ids := NewIDSlice([]ID{"a", "b", "c"})
	removed := ids.Remove("b")
	assert.Equal(t, IDSlice{"a", "c"}, removed)
	// the original is untouched
	assert.Equal(t, IDSlice{"a", "b", "c"}, ids)
}

func TestValid(t *testing.T) {
	assert.True(t, IDSlice{"a", "b"}.Valid())
	assert.False(t, IDSlice{"b", "a"}.Valid())
	assert.False(t, IDSlice{"a", "a"}.Valid())
}

func TestIDSliceWriteTo(t *testing.T) {
	encode := func(ids IDSlice) []byte {
		var buf bytes.Buffer
		_, err := ids.WriteTo(&buf)
		assert.NoError(t, err)
		return buf.Bytes()
	}
	// slices with the same concatenation must not encode identically
	assert.NotEqual(t, encode(IDSlice{"ab", "c"}), encode(IDSlice{"a", "bc"}))
	assert.Equal(t, encode(IDSlice{"a", "bc"}), encode(IDSlice{"a", "bc"}))
}

func TestScalarNonZero(t *testing.T) {
	group := curve.Secp256k1{}
	for _, id := range []ID{"a", "b", "party-1"} {
		assert.False(t, id.Scalar(group).IsZero())
	}
	// distinct IDs map to distinct evaluation points
	assert.False(t, ID("a").Scalar(group).Equal(ID("b").Scalar(group)))
}
