package hash

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	h1 := New()
	h2 := New()
	require.NoError(t, h1.WriteAny([]byte("hello")))
	require.NoError(t, h2.WriteAny([]byte("hello")))
	assert.Equal(t, h1.Sum(), h2.Sum())
}

func TestHashDomainSeparation(t *testing.T) {
	h1 := New()
	h2 := New()
	// same bytes under different domains must digest differently
	require.NoError(t, h1.WriteAny(&BytesWithDomain{"A", []byte("x")}))
	require.NoError(t, h2.WriteAny(&BytesWithDomain{"B", []byte("x")}))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestHashBoundaryAmbiguity(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide
	h1 := New()
	h2 := New()
	require.NoError(t, h1.WriteAny([]byte("ab"), []byte("c")))
	require.NoError(t, h2.WriteAny([]byte("a"), []byte("bc")))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestHashWriteAnyTypes(t *testing.T) {
	h := New()
	n := new(saferith.Nat).SetUint64(42)
	i := new(saferith.Int).SetNat(n)
	m := saferith.ModulusFromNat(new(saferith.Nat).SetUint64(101))
	require.NoError(t, h.WriteAny(n, i, m, []byte("bytes")))
	assert.Len(t, h.Sum(), DigestLengthBytes)
}

func TestHashClone(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny([]byte("base")))
	clone := h.Clone()
	require.NoError(t, clone.WriteAny([]byte("extra")))
	// the original must be unaffected by writes to the clone
	base := New()
	require.NoError(t, base.WriteAny([]byte("base")))
	assert.Equal(t, base.Sum(), h.Sum())
	assert.NotEqual(t, h.Sum(), clone.Sum())
}

func TestCommitDecommit(t *testing.T) {
	h := New()
	data := []interface{}{[]byte("committed"), new(saferith.Nat).SetUint64(7)}

	c, d, err := h.Commit(data...)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	require.NoError(t, d.Validate())

	assert.True(t, h.Decommit(c, d, data...))

	// wrong data
	assert.False(t, h.Decommit(c, d, []byte("other"), new(saferith.Nat).SetUint64(7)))

	// wrong nonce
	d2 := make(Decommitment, len(d))
	copy(d2, d)
	d2[0] ^= 1
	assert.False(t, h.Decommit(c, d2, data...))

	// commitment bound to the transcript state
	other := New()
	_ = other.WriteAny([]byte("different session"))
	assert.False(t, other.Decommit(c, d, data...))
}

func TestCommitFreshNonce(t *testing.T) {
	h := New()
	c1, d1, err := h.Commit([]byte("same"))
	require.NoError(t, err)
	c2, d2, err := h.Commit([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
	assert.NotEqual(t, c1, c2)
}
