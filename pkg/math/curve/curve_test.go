package curve

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomScalar(t *testing.T, group Curve) Scalar {
	t.Helper()
	buf := make([]byte, group.SafeScalarBytes())
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
}

func TestScalarArithmetic(t *testing.T) {
	group := Secp256k1{}
	a := randomScalar(t, group)
	b := randomScalar(t, group)

	// (a + b) - b == a
	sum := group.NewScalar().Set(a).Add(b)
	assert.True(t, sum.Sub(b).Equal(a))

	// a * a⁻¹ == 1 on the base point
	inv := group.NewScalar().Set(a).Invert()
	prod := group.NewScalar().Set(a).Mul(inv)
	assert.True(t, prod.ActOnBase().Equal(group.NewBasePoint()))

	// a + (-a) == 0
	neg := group.NewScalar().Set(a).Negate()
	assert.True(t, group.NewScalar().Set(a).Add(neg).IsZero())
}

func TestPointArithmetic(t *testing.T) {
	group := Secp256k1{}
	a := randomScalar(t, group)
	b := randomScalar(t, group)

	A := a.ActOnBase()
	B := b.ActOnBase()

	// (a+b)·G == a·G + b·G
	sum := group.NewScalar().Set(a).Add(b)
	assert.True(t, sum.ActOnBase().Equal(A.Add(B)))

	// a·(b·G) == (a·b)·G
	ab := group.NewScalar().Set(a).Mul(b)
	assert.True(t, a.Act(B).Equal(ab.ActOnBase()))

	// P - P == identity
	assert.True(t, A.Sub(A).IsIdentity())
}

func TestScalarMarshal(t *testing.T) {
	group := Secp256k1{}
	a := randomScalar(t, group)

	data, err := a.MarshalBinary()
	require.NoError(t, err)

	b := group.NewScalar()
	require.NoError(t, b.UnmarshalBinary(data))
	assert.True(t, a.Equal(b))
}

func TestPointMarshal(t *testing.T) {
	group := Secp256k1{}
	A := randomScalar(t, group).ActOnBase()

	data, err := A.MarshalBinary()
	require.NoError(t, err)

	B := group.NewPoint()
	require.NoError(t, B.UnmarshalBinary(data))
	assert.True(t, A.Equal(B))

	// garbage must be rejected
	assert.Error(t, group.NewPoint().UnmarshalBinary([]byte("not a point")))
}

func TestMakeIntRoundTrip(t *testing.T) {
	group := Secp256k1{}
	a := randomScalar(t, group)

	i := MakeInt(a)
	back := group.NewScalar().SetNat(i.Mod(group.Order()))
	assert.True(t, a.Equal(back))
}

func TestFromHash(t *testing.T) {
	group := Secp256k1{}

	// 32 bytes of 0xFF exceeds the order and must reduce, not fail
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = 0xFF
	}
	s := FromHash(group, digest)
	assert.False(t, s.IsZero())

	// longer digests are truncated to the scalar size
	long := make([]byte, 64)
	copy(long, digest)
	assert.True(t, s.Equal(FromHash(group, long)))
}
