package pedersen_test

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func TestCommitVerify(t *testing.T) {
	ped := zk.Pedersen

	// the sigma-protocol equation: with S = Commit(x, m) and T = Commit(α, γ),
	// the response (z1, z2) = (α + e·x, γ + e·m) satisfies
	// Commit(z1, z2) == T·Sᵉ
	x := sample.IntervalL(rand.Reader)
	m := sample.IntervalLN(rand.Reader)
	alpha := sample.IntervalLEps(rand.Reader)
	gamma := sample.IntervalLEpsN(rand.Reader)
	e := sample.IntervalScalar(rand.Reader, curve.Secp256k1{})

	S := ped.Commit(x, m)
	T := ped.Commit(alpha, gamma)

	z1 := new(saferith.Int).Mul(e, x, -1)
	z1.Add(z1, alpha, -1)
	z2 := new(saferith.Int).Mul(e, m, -1)
	z2.Add(z2, gamma, -1)

	assert.True(t, ped.Verify(z1, z2, e, T, S))

	// a corrupted response must fail
	bad := new(saferith.Int).Add(z1, new(saferith.Int).SetUint64(1), -1)
	assert.False(t, ped.Verify(bad, z2, e, T, S))
}

func TestCommitNegativeExponents(t *testing.T) {
	ped := zk.Pedersen

	x := sample.IntervalL(rand.Reader)
	y := sample.IntervalLN(rand.Reader)
	xNeg := x.Clone().Neg(1)

	c := ped.Commit(x, y)
	cNeg := ped.Commit(xNeg, y)

	// Commit(x,y)·Commit(−x,y) == Commit(0, 2y)
	prod := new(saferith.Nat).ModMul(c, cNeg, ped.N())
	twoY := new(saferith.Int).Add(y, y, -1)
	expected := ped.Commit(new(saferith.Int), twoY)
	assert.True(t, prod.Eq(expected) == 1)
}

func TestValidateParameters(t *testing.T) {
	ped := zk.Pedersen
	require.NoError(t, pedersen.ValidateParameters(ped.N(), ped.S(), ped.T()))

	// s == t is degenerate
	assert.ErrorIs(t,
		pedersen.ValidateParameters(ped.N(), ped.S(), ped.S()),
		pedersen.ErrSEqualT)

	// nil fields
	assert.ErrorIs(t,
		pedersen.ValidateParameters(ped.N(), nil, ped.T()),
		pedersen.ErrNilFields)

	// zero is not a unit
	assert.ErrorIs(t,
		pedersen.ValidateParameters(ped.N(), new(saferith.Nat), ped.T()),
		pedersen.ErrNotValidModN)
}
