package zklogstar

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func scalarFromInt(group curve.Curve, x *saferith.Int) curve.Scalar {
	return group.NewScalar().SetNat(x.Mod(group.Order()))
}

func TestLogStar(t *testing.T) {
	group := curve.Secp256k1{}

	x := sample.IntervalL(rand.Reader)
	C, rho := zk.ProverPaillierPublic.Enc(x)
	X := scalarFromInt(group, x).ActOnBase()

	public := Public{
		C:      C,
		X:      X,
		Prover: zk.ProverPaillierPublic,
		Aux:    zk.Pedersen,
	}
	proof := NewProof(hash.New(), public, Private{X: x, Rho: rho})
	assert.True(t, proof.Verify(hash.New(), public))

	// the proof must be bound to X
	publicWrong := public
	publicWrong.X = sample.Scalar(rand.Reader, group).ActOnBase()
	assert.False(t, proof.Verify(hash.New(), publicWrong))
}

// TestLogStarHonestAlwaysVerifies runs many fresh proofs: the response
// bound must leave room for any challenge, so an honest prover is never
// rejected.
func TestLogStarHonestAlwaysVerifies(t *testing.T) {
	group := curve.Secp256k1{}
	for i := 0; i < 32; i++ {
		x := sample.IntervalL(rand.Reader)
		C, rho := zk.ProverPaillierPublic.Enc(x)
		public := Public{
			C:      C,
			X:      scalarFromInt(group, x).ActOnBase(),
			Prover: zk.ProverPaillierPublic,
			Aux:    zk.Pedersen,
		}
		proof := NewProof(hash.New(), public, Private{X: x, Rho: rho})
		assert.True(t, proof.Verify(hash.New(), public), "honest proof %d rejected", i)
	}
}

func TestLogStarCustomBase(t *testing.T) {
	group := curve.Secp256k1{}

	base := sample.Scalar(rand.Reader, group).ActOnBase()
	x := sample.IntervalL(rand.Reader)
	C, rho := zk.ProverPaillierPublic.Enc(x)
	X := scalarFromInt(group, x).Act(base)

	public := Public{
		C:      C,
		X:      X,
		G:      base,
		Prover: zk.ProverPaillierPublic,
		Aux:    zk.Pedersen,
	}
	proof := NewProof(hash.New(), public, Private{X: x, Rho: rho})
	assert.True(t, proof.Verify(hash.New(), public))

	// same ciphertext against the generator must fail
	publicGen := public
	publicGen.G = nil
	publicGen.X = scalarFromInt(group, x).ActOnBase()
	assert.False(t, proof.Verify(hash.New(), publicGen))
}

func TestLogStarWrongCiphertext(t *testing.T) {
	group := curve.Secp256k1{}

	x := sample.IntervalL(rand.Reader)
	_, rho := zk.ProverPaillierPublic.Enc(x)

	// C encrypts a different value than the one behind X
	other := sample.IntervalL(rand.Reader)
	C, _ := zk.ProverPaillierPublic.Enc(other)

	public := Public{
		C:      C,
		X:      scalarFromInt(group, x).ActOnBase(),
		Prover: zk.ProverPaillierPublic,
		Aux:    zk.Pedersen,
	}
	proof := NewProof(hash.New(), public, Private{X: x, Rho: rho})
	assert.False(t, proof.Verify(hash.New(), public))
}
