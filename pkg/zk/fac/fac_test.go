package zkfac

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func TestFac(t *testing.T) {
	group := curve.Secp256k1{}
	public := Public{
		N0:  zk.ProverPaillierPublic.N(),
		Aux: zk.Pedersen,
	}
	private := Private{
		P: zk.ProverPaillierSecret.P(),
		Q: zk.ProverPaillierSecret.Q(),
	}

	proof := NewProof(group, hash.New(), public, private)
	assert.True(t, proof.Verify(group, hash.New(), public))

	other := hash.New()
	_ = other.WriteAny([]byte("other session"))
	assert.False(t, proof.Verify(group, other, public))
}

// TestFacHonestAlwaysVerifies checks that fresh honest proofs never
// trip the verifier's response range check.
func TestFacHonestAlwaysVerifies(t *testing.T) {
	group := curve.Secp256k1{}
	public := Public{
		N0:  zk.ProverPaillierPublic.N(),
		Aux: zk.Pedersen,
	}
	private := Private{
		P: zk.ProverPaillierSecret.P(),
		Q: zk.ProverPaillierSecret.Q(),
	}
	for i := 0; i < 16; i++ {
		proof := NewProof(group, hash.New(), public, private)
		assert.True(t, proof.Verify(group, hash.New(), public), "honest proof %d rejected", i)
	}
}

func TestFacWrongModulus(t *testing.T) {
	group := curve.Secp256k1{}
	// proof for the prover's modulus must not verify for another one
	public := Public{
		N0:  zk.ProverPaillierPublic.N(),
		Aux: zk.Pedersen,
	}
	proof := NewProof(group, hash.New(), public, Private{
		P: zk.ProverPaillierSecret.P(),
		Q: zk.ProverPaillierSecret.Q(),
	})

	publicWrong := Public{
		N0:  zk.VerifierPaillierPublic.N(),
		Aux: zk.Pedersen,
	}
	assert.False(t, proof.Verify(group, hash.New(), publicWrong))
}

func TestFacCorrupted(t *testing.T) {
	group := curve.Secp256k1{}
	public := Public{
		N0:  zk.ProverPaillierPublic.N(),
		Aux: zk.Pedersen,
	}
	proof := NewProof(group, hash.New(), public, Private{
		P: zk.ProverPaillierSecret.P(),
		Q: zk.ProverPaillierSecret.Q(),
	})

	proof.Z1 = sample.IntervalLEpsRootN(rand.Reader)
	assert.False(t, proof.Verify(group, hash.New(), public))
}
