package zkenc

import (
	"crypto/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func TestEnc(t *testing.T) {
	group := curve.Secp256k1{}
	k := sample.IntervalL(rand.Reader)
	K, rho := zk.ProverPaillierPublic.Enc(k)

	public := Public{
		K:      K,
		Prover: zk.ProverPaillierPublic,
		Aux:    zk.Pedersen,
	}
	proof := NewProof(group, hash.New(), public, Private{K: k, Rho: rho})
	assert.True(t, proof.Verify(group, hash.New(), public))

	// a different transcript must fail
	other := hash.New()
	_ = other.WriteAny([]byte("other session"))
	assert.False(t, proof.Verify(group, other, public))
}

// TestEncHonestAlwaysVerifies runs many fresh proofs: the response bound
// checked by the verifier must leave room for any challenge, so an honest
// prover is never rejected.
func TestEncHonestAlwaysVerifies(t *testing.T) {
	group := curve.Secp256k1{}
	for i := 0; i < 32; i++ {
		k := sample.IntervalL(rand.Reader)
		K, rho := zk.ProverPaillierPublic.Enc(k)
		public := Public{
			K:      K,
			Prover: zk.ProverPaillierPublic,
			Aux:    zk.Pedersen,
		}
		proof := NewProof(group, hash.New(), public, Private{K: k, Rho: rho})
		require.True(t, proof.Verify(group, hash.New(), public), "honest proof %d rejected", i)
	}
}

func TestEncWrongWitness(t *testing.T) {
	group := curve.Secp256k1{}
	k := sample.IntervalL(rand.Reader)
	K, _ := zk.ProverPaillierPublic.Enc(k)

	public := Public{
		K:      K,
		Prover: zk.ProverPaillierPublic,
		Aux:    zk.Pedersen,
	}
	// claim a different plaintext and nonce
	wrongK := sample.IntervalL(rand.Reader)
	_, wrongRho := zk.ProverPaillierPublic.Enc(wrongK)
	proof := NewProof(group, hash.New(), public, Private{K: wrongK, Rho: wrongRho})
	assert.False(t, proof.Verify(group, hash.New(), public))
}

func TestEncMarshal(t *testing.T) {
	group := curve.Secp256k1{}
	k := sample.IntervalL(rand.Reader)
	K, rho := zk.ProverPaillierPublic.Enc(k)

	public := Public{
		K:      K,
		Prover: zk.ProverPaillierPublic,
		Aux:    zk.Pedersen,
	}
	proof := NewProof(group, hash.New(), public, Private{K: k, Rho: rho})

	data, err := cbor.Marshal(proof)
	require.NoError(t, err)
	proof2 := &Proof{}
	require.NoError(t, cbor.Unmarshal(data, proof2))
	assert.True(t, proof2.Verify(group, hash.New(), public))
}
