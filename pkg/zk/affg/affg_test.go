package zkaffg

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

// affine builds the statement Dv = x ⊙ Kv ⊕ encᵥ(y) the way the MtA
// sender does.
func affine(t *testing.T, x, y *saferith.Int) (Public, Private) {
	t.Helper()
	group := curve.Secp256k1{}

	k := sample.IntervalL(rand.Reader)
	Kv, _ := zk.VerifierPaillierPublic.Enc(k)

	D, s := zk.VerifierPaillierPublic.Enc(y)
	D.Add(zk.VerifierPaillierPublic, Kv.Clone().Mul(zk.VerifierPaillierPublic, x))
	F, r := zk.ProverPaillierPublic.Enc(y)

	X := group.NewScalar().SetNat(x.Mod(group.Order())).ActOnBase()

	return Public{
			Kv:       Kv,
			Dv:       D,
			Fp:       F,
			Xp:       X,
			Prover:   zk.ProverPaillierPublic,
			Verifier: zk.VerifierPaillierPublic,
			Aux:      zk.Pedersen,
		}, Private{
			X: x,
			Y: y,
			S: s,
			R: r,
		}
}

func TestAffG(t *testing.T) {
	x := sample.IntervalL(rand.Reader)
	y := sample.IntervalLPrime(rand.Reader)
	public, private := affine(t, x, y)

	proof := NewProof(hash.New(), public, private)
	assert.True(t, proof.Verify(hash.New(), public))

	// transcript binding
	other := hash.New()
	_ = other.WriteAny([]byte("elsewhere"))
	assert.False(t, proof.Verify(other, public))
}

// TestAffGHonestAlwaysVerifies runs many fresh proofs: the response
// bounds must leave room for any challenge, so an honest prover is
// never rejected.
func TestAffGHonestAlwaysVerifies(t *testing.T) {
	for i := 0; i < 16; i++ {
		x := sample.IntervalL(rand.Reader)
		y := sample.IntervalLPrime(rand.Reader)
		public, private := affine(t, x, y)

		proof := NewProof(hash.New(), public, private)
		assert.True(t, proof.Verify(hash.New(), public), "honest proof %d rejected", i)
	}
}

func TestAffGWrongPoint(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.IntervalL(rand.Reader)
	y := sample.IntervalLPrime(rand.Reader)
	public, private := affine(t, x, y)

	// swap in a point unrelated to x
	public.Xp = sample.Scalar(rand.Reader, group).ActOnBase()
	proof := NewProof(hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestAffGWrongOperand(t *testing.T) {
	x := sample.IntervalL(rand.Reader)
	y := sample.IntervalLPrime(rand.Reader)
	public, private := affine(t, x, y)

	// replace Dv with an affine operation using a different x
	x2 := sample.IntervalL(rand.Reader)
	D2, _ := zk.VerifierPaillierPublic.Enc(y)
	D2.Add(zk.VerifierPaillierPublic, public.Kv.Clone().Mul(zk.VerifierPaillierPublic, x2))
	public.Dv = D2

	proof := NewProof(hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestAffGCiphertextValidation(t *testing.T) {
	x := sample.IntervalL(rand.Reader)
	y := sample.IntervalLPrime(rand.Reader)
	public, private := affine(t, x, y)

	proof := NewProof(hash.New(), public, private)

	// verification must reject a proof whose ciphertext is not a unit
	proof.A = &paillier.Ciphertext{}
	assert.False(t, proof.Verify(hash.New(), public))
}
