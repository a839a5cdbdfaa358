// Package zklogstar proves that a Paillier ciphertext C encrypts the
// discrete logarithm of a group element X with respect to a base G, with
// the plaintext lying in ±2^(l+ε).
package zklogstar

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/arith"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
)

// Public is the statement: C = enc(x; ρ) and X = x·G.
type Public struct {
	// C is the encryption of x.
	C *paillier.Ciphertext
	// X = x·G
	X curve.Point
	// G is the base; nil means the group generator.
	G curve.Point
	// Prover is the encrypting key.
	Prover *paillier.PublicKey
	// Aux holds the verifier's ring-Pedersen parameters.
	Aux *pedersen.Parameters
}

// Private is the witness (x, ρ).
type Private struct {
	X   *saferith.Int
	Rho *saferith.Nat
}

// Proof is the Fiat-Shamir transcript of the sigma protocol.
type Proof struct {
	// S = sˣtᵘ mod N̂
	S *saferith.Nat
	// A = enc(α; r)
	A *paillier.Ciphertext
	// Y = α·G
	Y curve.Point
	// D = sᵅtᵞ mod N̂
	D *saferith.Nat
	// Z1 = α + e·x
	Z1 *saferith.Int
	// Z2 = r·ρᵉ mod N
	Z2 *saferith.Nat
	// Z3 = γ + e·μ
	Z3 *saferith.Int
}

// Empty returns a proof ready for unmarshaling into.
func Empty(group curve.Curve) *Proof {
	return &Proof{Y: group.NewPoint()}
}

// IsValid performs the structural checks on the proof.
func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.S == nil || p.D == nil || p.Z1 == nil || p.Z3 == nil || p.Y == nil {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Z2) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.S, p.D) {
		return false
	}
	return true
}

// NewProof proves the statement; the base defaults to the generator.
func NewProof(h *hash.Hash, public Public, private Private) *Proof {
	N := public.Prover.N()
	group := public.X.Curve()
	if public.G == nil {
		public.G = group.NewBasePoint()
	}

	alpha := sample.IntervalLEps(rand.Reader)
	r := sample.UnitModN(rand.Reader, N)
	mu := sample.IntervalLN(rand.Reader)
	gamma := sample.IntervalLEpsN(rand.Reader)

	S := public.Aux.Commit(private.X, mu)
	A := public.Prover.EncWithNonce(alpha, r)
	alphaScalar := group.NewScalar().SetNat(alpha.Mod(group.Order()))
	Y := alphaScalar.Act(public.G)
	D := public.Aux.Commit(alpha, gamma)

	e := challenge(h, group, public, S, A, Y, D)

	z1 := new(saferith.Int).Mul(e, private.X, -1)
	z1.Add(z1, alpha, -1)
	z2 := new(saferith.Nat).ExpI(private.Rho, e, N)
	z2.ModMul(z2, r, N)
	z3 := new(saferith.Int).Mul(e, mu, -1)
	z3.Add(z3, gamma, -1)

	return &Proof{S: S, A: A, Y: Y, D: D, Z1: z1, Z2: z2, Z3: z3}
}

// Verify checks the proof against the same transcript.
func (p *Proof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}
	group := public.X.Curve()
	if public.G == nil {
		public.G = group.NewBasePoint()
	}

	e := challenge(h, group, public, p.S, p.A, p.Y, p.D)

	// enc(z1; z2) == A ⊕ (e ⊙ C)
	lhs := public.Prover.EncWithNonce(p.Z1, p.Z2)
	rhs := public.C.Clone().Mul(public.Prover, e).Add(public.Prover, p.A)
	if !lhs.Equal(rhs) {
		return false
	}

	// z1·G == Y + e·X
	eScalar := group.NewScalar().SetNat(e.Mod(group.Order()))
	z1Scalar := group.NewScalar().SetNat(p.Z1.Mod(group.Order()))
	lhsPoint := z1Scalar.Act(public.G)
	rhsPoint := eScalar.Act(public.X).Add(p.Y)
	if !lhsPoint.Equal(rhsPoint) {
		return false
	}

	// s^z1 t^z3 == D·Sᵉ mod N̂
	return public.Aux.Verify(p.Z1, p.Z3, e, p.D, p.S)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, S *saferith.Nat, A *paillier.Ciphertext, Y curve.Point, D *saferith.Nat) *saferith.Int {
	_ = h.WriteAny(public.Aux, public.Prover.N(), public.C.Nat(), public.X, public.G, S, A.Nat(), Y, D)
	return sample.IntervalScalar(h.Digest(), group)
}
