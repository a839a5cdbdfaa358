// Package zkaffg proves an affine operation on a Paillier ciphertext with
// a group commitment: D = x ⊙ K ⊕ enc(y; s) under the verifier's key,
// with X = x·G, F = enc(y; r) under the prover's key, and x, y in range.
// This is the proof binding each MtA response in the signing protocol.
package zkaffg

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

// Public is the statement.
type Public struct {
	// Kv is the verifier's ciphertext being acted on.
	Kv *paillier.Ciphertext
	// Dv = x ⊙ Kv ⊕ encᵥ(y; s)
	Dv *paillier.Ciphertext
	// Fp = encₚ(y; r), the prover's commitment to y.
	Fp *paillier.Ciphertext
	// Xp = x·G
	Xp curve.Point
	// Prover is the prover's Paillier key (for Fp).
	Prover *paillier.PublicKey
	// Verifier is the verifier's Paillier key (for Kv, Dv).
	Verifier *paillier.PublicKey
	// Aux holds the verifier's ring-Pedersen parameters.
	Aux *pedersen.Parameters
}

// Private is the witness (x, y, s, r).
type Private struct {
	// X ∈ ±2^l
	X *saferith.Int
	// Y ∈ ±2^l'
	Y *saferith.Int
	// S is the nonce of Dv's encryption of y.
	S *saferith.Nat
	// R is the nonce of Fp.
	R *saferith.Nat
}

// Proof is the Fiat-Shamir transcript of the sigma protocol.
type Proof struct {
	// A = α ⊙ Kv ⊕ encᵥ(β; ρ)
	A *paillier.Ciphertext
	// Bx = α·G
	Bx curve.Point
	// By = encₚ(β; ρy)
	By *paillier.Ciphertext
	// E = sᵅtᵞ, S = sˣtᵐ, F = sᵝtᵟ, T = sʸtᵘ mod N̂
	E *saferith.Nat
	S *saferith.Nat
	F *saferith.Nat
	T *saferith.Nat
	// Z1 = α + e·x, Z2 = β + e·y, Z3 = γ + e·m, Z4 = δ + e·μ
	Z1 *saferith.Int
	Z2 *saferith.Int
	Z3 *saferith.Int
	Z4 *saferith.Int
	// W = ρ·sᵉ mod Nᵥ, Wy = ρy·rᵉ mod Nₚ
	W  *saferith.Nat
	Wy *saferith.Nat
}

// Empty returns a proof ready for unmarshaling into.
func Empty(group curve.Curve) *Proof {
	return &Proof{Bx: group.NewPoint()}
}

// IsValid performs the structural checks on the proof.
func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Bx == nil {
		return false
	}
	if p.E == nil || p.S == nil || p.F == nil || p.T == nil {
		return false
	}
	if p.Z1 == nil || p.Z2 == nil || p.Z3 == nil || p.Z4 == nil {
		return false
	}
	if !public.Verifier.ValidateCiphertexts(p.A) {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.By) {
		return false
	}
	if !arith.IsValidNatModN(public.Verifier.N(), p.W) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Wy) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.E, p.S, p.F, p.T) {
		return false
	}
	return true
}

// NewProof proves the statement.
func NewProof(h *hash.Hash, public Public, private Private) *Proof {
	group := public.Xp.Curve()
	Nv := public.Verifier.N()
	Np := public.Prover.N()

	alpha := sample.IntervalLEps(rand.Reader)
	beta := sample.IntervalLPrimeEps(rand.Reader)
	rho := sample.UnitModN(rand.Reader, Nv)
	rhoY := sample.UnitModN(rand.Reader, Np)
	gamma := sample.IntervalLEpsN(rand.Reader)
	m := sample.IntervalLN(rand.Reader)
	delta := sample.IntervalLEpsN(rand.Reader)
	mu := sample.IntervalLN(rand.Reader)

	A := public.Kv.Clone().Mul(public.Verifier, alpha)
	A.Add(public.Verifier, public.Verifier.EncWithNonce(beta, rho))
	alphaScalar := group.NewScalar().SetNat(alpha.Mod(group.Order()))
	Bx := alphaScalar.ActOnBase()
	By := public.Prover.EncWithNonce(beta, rhoY)
	E := public.Aux.Commit(alpha, gamma)
	S := public.Aux.Commit(private.X, m)
	F := public.Aux.Commit(beta, delta)
	T := public.Aux.Commit(private.Y, mu)

	e := challenge(h, group, public, A, Bx, By, E, S, F, T)

	z1 := new(saferith.Int).Mul(e, private.X, -1)
	z1.Add(z1, alpha, -1)
	z2 := new(saferith.Int).Mul(e, private.Y, -1)
	z2.Add(z2, beta, -1)
	z3 := new(saferith.Int).Mul(e, m, -1)
	z3.Add(z3, gamma, -1)
	z4 := new(saferith.Int).Mul(e, mu, -1)
	z4.Add(z4, delta, -1)
	w := new(saferith.Nat).ExpI(private.S, e, Nv)
	w.ModMul(w, rho, Nv)
	wy := new(saferith.Nat).ExpI(private.R, e, Np)
	wy.ModMul(wy, rhoY, Np)

	return &Proof{
		A: A, Bx: Bx, By: By,
		E: E, S: S, F: F, T: T,
		Z1: z1, Z2: z2, Z3: z3, Z4: z4,
		W: w, Wy: wy,
	}
}

// Verify checks the proof against the same transcript.
func (p *Proof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}
	if !arith.IsInIntervalLPrimeEps(p.Z2) {
		return false
	}
	group := public.Xp.Curve()

	e := challenge(h, group, public, p.A, p.Bx, p.By, p.E, p.S, p.F, p.T)

	// z1 ⊙ Kv ⊕ encᵥ(z2; w) == A ⊕ (e ⊙ Dv)
	lhs := public.Kv.Clone().Mul(public.Verifier, p.Z1)
	lhs.Add(public.Verifier, public.Verifier.EncWithNonce(p.Z2, p.W))
	rhs := public.Dv.Clone().Mul(public.Verifier, e).Add(public.Verifier, p.A)
	if !lhs.Equal(rhs) {
		return false
	}

	// z1·G == Bx + e·Xp
	eScalar := group.NewScalar().SetNat(e.Mod(group.Order()))
	z1Scalar := group.NewScalar().SetNat(p.Z1.Mod(group.Order()))
	lhsPoint := z1Scalar.ActOnBase()
	rhsPoint := eScalar.Act(public.Xp).Add(p.Bx)
	if !lhsPoint.Equal(rhsPoint) {
		return false
	}

	// encₚ(z2; wy) == By ⊕ (e ⊙ Fp)
	lhsY := public.Prover.EncWithNonce(p.Z2, p.Wy)
	rhsY := public.Fp.Clone().Mul(public.Prover, e).Add(public.Prover, p.By)
	if !lhsY.Equal(rhsY) {
		return false
	}

	// s^z1 t^z3 == E·Sᵉ and s^z2 t^z4 == F·Tᵉ mod N̂
	if !public.Aux.Verify(p.Z1, p.Z3, e, p.E, p.S) {
		return false
	}
	return public.Aux.Verify(p.Z2, p.Z4, e, p.F, p.T)
}

func challenge(h *hash.Hash, group curve.Curve, public Public,
	A *paillier.Ciphertext, Bx curve.Point, By *paillier.Ciphertext,
	E, S, F, T *saferith.Nat) *saferith.Int {
	_ = h.WriteAny(public.Aux, public.Prover.N(), public.Verifier.N(),
		public.Kv.Nat(), public.Dv.Nat(), public.Fp.Nat(), public.Xp,
		A.Nat(), Bx, By.Nat(), E, S, F, T)
	return sample.IntervalScalar(h.Digest(), group)
}
