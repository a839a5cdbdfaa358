// Package zkfac proves that a Paillier modulus N₀ has no small factors:
// both primes are shown to lie in ±2^(l+ε)·√N₀, ruling out the
// small-factor attacks on the MtA range arguments.
package zkfac

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/arith"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
)

// Public is the statement: the modulus N₀, proven against the verifier's
// Pedersen parameters.
type Public struct {
	N0  *saferith.Modulus
	Aux *pedersen.Parameters
}

// Private is the witness: the factors of N₀.
type Private struct {
	P, Q *saferith.Nat
}

// Proof is the Fiat-Shamir transcript of the sigma protocol.
type Proof struct {
	// P = sᵖtᵘ, Q = s^q tᵛ, A = sᵅtˣ, B = sᵝtʸ, T = Qᵅtʳ (mod N̂)
	P *saferith.Nat
	Q *saferith.Nat
	A *saferith.Nat
	B *saferith.Nat
	T *saferith.Nat
	// Sigma is the masking value σ for the cross term.
	Sigma *saferith.Int
	// Z1 = α + e·p, Z2 = β + e·q
	Z1 *saferith.Int
	Z2 *saferith.Int
	// W1 = x + e·μ, W2 = y + e·ν, V = r + e·σ̂
	W1 *saferith.Int
	W2 *saferith.Int
	V  *saferith.Int
}

// NewProof proves that the witness primes are full-size.
func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	aux := public.Aux

	alpha := sample.IntervalLEpsRootN(rand.Reader)
	beta := sample.IntervalLEpsRootN(rand.Reader)
	mu := sample.IntervalLN(rand.Reader)
	nu := sample.IntervalLN(rand.Reader)
	sigma := sample.IntervalLN2(rand.Reader)
	r := sample.IntervalLEpsN2(rand.Reader)
	x := sample.IntervalLEpsN(rand.Reader)
	y := sample.IntervalLEpsN(rand.Reader)

	pInt := new(saferith.Int).SetNat(private.P)
	qInt := new(saferith.Int).SetNat(private.Q)

	P := aux.Commit(pInt, mu)
	Q := aux.Commit(qInt, nu)
	A := aux.Commit(alpha, x)
	B := aux.Commit(beta, y)
	T := aux.NArith().ExpI(Q, alpha)
	T.ModMul(T, aux.NArith().ExpI(aux.T(), r), aux.N())

	e := challenge(h, group, public, P, Q, A, B, T, sigma)

	// σ̂ = σ − ν·p
	sigmaHat := new(saferith.Int).Mul(nu, pInt, -1)
	sigmaHat.Neg(1)
	sigmaHat.Add(sigmaHat, sigma, -1)

	z1 := new(saferith.Int).Mul(e, pInt, -1)
	z1.Add(z1, alpha, -1)
	z2 := new(saferith.Int).Mul(e, qInt, -1)
	z2.Add(z2, beta, -1)
	w1 := new(saferith.Int).Mul(e, mu, -1)
	w1.Add(w1, x, -1)
	w2 := new(saferith.Int).Mul(e, nu, -1)
	w2.Add(w2, y, -1)
	v := new(saferith.Int).Mul(e, sigmaHat, -1)
	v.Add(v, r, -1)

	return &Proof{P: P, Q: Q, A: A, B: B, T: T, Sigma: sigma, Z1: z1, Z2: z2, W1: w1, W2: w2, V: v}
}

// Verify checks the proof.
func (p *Proof) Verify(group curve.Curve, h *hash.Hash, public Public) bool {
	if p == nil || p.Sigma == nil || p.Z1 == nil || p.Z2 == nil || p.W1 == nil || p.W2 == nil || p.V == nil {
		return false
	}
	aux := public.Aux
	nHat := aux.N()
	if !arith.IsValidNatModN(nHat, p.P, p.Q, p.A, p.B, p.T) {
		return false
	}
	// the proven range for the factors
	if !arith.IsInIntervalLEpsRootN(p.Z1) || !arith.IsInIntervalLEpsRootN(p.Z2) {
		return false
	}

	e := challenge(h, group, public, p.P, p.Q, p.A, p.B, p.T, p.Sigma)

	// s^z1 t^w1 == A·Pᵉ
	if !aux.Verify(p.Z1, p.W1, e, p.A, p.P) {
		return false
	}
	// s^z2 t^w2 == B·Qᵉ
	if !aux.Verify(p.Z2, p.W2, e, p.B, p.Q) {
		return false
	}

	// Q^z1 t^v == T·Rᵉ with R = s^N0 tᵠ
	n0Int := new(saferith.Int).SetNat(public.N0.Nat())
	R := aux.Commit(n0Int, p.Sigma)
	lhs := aux.NArith().ExpI(p.Q, p.Z1)
	lhs.ModMul(lhs, aux.NArith().ExpI(aux.T(), p.V), nHat)
	rhs := aux.NArith().ExpI(R, e)
	rhs.ModMul(rhs, p.T, nHat)
	return lhs.Eq(rhs) == 1
}

func challenge(h *hash.Hash, group curve.Curve, public Public, P, Q, A, B, T *saferith.Nat, sigma *saferith.Int) *saferith.Int {
	_ = h.WriteAny(public.Aux, public.N0, P, Q, A, B, T, sigma)
	return sample.IntervalScalar(h.Digest(), group)
}
