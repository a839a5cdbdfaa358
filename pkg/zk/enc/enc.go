// Package zkenc proves that a Paillier ciphertext K encrypts a plaintext
// in the range ±2^(l+ε), given only the public key and ring-Pedersen
// auxiliary parameters of the verifier.
package zkenc

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

// Public is the statement: K = enc(k; ρ) under Prover for some k in range.
type Public struct {
	// K is the ciphertext being proven.
	K *paillier.Ciphertext
	// Prover is the encrypting key.
	Prover *paillier.PublicKey
	// Aux holds the verifier's ring-Pedersen parameters.
	Aux *pedersen.Parameters
}

// Private is the witness (k, ρ).
type Private struct {
	K   *saferith.Int
	Rho *saferith.Nat
}

// Proof is the Fiat-Shamir transcript of the sigma protocol.
type Proof struct {
	// S = sᵏtᵘ mod N̂
	S *saferith.Nat
	// A = enc(α; r)
	A *paillier.Ciphertext
	// C = sᵅtᵞ mod N̂
	C *saferith.Nat
	// Z1 = α + e·k
	Z1 *saferith.Int
	// Z2 = r·ρᵉ mod N
	Z2 *saferith.Nat
	// Z3 = γ + e·μ
	Z3 *saferith.Int
}

// IsValid performs the structural checks on the proof.
func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.S == nil || p.C == nil || p.Z1 == nil || p.Z3 == nil {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Z2) {
		return false
	}
	if !arith.IsValidNatModN(public.Aux.N(), p.S, p.C) {
		return false
	}
	return true
}

// NewProof proves knowledge of (k, ρ) with k ∈ ±2^l.
func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	N := public.Prover.N()

	alpha := sample.IntervalLEps(rand.Reader)
	r := sample.UnitModN(rand.Reader, N)
	mu := sample.IntervalLN(rand.Reader)
	gamma := sample.IntervalLEpsN(rand.Reader)

	S := public.Aux.Commit(private.K, mu)
	A := public.Prover.EncWithNonce(alpha, r)
	C := public.Aux.Commit(alpha, gamma)

	e := challenge(h, group, public, S, A, C)

	z1 := new(saferith.Int).Mul(e, private.K, -1)
	z1.Add(z1, alpha, -1)
	z2 := new(saferith.Nat).ExpI(private.Rho, e, N)
	z2.ModMul(z2, r, N)
	z3 := new(saferith.Int).Mul(e, mu, -1)
	z3.Add(z3, gamma, -1)

	return &Proof{S: S, A: A, C: C, Z1: z1, Z2: z2, Z3: z3}
}

// Verify checks the proof against the same transcript state used by the
// prover.
func (p *Proof) Verify(group curve.Curve, h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}

	e := challenge(h, group, public, p.S, p.A, p.C)

	// enc(z1; z2) == A ⊕ (e ⊙ K)
	lhs := public.Prover.EncWithNonce(p.Z1, p.Z2)
	rhs := public.K.Clone().Mul(public.Prover, e).Add(public.Prover, p.A)
	if !lhs.Equal(rhs) {
		return false
	}

	// s^z1 t^z3 == C·Sᵉ mod N̂
	return public.Aux.Verify(p.Z1, p.Z3, e, p.C, p.S)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, S *saferith.Nat, A *paillier.Ciphertext, C *saferith.Nat) *saferith.Int {
	_ = h.WriteAny(public.Aux, public.Prover.N(), public.K.Nat(), S, A.Nat(), C)
	return sample.IntervalScalar(h.Digest(), group)
}
