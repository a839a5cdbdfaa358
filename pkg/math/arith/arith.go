// Package arith provides modular arithmetic helpers on top of saferith,
// including CRT-accelerated exponentiation for moduli with known
// factorization and the interval checks used by the range proofs.
package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
)

// Modulus wraps a saferith.Modulus, optionally carrying its factorization
// to speed up exponentiation. The factorization is secret; a Modulus built
// with ModulusFromFactors must never be sent to another party.
type Modulus struct {
	m *saferith.Modulus
	// p, q, and qInvP are set only when the factorization is known.
	p, q  *saferith.Modulus
	qNat  *saferith.Nat
	qInvP *saferith.Nat
}

// ModulusFromN wraps a public modulus.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{m: n}
}

// ModulusFromFactors builds n = p·q, retaining the factors for CRT
// exponentiation.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	nNat := new(saferith.Nat).Mul(p, q, -1)
	pMod := saferith.ModulusFromNat(p)
	qMod := saferith.ModulusFromNat(q)
	qInvP := new(saferith.Nat).ModInverse(q, pMod)
	return &Modulus{
		m:     saferith.ModulusFromNat(nNat),
		p:     pMod,
		q:     qMod,
		qNat:  q.Clone(),
		qInvP: qInvP,
	}
}

// Modulus returns the public modulus.
func (n *Modulus) Modulus() *saferith.Modulus { return n.m }

// Nat returns the modulus value.
func (n *Modulus) Nat() *saferith.Nat { return n.m.Nat() }

// Bytes returns the canonical byte encoding of the modulus.
func (n *Modulus) Bytes() []byte { return n.m.Bytes() }

// BitLen returns the bit size of the modulus.
func (n *Modulus) BitLen() int { return n.m.Nat().TrueLen() }

// HasFactorization reports whether CRT acceleration is available.
func (n *Modulus) HasFactorization() bool { return n.p != nil }

// crt recombines residues mod p and mod q into a residue mod n.
func (n *Modulus) crt(xp, xq *saferith.Nat) *saferith.Nat {
	// r = xq + q·(q⁻¹·(xp − xq) mod p)
	xqModP := new(saferith.Nat).Mod(xq, n.p)
	diff := new(saferith.Nat).ModSub(xp, xqModP, n.p)
	diff.ModMul(diff, n.qInvP, n.p)
	r := new(saferith.Nat).Mul(diff, n.qNat, -1)
	r.Add(r, xq, -1)
	r.Mod(r, n.m)
	return r
}

// Exp computes xᵉ mod n.
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if n.HasFactorization() {
		xp := new(saferith.Nat).Exp(x, e, n.p)
		xq := new(saferith.Nat).Exp(x, e, n.q)
		return n.crt(xp, xq)
	}
	return new(saferith.Nat).Exp(x, e, n.m)
}

// ExpI computes xᵉ mod n for a signed exponent, inverting the result when
// e is negative. x must be a unit mod n in that case.
func (n *Modulus) ExpI(x *saferith.Nat, e *saferith.Int) *saferith.Nat {
	out := n.Exp(x, e.Abs())
	if e.IsNegative() == 1 {
		out.ModInverse(out, n.m)
	}
	return out
}

// IsUnit reports whether x is invertible mod n, i.e. gcd(x, n) = 1.
// Not constant time; used only on public values.
func IsUnit(x *saferith.Nat, n *saferith.Modulus) bool {
	if x.EqZero() == 1 {
		return false
	}
	gcd := new(big.Int).GCD(nil, nil, x.Big(), n.Nat().Big())
	return gcd.Cmp(big.NewInt(1)) == 0
}

// IsValidNatModN checks that every value is a non-zero unit mod n.
func IsValidNatModN(n *saferith.Modulus, ints ...*saferith.Nat) bool {
	for _, i := range ints {
		if i == nil || !IsUnit(i, n) {
			return false
		}
	}
	return true
}

// IsInIntervalLEps reports |i| ≤ 2^(l+ε).
func IsInIntervalLEps(i *saferith.Int) bool {
	if i == nil {
		return false
	}
	return i.Abs().TrueLen() <= params.LPlusEpsilon
}

// IsInIntervalLPrimeEps reports |i| ≤ 2^(l'+ε).
func IsInIntervalLPrimeEps(i *saferith.Int) bool {
	if i == nil {
		return false
	}
	return i.Abs().TrueLen() <= params.LPrimePlusEpsilon
}

// IsInIntervalLEpsRootN reports |i| ≤ 2^(l+ε)·√N for a standard modulus
// size, the bound proved by the no-small-factor proof.
func IsInIntervalLEpsRootN(i *saferith.Int) bool {
	if i == nil {
		return false
	}
	return i.Abs().TrueLen() <= params.LPlusEpsilon+params.BitsIntModN/2+1
}

// Jacobi returns the Jacobi symbol (x/n). Not constant time.
func Jacobi(x, n *saferith.Nat) int {
	return big.Jacobi(x.Big(), n.Big())
}
