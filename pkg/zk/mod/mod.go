// Package zkmod proves that a Paillier modulus N is a Paillier-Blum
// modulus: odd, square-free, and a product of two primes ≡ 3 (mod 4).
// The proof exhibits N-th roots and fourth roots of challenge values,
// which only a well-formed modulus admits.
package zkmod

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/arith"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/pool"
)

// Public is the statement: the modulus N.
type Public struct {
	N *saferith.Modulus
}

// Private is the witness: the factorization of N.
type Private struct {
	P, Q, Phi *saferith.Nat
}

// Response answers a single challenge y: z is an N-th root of y, and x is
// a fourth root of y' = (−1)ᵃ·wᵇ·y.
type Response struct {
	A, B bool
	X    *saferith.Nat
	Z    *saferith.Nat
}

// Proof is the combined proof over StatParam challenges.
type Proof struct {
	W         *saferith.Nat
	Responses [params.StatParam]*Response
}

// NewProof proves that the modulus of the witness is Paillier-Blum.
func NewProof(pl *pool.Pool, h *hash.Hash, public Public, private Private) *Proof {
	n := public.N
	w := sample.QNR(rand.Reader, n)

	ys := challenge(h, public, w)

	phiMod := saferith.ModulusFromNat(private.Phi)
	nInv := new(saferith.Nat).ModInverse(n.Nat(), phiMod)

	pBig := private.P.Big()
	qBig := private.Q.Big()
	nBig := n.Nat().Big()
	wBig := w.Big()

	var proof Proof
	proof.W = w
	pl.Parallelize(params.StatParam, func(i int) interface{} {
		y := ys[i]
		z := new(saferith.Nat).Exp(y, nInv, n)
		a, b, x := fourthRoot(y.Big(), wBig, pBig, qBig, nBig)
		proof.Responses[i] = &Response{
			A: a,
			B: b,
			X: new(saferith.Nat).SetBig(x, n.Nat().TrueLen()),
			Z: z,
		}
		return nil
	})
	return &proof
}

// Verify checks the proof. The modulus itself is checked to be odd and
// composite; each response then attests to the Blum structure.
func (p *Proof) Verify(pl *pool.Pool, h *hash.Hash, public Public) bool {
	if p == nil || p.W == nil {
		return false
	}
	n := public.N
	nNat := n.Nat()
	if nNat.Byte(0)&1 != 1 {
		return false
	}
	if nNat.Big().ProbablyPrime(20) {
		return false
	}
	if !arith.IsValidNatModN(n, p.W) {
		return false
	}
	if arith.Jacobi(p.W, nNat) != -1 {
		return false
	}

	ys := challenge(h, public, p.W)

	results := pl.Parallelize(params.StatParam, func(i int) interface{} {
		r := p.Responses[i]
		if r == nil || !arith.IsValidNatModN(n, r.X, r.Z) {
			return false
		}
		// zᴺ == y (mod N)
		zN := new(saferith.Nat).Exp(r.Z, nNat, n)
		if zN.Eq(ys[i]) != 1 {
			return false
		}
		// x⁴ == (−1)ᵃ·wᵇ·y (mod N)
		yPrime := ys[i].Clone()
		if r.B {
			yPrime.ModMul(yPrime, p.W, n)
		}
		if r.A {
			yPrime.ModNeg(yPrime, n)
		}
		x2 := new(saferith.Nat).ModMul(r.X, r.X, n)
		x4 := new(saferith.Nat).ModMul(x2, x2, n)
		return x4.Eq(yPrime) == 1
	})
	for _, ok := range results {
		if !ok.(bool) {
			return false
		}
	}
	return true
}

// challenge derives StatParam values mod N from the transcript.
func challenge(h *hash.Hash, public Public, w *saferith.Nat) []*saferith.Nat {
	_ = h.WriteAny(public.N, w)
	digest := h.Digest()
	ys := make([]*saferith.Nat, params.StatParam)
	for i := range ys {
		ys[i] = sample.ModN(digest, public.N)
	}
	return ys
}

// fourthRoot finds (a, b) such that y' = (−1)ᵃ·wᵇ·y is a quadratic
// residue mod both primes, and returns its principal fourth root mod N.
// Requires p, q ≡ 3 (mod 4) and Jacobi(w, N) = −1.
func fourthRoot(y, w, p, q, n *big.Int) (bool, bool, *big.Int) {
	one := big.NewInt(1)
	var a, b bool
	yPrime := new(big.Int).Set(y)
	for i := 0; i < 4; i++ {
		a = i&1 == 1
		b = i&2 == 2
		yPrime.Set(y)
		if b {
			yPrime.Mul(yPrime, w)
		}
		if a {
			yPrime.Neg(yPrime)
		}
		yPrime.Mod(yPrime, n)
		if big.Jacobi(yPrime, p) == 1 && big.Jacobi(yPrime, q) == 1 {
			break
		}
	}

	// square root exponent (r+1)/4 per prime, applied twice
	expP := new(big.Int).Add(p, one)
	expP.Rsh(expP, 2)
	expQ := new(big.Int).Add(q, one)
	expQ.Rsh(expQ, 2)

	rootMod := func(u, prime, exp *big.Int) *big.Int {
		r := new(big.Int).Exp(u, exp, prime)
		r.Exp(r, exp, prime)
		return r
	}
	xp := rootMod(yPrime, p, expP)
	xq := rootMod(yPrime, q, expQ)

	// CRT combine
	qInvP := new(big.Int).ModInverse(q, p)
	diff := new(big.Int).Sub(xp, xq)
	diff.Mul(diff, qInvP)
	diff.Mod(diff, p)
	x := new(big.Int).Mul(diff, q)
	x.Add(x, xq)
	x.Mod(x, n)
	return a, b, x
}
