// Package sample implements the random sampling procedures required by the
// protocols: scalars, units, signed bounded intervals, and the Blum primes
// backing Paillier keys. All functions read from the provided source, which
// must be cryptographically secure.
package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
	"github.com/vaultsig/cggmp21/pkg/math/arith"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
)

// maxIterations bounds rejection sampling; exceeding it means the
// randomness source is broken.
const maxIterations = 255

// ErrMaxIterations is thrown in a panic when rejection sampling fails to
// terminate, since that can only indicate a broken entropy source.
var ErrMaxIterations = fmt.Errorf("sample: rejection sampling failed after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// Scalar returns a uniformly sampled non-zero scalar of the group.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buf := make([]byte, group.SafeScalarBytes())
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf)
		s := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a scalar x together with X = x·G.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}

// ModN samples an element of [0, n). The sample carries 2κ extra bits so
// the reduction bias is negligible.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	buf := make([]byte, (n.Nat().TrueLen()+7)/8+params.SecBytes)
	mustReadBits(rand, buf)
	out := new(saferith.Nat).SetBytes(buf)
	out.Mod(out, n)
	return out
}

// UnitModN samples a unit of (ℤ/nℤ)*.
func UnitModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	for i := 0; i < maxIterations; i++ {
		u := ModN(rand, n)
		if arith.IsUnit(u, n) {
			return u
		}
	}
	panic(ErrMaxIterations)
}

// QNR samples a quadratic non-residue with Jacobi symbol −1 mod n.
func QNR(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	nNat := n.Nat()
	for i := 0; i < maxIterations; i++ {
		w := ModN(rand, n)
		if arith.Jacobi(w, nNat) == -1 {
			return w
		}
	}
	panic(ErrMaxIterations)
}

// Pedersen samples ring-Pedersen parameters (s, t, λ) for the modulus n
// with group order φ: t is a random square, s = t^λ.
func Pedersen(rand io.Reader, phi *saferith.Nat, n *saferith.Modulus) (s, t, lambda *saferith.Nat) {
	phiMod := saferith.ModulusFromNat(phi)
	lambda = ModN(rand, phiMod)
	tau := UnitModN(rand, n)
	t = new(saferith.Nat).ModMul(tau, tau, n)
	s = new(saferith.Nat).Exp(t, lambda, n)
	return
}

// sampleNeg samples an integer in ±2^bits, using one extra byte for the
// sign.
func sampleNeg(rand io.Reader, bits int) *saferith.Int {
	buf := make([]byte, bits/8+1)
	mustReadBits(rand, buf)
	neg := saferith.Choice(buf[0] & 1)
	out := new(saferith.Int).SetNat(new(saferith.Nat).SetBytes(buf[1:]))
	out.Neg(neg)
	return out
}

// IntervalL returns an integer in ±2^l.
func IntervalL(rand io.Reader) *saferith.Int { return sampleNeg(rand, params.L) }

// IntervalLPrime returns an integer in ±2^l'.
func IntervalLPrime(rand io.Reader) *saferith.Int { return sampleNeg(rand, params.LPrime) }

// IntervalEps returns an integer in ±2^ε.
func IntervalEps(rand io.Reader) *saferith.Int { return sampleNeg(rand, params.Epsilon) }

// IntervalLEps returns an integer in ±2^(l+ε).
func IntervalLEps(rand io.Reader) *saferith.Int { return sampleNeg(rand, params.LPlusEpsilon) }

// IntervalLPrimeEps returns an integer in ±2^(l'+ε).
func IntervalLPrimeEps(rand io.Reader) *saferith.Int { return sampleNeg(rand, params.LPrimePlusEpsilon) }

// IntervalLN returns an integer in ±2^l·N, where N is a standard Paillier
// modulus.
func IntervalLN(rand io.Reader) *saferith.Int {
	return sampleNeg(rand, params.L+params.BitsIntModN)
}

// IntervalLEpsN returns an integer in ±2^(l+ε)·N.
func IntervalLEpsN(rand io.Reader) *saferith.Int {
	return sampleNeg(rand, params.LPlusEpsilon+params.BitsIntModN)
}

// IntervalLEpsRootN returns an integer in ±2^(l+ε)·√N.
func IntervalLEpsRootN(rand io.Reader) *saferith.Int {
	return sampleNeg(rand, params.LPlusEpsilon+params.BitsIntModN/2)
}

// IntervalLN2 returns an integer in ±2^l·N², used for the no-small-factor
// proof masking value σ.
func IntervalLN2(rand io.Reader) *saferith.Int {
	return sampleNeg(rand, params.L+2*params.BitsIntModN)
}

// IntervalLEpsN2 returns an integer in ±2^(l+ε)·N².
func IntervalLEpsN2(rand io.Reader) *saferith.Int {
	return sampleNeg(rand, params.LPlusEpsilon+2*params.BitsIntModN)
}

// IntervalScalar returns an integer in the scalar range of the group,
// used as a Fiat-Shamir challenge.
func IntervalScalar(rand io.Reader, group curve.Curve) *saferith.Int {
	return curve.MakeInt(Scalar(rand, group))
}
