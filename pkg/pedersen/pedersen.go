// Package pedersen implements ring-Pedersen commitment parameters
// (N, s, t) with s = t^λ, used as the auxiliary bases of the range proofs.
package pedersen

import (
	"errors"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/math/arith"
)

var (
	// ErrNilFields is returned when a parameter is missing.
	ErrNilFields = errors.New("pedersen: nil parameters")
	// ErrSEqualT is returned when s and t coincide, which would make the
	// commitment degenerate.
	ErrSEqualT = errors.New("pedersen: s equals t")
	// ErrNotValidModN is returned when s or t is not a unit mod N.
	ErrNotValidModN = errors.New("pedersen: s or t is not a unit mod N")
)

// Parameters holds the public ring-Pedersen bases for a modulus N.
type Parameters struct {
	n    *arith.Modulus
	s, t *saferith.Nat
}

// New wraps the given parameters without validation; remote parameters
// must pass ValidateParameters and the zkprm proof first.
func New(n *arith.Modulus, s, t *saferith.Nat) *Parameters {
	return &Parameters{n: n, s: s, t: t}
}

// ValidateParameters checks that s, t are distinct units mod n.
func ValidateParameters(n *saferith.Modulus, s, t *saferith.Nat) error {
	if n == nil || s == nil || t == nil {
		return ErrNilFields
	}
	if !arith.IsValidNatModN(n, s, t) {
		return ErrNotValidModN
	}
	if s.Eq(t) == 1 {
		return ErrSEqualT
	}
	return nil
}

// N returns the modulus.
func (p *Parameters) N() *saferith.Modulus { return p.n.Modulus() }

// NArith returns the arithmetic wrapper of the modulus.
func (p *Parameters) NArith() *arith.Modulus { return p.n }

// S returns the base s.
func (p *Parameters) S() *saferith.Nat { return p.s }

// T returns the base t.
func (p *Parameters) T() *saferith.Nat { return p.t }

// Commit computes sˣ·tʸ (mod N).
func (p *Parameters) Commit(x, y *saferith.Int) *saferith.Nat {
	result := p.n.ExpI(p.s, x)
	ty := p.n.ExpI(p.t, y)
	result.ModMul(result, ty, p.n.Modulus())
	return result
}

// Verify checks that sᵃ·tᵇ ≡ S·Tᵉ (mod N), the equation used by every
// range-proof verifier over these parameters.
func (p *Parameters) Verify(a, b, e *saferith.Int, S, T *saferith.Nat) bool {
	if a == nil || b == nil || e == nil || S == nil || T == nil {
		return false
	}
	n := p.n.Modulus()
	if !arith.IsValidNatModN(n, S, T) {
		return false
	}
	lhs := p.Commit(a, b)
	rhs := p.n.ExpI(T, e)
	rhs.ModMul(rhs, S, n)
	return lhs.Eq(rhs) == 1
}

// WriteTo implements io.WriterTo so parameters can enter transcripts.
func (p *Parameters) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, data := range [][]byte{p.n.Bytes(), p.s.Bytes(), p.t.Bytes()} {
		n, err := w.Write(data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (*Parameters) Domain() string { return "Pedersen Parameters" }
