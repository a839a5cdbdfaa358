// Package polynomial implements the secret polynomials of Feldman
// verifiable secret sharing, their public exponent form, and Lagrange
// interpolation coefficients.
package polynomial

import (
	"crypto/rand"
	"errors"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
)

// Polynomial is a polynomial over the scalar field, with secret
// coefficients. It is owned by the party that sampled it and never
// serialized.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial samples a random polynomial of the given degree with the
// provided constant coefficient. A nil constant is taken as zero, which is
// the form used by key refresh.
func NewPolynomial(group curve.Curve, degree int, constant curve.Scalar) *Polynomial {
	p := &Polynomial{
		group:        group,
		coefficients: make([]curve.Scalar, degree+1),
	}
	if constant == nil {
		constant = group.NewScalar()
	}
	p.coefficients[0] = constant
	for i := 1; i <= degree; i++ {
		p.coefficients[i] = sample.Scalar(rand.Reader, group)
	}
	return p
}

// Evaluate returns f(x) using Horner's method. x must be non-zero since
// f(0) is the shared secret.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	if x.IsZero() {
		panic("polynomial: attempt to evaluate at 0")
	}
	result := p.group.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// Constant returns a copy of f(0).
func (p *Polynomial) Constant() curve.Scalar {
	return p.group.NewScalar().Set(p.coefficients[0])
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Exponent is the commitment [f(X)]·G to a secret polynomial, i.e. the
// coefficient-wise exponent form broadcast during VSS.
type Exponent struct {
	group        curve.Curve
	coefficients []curve.Point
}

// NewPolynomialExponent commits to every coefficient of p.
func NewPolynomialExponent(p *Polynomial) *Exponent {
	e := &Exponent{
		group:        p.group,
		coefficients: make([]curve.Point, len(p.coefficients)),
	}
	for i, c := range p.coefficients {
		e.coefficients[i] = c.ActOnBase()
	}
	return e
}

// EmptyExponent returns an Exponent ready to be unmarshaled into.
func EmptyExponent(group curve.Curve) *Exponent {
	return &Exponent{group: group}
}

// Evaluate returns F(x) = f(x)·G by Horner's method in the exponent.
func (e *Exponent) Evaluate(x curve.Scalar) curve.Point {
	result := e.group.NewPoint()
	for i := len(e.coefficients) - 1; i >= 0; i-- {
		result = x.Act(result).Add(e.coefficients[i])
	}
	return result
}

// Constant returns the commitment to f(0).
func (e *Exponent) Constant() curve.Point {
	return e.coefficients[0]
}

// Degree returns the degree of the committed polynomial.
func (e *Exponent) Degree() int { return len(e.coefficients) - 1 }

// Add sets e to the coefficient-wise sum e + other.
// Both must have the same degree.
func (e *Exponent) Add(other *Exponent) error {
	if len(e.coefficients) != len(other.coefficients) {
		return errors.New("polynomial: mismatched degrees in sum")
	}
	for i := range e.coefficients {
		e.coefficients[i] = e.coefficients[i].Add(other.coefficients[i])
	}
	return nil
}

// Sum returns the coefficient-wise sum of the given exponent polynomials.
func Sum(polynomials []*Exponent) (*Exponent, error) {
	if len(polynomials) == 0 {
		return nil, errors.New("polynomial: empty sum")
	}
	sum := polynomials[0].copy()
	for _, p := range polynomials[1:] {
		if err := sum.Add(p); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func (e *Exponent) copy() *Exponent {
	out := &Exponent{
		group:        e.group,
		coefficients: make([]curve.Point, len(e.coefficients)),
	}
	for i, c := range e.coefficients {
		out.coefficients[i] = e.group.NewPoint().Add(c)
	}
	return out
}

const compressedPointSize = 33

// MarshalBinary encodes the coefficients as concatenated compressed points.
func (e *Exponent) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, len(e.coefficients)*compressedPointSize)
	for _, c := range e.coefficients {
		data, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalBinary decodes coefficients; the receiver must have been
// created with EmptyExponent so the group is known.
func (e *Exponent) UnmarshalBinary(data []byte) error {
	if e.group == nil {
		return errors.New("polynomial: exponent has no group")
	}
	if len(data) == 0 || len(data)%compressedPointSize != 0 {
		return errors.New("polynomial: invalid exponent encoding")
	}
	count := len(data) / compressedPointSize
	coefficients := make([]curve.Point, count)
	for i := 0; i < count; i++ {
		p := e.group.NewPoint()
		if err := p.UnmarshalBinary(data[i*compressedPointSize : (i+1)*compressedPointSize]); err != nil {
			return err
		}
		coefficients[i] = p
	}
	e.coefficients = coefficients
	return nil
}
