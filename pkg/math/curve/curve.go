// Package curve abstracts the prime-order group used for signing. The
// protocols are generic over Curve; the concrete choice is fixed when a
// session is created.
package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents a prime-order elliptic curve group.
type Curve interface {
	// NewPoint returns the identity element.
	NewPoint() Point
	// NewBasePoint returns the group generator.
	NewBasePoint() Point
	// NewScalar returns the zero scalar.
	NewScalar() Scalar
	// Name identifies the curve in transcripts and serialized artifacts.
	Name() string
	// ScalarBits is the bit size of the group order.
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes needed to sample a
	// scalar with negligible bias.
	SafeScalarBytes() int
	// Order returns the group order as a modulus.
	Order() *saferith.Modulus
}

// Scalar is an element of the scalar field. Arithmetic methods mutate the
// receiver and return it, following the underlying library's convention.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Negate() Scalar
	Equal(Scalar) bool
	IsZero() bool
	IsOverHalfOrder() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	// Act returns the point obtained by scaling p by the receiver.
	Act(p Point) Point
	// ActOnBase returns the receiver times the generator.
	ActOnBase() Point
}

// Point is a group element. Operations return new points.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
	// XScalar returns the x coordinate reduced modulo the group order,
	// as used by the ECDSA verification equation.
	XScalar() Scalar
}

// MakeInt converts a scalar to a signed big integer in [0, q).
func MakeInt(s Scalar) *saferith.Int {
	data, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(saferith.Int).SetNat(new(saferith.Nat).SetBytes(data))
}

// FromHash converts a message digest to a scalar, truncating it to the
// scalar field size as prescribed by ECDSA.
func FromHash(group Curve, digest []byte) Scalar {
	orderBytes := (group.ScalarBits() + 7) / 8
	if len(digest) > orderBytes {
		digest = digest[:orderBytes]
	}
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(digest))
}
