package curve

import (
	"encoding/hex"
	"errors"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Secp256k1 is the secp256k1 curve, backed by the decred implementation.
type Secp256k1 struct{}

const secp256k1OrderHex = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"

var secp256k1Order = func() *saferith.Modulus {
	data, err := hex.DecodeString(secp256k1OrderHex)
	if err != nil {
		panic(err)
	}
	return saferith.ModulusFromBytes(data)
}()

func (Secp256k1) NewPoint() Point { return new(Secp256k1Point) }

func (Secp256k1) NewBasePoint() Point {
	p := new(Secp256k1Point)
	one := new(secp256k1.ModNScalar).SetInt(1)
	secp256k1.ScalarBaseMultNonConst(one, &p.value)
	return p
}

func (Secp256k1) NewScalar() Scalar { return new(Secp256k1Scalar) }

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) ScalarBits() int { return 256 }

// SafeScalarBytes leaves 64 bits of slack so that reduction of a uniform
// value modulo the order has negligible bias.
func (Secp256k1) SafeScalarBytes() int { return 40 }

func (Secp256k1) Order() *saferith.Modulus { return secp256k1Order }

// Secp256k1Scalar is a scalar modulo the secp256k1 group order.
type Secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *Secp256k1Scalar {
	out, ok := generic.(*Secp256k1Scalar)
	if !ok {
		panic("curve: expected secp256k1 scalar")
	}
	return out
}

func (*Secp256k1Scalar) Curve() Curve { return Secp256k1{} }

func (s *Secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *Secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return errors.New("curve: invalid secp256k1 scalar length")
	}
	var exact [32]byte
	copy(exact[:], data)
	if s.value.SetBytes(&exact) != 0 {
		return errors.New("curve: secp256k1 scalar not reduced")
	}
	return nil
}

func (s *Secp256k1Scalar) Add(that Scalar) Scalar {
	s.value.Add(&secp256k1CastScalar(that).value)
	return s
}

func (s *Secp256k1Scalar) Sub(that Scalar) Scalar {
	neg := new(secp256k1.ModNScalar).NegateVal(&secp256k1CastScalar(that).value)
	s.value.Add(neg)
	return s
}

func (s *Secp256k1Scalar) Mul(that Scalar) Scalar {
	s.value.Mul(&secp256k1CastScalar(that).value)
	return s
}

func (s *Secp256k1Scalar) Invert() Scalar {
	s.value.InverseNonConst()
	return s
}

func (s *Secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *Secp256k1Scalar) Equal(that Scalar) bool {
	return s.value.Equals(&secp256k1CastScalar(that).value)
}

func (s *Secp256k1Scalar) IsZero() bool { return s.value.IsZero() }

func (s *Secp256k1Scalar) IsOverHalfOrder() bool { return s.value.IsOverHalfOrder() }

func (s *Secp256k1Scalar) Set(that Scalar) Scalar {
	s.value.Set(&secp256k1CastScalar(that).value)
	return s
}

func (s *Secp256k1Scalar) SetNat(n *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(n, secp256k1Order)
	buf := make([]byte, 32)
	reduced.FillBytes(buf)
	var exact [32]byte
	copy(exact[:], buf)
	s.value.SetBytes(&exact)
	return s
}

func (s *Secp256k1Scalar) Act(that Point) Point {
	result := new(Secp256k1Point)
	p := secp256k1CastPoint(that)
	if p.IsIdentity() {
		return result
	}
	secp256k1.ScalarMultNonConst(&s.value, &p.value, &result.value)
	return result
}

func (s *Secp256k1Scalar) ActOnBase() Point {
	result := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &result.value)
	return result
}

// Secp256k1Point is a point on secp256k1, with the identity represented by
// the point at infinity (Z = 0).
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *Secp256k1Point {
	out, ok := generic.(*Secp256k1Point)
	if !ok {
		panic("curve: expected secp256k1 point")
	}
	return out
}

func (*Secp256k1Point) Curve() Curve { return Secp256k1{} }

func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, 33)
	if p.IsIdentity() {
		return out, nil
	}
	affine := p.value
	affine.ToAffine()
	if affine.Y.IsOdd() {
		out[0] = 0x03
	} else {
		out[0] = 0x02
	}
	xBytes := affine.X.Bytes()
	copy(out[1:], xBytes[:])
	return out, nil
}

func (p *Secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 33 {
		return errors.New("curve: invalid secp256k1 point length")
	}
	allZero := true
	for _, b := range data {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		p.value = secp256k1.JacobianPoint{}
		return nil
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return err
	}
	var x, y secp256k1.FieldVal
	if x.SetByteSlice(pub.X().Bytes()) || y.SetByteSlice(pub.Y().Bytes()) {
		return errors.New("curve: coordinate overflow")
	}
	p.value.X.Set(&x)
	p.value.Y.Set(&y)
	p.value.Z.SetInt(1)
	return nil
}

func (p *Secp256k1Point) Add(that Point) Point {
	result := new(Secp256k1Point)
	secp256k1.AddNonConst(&p.value, &secp256k1CastPoint(that).value, &result.value)
	return result
}

func (p *Secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Secp256k1Point) Negate() Point {
	result := new(Secp256k1Point)
	result.value.Set(&p.value)
	if result.IsIdentity() {
		return result
	}
	result.value.Y.Normalize()
	result.value.Y.Negate(1)
	result.value.Y.Normalize()
	return result
}

func (p *Secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)
	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() && other.IsIdentity()
	}
	a := p.value
	a.ToAffine()
	b := other.value
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	zero := p.value.Z
	return zero.Normalize().IsZero()
}

func (p *Secp256k1Point) XScalar() Scalar {
	s := new(Secp256k1Scalar)
	affine := p.value
	affine.ToAffine()
	xBytes := affine.X.Bytes()
	s.value.SetByteSlice(xBytes[:])
	return s
}
