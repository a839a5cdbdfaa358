// Package ecdsa holds the signature type produced by the signing protocol
// and its verification logic.
package ecdsa

import (
	"github.com/vaultsig/cggmp21/pkg/math/curve"
)

// Signature is an ECDSA signature. R is kept as a full point so that the
// recovery byte can be derived by callers that need it.
type Signature struct {
	R curve.Point
	S curve.Scalar
}

// EmptySignature returns a signature with fields ready for unmarshaling.
func EmptySignature(group curve.Curve) Signature {
	return Signature{R: group.NewPoint(), S: group.NewScalar()}
}

// Verify checks the signature over the hashed message against the public
// key X. The x coordinate of R is compared directly, so a signature
// remains valid after Normalize.
func (sig Signature) Verify(X curve.Point, hash []byte) bool {
	group := X.Curve()
	if sig.R == nil || sig.S == nil || sig.R.IsIdentity() || sig.S.IsZero() {
		return false
	}
	r := sig.R.XScalar()
	if r.IsZero() {
		return false
	}
	m := curve.FromHash(group, hash)
	sInv := group.NewScalar().Set(sig.S).Invert()
	u1 := m.Mul(sInv)
	u2 := group.NewScalar().Set(r).Mul(sInv)
	R2 := u1.ActOnBase().Add(u2.Act(X))
	if R2.IsIdentity() {
		return false
	}
	return R2.XScalar().Equal(r)
}

// Normalize converts the signature to its low-s form. Both halves are
// adjusted so the (R, S) pair stays consistent for recovery.
func (sig *Signature) Normalize() {
	if sig.S.IsOverHalfOrder() {
		sig.S.Negate()
		sig.R = sig.R.Negate()
	}
}
