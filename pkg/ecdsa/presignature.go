package ecdsa

import (
	"errors"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
)

// PreSignature is one party's message-independent signing material. Once
// every party holds one, a signature needs only a single broadcast of
// shares. It must never be reused for a second message.
type PreSignature struct {
	// R = δ⁻¹·Γ is the joint nonce point.
	R curve.Point
	// KShare is the party's additive share kᵢ of the nonce k.
	KShare curve.Scalar
	// ChiShare is the party's additive share χᵢ of k·x.
	ChiShare curve.Scalar
}

// SignatureShare computes the party's share σᵢ = kᵢ·m + r·χᵢ of the
// signature over the hashed message.
func (p *PreSignature) SignatureShare(hash []byte) curve.Scalar {
	group := p.R.Curve()
	m := curve.FromHash(group, hash)
	m.Mul(p.KShare)
	return group.NewScalar().Set(p.R.XScalar()).Mul(p.ChiShare).Add(m)
}

// Signature assembles the full signature from all parties' shares and
// normalizes it to low-s form.
func (p *PreSignature) Signature(shares map[party.ID]curve.Scalar) *Signature {
	group := p.R.Curve()
	s := group.NewScalar()
	for _, share := range shares {
		s.Add(share)
	}
	sig := &Signature{R: p.R, S: s}
	sig.Normalize()
	return sig
}

// Validate checks that no field is missing or trivial.
func (p *PreSignature) Validate() error {
	if p.R == nil || p.R.IsIdentity() {
		return errors.New("presignature: R is the identity")
	}
	if p.KShare == nil || p.KShare.IsZero() {
		return errors.New("presignature: nonce share is zero")
	}
	if p.ChiShare == nil || p.ChiShare.IsZero() {
		return errors.New("presignature: chi share is zero")
	}
	return nil
}
