// Package zksch implements a Schnorr proof of knowledge of a discrete
// logarithm. The commitment and response phases are split so the keygen
// protocol can commit early and respond once the final share is known.
package zksch

import (
	"crypto/rand"
	"io"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
)

var _ hash.WriterToWithDomain = (*Commitment)(nil)

// Randomness is the prover's ephemeral state: α and A = α·G.
type Randomness struct {
	a          curve.Scalar
	commitment Commitment
}

// Commitment is the first message A = α·G.
type Commitment struct {
	C curve.Point
}

// Response is the second message z = α + e·x.
type Response struct {
	Z curve.Scalar
}

// Proof is a complete non-interactive proof.
type Proof struct {
	C *Commitment
	Z *Response
}

// NewRandomness samples the ephemeral commitment.
func NewRandomness(source io.Reader, group curve.Curve) *Randomness {
	a := sample.Scalar(source, group)
	return &Randomness{
		a:          a,
		commitment: Commitment{C: a.ActOnBase()},
	}
}

func challenge(h *hash.Hash, group curve.Curve, commitment *Commitment, public curve.Point) curve.Scalar {
	_ = h.WriteAny(commitment.C, public, group.NewBasePoint())
	return sample.Scalar(h.Digest(), group)
}

// Commitment returns A.
func (r *Randomness) Commitment() *Commitment {
	return &r.commitment
}

// Prove computes the response for X = x·G, binding the challenge to the
// given transcript.
func (r *Randomness) Prove(h *hash.Hash, public curve.Point, secret curve.Scalar) *Response {
	if public.IsIdentity() || secret.IsZero() {
		return nil
	}
	group := secret.Curve()
	e := challenge(h, group, &r.commitment, public)
	z := group.NewScalar().Set(e).Mul(secret).Add(r.a)
	return &Response{Z: z}
}

// Verify checks z·G == A + e·X against the same transcript.
func (z *Response) Verify(h *hash.Hash, public curve.Point, commitment *Commitment) bool {
	if z == nil || !z.IsValid() || public.IsIdentity() {
		return false
	}
	group := z.Z.Curve()
	e := challenge(h, group, commitment, public)
	lhs := z.Z.ActOnBase()
	rhs := e.Act(public).Add(commitment.C)
	return lhs.Equal(rhs)
}

// NewProof generates a one-shot proof of knowledge of the discrete log of
// public.
func NewProof(h *hash.Hash, public curve.Point, private curve.Scalar) *Proof {
	r := NewRandomness(rand.Reader, private.Curve())
	z := r.Prove(h, public, private)
	return &Proof{C: r.Commitment(), Z: z}
}

// Verify checks the combined proof.
func (p *Proof) Verify(h *hash.Hash, public curve.Point) bool {
	if p == nil || !p.IsValid() {
		return false
	}
	return p.Z.Verify(h, public, p.C)
}

// IsValid rejects proofs with missing or degenerate fields.
func (p *Proof) IsValid() bool {
	return p.C != nil && p.C.IsValid() && p.Z != nil && p.Z.IsValid()
}

// IsValid rejects an identity commitment.
func (c *Commitment) IsValid() bool {
	return c != nil && c.C != nil && !c.C.IsIdentity()
}

// IsValid rejects a zero response.
func (z *Response) IsValid() bool {
	return z != nil && z.Z != nil && !z.Z.IsZero()
}

// WriteTo implements io.WriterTo.
func (c *Commitment) WriteTo(w io.Writer) (int64, error) {
	data, err := c.C.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Commitment) Domain() string { return "Schnorr Commitment" }

// EmptyCommitment returns a commitment ready for unmarshaling.
func EmptyCommitment(group curve.Curve) *Commitment {
	return &Commitment{C: group.NewPoint()}
}

// EmptyResponse returns a response ready for unmarshaling.
func EmptyResponse(group curve.Curve) *Response {
	return &Response{Z: group.NewScalar()}
}

// EmptyProof returns a proof ready for unmarshaling.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{C: EmptyCommitment(group), Z: EmptyResponse(group)}
}
