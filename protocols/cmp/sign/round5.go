package sign

import (
	"errors"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/ecdsa"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
)

var (
	_ round.BroadcastRound   = (*round5)(nil)
	_ round.BroadcastContent = (*broadcast5)(nil)
)

type round5 struct {
	*round4

	// PreSignature holds the joint nonce point and this party's shares.
	PreSignature *ecdsa.PreSignature

	// SigmaShares[j] = σⱼ
	SigmaShares map[party.ID]curve.Scalar
}

type broadcast5 struct {
	round.NormalBroadcastContent
	SigmaShare curve.Scalar
}

// StoreBroadcastMessage saves the sender's signature share.
func (r *round5) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast5)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.SigmaShare == nil || body.SigmaShare.IsZero() {
		return round.ErrNilFields
	}
	r.SigmaShares[msg.From] = body.SigmaShare
	return nil
}

// VerifyMessage implements round.Round.
func (round5) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round5) StoreMessage(round.Message) error { return nil }

// Finalize assembles s = Σⱼ σⱼ and returns the normalized signature
// after checking it against the public key.
func (r *round5) Finalize(chan<- *round.Message) (round.Session, error) {
	sig := r.PreSignature.Signature(r.SigmaShares)

	// a failure here means at least one share was wrong, but the
	// culprit cannot be identified without an identification round
	if !sig.Verify(r.PublicKey, r.Message) {
		return r.AbortRound(errors.New("sign: assembled signature failed to verify")), nil
	}
	return r.ResultRound(sig), nil
}

// MessageContent implements round.Round.
func (round5) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (broadcast5) RoundNumber() round.Number { return 5 }

// BroadcastContent implements round.BroadcastRound.
func (r *round5) BroadcastContent() round.BroadcastContent {
	return &broadcast5{SigmaShare: r.Group().NewScalar()}
}

// Number implements round.Round.
func (round5) Number() round.Number { return 5 }
