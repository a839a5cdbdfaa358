package keygen

import (
	"errors"

	"github.com/vaultsig/cggmp21/internal/round"
	zksch "github.com/vaultsig/cggmp21/pkg/zk/sch"
	"github.com/vaultsig/cggmp21/protocols/cmp/config"
)

var (
	_ round.BroadcastRound   = (*round5)(nil)
	_ round.BroadcastContent = (*broadcast5)(nil)
)

type round5 struct {
	*round4
	UpdatedConfig *config.Config
}

type broadcast5 struct {
	round.NormalBroadcastContent
	// SchnorrResponse proves knowledge of the sender's new share.
	SchnorrResponse *zksch.Response
}

// StoreBroadcastMessage verifies the sender's proof of knowledge of its
// new share.
func (r *round5) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast5)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if !body.SchnorrResponse.IsValid() {
		return round.ErrNilFields
	}

	h := r.Hash()
	_ = h.WriteAny(r.UpdatedConfig, msg.From)
	if !body.SchnorrResponse.Verify(h,
		r.UpdatedConfig.Public[msg.From].ECDSA,
		r.SchnorrCommitments[msg.From]) {
		return errors.New("keygen: schnorr proof failed to verify")
	}
	return nil
}

// VerifyMessage implements round.Round.
func (round5) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round5) StoreMessage(round.Message) error { return nil }

// Finalize returns the new config.
func (r *round5) Finalize(chan<- *round.Message) (round.Session, error) {
	return r.ResultRound(r.UpdatedConfig), nil
}

// MessageContent implements round.Round.
func (round5) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (broadcast5) RoundNumber() round.Number { return 5 }

// BroadcastContent implements round.BroadcastRound.
func (r *round5) BroadcastContent() round.BroadcastContent {
	return &broadcast5{SchnorrResponse: zksch.EmptyResponse(r.Group())}
}

// Number implements round.Round.
func (round5) Number() round.Number { return 5 }
