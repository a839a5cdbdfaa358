package keygen

import (
	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	zksch "github.com/vaultsig/cggmp21/pkg/zk/sch"
)

var (
	_ round.BroadcastRound = (*round2)(nil)
	_ round.BroadcastContent = (*broadcast2)(nil)
)

type round2 struct {
	*round1

	// VSSPolynomials[j] = Fⱼ(X) = fⱼ(X)·G
	VSSPolynomials map[party.ID]*polynomial.Exponent
	// Commitments[j] = H(msg₂ⱼ)
	Commitments map[party.ID]hash.Commitment
	// RIDs[j] is the random contribution of party j
	RIDs map[party.ID]types.RID
	// ChainKeys[j] is the chain key contribution of party j
	ChainKeys map[party.ID]types.RID
	// ShareReceived[j] = xʲᵢ, the share this party receives from j
	ShareReceived map[party.ID]curve.Scalar
	// PaillierPublic[j] = Nⱼ
	PaillierPublic map[party.ID]*paillier.PublicKey
	// Pedersen[j] = (Nⱼ, sⱼ, tⱼ)
	Pedersen map[party.ID]*pedersen.Parameters
	// SchnorrCommitments[j] = Aⱼ
	SchnorrCommitments map[party.ID]*zksch.Commitment

	PaillierSecret *paillier.SecretKey
	// PedersenSecret = λ with s = t^λ
	PedersenSecret *saferith.Nat
	SchnorrRand    *zksch.Randomness
	Decommitment   hash.Decommitment
}

type broadcast2 struct {
	round.ReliableBroadcastContent
	// Commitment binds all of the party's first-round material.
	Commitment hash.Commitment
}

// StoreBroadcastMessage saves the commitment of another party.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if err := body.Commitment.Validate(); err != nil {
		return err
	}
	r.Commitments[msg.From] = body.Commitment
	return nil
}

// VerifyMessage implements round.Round.
func (round2) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round2) StoreMessage(round.Message) error { return nil }

// Finalize opens the commitment made in the first round.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	err := r.BroadcastMessage(out, &broadcast3{
		RID:                r.RIDs[r.SelfID()],
		C:                  r.ChainKeys[r.SelfID()],
		VSSPolynomial:      r.VSSPolynomials[r.SelfID()],
		SchnorrCommitments: r.SchnorrCommitments[r.SelfID()],
		N:                  r.Pedersen[r.SelfID()].N(),
		S:                  r.Pedersen[r.SelfID()].S(),
		T:                  r.Pedersen[r.SelfID()].T(),
		Decommitment:       r.Decommitment,
	})
	if err != nil {
		return r, err
	}
	return &round3{round2: r}, nil
}

// MessageContent implements round.Round.
func (round2) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// BroadcastContent implements round.BroadcastRound.
func (round2) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
