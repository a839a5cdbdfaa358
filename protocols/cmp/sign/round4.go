package sign

import (
	"errors"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/ecdsa"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	zklogstar "github.com/vaultsig/cggmp21/pkg/zk/logstar"
)

var (
	_ round.BroadcastRound   = (*round4)(nil)
	_ round.BroadcastContent = (*broadcast4)(nil)
)

type round4 struct {
	*round3

	// DeltaShares[j] = δⱼ
	DeltaShares map[party.ID]curve.Scalar
	// BigDeltaShares[j] = Δⱼ = kⱼ·Γ
	BigDeltaShares map[party.ID]curve.Point

	// Gamma = Σⱼ Γⱼ is the joint nonce point before scaling.
	Gamma curve.Point
	// ChiShare = χᵢ
	ChiShare curve.Scalar
}

type broadcast4 struct {
	round.NormalBroadcastContent
	DeltaShare    curve.Scalar
	BigDeltaShare curve.Point
}

type message4 struct {
	ProofLog *zklogstar.Proof
}

// StoreBroadcastMessage saves the sender's δⱼ and Δⱼ.
func (r *round4) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.DeltaShare == nil || body.BigDeltaShare == nil ||
		body.DeltaShare.IsZero() || body.BigDeltaShare.IsIdentity() {
		return round.ErrNilFields
	}
	r.DeltaShares[msg.From] = body.DeltaShare
	r.BigDeltaShares[msg.From] = body.BigDeltaShare
	return nil
}

// VerifyMessage checks the proof that Δⱼ = kⱼ·Γ for the kⱼ encrypted in Kⱼ.
func (r *round4) VerifyMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*message4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if !body.ProofLog.Verify(r.HashForID(from), zklogstar.Public{
		C:      r.K[from],
		X:      r.BigDeltaShares[from],
		G:      r.Gamma,
		Prover: r.Paillier[from],
		Aux:    r.Pedersen[r.SelfID()],
	}) {
		return round.ErrZKVerificationFailed
	}
	return nil
}

// StoreMessage implements round.Round.
func (round4) StoreMessage(round.Message) error { return nil }

// Finalize checks δ·G = Σⱼ Δⱼ, derives the signature point R = δ⁻¹·Γ,
// and broadcasts the signature share σᵢ = k·m + r·χᵢ.
func (r *round4) Finalize(out chan<- *round.Message) (round.Session, error) {
	// δ = Σⱼ δⱼ
	Delta := r.Group().NewScalar()
	BigDelta := r.Group().NewPoint()
	for _, j := range r.PartyIDs() {
		Delta.Add(r.DeltaShares[j])
		BigDelta = BigDelta.Add(r.BigDeltaShares[j])
	}

	if !Delta.ActOnBase().Equal(BigDelta) {
		return r.AbortRound(errors.New("sign: computed δ is inconsistent with Δ")), nil
	}

	// R = δ⁻¹·Γ
	deltaInv := r.Group().NewScalar().Set(Delta).Invert()
	preSignature := &ecdsa.PreSignature{
		R:        deltaInv.Act(r.Gamma),
		KShare:   r.KShare,
		ChiShare: r.ChiShare,
	}

	// σᵢ = kᵢ·m + r·χᵢ
	SigmaShare := preSignature.SignatureShare(r.Message)

	if err := r.BroadcastMessage(out, &broadcast5{SigmaShare: SigmaShare}); err != nil {
		return r, err
	}

	return &round5{
		round4:       r,
		PreSignature: preSignature,
		SigmaShares:  map[party.ID]curve.Scalar{r.SelfID(): SigmaShare},
	}, nil
}

// RoundNumber implements round.Content.
func (broadcast4) RoundNumber() round.Number { return 4 }

// BroadcastContent implements round.BroadcastRound.
func (r *round4) BroadcastContent() round.BroadcastContent {
	return &broadcast4{
		DeltaShare:    r.Group().NewScalar(),
		BigDeltaShare: r.Group().NewPoint(),
	}
}

// RoundNumber implements round.Content.
func (message4) RoundNumber() round.Number { return 4 }

// MessageContent implements round.Round.
func (r *round4) MessageContent() round.Content {
	return &message4{ProofLog: zklogstar.Empty(r.Group())}
}

// Number implements round.Round.
func (round4) Number() round.Number { return 4 }
