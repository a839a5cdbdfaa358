package keygen

import (
	"errors"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	zkfac "github.com/vaultsig/cggmp21/pkg/zk/fac"
	zkmod "github.com/vaultsig/cggmp21/pkg/zk/mod"
	zkprm "github.com/vaultsig/cggmp21/pkg/zk/prm"
	"github.com/vaultsig/cggmp21/protocols/cmp/config"
)

var (
	_ round.BroadcastRound   = (*round4)(nil)
	_ round.BroadcastContent = (*broadcast4)(nil)
)

type round4 struct {
	*round3

	// RID is the jointly sampled session identifier.
	RID types.RID
	// ChainKey is the jointly sampled derivation key.
	ChainKey types.RID
}

type broadcast4 struct {
	round.NormalBroadcastContent
	Mod *zkmod.Proof
	Prm *zkprm.Proof
}

type message4 struct {
	// Share is Encⱼ(fᵢ(j)).
	Share *paillier.Ciphertext
	Fac   *zkfac.Proof
}

// StoreBroadcastMessage verifies the Paillier-Blum and Pedersen proofs
// of the sender.
func (r *round4) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if !body.Mod.Verify(r.Pool(), r.HashForID(from), zkmod.Public{N: r.PaillierPublic[from].N()}) {
		return errors.New("keygen: mod proof failed to verify")
	}
	if !body.Prm.Verify(r.Pool(), r.HashForID(from), zkprm.Public{Aux: r.Pedersen[from]}) {
		return errors.New("keygen: prm proof failed to verify")
	}
	return nil
}

// VerifyMessage checks the no-small-factor proof for the sender's
// modulus against this party's Pedersen parameters.
func (r *round4) VerifyMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*message4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Share == nil {
		return round.ErrNilFields
	}

	if !body.Fac.Verify(r.Group(), r.HashForID(from), zkfac.Public{
		N0:  r.PaillierPublic[from].N(),
		Aux: r.Pedersen[r.SelfID()],
	}) {
		return errors.New("keygen: fac proof failed to verify")
	}
	return nil
}

// StoreMessage decrypts the received share and checks it against the
// sender's committed polynomial.
func (r *round4) StoreMessage(msg round.Message) error {
	from := msg.From
	body := msg.Content.(*message4)

	decryptedShare, err := r.PaillierSecret.Dec(body.Share)
	if err != nil {
		return err
	}
	share := r.Group().NewScalar().SetNat(decryptedShare.Mod(r.Group().Order()))
	// reject shares that were not reduced, which would make the sender's
	// later Schnorr proof unverifiable
	if decryptedShare.Eq(curve.MakeInt(share)) != 1 {
		return errors.New("keygen: share is not in correct range")
	}

	// xʲᵢ·G == Fⱼ(i)
	expected := r.VSSPolynomials[from].Evaluate(r.SelfID().Scalar(r.Group()))
	if !share.ActOnBase().Equal(expected) {
		return errors.New("keygen: share does not match vss polynomial")
	}

	r.ShareReceived[from] = share
	return nil
}

// Finalize assembles the new config and proves knowledge of the new
// share.
func (r *round4) Finalize(out chan<- *round.Message) (round.Session, error) {
	// xᵢ = (previous xᵢ +) Σⱼ xʲᵢ
	updatedSecret := r.Group().NewScalar()
	if r.PreviousSecretECDSA != nil {
		updatedSecret.Set(r.PreviousSecretECDSA)
	}
	for _, j := range r.PartyIDs() {
		updatedSecret.Add(r.ShareReceived[j])
	}

	// F(X) = Σⱼ Fⱼ(X)
	polynomials := make([]*polynomial.Exponent, 0, r.N())
	for _, j := range r.PartyIDs() {
		polynomials = append(polynomials, r.VSSPolynomials[j])
	}
	shamirPublicPolynomial, err := polynomial.Sum(polynomials)
	if err != nil {
		return r, err
	}

	// Xⱼ = F(j) (+ previous Xⱼ on refresh)
	publicData := make(map[party.ID]*config.Public, r.N())
	for _, j := range r.PartyIDs() {
		publicShare := shamirPublicPolynomial.Evaluate(j.Scalar(r.Group()))
		if r.PreviousPublicSharesECDSA != nil {
			publicShare = publicShare.Add(r.PreviousPublicSharesECDSA[j])
		}
		publicData[j] = &config.Public{
			ECDSA:    publicShare,
			Paillier: r.PaillierPublic[j],
			Pedersen: r.Pedersen[j],
		}
	}

	updatedConfig := &config.Config{
		Group:     r.Group(),
		ID:        r.SelfID(),
		Threshold: r.Threshold(),
		ECDSA:     updatedSecret,
		Paillier:  r.PaillierSecret,
		RID:       r.RID.Copy(),
		ChainKey:  r.ChainKey.Copy(),
		Public:    publicData,
	}

	// the proof is bound to the full new config
	h := r.Hash()
	_ = h.WriteAny(updatedConfig, r.SelfID())
	proof := r.SchnorrRand.Prove(h, publicData[r.SelfID()].ECDSA, updatedSecret)

	if err := r.BroadcastMessage(out, &broadcast5{SchnorrResponse: proof}); err != nil {
		return r, err
	}
	return &round5{round4: r, UpdatedConfig: updatedConfig}, nil
}

// MessageContent implements round.Round.
func (round4) MessageContent() round.Content { return &message4{} }

// RoundNumber implements round.Content.
func (broadcast4) RoundNumber() round.Number { return 4 }

// BroadcastContent implements round.BroadcastRound.
func (round4) BroadcastContent() round.BroadcastContent { return &broadcast4{} }

// RoundNumber implements round.Content.
func (message4) RoundNumber() round.Number { return 4 }

// Number implements round.Round.
func (round4) Number() round.Number { return 4 }
