package keygen

import (
	"errors"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	zkfac "github.com/vaultsig/cggmp21/pkg/zk/fac"
	zkmod "github.com/vaultsig/cggmp21/pkg/zk/mod"
	zkprm "github.com/vaultsig/cggmp21/pkg/zk/prm"
	zksch "github.com/vaultsig/cggmp21/pkg/zk/sch"
)

var (
	_ round.BroadcastRound   = (*round3)(nil)
	_ round.BroadcastContent = (*broadcast3)(nil)
)

type round3 struct {
	*round2
}

type broadcast3 struct {
	round.NormalBroadcastContent
	// RID is the party's random contribution to the session identifier.
	RID types.RID
	// C is the party's chain key contribution.
	C types.RID
	// VSSPolynomial is Fᵢ(X) = fᵢ(X)·G.
	VSSPolynomial *polynomial.Exponent
	// SchnorrCommitments is Aᵢ for the final proof of knowledge.
	SchnorrCommitments *zksch.Commitment
	N                  *saferith.Modulus
	S                  *saferith.Nat
	T                  *saferith.Nat
	Decommitment       hash.Decommitment
}

// StoreBroadcastMessage checks the opened material against the
// commitment from round 1 and validates all public parameters.
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if err := body.RID.Validate(); err != nil {
		return err
	}
	if err := body.C.Validate(); err != nil {
		return err
	}
	if err := body.Decommitment.Validate(); err != nil {
		return err
	}

	// the sharing polynomial must have the agreed degree
	if body.VSSPolynomial == nil || body.VSSPolynomial.Degree() != r.Threshold()-1 {
		return errors.New("keygen: vss polynomial has wrong degree")
	}
	// a refresh contribution must not shift the secret key
	if r.PreviousSecretECDSA != nil && !body.VSSPolynomial.Constant().IsIdentity() {
		return errors.New("keygen: refresh contribution has non-zero constant")
	}

	if err := paillier.ValidateN(body.N); err != nil {
		return err
	}
	if err := pedersen.ValidateParameters(body.N, body.S, body.T); err != nil {
		return err
	}

	pedersenPublic := pedersen.New(paillier.NewPublicKey(body.N).Modulus(), body.S, body.T)
	if !r.HashForID(from).Decommit(r.Commitments[from], body.Decommitment,
		body.RID, body.C, body.VSSPolynomial, body.SchnorrCommitments, pedersenPublic) {
		return errors.New("keygen: failed to decommit")
	}

	r.RIDs[from] = body.RID
	r.ChainKeys[from] = body.C
	r.VSSPolynomials[from] = body.VSSPolynomial
	r.SchnorrCommitments[from] = body.SchnorrCommitments
	r.PaillierPublic[from] = paillier.NewPublicKey(body.N)
	r.Pedersen[from] = pedersenPublic
	return nil
}

// VerifyMessage implements round.Round.
func (round3) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round3) StoreMessage(round.Message) error { return nil }

// Finalize combines the RID contributions, proves the Paillier and
// Pedersen parameters well formed, and distributes the encrypted VSS
// shares.
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	// rid = ⊕ⱼ ridⱼ, chainKey = ⊕ⱼ cⱼ
	rid := types.EmptyRID()
	chainKey := types.EmptyRID()
	for _, j := range r.PartyIDs() {
		rid.XOR(r.RIDs[j])
		chainKey.XOR(r.ChainKeys[j])
	}
	if r.PreviousChainKey != nil {
		chainKey = r.PreviousChainKey.Copy()
	}

	// all Fiat-Shamir challenges from here on are bound to rid
	r.UpdateHashState(rid)

	mod := zkmod.NewProof(r.Pool(), r.HashForID(r.SelfID()), zkmod.Public{
		N: r.PaillierPublic[r.SelfID()].N(),
	}, zkmod.Private{
		P:   r.PaillierSecret.P(),
		Q:   r.PaillierSecret.Q(),
		Phi: r.PaillierSecret.Phi(),
	})
	prm := zkprm.NewProof(r.Pool(), r.HashForID(r.SelfID()), zkprm.Public{
		Aux: r.Pedersen[r.SelfID()],
	}, zkprm.Private{
		Lambda: r.PedersenSecret,
		Phi:    r.PaillierSecret.Phi(),
	})

	if err := r.BroadcastMessage(out, &broadcast4{Mod: mod, Prm: prm}); err != nil {
		return r, err
	}

	for _, j := range r.OtherPartyIDs() {
		// encrypt the share fᵢ(j) under j's Paillier key
		share := r.VSSSecret.Evaluate(j.Scalar(r.Group()))
		c, _ := r.PaillierPublic[j].Enc(curve.MakeInt(share))

		// prove to j that Nᵢ has no small factors, against j's parameters
		fac := zkfac.NewProof(r.Group(), r.HashForID(r.SelfID()), zkfac.Public{
			N0:  r.PaillierPublic[r.SelfID()].N(),
			Aux: r.Pedersen[j],
		}, zkfac.Private{
			P: r.PaillierSecret.P(),
			Q: r.PaillierSecret.Q(),
		})

		if err := r.SendMessage(out, &message4{Share: c, Fac: fac}, j); err != nil {
			return r, err
		}
	}

	return &round4{
		round3:   r,
		RID:      rid,
		ChainKey: chainKey,
	}, nil
}

// MessageContent implements round.Round.
func (round3) MessageContent() round.Content { return nil }

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

// BroadcastContent implements round.BroadcastRound.
func (r *round3) BroadcastContent() round.BroadcastContent {
	return &broadcast3{
		VSSPolynomial:      polynomial.EmptyExponent(r.Group()),
		SchnorrCommitments: zksch.EmptyCommitment(r.Group()),
	}
}

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
