package sign

import (
	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/mta"
	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	zkenc "github.com/vaultsig/cggmp21/pkg/zk/enc"
	zklogstar "github.com/vaultsig/cggmp21/pkg/zk/logstar"
)

var (
	_ round.BroadcastRound   = (*round2)(nil)
	_ round.BroadcastContent = (*broadcast2)(nil)
)

type round2 struct {
	*round1

	// K[j] = Encⱼ(kⱼ)
	K map[party.ID]*paillier.Ciphertext
	// G[j] = Encⱼ(γⱼ)
	G map[party.ID]*paillier.Ciphertext

	// BigGammaShare[j] = Γⱼ = γⱼ·G
	BigGammaShare map[party.ID]curve.Point

	GammaShare *saferith.Int
	KShare     curve.Scalar

	// KNonce and GNonce are the encryption nonces of Kᵢ and Gᵢ.
	KNonce *saferith.Nat
	GNonce *saferith.Nat
}

type broadcast2 struct {
	round.ReliableBroadcastContent
	K *paillier.Ciphertext
	G *paillier.Ciphertext
}

type message2 struct {
	ProofEnc *zkenc.Proof
}

// StoreBroadcastMessage saves the encrypted nonce shares after checking
// that they are valid ciphertexts for the sender's key.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if !r.Paillier[msg.From].ValidateCiphertexts(body.K, body.G) {
		return round.ErrNilFields
	}

	r.K[msg.From] = body.K
	r.G[msg.From] = body.G
	return nil
}

// VerifyMessage checks the sender's proof that Kⱼ encrypts a value in
// the allowed range.
func (r *round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if !body.ProofEnc.Verify(r.Group(), r.HashForID(msg.From), zkenc.Public{
		K:      r.K[msg.From],
		Prover: r.Paillier[msg.From],
		Aux:    r.Pedersen[r.SelfID()],
	}) {
		return round.ErrZKVerificationFailed
	}
	return nil
}

// StoreMessage implements round.Round.
func (round2) StoreMessage(round.Message) error { return nil }

// Finalize runs the two MtA conversions with each other party, one for
// δᵢ = γᵢ·k and one for χᵢ = xᵢ·k, and proves Γᵢ consistent with Gᵢ.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	otherIDs := r.OtherPartyIDs()
	n := len(otherIDs)

	// Γᵢ goes out first so receivers can verify the MtA proofs against it.
	if err := r.BroadcastMessage(out, &broadcast3{
		BigGammaShare: r.BigGammaShare[r.SelfID()],
	}); err != nil {
		return r, err
	}

	type mtaOut struct {
		err       error
		DeltaBeta *saferith.Int
		ChiBeta   *saferith.Int
	}
	mtaOuts := r.Pool().Parallelize(n, func(i int) interface{} {
		j := otherIDs[i]

		DeltaBeta, DeltaD, DeltaF, DeltaProof := mta.ProveAffG(r.Group(), r.HashForID(r.SelfID()),
			r.GammaShare, r.BigGammaShare[r.SelfID()], r.K[j],
			r.SecretPaillier, r.Paillier[j], r.Pedersen[j])
		ChiBeta, ChiD, ChiF, ChiProof := mta.ProveAffG(r.Group(), r.HashForID(r.SelfID()),
			curve.MakeInt(r.SecretECDSA), r.ECDSA[r.SelfID()], r.K[j],
			r.SecretPaillier, r.Paillier[j], r.Pedersen[j])

		proofLog := zklogstar.NewProof(r.HashForID(r.SelfID()), zklogstar.Public{
			C:      r.G[r.SelfID()],
			X:      r.BigGammaShare[r.SelfID()],
			Prover: r.Paillier[r.SelfID()],
			Aux:    r.Pedersen[j],
		}, zklogstar.Private{
			X:   r.GammaShare,
			Rho: r.GNonce,
		})

		err := r.SendMessage(out, &message3{
			DeltaD:     DeltaD,
			DeltaF:     DeltaF,
			DeltaProof: DeltaProof,
			ChiD:       ChiD,
			ChiF:       ChiF,
			ChiProof:   ChiProof,
			ProofLog:   proofLog,
		}, j)
		return mtaOut{err: err, DeltaBeta: DeltaBeta, ChiBeta: ChiBeta}
	})

	deltaShareBeta := make(map[party.ID]*saferith.Int, n)
	chiShareBeta := make(map[party.ID]*saferith.Int, n)
	for i, o := range mtaOuts {
		m := o.(mtaOut)
		if m.err != nil {
			return r, m.err
		}
		deltaShareBeta[otherIDs[i]] = m.DeltaBeta
		chiShareBeta[otherIDs[i]] = m.ChiBeta
	}

	return &round3{
		round2:          r,
		DeltaShareBeta:  deltaShareBeta,
		ChiShareBeta:    chiShareBeta,
		DeltaShareAlpha: make(map[party.ID]*saferith.Int, n),
		ChiShareAlpha:   make(map[party.ID]*saferith.Int, n),
	}, nil
}

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// BroadcastContent implements round.BroadcastRound.
func (round2) BroadcastContent() round.BroadcastContent { return &broadcast2{} }

// RoundNumber implements round.Content.
func (message2) RoundNumber() round.Number { return 2 }

// MessageContent implements round.Round.
func (round2) MessageContent() round.Content { return &message2{} }

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }
