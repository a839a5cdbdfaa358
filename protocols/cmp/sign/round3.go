package sign

import (
	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	zkaffg "github.com/vaultsig/cggmp21/pkg/zk/affg"
	zklogstar "github.com/vaultsig/cggmp21/pkg/zk/logstar"
)

var (
	_ round.BroadcastRound   = (*round3)(nil)
	_ round.BroadcastContent = (*broadcast3)(nil)
)

type round3 struct {
	*round2

	// DeltaShareBeta[j] = βᵢⱼ from the γᵢ·kⱼ conversion.
	DeltaShareBeta map[party.ID]*saferith.Int
	// ChiShareBeta[j] = β̂ᵢⱼ from the xᵢ·kⱼ conversion.
	ChiShareBeta map[party.ID]*saferith.Int
	// DeltaShareAlpha[j] = αⱼᵢ decrypted from party j's Dⱼᵢ.
	DeltaShareAlpha map[party.ID]*saferith.Int
	// ChiShareAlpha[j] = α̂ⱼᵢ decrypted from party j's D̂ⱼᵢ.
	ChiShareAlpha map[party.ID]*saferith.Int
}

type broadcast3 struct {
	round.NormalBroadcastContent
	BigGammaShare curve.Point
}

type message3 struct {
	DeltaD     *paillier.Ciphertext
	DeltaF     *paillier.Ciphertext
	DeltaProof *zkaffg.Proof
	ChiD       *paillier.Ciphertext
	ChiF       *paillier.Ciphertext
	ChiProof   *zkaffg.Proof
	ProofLog   *zklogstar.Proof
}

// StoreBroadcastMessage saves the sender's Γⱼ.
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.BigGammaShare == nil || body.BigGammaShare.IsIdentity() {
		return round.ErrNilFields
	}
	r.BigGammaShare[msg.From] = body.BigGammaShare
	return nil
}

// VerifyMessage checks both MtA proofs and the consistency proof for Γⱼ.
func (r *round3) VerifyMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*message3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}

	if !body.DeltaProof.Verify(r.HashForID(from), zkaffg.Public{
		Kv:       r.K[r.SelfID()],
		Dv:       body.DeltaD,
		Fp:       body.DeltaF,
		Xp:       r.BigGammaShare[from],
		Prover:   r.Paillier[from],
		Verifier: r.Paillier[r.SelfID()],
		Aux:      r.Pedersen[r.SelfID()],
	}) {
		return round.ErrZKVerificationFailed
	}

	if !body.ChiProof.Verify(r.HashForID(from), zkaffg.Public{
		Kv:       r.K[r.SelfID()],
		Dv:       body.ChiD,
		Fp:       body.ChiF,
		Xp:       r.ECDSA[from],
		Prover:   r.Paillier[from],
		Verifier: r.Paillier[r.SelfID()],
		Aux:      r.Pedersen[r.SelfID()],
	}) {
		return round.ErrZKVerificationFailed
	}

	if !body.ProofLog.Verify(r.HashForID(from), zklogstar.Public{
		C:      r.G[from],
		X:      r.BigGammaShare[from],
		Prover: r.Paillier[from],
		Aux:    r.Pedersen[r.SelfID()],
	}) {
		return round.ErrZKVerificationFailed
	}
	return nil
}

// StoreMessage decrypts the sender's MtA outputs.
func (r *round3) StoreMessage(msg round.Message) error {
	from := msg.From
	body := msg.Content.(*message3)

	deltaShareAlpha, err := r.SecretPaillier.Dec(body.DeltaD)
	if err != nil {
		return err
	}
	chiShareAlpha, err := r.SecretPaillier.Dec(body.ChiD)
	if err != nil {
		return err
	}

	r.DeltaShareAlpha[from] = deltaShareAlpha
	r.ChiShareAlpha[from] = chiShareAlpha
	return nil
}

// Finalize assembles δᵢ = γᵢ·kᵢ + Σⱼ(αᵢⱼ+βᵢⱼ) and χᵢ likewise, computes
// Δᵢ = kᵢ·Γ, and proves Δᵢ consistent with Kᵢ.
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	// Γ = Σⱼ Γⱼ
	Gamma := r.Group().NewPoint()
	for _, bigGammaShare := range r.BigGammaShare {
		Gamma = Gamma.Add(bigGammaShare)
	}

	// Δᵢ = kᵢ·Γ
	BigDeltaShare := r.KShare.Act(Gamma)

	KShareInt := curve.MakeInt(r.KShare)
	DeltaShare := new(saferith.Int).Mul(r.GammaShare, KShareInt, -1)
	ChiShare := new(saferith.Int).Mul(curve.MakeInt(r.SecretECDSA), KShareInt, -1)
	for _, j := range r.OtherPartyIDs() {
		DeltaShare.Add(DeltaShare, r.DeltaShareAlpha[j], -1)
		DeltaShare.Add(DeltaShare, r.DeltaShareBeta[j], -1)
		ChiShare.Add(ChiShare, r.ChiShareAlpha[j], -1)
		ChiShare.Add(ChiShare, r.ChiShareBeta[j], -1)
	}

	DeltaShareScalar := r.Group().NewScalar().SetNat(DeltaShare.Mod(r.Group().Order()))
	if err := r.BroadcastMessage(out, &broadcast4{
		DeltaShare:    DeltaShareScalar,
		BigDeltaShare: BigDeltaShare,
	}); err != nil {
		return r, err
	}

	otherIDs := r.OtherPartyIDs()
	errs := r.Pool().Parallelize(len(otherIDs), func(i int) interface{} {
		j := otherIDs[i]
		proofLog := zklogstar.NewProof(r.HashForID(r.SelfID()), zklogstar.Public{
			C:      r.K[r.SelfID()],
			X:      BigDeltaShare,
			G:      Gamma,
			Prover: r.Paillier[r.SelfID()],
			Aux:    r.Pedersen[j],
		}, zklogstar.Private{
			X:   KShareInt,
			Rho: r.KNonce,
		})
		return r.SendMessage(out, &message4{ProofLog: proofLog}, j)
	})
	for _, err := range errs {
		if err != nil {
			return r, err.(error)
		}
	}

	return &round4{
		round3:         r,
		DeltaShares:    map[party.ID]curve.Scalar{r.SelfID(): DeltaShareScalar},
		BigDeltaShares: map[party.ID]curve.Point{r.SelfID(): BigDeltaShare},
		Gamma:          Gamma,
		ChiShare:       r.Group().NewScalar().SetNat(ChiShare.Mod(r.Group().Order())),
	}, nil
}

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

// BroadcastContent implements round.BroadcastRound.
func (r *round3) BroadcastContent() round.BroadcastContent {
	return &broadcast3{BigGammaShare: r.Group().NewPoint()}
}

// RoundNumber implements round.Content.
func (message3) RoundNumber() round.Number { return 3 }

// MessageContent implements round.Round.
func (r *round3) MessageContent() round.Content {
	return &message3{
		DeltaProof: zkaffg.Empty(r.Group()),
		ChiProof:   zkaffg.Empty(r.Group()),
		ProofLog:   zklogstar.Empty(r.Group()),
	}
}

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }
