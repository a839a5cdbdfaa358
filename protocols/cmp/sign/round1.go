package sign

import (
	"crypto/rand"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	zkenc "github.com/vaultsig/cggmp21/pkg/zk/enc"
)

var _ round.Round = (*round1)(nil)

type round1 struct {
	*round.Helper

	// PublicKey is the joint public key being signed under.
	PublicKey curve.Point

	// SecretECDSA is the Lagrange-scaled share wᵢ = ℓᵢ·xᵢ.
	SecretECDSA    curve.Scalar
	SecretPaillier *paillier.SecretKey

	// Paillier, Pedersen and ECDSA hold the other parties' public
	// material, with the ECDSA shares Lagrange-scaled.
	Paillier map[party.ID]*paillier.PublicKey
	Pedersen map[party.ID]*pedersen.Parameters
	ECDSA    map[party.ID]curve.Point

	Message []byte
}

// VerifyMessage implements round.Round.
func (round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (round1) StoreMessage(round.Message) error { return nil }

// Finalize samples the nonce shares kᵢ, γᵢ, encrypts them, and proves
// the encryption of kᵢ well formed towards every other party.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	// γᵢ and Γᵢ = γᵢ·G
	gammaShare, bigGammaShare := sample.ScalarPointPair(rand.Reader, r.Group())
	// Gᵢ = Encᵢ(γᵢ)
	G, gNonce := r.Paillier[r.SelfID()].Enc(curve.MakeInt(gammaShare))

	// kᵢ and Kᵢ = Encᵢ(kᵢ)
	kShare := sample.Scalar(rand.Reader, r.Group())
	kShareInt := curve.MakeInt(kShare)
	K, kNonce := r.Paillier[r.SelfID()].Enc(kShareInt)

	otherIDs := r.OtherPartyIDs()
	if err := r.BroadcastMessage(out, &broadcast2{K: K, G: G}); err != nil {
		return r, err
	}

	errs := r.Pool().Parallelize(len(otherIDs), func(i int) interface{} {
		j := otherIDs[i]
		proof := zkenc.NewProof(r.Group(), r.HashForID(r.SelfID()), zkenc.Public{
			K:      K,
			Prover: r.Paillier[r.SelfID()],
			Aux:    r.Pedersen[j],
		}, zkenc.Private{
			K:   kShareInt,
			Rho: kNonce,
		})
		return r.SendMessage(out, &message2{ProofEnc: proof}, j)
	})
	for _, err := range errs {
		if err != nil {
			return r, err.(error)
		}
	}

	return &round2{
		round1:        r,
		K:             map[party.ID]*paillier.Ciphertext{r.SelfID(): K},
		G:             map[party.ID]*paillier.Ciphertext{r.SelfID(): G},
		BigGammaShare: map[party.ID]curve.Point{r.SelfID(): bigGammaShare},
		GammaShare:    curve.MakeInt(gammaShare),
		KShare:        kShare,
		KNonce:        kNonce,
		GNonce:        gNonce,
	}, nil
}

// MessageContent implements round.Round.
func (round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }
