package keygen

import (
	"crypto/rand"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	zksch "github.com/vaultsig/cggmp21/pkg/zk/sch"
)

var _ round.Round = (*round1)(nil)

type round1 struct {
	*round.Helper

	// PreviousSecretECDSA is the share being refreshed; nil for fresh
	// key generation.
	PreviousSecretECDSA curve.Scalar
	// PreviousPublicSharesECDSA are the public shares matching the
	// refreshed key; nil for fresh key generation.
	PreviousPublicSharesECDSA map[party.ID]curve.Point
	// PreviousChainKey is carried over unchanged by a refresh.
	PreviousChainKey types.RID

	// VSSSecret is fᵢ(X), this party's sharing polynomial.
	VSSSecret *polynomial.Polynomial
}

// VerifyMessage implements round.Round.
func (r *round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1) StoreMessage(round.Message) error { return nil }

// Finalize samples all secret material and broadcasts a binding
// commitment to it. The commitment is opened in the next round, which
// prevents anyone from choosing their contribution as a function of the
// others'.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	// Paillier key and derived Pedersen parameters
	paillierSecret := paillier.NewSecretKeyFromPrimes(sample.Paillier(rand.Reader, r.Pool()))
	selfPedersenPublic, pedersenSecret := paillierSecret.GeneratePedersen(rand.Reader)

	selfRID, err := types.NewRID(rand.Reader)
	if err != nil {
		return r, err
	}
	chainKey, err := types.NewRID(rand.Reader)
	if err != nil {
		return r, err
	}

	// commitment for the final proof of knowledge of the new share
	schnorrRand := zksch.NewRandomness(rand.Reader, r.Group())

	selfVSSPolynomial := polynomial.NewPolynomialExponent(r.VSSSecret)

	selfCommitment, decommitment, err := r.HashForID(r.SelfID()).Commit(
		selfRID, chainKey, selfVSSPolynomial, schnorrRand.Commitment(), selfPedersenPublic)
	if err != nil {
		return r, err
	}

	nextRound := &round2{
		round1:             r,
		VSSPolynomials:     map[party.ID]*polynomial.Exponent{r.SelfID(): selfVSSPolynomial},
		Commitments:        map[party.ID]hash.Commitment{r.SelfID(): selfCommitment},
		RIDs:               map[party.ID]types.RID{r.SelfID(): selfRID},
		ChainKeys:          map[party.ID]types.RID{r.SelfID(): chainKey},
		ShareReceived:      map[party.ID]curve.Scalar{r.SelfID(): r.VSSSecret.Evaluate(r.SelfID().Scalar(r.Group()))},
		PaillierPublic:     map[party.ID]*paillier.PublicKey{r.SelfID(): paillierSecret.PublicKey},
		Pedersen:           map[party.ID]*pedersen.Parameters{r.SelfID(): selfPedersenPublic},
		SchnorrCommitments: map[party.ID]*zksch.Commitment{r.SelfID(): schnorrRand.Commitment()},
		PaillierSecret:     paillierSecret,
		PedersenSecret:     pedersenSecret,
		SchnorrRand:        schnorrRand,
		Decommitment:       decommitment,
	}

	if err := r.BroadcastMessage(out, &broadcast2{Commitment: selfCommitment}); err != nil {
		return r, err
	}
	return nextRound, nil
}

// MessageContent implements round.Round.
func (round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }
