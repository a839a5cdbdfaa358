// Package mta implements the multiplicative-to-additive share conversion
// used in signing. Given the receiver's encrypted share Enc(k) and the
// sender's secret x, the sender returns D = x ⊙ Enc(k) ⊕ Enc(−β) so
// that α = dec(D) satisfies α + β = x·k.
package mta

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	zkaffg "github.com/vaultsig/cggmp21/pkg/zk/affg"
)

// ProveAffG runs the sender's side of the conversion and proves it
// correct with respect to the public point of the sender's secret.
// The returned β is the sender's additive share of x·k.
func ProveAffG(group curve.Curve, h *hash.Hash,
	senderSecretShare *saferith.Int, senderSecretSharePoint curve.Point,
	receiverEncryptedShare *paillier.Ciphertext,
	sender *paillier.SecretKey, receiver *paillier.PublicKey,
	verifier *pedersen.Parameters) (beta *saferith.Int, D, F *paillier.Ciphertext, proof *zkaffg.Proof) {
	D, F, S, R, betaNeg := newMta(senderSecretShare, receiverEncryptedShare, sender.PublicKey, receiver)
	proof = zkaffg.NewProof(h, zkaffg.Public{
		Kv:       receiverEncryptedShare,
		Dv:       D,
		Fp:       F,
		Xp:       senderSecretSharePoint,
		Prover:   sender.PublicKey,
		Verifier: receiver,
		Aux:      verifier,
	}, zkaffg.Private{
		X: senderSecretShare,
		Y: betaNeg,
		S: S,
		R: R,
	})
	// the proof no longer needs −β, so negate in place
	beta = betaNeg.Neg(1)
	return
}

func newMta(senderSecretShare *saferith.Int,
	receiverEncryptedShare *paillier.Ciphertext,
	sender, receiver *paillier.PublicKey) (D, F *paillier.Ciphertext, S, R *saferith.Nat, betaNeg *saferith.Int) {
	betaNeg = sample.IntervalLPrime(rand.Reader)

	// F = Enc_sender(−β), kept so the receiver can later audit the choice of β
	F, R = sender.Enc(betaNeg)

	// D = x ⊙ K ⊕ Enc_receiver(−β)
	D, S = receiver.Enc(betaNeg)
	tmp := receiverEncryptedShare.Clone().Mul(receiver, senderSecretShare)
	D.Add(receiver, tmp)
	return
}
