// Package zk holds shared fixtures for the proof package tests.
// Safe prime generation takes minutes, so the tests run against the
// fixed keys below instead of sampling fresh ones.
package zk

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
)

// 1024-bit safe Blum primes.
const (
	proverPHex   = "896f0d92add733dfd757f11aff3c79f035da0a9de3a43ff0376d2b022c9879c1ebb9c6c7dd950275bb41e006cd7380ec18a5184a603a547d0a9ae6ca9862d68e8883f36e44a9ae135381cf2fdc64d37ef692ee5c2852f3220f881732da4fcfc8f346b72afeac0d0fc8d2bd7bd9b041259410fdcef7d7a3f00b0cb6676d51baeb"
	proverQHex   = "defe6f2cd968aaf0a70b02ed96d7d7011622968d91181a66b79f52455186c5e835a86d99aaad644aad1fc4a42470f68d7344d0bf120c7c72af66b2a9034450141e2b8733002eaa405e919a2bbf8c43376595f59e552f31e7ce5ed7ed2f0f6197901447fe8212b528c0c3853bb4294a08bef1d8cec2e499f1ad46df7611ebb75b"
	verifierPHex = "8136ef6dfa7d0f80cc1a9a6473f51e11f85728be8819d95e213ac1813b5b88ed8ba442af6c0363db1d18e185a5231490b8e130dc71c8b572843994805d27624db5f41d3bc2b6f6096538298ac1c15f3ca8d7ade16f6d533876949b07089dba4ab951136b217ed2097ef1b2e5bf685f50c165ee66637021aed63cc211c4791907"
	verifierQHex = "a80168cc565942aebd92823e6f2d49b3e82036aa6920c3925cc7d6c22a8e4dc99e0e8dedc82f01840b3e99bec051e571e12a0ebc3cac3c1849628941a0cfb0a73f03681fe566c52151ffb5d87473eeb41106c7cbf142e9ebb89890fbcdd34d15a7e302cdfaf17fa2a3f1ed6da3cc3962c83d5f3c337f28a256304743b18461b7"
)

var (
	ProverPaillierSecret   *paillier.SecretKey
	ProverPaillierPublic   *paillier.PublicKey
	VerifierPaillierSecret *paillier.SecretKey
	VerifierPaillierPublic *paillier.PublicKey

	// Pedersen belongs to the verifier, as in the protocols: the prover
	// commits under the verifier's parameters.
	Pedersen       *pedersen.Parameters
	PedersenSecret *saferith.Nat
)

func init() {
	ProverPaillierSecret = paillier.NewSecretKeyFromPrimes(natFromHex(proverPHex), natFromHex(proverQHex))
	ProverPaillierPublic = ProverPaillierSecret.PublicKey
	VerifierPaillierSecret = paillier.NewSecretKeyFromPrimes(natFromHex(verifierPHex), natFromHex(verifierQHex))
	VerifierPaillierPublic = VerifierPaillierSecret.PublicKey
	Pedersen, PedersenSecret = VerifierPaillierSecret.GeneratePedersen(rand.Reader)
}

func natFromHex(s string) *saferith.Nat {
	data, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(data)
}
