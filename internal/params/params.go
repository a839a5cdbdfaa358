// Package params fixes the security-level constants used by the range
// proofs and Paillier key generation.
package params

const (
	// SecParam is the computational security parameter κ in bits.
	SecParam = 256
	// SecBytes is κ in bytes.
	SecBytes = SecParam / 8
	// OTParam and StatParam are the number of parallel repetitions used by
	// the bit-challenge proofs (mod, prm).
	StatParam = 80

	// L is the range bound (in bits) for plaintexts handled by the MtA
	// exchange, ±2^L.
	L = 1 * SecParam
	// LPrime bounds the β values contributed by the MtA responder.
	LPrime = 5 * SecParam
	// Epsilon is the statistical slack added by the range proofs.
	Epsilon = 2 * SecParam
	// LPlusEpsilon is the slack-extended bound proved for MtA senders.
	LPlusEpsilon = L + Epsilon
	// LPrimePlusEpsilon is the slack-extended bound for responder values.
	LPrimePlusEpsilon = LPrime + Epsilon

	// BitsIntModN is the size of a Paillier modulus N.
	BitsIntModN = 8 * SecParam
	// BytesIntModN is the size of a Paillier modulus in bytes.
	BytesIntModN = BitsIntModN / 8

	// BitsBlumPrime is the size of the primes p, q with N = p·q.
	BitsBlumPrime = 4 * SecParam
	// BytesBlumPrime is a Blum prime size in bytes.
	BytesBlumPrime = BitsBlumPrime / 8

	// BitsPaillier is the size of the Paillier ciphertext group N².
	BitsPaillier = 2 * BitsIntModN

	// BytesCiphertext is the byte size of a Paillier ciphertext.
	BytesCiphertext = BitsPaillier / 8
)
