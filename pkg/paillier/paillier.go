// Package paillier implements the additively homomorphic Paillier
// cryptosystem over moduli that are products of safe Blum primes, as
// required by the range proofs layered on top of it.
package paillier

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
	"github.com/vaultsig/cggmp21/pkg/math/arith"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	"github.com/vaultsig/cggmp21/pkg/pool"
)

var (
	// ErrPaillierLength is returned when a modulus has the wrong size.
	ErrPaillierLength = errors.New("paillier: modulus is not 2048 bits")
	// ErrPaillierEven is returned when a modulus is even.
	ErrPaillierEven = errors.New("paillier: modulus is even")
	// ErrNotBlum is returned when a secret key prime is not ≡ 3 mod 4.
	ErrNotBlum = errors.New("paillier: prime is not equivalent to 3 (mod 4)")
	// ErrNotSafePrime is returned when (p−1)/2 is not prime.
	ErrNotSafePrime = errors.New("paillier: prime is not a safe prime")
	// ErrPrimeBadLength is returned when a secret prime has the wrong size.
	ErrPrimeBadLength = errors.New("paillier: prime is not 1024 bits")
	// ErrWrongPlaintextModulus indicates a plaintext outside ±N/2.
	ErrWrongPlaintextModulus = errors.New("paillier: plaintext out of range")
	// ErrInvalidCiphertext indicates a ciphertext outside the unit group of N².
	ErrInvalidCiphertext = errors.New("paillier: invalid ciphertext")
)

// PublicKey is a Paillier public key: the modulus N together with cached
// values for N² and N+1.
type PublicKey struct {
	n        *arith.Modulus
	nSquared *arith.Modulus
	nNat     *saferith.Nat
	nPlusOne *saferith.Nat
}

// NewPublicKey wraps a validated modulus.
func NewPublicKey(n *saferith.Modulus) *PublicKey {
	oneNat := new(saferith.Nat).SetUint64(1)
	nNat := n.Nat()
	nSquared := saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1))
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	return &PublicKey{
		n:        arith.ModulusFromN(n),
		nSquared: arith.ModulusFromN(nSquared),
		nNat:     nNat,
		nPlusOne: nPlusOne,
	}
}

// ValidateN performs the cheap validity checks on a candidate modulus:
// correct bit size and odd. The zero-knowledge proofs establish the rest.
func ValidateN(n *saferith.Modulus) error {
	if n == nil {
		return ErrPaillierEven
	}
	if bits := n.Nat().TrueLen(); bits != params.BitsIntModN {
		return fmt.Errorf("%w: got %d bits", ErrPaillierLength, bits)
	}
	if n.Nat().Byte(0)&1 != 1 {
		return ErrPaillierEven
	}
	return nil
}

// N returns the public modulus.
func (pk *PublicKey) N() *saferith.Modulus { return pk.n.Modulus() }

// Modulus returns the arithmetic wrapper for N.
func (pk *PublicKey) Modulus() *arith.Modulus { return pk.n }

// ModulusSquared returns the arithmetic wrapper for N².
func (pk *PublicKey) ModulusSquared() *arith.Modulus { return pk.nSquared }

// Equal reports whether two public keys share a modulus.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.nNat.Eq(other.nNat) == 1
}

// Clone returns an independent copy of the public key.
func (pk *PublicKey) Clone() *PublicKey {
	return NewPublicKey(pk.n.Modulus())
}

// Enc encrypts m with a fresh random nonce, returning the ciphertext and
// the nonce. The nonce is needed to prove statements about the ciphertext.
func (pk *PublicKey) Enc(m *saferith.Int) (*Ciphertext, *saferith.Nat) {
	nonce := sample.UnitModN(rand.Reader, pk.n.Modulus())
	return pk.EncWithNonce(m, nonce), nonce
}

// EncWithNonce encrypts m deterministically with the given nonce:
// c = (1+N)^m · nonce^N (mod N²). The plaintext must satisfy |m| ≤ N/2.
func (pk *PublicKey) EncWithNonce(m *saferith.Int, nonce *saferith.Nat) *Ciphertext {
	mAbs := m.Abs()
	// reject plaintexts larger than the message space
	if mAbs.TrueLen() >= pk.n.BitLen() {
		panic(ErrWrongPlaintextModulus)
	}
	c := pk.nSquared.ExpI(pk.nPlusOne, m)
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	c.ModMul(c, rhoN, pk.nSquared.Modulus())
	return &Ciphertext{c: c}
}

// ValidateCiphertexts reports whether every ciphertext is a unit mod N².
func (pk *PublicKey) ValidateCiphertexts(cts ...*Ciphertext) bool {
	for _, ct := range cts {
		if ct == nil || ct.c == nil {
			return false
		}
		if !arith.IsUnit(ct.c, pk.nSquared.Modulus()) {
			return false
		}
	}
	return true
}

// SecretKey is a Paillier secret key, holding the factorization of N.
type SecretKey struct {
	*PublicKey
	p, q *saferith.Nat
	// phi = (p−1)(q−1), phiInv = phi⁻¹ mod N
	phi    *saferith.Nat
	phiInv *saferith.Nat
}

// KeyGen samples a fresh keypair from safe Blum primes.
func KeyGen(pl *pool.Pool) (*PublicKey, *SecretKey) {
	sk := NewSecretKeyFromPrimes(sample.Paillier(rand.Reader, pl))
	return sk.PublicKey, sk
}

// NewSecretKeyFromPrimes reconstructs a secret key from its primes.
func NewSecretKeyFromPrimes(p, q *saferith.Nat) *SecretKey {
	oneNat := new(saferith.Nat).SetUint64(1)
	n := arith.ModulusFromFactors(p, q)
	pk := NewPublicKey(n.Modulus())
	// replace the plain moduli with CRT-accelerated versions
	pk.n = n
	pMinusOne := new(saferith.Nat).Sub(p, oneNat, -1)
	qMinusOne := new(saferith.Nat).Sub(q, oneNat, -1)
	pk.nSquared = arith.ModulusFromFactors(
		new(saferith.Nat).Mul(p, p, -1),
		new(saferith.Nat).Mul(q, q, -1),
	)
	phi := new(saferith.Nat).Mul(pMinusOne, qMinusOne, -1)
	phiInv := new(saferith.Nat).ModInverse(phi, pk.n.Modulus())
	return &SecretKey{
		PublicKey: pk,
		p:         p,
		q:         q,
		phi:       phi,
		phiInv:    phiInv,
	}
}

// ValidatePrime checks that p is a suitable secret prime: correct size,
// Blum, and safe.
func ValidatePrime(p *saferith.Nat) error {
	if p == nil {
		return ErrPrimeBadLength
	}
	if bits := p.TrueLen(); bits != params.BitsBlumPrime {
		return fmt.Errorf("%w: got %d bits", ErrPrimeBadLength, bits)
	}
	if p.Byte(0)&3 != 3 {
		return ErrNotBlum
	}
	pBig := p.Big()
	pMinusOneHalf := new(big.Int).Rsh(pBig, 1)
	if !pMinusOneHalf.ProbablyPrime(20) {
		return ErrNotSafePrime
	}
	return nil
}

// P returns the first prime factor.
func (sk *SecretKey) P() *saferith.Nat { return sk.p }

// Q returns the second prime factor.
func (sk *SecretKey) Q() *saferith.Nat { return sk.q }

// Phi returns φ(N).
func (sk *SecretKey) Phi() *saferith.Nat { return sk.phi }

// Dec decrypts ct, returning the plaintext in the symmetric range ±N/2.
func (sk *SecretKey) Dec(ct *Ciphertext) (*saferith.Int, error) {
	if !sk.ValidateCiphertexts(ct) {
		return nil, ErrInvalidCiphertext
	}
	n := sk.n.Modulus()
	// m = ((c^φ mod N² − 1) / N) · φ⁻¹ mod N
	cPhi := sk.nSquared.Exp(ct.c, sk.phi)
	big1 := big.NewInt(1)
	numerator := cPhi.Big()
	numerator.Sub(numerator, big1)
	numerator.Div(numerator, sk.nNat.Big())
	mNat := new(saferith.Nat).SetBig(numerator, sk.n.BitLen())
	mNat.ModMul(mNat, sk.phiInv, n)
	return new(saferith.Int).SetModSymmetric(mNat, n), nil
}

// GeneratePedersen derives ring-Pedersen parameters from the key's
// modulus, returning the parameters and the secret exponent λ.
func (sk *SecretKey) GeneratePedersen(source io.Reader) (*pedersen.Parameters, *saferith.Nat) {
	s, t, lambda := sample.Pedersen(source, sk.phi, sk.n.Modulus())
	return pedersen.New(sk.n, s, t), lambda
}

// MarshalBinary encodes the public key as the modulus bytes.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.n.Bytes(), nil
}

// UnmarshalBinary decodes and validates a public key modulus.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	n := saferith.ModulusFromBytes(data)
	if err := ValidateN(n); err != nil {
		return err
	}
	*pk = *NewPublicKey(n)
	return nil
}
