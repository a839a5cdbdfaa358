package paillier

import (
	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
)

// Ciphertext is an element of the Paillier ciphertext group mod N².
type Ciphertext struct {
	c *saferith.Nat
}

// Add sets ct to the homomorphic sum ct ⊕ other, i.e. the encryption of
// the sum of the plaintexts, and returns ct.
func (ct *Ciphertext) Add(pk *PublicKey, other *Ciphertext) *Ciphertext {
	if other == nil {
		return ct
	}
	ct.c.ModMul(ct.c, other.c, pk.nSquared.Modulus())
	return ct
}

// Mul sets ct to k ⊙ ct, the encryption of k times the plaintext, and
// returns ct.
func (ct *Ciphertext) Mul(pk *PublicKey, k *saferith.Int) *Ciphertext {
	if k == nil {
		return ct
	}
	ct.c = pk.nSquared.ExpI(ct.c, k)
	return ct
}

// Randomize multiplies ct by a fresh encryption of zero with the given
// nonce, re-randomizing it, and returns ct.
func (ct *Ciphertext) Randomize(pk *PublicKey, nonce *saferith.Nat) *Ciphertext {
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	ct.c.ModMul(ct.c, rhoN, pk.nSquared.Modulus())
	return ct
}

// Equal reports ciphertext equality.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	if ct == nil || other == nil {
		return ct == other
	}
	return ct.c.Eq(other.c) == 1
}

// Clone returns a deep copy.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{c: ct.c.Clone()}
}

// Nat exposes the raw group element.
func (ct *Ciphertext) Nat() *saferith.Nat { return ct.c }

// MarshalBinary encodes the ciphertext as a fixed-width big-endian value.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	buf := make([]byte, params.BytesCiphertext)
	ct.c.FillBytes(buf)
	return buf, nil
}

// UnmarshalBinary decodes a ciphertext. Group membership is checked
// against the relevant key at use time via ValidateCiphertexts.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	ct.c = new(saferith.Nat).SetBytes(data)
	return nil
}
