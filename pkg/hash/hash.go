// Package hash provides the domain-separated transcript hash used for
// commitments and Fiat-Shamir challenges. All protocol values are absorbed
// through a canonical byte encoding, never through the wire codec, so two
// semantically equal values always produce the same digest.
package hash

import (
	"crypto/rand"
	"encoding"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/zeebo/blake3"

	"github.com/vaultsig/cggmp21/internal/params"
)

// DigestLengthBytes is the length of Sum output.
const DigestLengthBytes = params.SecBytes

// Hash is an accumulating transcript hash. It is not safe for concurrent
// use; clone it per prover/verifier instead.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash and absorbs any initial values.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Sum returns a digest of the current transcript without modifying it.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	_, _ = hash.h.Digest().Read(out)
	return out
}

// Digest returns an unbounded reader of challenge bytes derived from the
// current transcript state.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Clone().Digest()
}

// WriteAny absorbs the given values into the transcript.
//
// Supported types: WriterToWithDomain, []byte, *saferith.Nat, *saferith.Int,
// *saferith.Modulus, and anything implementing encoding.BinaryMarshaler.
func (hash *Hash) WriteAny(args ...interface{}) error {
	for _, arg := range args {
		var v WriterToWithDomain
		switch t := arg.(type) {
		case WriterToWithDomain:
			v = t
		case []byte:
			v = &BytesWithDomain{"[]byte", t}
		case *saferith.Nat:
			v = &BytesWithDomain{"Nat", t.Bytes()}
		case *saferith.Int:
			data, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash: Int: %w", err)
			}
			v = &BytesWithDomain{"Int", data}
		case *saferith.Modulus:
			v = &BytesWithDomain{"Modulus", t.Bytes()}
		case encoding.BinaryMarshaler:
			data, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash: %T: %w", arg, err)
			}
			v = &BytesWithDomain{fmt.Sprintf("%T", arg), data}
		default:
			return fmt.Errorf("hash: unsupported type %T", arg)
		}
		if err := writeWithDomain(hash.h, v); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy of the transcript state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// Commitment is the hash output binding committed data.
type Commitment []byte

// Decommitment is the random nonce opening a Commitment.
type Decommitment []byte

var (
	errNilCommitment = errors.New("hash: commitment is nil")
	errWrongLength   = errors.New("hash: commitment has wrong length")
)

// Validate checks the commitment is well formed.
func (c Commitment) Validate() error {
	if c == nil {
		return errNilCommitment
	}
	if len(c) != DigestLengthBytes {
		return errWrongLength
	}
	return nil
}

// Validate checks the decommitment is well formed.
func (d Decommitment) Validate() error {
	if d == nil {
		return errNilCommitment
	}
	if len(d) != params.SecBytes {
		return errWrongLength
	}
	return nil
}

// Commit hashes the given data together with a fresh random nonce.
// The transcript itself is cloned, so the commitment is bound to the
// session context present at call time.
func (hash *Hash) Commit(data ...interface{}) (Commitment, Decommitment, error) {
	decommitment := make(Decommitment, params.SecBytes)
	if _, err := rand.Read(decommitment); err != nil {
		return nil, nil, fmt.Errorf("hash: commit nonce: %w", err)
	}
	h := hash.Clone()
	if err := h.WriteAny([]byte(decommitment)); err != nil {
		return nil, nil, err
	}
	if err := h.WriteAny(data...); err != nil {
		return nil, nil, err
	}
	return Commitment(h.Sum()), decommitment, nil
}

// Decommit verifies that the data and decommitment open the commitment.
func (hash *Hash) Decommit(c Commitment, d Decommitment, data ...interface{}) bool {
	if c.Validate() != nil || d.Validate() != nil {
		return false
	}
	h := hash.Clone()
	if err := h.WriteAny([]byte(d)); err != nil {
		return false
	}
	if err := h.WriteAny(data...); err != nil {
		return false
	}
	computed := h.Sum()
	if len(computed) != len(c) {
		return false
	}
	var diff byte
	for i := range computed {
		diff |= computed[i] ^ c[i]
	}
	return diff == 0
}
