// Package bip32 implements non-hardened BIP-32 style key derivation for
// threshold keys. Only the scalar adjustment is computed here; applying
// it to the shares is done by the caller, since every party can shift
// its share by the same public offset.
package bip32

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
)

// ErrHardened is returned for indices in the hardened range, which
// cannot be derived without the full private key.
var ErrHardened = errors.New("bip32: hardened derivation is not possible for shared keys")

// DeriveScalar derives the additive adjustment and the new chain key for
// child index i. Invalid candidates (zero or unreduced) advance to the
// next index, as prescribed by BIP-32.
func DeriveScalar(public curve.Point, chainKey []byte, i uint32) (curve.Scalar, []byte, error) {
	if i >= 1<<31 {
		return nil, nil, ErrHardened
	}
	group := public.Curve()
	pubBytes, err := public.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	for ; i < 1<<31; i++ {
		mac := hmac.New(sha512.New, chainKey)
		_, _ = mac.Write(pubBytes)
		_ = binary.Write(mac, binary.BigEndian, i)
		sum := mac.Sum(nil)

		adjust := group.NewScalar()
		if err := adjust.UnmarshalBinary(sum[:32]); err != nil {
			continue
		}
		if adjust.IsZero() {
			continue
		}
		newChainKey := make([]byte, 32)
		copy(newChainKey, sum[32:])
		return adjust, newChainKey, nil
	}
	return nil, nil, errors.New("bip32: no valid child index")
}
