package ecdsa

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/party"
)

// sign produces a plain single-party signature for test purposes.
func sign(group curve.Curve, x curve.Scalar, hash []byte) *Signature {
	k := sample.Scalar(rand.Reader, group)
	R := k.ActOnBase()
	r := R.XScalar()
	m := curve.FromHash(group, hash)
	// s = k⁻¹(m + r·x)
	s := group.NewScalar().Set(r).Mul(x).Add(m).Mul(group.NewScalar().Set(k).Invert())
	return &Signature{R: R, S: s}
}

func TestSignatureVerify(t *testing.T) {
	group := curve.Secp256k1{}
	x, X := sample.ScalarPointPair(rand.Reader, group)

	hash := sha256.Sum256([]byte("hello"))
	sig := sign(group, x, hash[:])

	assert.True(t, sig.Verify(X, hash[:]))

	// wrong message
	wrong := sha256.Sum256([]byte("goodbye"))
	assert.False(t, sig.Verify(X, wrong[:]))

	// wrong key
	_, Y := sample.ScalarPointPair(rand.Reader, group)
	assert.False(t, sig.Verify(Y, hash[:]))
}

func TestSignatureNormalize(t *testing.T) {
	group := curve.Secp256k1{}
	x, X := sample.ScalarPointPair(rand.Reader, group)
	hash := sha256.Sum256([]byte("normalize me"))

	// find a signature with a high s, then check normalization keeps it valid
	for i := 0; i < 100; i++ {
		sig := sign(group, x, hash[:])
		high := sig.S.IsOverHalfOrder()
		sig.Normalize()
		assert.False(t, sig.S.IsOverHalfOrder())
		assert.True(t, sig.Verify(X, hash[:]))
		if high {
			return
		}
	}
	t.Fatal("never sampled a high-s signature")
}

func TestSignatureRejectsTrivial(t *testing.T) {
	group := curve.Secp256k1{}
	_, X := sample.ScalarPointPair(rand.Reader, group)
	hash := sha256.Sum256([]byte("msg"))

	sig := EmptySignature(group)
	assert.False(t, sig.Verify(X, hash[:]))
}

// TestSignatureExternalVerifier checks that signatures are accepted by an
// independent ECDSA implementation, not just our own verifier.
func TestSignatureExternalVerifier(t *testing.T) {
	group := curve.Secp256k1{}
	x, X := sample.ScalarPointPair(rand.Reader, group)

	hash := sha256.Sum256([]byte("externally verified"))
	sig := sign(group, x, hash[:])
	sig.Normalize()
	require.True(t, sig.Verify(X, hash[:]))

	pubBytes, err := X.MarshalBinary()
	require.NoError(t, err)
	pub, err := secp256k1.ParsePubKey(pubBytes)
	require.NoError(t, err)

	var r, s secp256k1.ModNScalar
	rBytes, err := sig.R.XScalar().MarshalBinary()
	require.NoError(t, err)
	require.False(t, r.SetByteSlice(rBytes))
	sBytes, err := sig.S.MarshalBinary()
	require.NoError(t, err)
	require.False(t, s.SetByteSlice(sBytes))

	assert.True(t, dcrecdsa.NewSignature(&r, &s).Verify(hash[:], pub))
}

func TestPreSignature(t *testing.T) {
	group := curve.Secp256k1{}

	// single party: k and χ = k·x are known directly
	x, X := sample.ScalarPointPair(rand.Reader, group)
	k := sample.Scalar(rand.Reader, group)

	kInv := group.NewScalar().Set(k).Invert()
	pre := &PreSignature{
		R:        kInv.ActOnBase(),
		KShare:   k,
		ChiShare: group.NewScalar().Set(k).Mul(x),
	}
	require.NoError(t, pre.Validate())

	hash := sha256.Sum256([]byte("presigned"))
	share := pre.SignatureShare(hash[:])
	sig := pre.Signature(map[party.ID]curve.Scalar{"self": share})

	assert.True(t, sig.Verify(X, hash[:]))
	assert.False(t, sig.S.IsOverHalfOrder())
}

func TestPreSignatureValidate(t *testing.T) {
	group := curve.Secp256k1{}
	pre := &PreSignature{
		R:        group.NewPoint(),
		KShare:   group.NewScalar(),
		ChiShare: group.NewScalar(),
	}
	assert.Error(t, pre.Validate())
}
