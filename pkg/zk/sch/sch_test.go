package zksch

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
)

func TestSchProof(t *testing.T) {
	group := curve.Secp256k1{}
	h := hash.New()

	x, X := sample.ScalarPointPair(rand.Reader, group)

	proof := NewProof(h.Clone(), X, x)
	require.True(t, proof.IsValid())
	assert.True(t, proof.Verify(h.Clone(), X))

	// proof for a different point must fail
	_, Y := sample.ScalarPointPair(rand.Reader, group)
	assert.False(t, proof.Verify(h.Clone(), Y))

	// a different transcript must fail
	other := hash.New()
	_ = other.WriteAny([]byte("other transcript"))
	assert.False(t, proof.Verify(other, X))
}

func TestSchSplitCommitResponse(t *testing.T) {
	group := curve.Secp256k1{}
	h := hash.New()

	x, X := sample.ScalarPointPair(rand.Reader, group)

	r := NewRandomness(rand.Reader, group)
	commitment := r.Commitment()
	require.True(t, commitment.IsValid())

	response := r.Prove(h.Clone(), X, x)
	require.True(t, response.IsValid())
	assert.True(t, response.Verify(h.Clone(), X, commitment))

	// response is bound to the commitment nonce
	r2 := NewRandomness(rand.Reader, group)
	assert.False(t, response.Verify(h.Clone(), X, r2.Commitment()))
}

func TestSchWrongSecret(t *testing.T) {
	group := curve.Secp256k1{}
	h := hash.New()

	_, X := sample.ScalarPointPair(rand.Reader, group)
	wrong := sample.Scalar(rand.Reader, group)

	proof := NewProof(h.Clone(), X, wrong)
	assert.False(t, proof.Verify(h.Clone(), X))
}
