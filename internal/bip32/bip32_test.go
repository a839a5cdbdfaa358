package bip32

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
)

func TestDeriveScalarDeterministic(t *testing.T) {
	group := curve.Secp256k1{}
	_, public := sample.ScalarPointPair(rand.Reader, group)
	chainKey := make([]byte, 32)
	_, err := rand.Read(chainKey)
	require.NoError(t, err)

	s1, c1, err := DeriveScalar(public, chainKey, 0)
	require.NoError(t, err)
	s2, c2, err := DeriveScalar(public, chainKey, 0)
	require.NoError(t, err)

	assert.True(t, s1.Equal(s2))
	assert.Equal(t, c1, c2)
	assert.Len(t, c1, 32)

	// different indices give different adjustments
	s3, c3, err := DeriveScalar(public, chainKey, 1)
	require.NoError(t, err)
	assert.False(t, s1.Equal(s3))
	assert.NotEqual(t, c1, c3)
}

func TestDeriveScalarRejectsHardened(t *testing.T) {
	group := curve.Secp256k1{}
	_, public := sample.ScalarPointPair(rand.Reader, group)
	chainKey := make([]byte, 32)

	_, _, err := DeriveScalar(public, chainKey, 1<<31)
	assert.ErrorIs(t, err, ErrHardened)
}

func TestDeriveChildConsistency(t *testing.T) {
	group := curve.Secp256k1{}
	secret, public := sample.ScalarPointPair(rand.Reader, group)
	chainKey := make([]byte, 32)
	_, err := rand.Read(chainKey)
	require.NoError(t, err)

	adjust, _, err := DeriveScalar(public, chainKey, 7)
	require.NoError(t, err)

	// child secret and child public must correspond
	childSecret := group.NewScalar().Set(secret).Add(adjust)
	childPublic := public.Add(adjust.ActOnBase())
	assert.True(t, childSecret.ActOnBase().Equal(childPublic))
}
