package config_test

import (
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/internal/test"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/protocols/cmp/config"
)

func fixtureConfigs(t *testing.T) (map[party.ID]*config.Config, party.IDSlice) {
	t.Helper()
	return test.GenerateConfig(curve.Secp256k1{}, 3, 2, mrand.New(mrand.NewSource(1)), nil)
}

func TestMarshalRoundTrip(t *testing.T) {
	configs, partyIDs := fixtureConfigs(t)
	c := configs[partyIDs[0]]

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	c2 := &config.Config{}
	require.NoError(t, c2.UnmarshalBinary(data))

	require.NoError(t, c2.Validate())
	assert.Equal(t, c.ID, c2.ID)
	assert.Equal(t, c.Threshold, c2.Threshold)
	assert.True(t, c.ECDSA.Equal(c2.ECDSA))
	assert.True(t, c.PublicPoint().Equal(c2.PublicPoint()))
	assert.Equal(t, c.RID, c2.RID)
	assert.Equal(t, c.ChainKey, c2.ChainKey)
}

func TestUnmarshalGarbage(t *testing.T) {
	c := &config.Config{}
	assert.Error(t, c.UnmarshalBinary([]byte("not a config")))
}

func TestValidate(t *testing.T) {
	configs, partyIDs := fixtureConfigs(t)
	c := configs[partyIDs[0]]
	require.NoError(t, c.Validate())

	bad := *c
	bad.Threshold = 0
	assert.Error(t, bad.Validate())

	bad = *c
	bad.ECDSA = nil
	assert.Error(t, bad.Validate())

	bad = *c
	bad.Paillier = nil
	assert.Error(t, bad.Validate())

	// a share that does not match the published point
	bad = *c
	bad.ECDSA = c.Group.NewScalar().Set(c.ECDSA).Add(c.Group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1)))
	assert.Error(t, bad.Validate())
}

func TestCanSign(t *testing.T) {
	configs, partyIDs := fixtureConfigs(t)
	c := configs[partyIDs[0]]

	assert.True(t, c.CanSign(partyIDs[:2]))
	assert.True(t, c.CanSign(partyIDs))
	// below the threshold
	assert.False(t, c.CanSign(partyIDs[:1]))
	// self not included
	assert.False(t, c.CanSign(partyIDs[1:]))
	// unknown party
	assert.False(t, c.CanSign(party.NewIDSlice([]party.ID{partyIDs[0], "stranger"})))
}

func TestPublicPointAgreement(t *testing.T) {
	configs, partyIDs := fixtureConfigs(t)
	pk := configs[partyIDs[0]].PublicPoint()
	for _, j := range partyIDs {
		assert.True(t, pk.Equal(configs[j].PublicPoint()))
	}
}

func TestDeriveBIP32(t *testing.T) {
	configs, partyIDs := fixtureConfigs(t)

	// all parties must derive the same child key
	child0, err := configs[partyIDs[0]].DeriveBIP32(7)
	require.NoError(t, err)
	child1, err := configs[partyIDs[1]].DeriveBIP32(7)
	require.NoError(t, err)

	require.NoError(t, child0.Validate())
	assert.True(t, child0.PublicPoint().Equal(child1.PublicPoint()))
	assert.Equal(t, child0.ChainKey, child1.ChainKey)

	// the child key must differ from the parent
	assert.False(t, child0.PublicPoint().Equal(configs[partyIDs[0]].PublicPoint()))

	// hardened derivation is not possible with shared keys
	_, err = configs[partyIDs[0]].DeriveBIP32(1 << 31)
	assert.Error(t, err)
}
