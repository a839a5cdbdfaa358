// Package cmp bundles the threshold key generation, key refresh and
// signing protocols into start functions consumable by a protocol
// handler.
package cmp

import (
	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/protocol"
	"github.com/vaultsig/cggmp21/protocols/cmp/config"
	"github.com/vaultsig/cggmp21/protocols/cmp/keygen"
	"github.com/vaultsig/cggmp21/protocols/cmp/sign"
)

// Config holds a party's share of the key, its Paillier and Pedersen
// secrets, and the public material of all parties.
type Config = config.Config

// EmptyConfig creates an empty Config over the given group, ready for
// unmarshalling.
func EmptyConfig(group curve.Curve) *Config {
	return &Config{
		Group: group,
	}
}

// Keygen generates a new shared ECDSA key over the given group, with
// the minimum number of parties needed to sign set to threshold.
func Keygen(group curve.Curve, selfID party.ID, participants []party.ID, threshold int, pl *pool.Pool) protocol.StartFunc {
	info := round.Info{
		ProtocolID:       "cmp/keygen",
		FinalRoundNumber: keygen.Rounds,
		SelfID:           selfID,
		PartyIDs:         participants,
		Threshold:        threshold,
		Group:            group,
	}
	return keygen.Start(info, pl, nil)
}

// Refresh derives fresh shares and auxiliary parameters for all
// parties. The public key is unchanged, and old shares become useless
// once the refresh completes.
func Refresh(config *Config, pl *pool.Pool) protocol.StartFunc {
	info := round.Info{
		ProtocolID:       "cmp/refresh",
		FinalRoundNumber: keygen.Rounds,
		SelfID:           config.ID,
		PartyIDs:         config.PartyIDs(),
		Threshold:        config.Threshold,
		Group:            config.Group,
	}
	return keygen.Start(info, pl, config)
}

// Sign signs message with the given subset of parties. The subset must
// contain at least threshold parties, and every signer must take part.
func Sign(config *Config, signers []party.ID, message []byte, pl *pool.Pool) protocol.StartFunc {
	return sign.StartSign(config, signers, message, pl)
}
