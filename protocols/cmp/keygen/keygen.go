// Package keygen implements the combined key generation and key refresh
// protocol. A fresh key is generated when no previous config is given;
// otherwise the shares and auxiliary material are refreshed while the
// public key stays fixed.
package keygen

import (
	"crypto/rand"
	"fmt"

	"github.com/vaultsig/cggmp21/internal/round"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/protocol"
	"github.com/vaultsig/cggmp21/protocols/cmp/config"
)

// Rounds is the number of communication rounds.
const Rounds round.Number = 5

// Start returns a StartFunc for key generation (c == nil) or key
// refresh (c != nil).
func Start(info round.Info, pl *pool.Pool, c *config.Config) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		var helper *round.Helper
		var err error
		if c == nil {
			helper, err = round.NewSession(info, sessionID, pl)
		} else {
			// bind the refresh execution to the existing key material
			helper, err = round.NewSession(info, sessionID, pl, c)
		}
		if err != nil {
			return nil, fmt.Errorf("keygen: %w", err)
		}

		group := helper.Group()

		if c == nil {
			// fᵢ(X) of degree t−1 with fᵢ(0) = xᵢ, the secret contribution
			vssConstant := sample.Scalar(rand.Reader, group)
			vssSecret := polynomial.NewPolynomial(group, helper.Threshold()-1, vssConstant)
			return &round1{
				Helper:    helper,
				VSSSecret: vssSecret,
			}, nil
		}

		// refresh: the contributions sum to zero, so the key is unchanged
		vssSecret := polynomial.NewPolynomial(group, helper.Threshold()-1, nil)

		previousShares := make(map[party.ID]curve.Point, len(c.Public))
		for j, p := range c.Public {
			previousShares[j] = p.ECDSA
		}

		return &round1{
			Helper:                    helper,
			PreviousSecretECDSA:       group.NewScalar().Set(c.ECDSA),
			PreviousPublicSharesECDSA: previousShares,
			PreviousChainKey:          c.ChainKey,
			VSSSecret:                 vssSecret,
		}, nil
	}
}
