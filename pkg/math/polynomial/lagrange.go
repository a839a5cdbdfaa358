package polynomial

import (
	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/party"
)

var oneNat = new(saferith.Nat).SetUint64(1)

// Lagrange returns the Lagrange coefficients ℓⱼ(0) for interpolating at 0
// over the given party set, so that f(0) = Σⱼ ℓⱼ·f(xⱼ).
func Lagrange(group curve.Curve, interpolationDomain []party.ID) map[party.ID]curve.Scalar {
	scalars := make(map[party.ID]curve.Scalar, len(interpolationDomain))
	for _, id := range interpolationDomain {
		scalars[id] = id.Scalar(group)
	}

	coefficients := make(map[party.ID]curve.Scalar, len(interpolationDomain))
	for _, j := range interpolationDomain {
		xJ := scalars[j]
		numerator := group.NewScalar().SetNat(oneNat)
		denominator := group.NewScalar().SetNat(oneNat)
		for _, k := range interpolationDomain {
			if k == j {
				continue
			}
			xK := scalars[k]
			// ℓⱼ = Πₖ xₖ / (xₖ − xⱼ)
			numerator.Mul(xK)
			diff := group.NewScalar().Set(xK).Sub(xJ)
			denominator.Mul(diff)
		}
		coefficients[j] = numerator.Mul(denominator.Invert())
	}
	return coefficients
}
