// Package config defines the key material produced by the key
// generation and refresh protocols, and needed to sign.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/vaultsig/cggmp21/internal/bip32"
	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/polynomial"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
)

// Config contains one party's share of the distributed key, together
// with the public material of all parties.
//
// The ECDSA share is additive in the following sense: the secret key is
// recovered by interpolating the shares of any Threshold parties at 0.
type Config struct {
	// Group is the curve group the key lives in.
	Group curve.Curve
	// ID is this party's identifier.
	ID party.ID
	// Threshold is the minimum number of parties needed to sign.
	Threshold int
	// ECDSA is this party's secret share xᵢ = f(i).
	ECDSA curve.Scalar
	// Paillier is this party's Paillier secret key.
	Paillier *paillier.SecretKey
	// RID is the session identifier jointly sampled during key generation.
	RID types.RID
	// ChainKey is the auxiliary randomness for BIP-32 style derivation.
	ChainKey types.RID
	// Public holds the public material of every party, including this one.
	Public map[party.ID]*Public
}

// Public is the key material a party publishes during key generation.
type Public struct {
	// ECDSA is the party's public share Xᵢ = xᵢ·G.
	ECDSA curve.Point
	// Paillier is the party's Paillier encryption key.
	Paillier *paillier.PublicKey
	// Pedersen holds the party's ring-Pedersen commitment parameters.
	Pedersen *pedersen.Parameters
}

// PublicPoint returns the group's joint public key X.
func (c *Config) PublicPoint() curve.Point {
	partyIDs := make([]party.ID, 0, len(c.Public))
	for j := range c.Public {
		partyIDs = append(partyIDs, j)
	}
	l := polynomial.Lagrange(c.Group, partyIDs)
	sum := c.Group.NewPoint()
	for j, lj := range l {
		sum = sum.Add(lj.Act(c.Public[j].ECDSA))
	}
	return sum
}

// PartyIDs returns the sorted IDs of all parties in the config.
func (c *Config) PartyIDs() party.IDSlice {
	ids := make([]party.ID, 0, len(c.Public))
	for j := range c.Public {
		ids = append(ids, j)
	}
	return party.NewIDSlice(ids)
}

// Validate checks the config for completeness and internal consistency.
func (c *Config) Validate() error {
	if c.Group == nil {
		return errors.New("config: group is missing")
	}
	if c.ECDSA == nil || c.ECDSA.IsZero() {
		return errors.New("config: ECDSA share is missing or zero")
	}
	if c.Paillier == nil {
		return errors.New("config: Paillier key is missing")
	}
	if err := c.RID.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.ChainKey.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !ValidThreshold(c.Threshold, len(c.Public)) {
		return fmt.Errorf("config: threshold %d invalid for %d parties", c.Threshold, len(c.Public))
	}

	self, ok := c.Public[c.ID]
	if !ok {
		return fmt.Errorf("config: no public data for self (%s)", c.ID)
	}
	if !self.ECDSA.Equal(c.ECDSA.ActOnBase()) {
		return errors.New("config: ECDSA share does not match public share")
	}
	if !self.Paillier.Equal(c.Paillier.PublicKey) {
		return errors.New("config: Paillier key does not match public key")
	}

	for j, p := range c.Public {
		if p == nil || p.ECDSA == nil || p.Paillier == nil || p.Pedersen == nil {
			return fmt.Errorf("config: missing public data for %s", j)
		}
		if p.ECDSA.IsIdentity() {
			return fmt.Errorf("config: public share of %s is identity", j)
		}
		if err := paillier.ValidateN(p.Paillier.N()); err != nil {
			return fmt.Errorf("config: party %s: %w", j, err)
		}
		if err := pedersen.ValidateParameters(p.Pedersen.N(), p.Pedersen.S(), p.Pedersen.T()); err != nil {
			return fmt.Errorf("config: party %s: %w", j, err)
		}
	}
	return nil
}

// ValidThreshold reports whether a threshold of t signers out of n
// parties makes sense.
func ValidThreshold(t, n int) bool {
	return t > 0 && t <= n
}

// CanSign reports whether the given set of signers can produce a
// signature with this config: it must include this party, consist of
// known parties, and meet the threshold.
func (c *Config) CanSign(signers party.IDSlice) bool {
	if !signers.Valid() || len(signers) < c.Threshold {
		return false
	}
	if !signers.Contains(c.ID) {
		return false
	}
	for _, j := range signers {
		if _, ok := c.Public[j]; !ok {
			return false
		}
	}
	return true
}

// Derive returns a copy of the config whose secret key is shifted by
// adjust. Every party applies the same public shift, so the shares stay
// consistent.
func (c *Config) Derive(adjust curve.Scalar, newChainKey []byte) (*Config, error) {
	if len(newChainKey) != len(c.ChainKey) {
		return nil, errors.New("config: invalid chain key length")
	}
	adjustG := adjust.ActOnBase()

	public := make(map[party.ID]*Public, len(c.Public))
	for j, p := range c.Public {
		public[j] = &Public{
			ECDSA:    p.ECDSA.Add(adjustG),
			Paillier: p.Paillier,
			Pedersen: p.Pedersen,
		}
	}
	return &Config{
		Group:     c.Group,
		ID:        c.ID,
		Threshold: c.Threshold,
		ECDSA:     c.Group.NewScalar().Set(c.ECDSA).Add(adjust),
		Paillier:  c.Paillier,
		RID:       c.RID.Copy(),
		ChainKey:  types.RID(newChainKey).Copy(),
		Public:    public,
	}, nil
}

// DeriveBIP32 derives the config for the non-hardened child with the
// given index, per BIP-32.
func (c *Config) DeriveBIP32(i uint32) (*Config, error) {
	adjust, newChainKey, err := bip32.DeriveScalar(c.PublicPoint(), c.ChainKey, i)
	if err != nil {
		return nil, err
	}
	return c.Derive(adjust, newChainKey)
}

// WriteTo implements io.WriterTo. The encoding covers everything two
// parties must agree on before signing.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	if c == nil {
		return 0, io.ErrUnexpectedEOF
	}
	var total int64

	n, err := c.RID.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}

	n, err = types.ThresholdWrapper(c.Threshold).WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}

	for _, j := range c.PartyIDs() {
		n, err = j.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}

		p := c.Public[j]
		data, err := p.ECDSA.MarshalBinary()
		if err != nil {
			return total, err
		}
		n32, err := w.Write(data)
		total += int64(n32)
		if err != nil {
			return total, err
		}

		n, err = p.Pedersen.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (c *Config) Domain() string {
	return "CMP Config"
}
