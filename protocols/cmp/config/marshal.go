package config

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"

	"github.com/vaultsig/cggmp21/internal/types"
	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
)

// The wire representation stores the Paillier key as its prime factors
// and every public modulus as raw bytes, so that unmarshaling can
// revalidate all key material.
type configRaw struct {
	Group     string
	ID        party.ID
	Threshold uint32
	ECDSA     []byte
	P, Q      []byte
	RID       []byte
	ChainKey  []byte
	Public    map[party.ID]publicRaw
}

type publicRaw struct {
	ECDSA []byte
	N     []byte
	S     []byte
	T     []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Config) MarshalBinary() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ecdsa, err := c.ECDSA.MarshalBinary()
	if err != nil {
		return nil, err
	}
	public := make(map[party.ID]publicRaw, len(c.Public))
	for j, p := range c.Public {
		pointBytes, err := p.ECDSA.MarshalBinary()
		if err != nil {
			return nil, err
		}
		public[j] = publicRaw{
			ECDSA: pointBytes,
			N:     p.Pedersen.N().Bytes(),
			S:     p.Pedersen.S().Bytes(),
			T:     p.Pedersen.T().Bytes(),
		}
	}
	raw := configRaw{
		Group:     c.Group.Name(),
		ID:        c.ID,
		Threshold: uint32(c.Threshold),
		ECDSA:     ecdsa,
		P:         c.Paillier.P().Bytes(),
		Q:         c.Paillier.Q().Bytes(),
		RID:       c.RID,
		ChainKey:  c.ChainKey,
		Public:    public,
	}
	return cbor.Marshal(raw)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. All key
// material is validated, so a config loaded from untrusted storage
// cannot put the protocol in an inconsistent state.
func (c *Config) UnmarshalBinary(data []byte) error {
	var raw configRaw
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var group curve.Curve
	switch raw.Group {
	case curve.Secp256k1{}.Name():
		group = curve.Secp256k1{}
	default:
		return fmt.Errorf("config: unsupported group %q", raw.Group)
	}

	p := new(saferith.Nat).SetBytes(raw.P)
	q := new(saferith.Nat).SetBytes(raw.Q)
	if err := paillier.ValidatePrime(p); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := paillier.ValidatePrime(q); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	sk := paillier.NewSecretKeyFromPrimes(p, q)

	ecdsa := group.NewScalar()
	if err := ecdsa.UnmarshalBinary(raw.ECDSA); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	public := make(map[party.ID]*Public, len(raw.Public))
	for j, pr := range raw.Public {
		point := group.NewPoint()
		if err := point.UnmarshalBinary(pr.ECDSA); err != nil {
			return fmt.Errorf("config: party %s: %w", j, err)
		}
		n := saferith.ModulusFromBytes(pr.N)
		s := new(saferith.Nat).SetBytes(pr.S)
		t := new(saferith.Nat).SetBytes(pr.T)
		if err := pedersen.ValidateParameters(n, s, t); err != nil {
			return fmt.Errorf("config: party %s: %w", j, err)
		}
		pk := paillier.NewPublicKey(n)
		public[j] = &Public{
			ECDSA:    point,
			Paillier: pk,
			Pedersen: pedersen.New(pk.Modulus(), s, t),
		}
	}

	*c = Config{
		Group:     group,
		ID:        raw.ID,
		Threshold: int(raw.Threshold),
		ECDSA:     ecdsa,
		Paillier:  sk,
		RID:       types.RID(raw.RID),
		ChainKey:  types.RID(raw.ChainKey),
		Public:    public,
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return nil
}
