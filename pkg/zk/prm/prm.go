// Package zkprm proves that ring-Pedersen parameters are well formed,
// i.e. that s lies in the subgroup generated by t: s = t^λ (mod N).
// The proof runs StatParam parallel iterations with bit challenges.
package zkprm

import (
	"crypto/rand"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/math/arith"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/pedersen"
	"github.com/vaultsig/cggmp21/pkg/pool"
)

// Public is the statement: the Pedersen parameters (N, s, t).
type Public struct {
	Aux *pedersen.Parameters
}

// Private is the witness: λ with s = t^λ, and φ(N).
type Private struct {
	Lambda, Phi *saferith.Nat
}

// Proof holds one commitment and one response per iteration.
type Proof struct {
	As [params.StatParam]*saferith.Nat
	Zs [params.StatParam]*saferith.Nat
}

// NewProof proves the Pedersen relation for the given witness.
func NewProof(pl *pool.Pool, h *hash.Hash, public Public, private Private) *Proof {
	n := public.Aux.NArith()
	phiMod := saferith.ModulusFromNat(private.Phi)
	t := public.Aux.T()

	var as [params.StatParam]*saferith.Nat
	var proof Proof
	lockedRand := pool.NewLockedReader(rand.Reader)
	pl.Parallelize(params.StatParam, func(i int) interface{} {
		as[i] = sample.ModN(lockedRand, phiMod)
		proof.As[i] = n.Exp(t, as[i])
		return nil
	})

	es := challenge(h, public, proof.As[:])

	for i := 0; i < params.StatParam; i++ {
		z := as[i]
		// z = a + e·λ mod φ
		if es[i] {
			z = new(saferith.Nat).ModAdd(z, private.Lambda, phiMod)
		}
		proof.Zs[i] = z
	}
	return &proof
}

// Verify checks every iteration of the proof.
func (p *Proof) Verify(pl *pool.Pool, h *hash.Hash, public Public) bool {
	if p == nil {
		return false
	}
	if err := pedersen.ValidateParameters(public.Aux.N(), public.Aux.S(), public.Aux.T()); err != nil {
		return false
	}
	nMod := public.Aux.N()
	for i := 0; i < params.StatParam; i++ {
		if !arith.IsValidNatModN(nMod, p.As[i], p.Zs[i]) {
			return false
		}
	}

	es := challenge(h, public, p.As[:])

	n := public.Aux.NArith()
	s, t := public.Aux.S(), public.Aux.T()
	results := pl.Parallelize(params.StatParam, func(i int) interface{} {
		lhs := n.Exp(t, p.Zs[i])
		rhs := p.As[i]
		if es[i] {
			rhs = new(saferith.Nat).ModMul(rhs, s, nMod)
		}
		return lhs.Eq(rhs) == 1
	})
	for _, ok := range results {
		if !ok.(bool) {
			return false
		}
	}
	return true
}

func challenge(h *hash.Hash, public Public, As []*saferith.Nat) [params.StatParam]bool {
	_ = h.WriteAny(public.Aux)
	for _, a := range As {
		_ = h.WriteAny(a)
	}
	var es [params.StatParam]bool
	buf := make([]byte, params.StatParam)
	_, _ = io.ReadFull(h.Digest(), buf)
	for i := range es {
		es[i] = buf[i]&1 == 1
	}
	return es
}
