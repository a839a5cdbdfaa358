package zkprm

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func TestPrm(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	ped, lambda := zk.ProverPaillierSecret.GeneratePedersen(rand.Reader)

	public := Public{Aux: ped}
	private := Private{Lambda: lambda, Phi: zk.ProverPaillierSecret.Phi()}

	proof := NewProof(pl, hash.New(), public, private)
	assert.True(t, proof.Verify(pl, hash.New(), public))

	other := hash.New()
	_ = other.WriteAny([]byte("other session"))
	assert.False(t, proof.Verify(pl, other, public))
}

func TestPrmWrongParameters(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	ped, lambda := zk.ProverPaillierSecret.GeneratePedersen(rand.Reader)
	proof := NewProof(pl, hash.New(), Public{Aux: ped}, Private{
		Lambda: lambda,
		Phi:    zk.ProverPaillierSecret.Phi(),
	})

	// the fixture parameters use a different λ, so the proof must fail
	assert.False(t, proof.Verify(pl, hash.New(), Public{Aux: zk.Pedersen}))
}

func TestPrmCorrupted(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	ped, lambda := zk.ProverPaillierSecret.GeneratePedersen(rand.Reader)
	public := Public{Aux: ped}
	proof := NewProof(pl, hash.New(), public, Private{
		Lambda: lambda,
		Phi:    zk.ProverPaillierSecret.Phi(),
	})

	proof.As[0], proof.As[1] = proof.As[1], proof.As[0]
	assert.False(t, proof.Verify(pl, hash.New(), public))
}
