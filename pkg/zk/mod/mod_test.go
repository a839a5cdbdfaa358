package zkmod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/hash"
	"github.com/vaultsig/cggmp21/pkg/pool"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func TestMod(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	public := Public{N: zk.ProverPaillierPublic.N()}
	private := Private{
		P:   zk.ProverPaillierSecret.P(),
		Q:   zk.ProverPaillierSecret.Q(),
		Phi: zk.ProverPaillierSecret.Phi(),
	}

	proof := NewProof(pl, hash.New(), public, private)
	require.NotNil(t, proof)
	assert.True(t, proof.Verify(pl, hash.New(), public))

	other := hash.New()
	_ = other.WriteAny([]byte("other session"))
	assert.False(t, proof.Verify(pl, other, public))
}

func TestModWrongModulus(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	proof := NewProof(pl, hash.New(), Public{N: zk.ProverPaillierPublic.N()}, Private{
		P:   zk.ProverPaillierSecret.P(),
		Q:   zk.ProverPaillierSecret.Q(),
		Phi: zk.ProverPaillierSecret.Phi(),
	})
	assert.False(t, proof.Verify(pl, hash.New(), Public{N: zk.VerifierPaillierPublic.N()}))
}

func TestModCorruptedResponse(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	public := Public{N: zk.ProverPaillierPublic.N()}
	proof := NewProof(pl, hash.New(), public, Private{
		P:   zk.ProverPaillierSecret.P(),
		Q:   zk.ProverPaillierSecret.Q(),
		Phi: zk.ProverPaillierSecret.Phi(),
	})

	// flipping a single response bit must break verification
	proof.Responses[0].A = !proof.Responses[0].A
	assert.False(t, proof.Verify(pl, hash.New(), public))
}
