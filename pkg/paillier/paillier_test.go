package paillier_test

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/math/sample"
	"github.com/vaultsig/cggmp21/pkg/paillier"
	"github.com/vaultsig/cggmp21/pkg/zk"
)

func TestEncDecRoundTrip(t *testing.T) {
	sk := zk.ProverPaillierSecret
	pk := sk.PublicKey

	m := sample.IntervalL(rand.Reader)
	ct, _ := pk.Enc(m)

	dec, err := sk.Dec(ct)
	require.NoError(t, err)
	assert.True(t, dec.Eq(m) == 1)
}

func TestEncDecNegative(t *testing.T) {
	sk := zk.ProverPaillierSecret

	m := new(saferith.Int).SetUint64(42).Neg(1)
	ct, _ := sk.PublicKey.Enc(m)

	dec, err := sk.Dec(ct)
	require.NoError(t, err)
	assert.True(t, dec.Eq(m) == 1)
}

func TestHomomorphicAdd(t *testing.T) {
	sk := zk.ProverPaillierSecret
	pk := sk.PublicKey

	a := sample.IntervalL(rand.Reader)
	b := sample.IntervalL(rand.Reader)

	ctA, _ := pk.Enc(a)
	ctB, _ := pk.Enc(b)
	ctA.Add(pk, ctB)

	dec, err := sk.Dec(ctA)
	require.NoError(t, err)
	expected := new(saferith.Int).Add(a, b, -1)
	assert.True(t, dec.Eq(expected) == 1)
}

func TestHomomorphicMul(t *testing.T) {
	sk := zk.ProverPaillierSecret
	pk := sk.PublicKey

	m := sample.IntervalL(rand.Reader)
	k := new(saferith.Int).SetUint64(1337)

	ct, _ := pk.Enc(m)
	ct.Mul(pk, k)

	dec, err := sk.Dec(ct)
	require.NoError(t, err)
	expected := new(saferith.Int).Mul(m, k, -1)
	assert.True(t, dec.Eq(expected) == 1)
}

func TestDecWrongKey(t *testing.T) {
	m := sample.IntervalL(rand.Reader)
	ct, _ := zk.ProverPaillierPublic.Enc(m)

	// the ciphertext is overwhelmingly unlikely to be a unit mod the
	// other key's N², or to decrypt to m
	dec, err := zk.VerifierPaillierSecret.Dec(ct)
	if err == nil {
		assert.False(t, dec.Eq(m) == 1)
	}
}

func TestEncWithNonceDeterministic(t *testing.T) {
	pk := zk.ProverPaillierPublic

	m := sample.IntervalL(rand.Reader)
	nonce := sample.UnitModN(rand.Reader, pk.N())

	ct1 := pk.EncWithNonce(m, nonce)
	ct2 := pk.EncWithNonce(m, nonce)
	assert.True(t, ct1.Equal(ct2))
}

func TestValidateCiphertexts(t *testing.T) {
	pk := zk.ProverPaillierPublic

	m := sample.IntervalL(rand.Reader)
	ct, _ := pk.Enc(m)
	assert.True(t, pk.ValidateCiphertexts(ct))
	assert.False(t, pk.ValidateCiphertexts(nil))
	assert.False(t, pk.ValidateCiphertexts(&paillier.Ciphertext{}))
}

func TestValidatePrimes(t *testing.T) {
	sk := zk.ProverPaillierSecret
	require.NoError(t, paillier.ValidatePrime(sk.P()))
	require.NoError(t, paillier.ValidatePrime(sk.Q()))

	// a prime of the wrong size is rejected
	small := new(saferith.Nat).SetUint64(7)
	assert.Error(t, paillier.ValidatePrime(small))
}

func TestValidateN(t *testing.T) {
	require.NoError(t, paillier.ValidateN(zk.ProverPaillierPublic.N()))

	// even modulus
	even := saferith.ModulusFromNat(new(saferith.Nat).SetUint64(1 << 10))
	assert.Error(t, paillier.ValidateN(even))
}

func TestPublicKeyMarshal(t *testing.T) {
	pk := zk.ProverPaillierPublic

	data, err := pk.MarshalBinary()
	require.NoError(t, err)

	pk2 := &paillier.PublicKey{}
	require.NoError(t, pk2.UnmarshalBinary(data))
	assert.True(t, pk.Equal(pk2))
}

func TestCiphertextRandomize(t *testing.T) {
	sk := zk.ProverPaillierSecret
	pk := sk.PublicKey

	m := sample.IntervalL(rand.Reader)
	ct, _ := pk.Enc(m)
	before := ct.Clone()

	nonce := sample.UnitModN(rand.Reader, pk.N())
	ct.Randomize(pk, nonce)
	assert.False(t, ct.Equal(before))

	dec, err := sk.Dec(ct)
	require.NoError(t, err)
	assert.True(t, dec.Eq(m) == 1)
}
