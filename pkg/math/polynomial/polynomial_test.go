package polynomial

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsig/cggmp21/pkg/math/curve"
	"github.com/vaultsig/cggmp21/pkg/math/sample"
)

func TestPolynomialConstant(t *testing.T) {
	group := curve.Secp256k1{}
	secret := sample.Scalar(rand.Reader, group)

	p := NewPolynomial(group, 3, secret)
	assert.Equal(t, 3, p.Degree())
	assert.True(t, p.Constant().Equal(secret))

	// nil constant means a zero constant, the form used by refresh
	z := NewPolynomial(group, 2, nil)
	assert.True(t, z.Constant().IsZero())
	assert.Panics(t, func() { z.Evaluate(group.NewScalar()) })
}

func TestExponentMatchesEvaluation(t *testing.T) {
	group := curve.Secp256k1{}
	secret := sample.Scalar(rand.Reader, group)

	p := NewPolynomial(group, 4, secret)
	e := NewPolynomialExponent(p)

	for i := 0; i < 5; i++ {
		x := sample.Scalar(rand.Reader, group)
		// F(x) must equal f(x)·G
		assert.True(t, e.Evaluate(x).Equal(p.Evaluate(x).ActOnBase()))
	}
}

func TestExponentSum(t *testing.T) {
	group := curve.Secp256k1{}
	n := 3
	polynomials := make([]*Polynomial, n)
	exponents := make([]*Exponent, n)
	for i := range polynomials {
		polynomials[i] = NewPolynomial(group, 2, sample.Scalar(rand.Reader, group))
		exponents[i] = NewPolynomialExponent(polynomials[i])
	}

	summed, err := Sum(exponents)
	require.NoError(t, err)

	x := sample.Scalar(rand.Reader, group)
	expected := group.NewScalar()
	for _, p := range polynomials {
		expected.Add(p.Evaluate(x))
	}
	assert.True(t, summed.Evaluate(x).Equal(expected.ActOnBase()))
}

func TestExponentMarshal(t *testing.T) {
	group := curve.Secp256k1{}
	p := NewPolynomial(group, 3, sample.Scalar(rand.Reader, group))
	e := NewPolynomialExponent(p)

	data, err := e.MarshalBinary()
	require.NoError(t, err)

	e2 := EmptyExponent(group)
	require.NoError(t, e2.UnmarshalBinary(data))

	x := sample.Scalar(rand.Reader, group)
	assert.True(t, e.Evaluate(x).Equal(e2.Evaluate(x)))
}
