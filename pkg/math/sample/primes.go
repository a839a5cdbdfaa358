package sample

import (
	"io"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/vaultsig/cggmp21/internal/params"
	"github.com/vaultsig/cggmp21/pkg/pool"
)

// blumPrimalityIterations is the number of Miller-Rabin rounds; combined
// with the Baillie-PSW test run by ProbablyPrime the error is far below 2⁻⁸⁰.
const blumPrimalityIterations = 20

// smallPrimes is used to discard candidates by trial division before the
// expensive primality test. The list covers primes below 500.
var smallPrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67,
	71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139,
	149, 151, 157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223,
	227, 229, 233, 239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293,
	307, 311, 313, 317, 331, 337, 347, 349, 353, 359, 367, 373, 379, 383,
	389, 397, 401, 409, 419, 421, 431, 433, 439, 443, 449, 457, 461, 463,
	467, 479, 487, 491, 499,
}

// tryBlumPrime attempts to sample a safe Blum prime p with
// p ≡ 3 (mod 4) and (p−1)/2 prime. Returns nil if the candidate fails.
func tryBlumPrime(rand io.Reader) *saferith.Nat {
	buf := make([]byte, params.BytesBlumPrime)
	mustReadBits(rand, buf)
	// force the top two bits so that p·q has the full modulus size,
	// and the bottom two so that p ≡ 3 (mod 4).
	buf[0] |= 0xC0
	buf[len(buf)-1] |= 3

	p := new(big.Int).SetBytes(buf)
	// q = (p − 1)/2 must also avoid small factors.
	q := new(big.Int).Rsh(p, 1)

	bigMod := new(big.Int)
	for _, prime := range smallPrimes {
		r := bigMod.Mod(q, bigMod.SetUint64(prime)).Uint64()
		// q ≢ 0 and p = 2q+1 ≢ 0 (mod prime)
		if r == 0 || 2*r+1 == prime {
			return nil
		}
	}

	if !q.ProbablyPrime(blumPrimalityIterations) {
		return nil
	}
	if !p.ProbablyPrime(blumPrimalityIterations) {
		return nil
	}
	return new(saferith.Nat).SetBig(p, params.BitsBlumPrime)
}

// Paillier samples two distinct safe Blum primes for a Paillier modulus.
// rand must be safe for concurrent use when a pool is provided.
func Paillier(rand io.Reader, pl *pool.Pool) (p, q *saferith.Nat) {
	results := pl.Search(2, func() interface{} {
		if candidate := tryBlumPrime(rand); candidate != nil {
			return candidate
		}
		return nil
	})
	p, q = results[0].(*saferith.Nat), results[1].(*saferith.Nat)
	if p.Eq(q) == 1 {
		// astronomically unlikely, but N = p² breaks every assumption
		return Paillier(rand, pl)
	}
	return
}
