package pool

import (
	"crypto/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelizeOrder(t *testing.T) {
	pl := NewPool(4)
	defer pl.TearDown()

	results := pl.Parallelize(100, func(i int) interface{} { return i * i })
	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, i*i, r.(int))
	}
}

func TestParallelizeNilPool(t *testing.T) {
	var pl *Pool
	results := pl.Parallelize(10, func(i int) interface{} { return i })
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i, r.(int))
	}
}

func TestSearch(t *testing.T) {
	pl := NewPool(4)
	defer pl.TearDown()

	var calls int64
	results := pl.Search(3, func() interface{} {
		// succeed every fourth attempt
		if atomic.AddInt64(&calls, 1)%4 == 0 {
			return struct{}{}
		}
		return nil
	})
	assert.Len(t, results, 3)
}

func TestSearchSerial(t *testing.T) {
	var pl *Pool
	n := 0
	results := pl.Search(2, func() interface{} {
		n++
		if n%2 == 0 {
			return n
		}
		return nil
	})
	assert.Len(t, results, 2)
}

func TestLockedReader(t *testing.T) {
	lr := NewLockedReader(rand.Reader)
	pl := NewPool(8)
	defer pl.TearDown()

	results := pl.Parallelize(64, func(int) interface{} {
		buf := make([]byte, 16)
		_, err := lr.Read(buf)
		if err != nil {
			return err
		}
		return buf
	})
	seen := make(map[string]bool)
	for _, r := range results {
		buf, ok := r.([]byte)
		require.True(t, ok)
		seen[string(buf)] = true
	}
	// random reads must all be distinct
	assert.Len(t, seen, 64)
}
