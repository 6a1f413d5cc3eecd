// Package testsupport generates randomized data for property and
// round-trip tests across the tree, ordmap, and ordset packages:
// gofuzz-backed random key/value maps plus permutations of int keys,
// which the split/rebalance property tests need far more often than
// random strings.
package testsupport

import (
	"crypto/rand"
	mrand "math/rand"

	fuzz "github.com/google/gofuzz"
)

var f = fuzz.New()

// RandomKV returns a random string->string map with exactly size distinct
// keys.
func RandomKV(size int) map[string]string {
	kvs := map[string]string{}

	for len(kvs) < size {
		var key, value string
		f.Fuzz(&key)
		f.Fuzz(&value)

		if _, exists := kvs[key]; exists {
			continue
		}
		kvs[key] = value
	}

	return kvs
}

// RandomByteArray returns size random bytes, read directly from
// crypto/rand.
func RandomByteArray(size int) []byte {
	arr := make([]byte, size)
	rand.Read(arr)
	return arr
}

// Permutation returns a uniformly shuffled permutation of [0, n), seeded
// from a gofuzz-generated int64 so repeated test runs still exercise a
// fresh ordering each time without reaching for time.Now.
func Permutation(n int) []int {
	var seed int64
	f.Fuzz(&seed)

	r := mrand.New(mrand.NewSource(seed))
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	r.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	return perm
}
