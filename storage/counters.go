package storage

import (
	"strconv"

	"padi_protocol/state"
)

// getCount reads the string counter under the key and defaults to zero, nothing magical here.
func getCount(kv state.KV, key string) uint64 {
	ptr := kv.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}

// setCount stores uint64 counters back as decimal strings for the kv.
func setCount(kv state.KV, key string, n uint64) {
	kv.Set(key, strconv.FormatUint(n, 10))
}

// nextID advances the counter and returns the fresh value. The first call on
// a virgin counter yields 1; within one transaction no two calls can observe
// the same value, and the single-writer discipline extends that across
// transactions.
func nextID(kv state.KV, key string) uint64 {
	n := getCount(kv, key) + 1
	setCount(kv, key, n)
	return n
}
