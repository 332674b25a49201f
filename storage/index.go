package storage

// Chunked id indexes. Every index is split into chunks of maxChunkSize
// entries so a single kv value never outgrows the backend's comfort zone.
// Adds are set-semantic: an id present anywhere in the index is never added
// twice, even though chunks themselves are append-only lists.

import (
	"encoding/json"
	"fmt"
	"strconv"

	"padi_protocol/state"
)

const maxChunkSize = 2500

// chunkCounterKey stores number of chunks for a base index.
func chunkCounterKey(base string) string {
	return base + ":chunks"
}

func chunkKey(base string, chunk int) string {
	return base + ":" + strconv.Itoa(chunk)
}

func getChunkCount(kv state.KV, baseKey string) int {
	ptr := kv.Get(chunkCounterKey(baseKey))
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.Atoi(*ptr)
	return n
}

func setChunkCount(kv state.KV, baseKey string, n int) {
	kv.Set(chunkCounterKey(baseKey), strconv.Itoa(n))
}

func loadChunk(kv state.KV, key string) ([]uint64, error) {
	ptr := kv.Get(key)
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	var ids []uint64
	if err := json.Unmarshal([]byte(*ptr), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal index %s: %w", key, err)
	}
	return ids, nil
}

func storeChunk(kv state.KV, key string, ids []uint64) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal index %s: %w", key, err)
	}
	kv.Set(key, string(b))
	return nil
}

// addIDToIndex ensures id exists across all chunks (no duplicates).
func addIDToIndex(kv state.KV, baseKey string, id uint64) error {
	chunks := getChunkCount(kv, baseKey)
	// search existing chunks for duplicates or free space
	for i := range chunks {
		key := chunkKey(baseKey, i)
		ids, err := loadChunk(kv, key)
		if err != nil {
			return err
		}
		for _, e := range ids {
			if e == id {
				return nil // already present
			}
		}
		if len(ids) > 0 && len(ids) < maxChunkSize {
			return storeChunk(kv, key, append(ids, id))
		}
	}
	// not found / no space -> create new chunk
	if err := storeChunk(kv, chunkKey(baseKey, chunks), []uint64{id}); err != nil {
		return err
	}
	setChunkCount(kv, baseKey, chunks+1)
	return nil
}

// removeIDFromIndex removes id from whichever chunk it sits in; absent ids
// are a no-op.
func removeIDFromIndex(kv state.KV, baseKey string, id uint64) error {
	chunks := getChunkCount(kv, baseKey)
	for i := range chunks {
		key := chunkKey(baseKey, i)
		ids, err := loadChunk(kv, key)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			continue
		}
		newIds := make([]uint64, 0, len(ids))
		found := false
		for _, e := range ids {
			if e == id {
				found = true
				continue
			}
			newIds = append(newIds, e)
		}
		if found {
			return storeChunk(kv, key, newIds)
		}
	}
	return nil
}

// idsFromIndex collects all ids across all chunks in insertion order.
func idsFromIndex(kv state.KV, baseKey string) ([]uint64, error) {
	all := []uint64{}
	chunks := getChunkCount(kv, baseKey)
	for i := range chunks {
		ids, err := loadChunk(kv, chunkKey(baseKey, i))
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	return all, nil
}
