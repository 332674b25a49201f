// Package state is the kv substrate the engines persist into. Records are
// string keys to string values; a missing key reads as nil.
package state

// KV is the read/write surface an engine sees during a call. Get returns nil
// when the key was never set.
type KV interface {
	Get(key string) *string
	Set(key, value string)
	Delete(key string)
}

// Txn is one atomic unit of work. Writes stay invisible to the base store
// until Commit; Discard throws them away. Discard after Commit is a no-op,
// so callers can always defer it.
type Txn interface {
	KV
	Commit() error
	Discard()
}

// Backend hands out transactions over some storage medium. The engines are
// single-writer: only one mutating transaction is in flight at a time.
type Backend interface {
	Begin() Txn
	Close() error
}
