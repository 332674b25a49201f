package sdk

import (
	"strconv"
	"time"
)

// Env is a snapshot of the execution environment an engine call runs under.
// All temporal reasoning (voting windows, timelocks, resolution dates) uses
// this snapshot, never the wall clock directly.
type Env struct {
	TxID        string
	BlockHeight uint64
	Timestamp   int64
}

// EnvSource hands out the current environment snapshot. Engines pull one
// snapshot per call so every check within the call sees the same height and
// time.
type EnvSource interface {
	Env() Env
}

// ManualEnv is an EnvSource whose height and time are advanced by hand.
// Tests use it to walk proposals through their windows; the daemon's dev
// mode uses it as a simulated chain clock.
type ManualEnv struct {
	Current Env
}

// NewManualEnv starts a manual environment at the given height and time.
// Example payload: sdk.NewManualEnv(100, 1700000000)
func NewManualEnv(height uint64, timestamp int64) *ManualEnv {
	return &ManualEnv{Current: Env{
		TxID:        "tx-0",
		BlockHeight: height,
		Timestamp:   timestamp,
	}}
}

func (m *ManualEnv) Env() Env {
	return m.Current
}

// Advance moves the simulated chain forward by blocks and seconds and bumps
// the tx id so per-tx caches reset.
// Example payload: env.Advance(10, 120)
func (m *ManualEnv) Advance(blocks uint64, seconds int64) {
	m.Current.BlockHeight += blocks
	m.Current.Timestamp += seconds
	m.Current.TxID = "tx-" + strconv.FormatUint(m.Current.BlockHeight, 10)
}

// SetBlock jumps straight to a height, keeping time untouched.
// Example payload: env.SetBlock(4242)
func (m *ManualEnv) SetBlock(height uint64) {
	m.Current.BlockHeight = height
	m.Current.TxID = "tx-" + strconv.FormatUint(height, 10)
}

// SetTime jumps straight to a unix timestamp.
// Example payload: env.SetTime(1700000999)
func (m *ManualEnv) SetTime(timestamp int64) {
	m.Current.Timestamp = timestamp
}

// ParseTimestamp accepts unix seconds or iso-ish strings since host
// environments flip formats sometimes.
// Example payload: sdk.ParseTimestamp("2025-01-01T00:00:00")
func ParseTimestamp(val string) (int64, bool) {
	if v, err := strconv.ParseInt(val, 10, 64); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.Unix(), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", val, time.UTC); err == nil {
		return t.Unix(), true
	}
	return 0, false
}
