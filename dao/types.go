package dao

import "padi_protocol/sdk"

// ProposalState is the derived lifecycle position of a proposal. It is never
// stored; StateOf computes it from the record plus chain height and time.
type ProposalState uint8

const (
	StatePending ProposalState = iota
	StateActive
	StateCanceled
	StateDefeated
	StateSucceeded
	StateQueued
	StateExpired
	StateExecuted
)

func (s ProposalState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateCanceled:
		return "canceled"
	case StateDefeated:
		return "defeated"
	case StateSucceeded:
		return "succeeded"
	case StateQueued:
		return "queued"
	case StateExpired:
		return "expired"
	case StateExecuted:
		return "executed"
	}
	return "unknown"
}

// Proposal is a batch of governance actions with its voting tallies. The
// action slices are parallel: Targets[i] is called with Values[i] and
// Calldatas[i].
type Proposal struct {
	ID           uint64
	Proposer     sdk.Address
	ETA          int64
	Targets      []sdk.Address
	Values       []int64
	Calldatas    [][]byte
	StartBlock   uint64
	EndBlock     uint64
	Description  string
	ForVotes     int64
	AgainstVotes int64
	Canceled     bool
	Executed     bool
}

// Receipt records one account's vote on one proposal; written exactly once.
type Receipt struct {
	HasVoted bool
	Support  bool
	Votes    int64
}
