package sdk

import (
	"fmt"
	"sort"
)

// In-process implementations of every boundary interface. They back the
// daemon's dev mode and the package tests; nothing here is consensus-grade.

// DevLedger is a balance map with a designated engine account for Transfer.
type DevLedger struct {
	balances map[Address]int64
	self     Address
}

// NewDevLedger creates a ledger whose Transfer calls debit the self account.
// Example payload: sdk.NewDevLedger("contract:padi")
func NewDevLedger(self Address) *DevLedger {
	return &DevLedger{
		balances: make(map[Address]int64),
		self:     self,
	}
}

// Credit seeds an account, the dev-mode stand-in for a genesis allocation.
// Example payload: ledger.Credit("eth:0xabc", 100_000)
func (l *DevLedger) Credit(account Address, amount int64) {
	l.balances[account] += amount
}

func (l *DevLedger) TransferFrom(payer, recipient Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	if l.balances[payer] < amount {
		return fmt.Errorf("insufficient balance: %s holds %d, needs %d",
			payer, l.balances[payer], amount)
	}
	l.balances[payer] -= amount
	l.balances[recipient] += amount
	return nil
}

func (l *DevLedger) Transfer(recipient Address, amount int64) error {
	return l.TransferFrom(l.self, recipient, amount)
}

func (l *DevLedger) BalanceOf(account Address) int64 {
	return l.balances[account]
}

// DevMembershipToken tracks token ownership and metadata in memory.
type DevMembershipToken struct {
	owners map[uint64]Address
	uris   map[uint64]string
}

func NewDevMembershipToken() *DevMembershipToken {
	return &DevMembershipToken{
		owners: make(map[uint64]Address),
		uris:   make(map[uint64]string),
	}
}

func (t *DevMembershipToken) Mint(to Address, id uint64) error {
	if _, exists := t.owners[id]; exists {
		return fmt.Errorf("token %d already minted", id)
	}
	t.owners[id] = to
	return nil
}

func (t *DevMembershipToken) SetURI(id uint64, uri string) error {
	if _, exists := t.owners[id]; !exists {
		return fmt.Errorf("token %d not minted", id)
	}
	t.uris[id] = uri
	return nil
}

// OwnerOf exposes ownership for tests.
// Example payload: token.OwnerOf(1)
func (t *DevMembershipToken) OwnerOf(id uint64) (Address, bool) {
	owner, ok := t.owners[id]
	return owner, ok
}

type votesCheckpoint struct {
	block uint64
	votes int64
}

// DevVotesOracle keeps an append-only checkpoint history per account and
// answers GetPastVotes by walking back to the newest checkpoint at or below
// the queried height.
type DevVotesOracle struct {
	history map[Address][]votesCheckpoint
}

func NewDevVotesOracle() *DevVotesOracle {
	return &DevVotesOracle{history: make(map[Address][]votesCheckpoint)}
}

// Checkpoint records an account's voting power as of a block height.
// Example payload: oracle.Checkpoint("eth:0xabc", 100, 5000)
func (o *DevVotesOracle) Checkpoint(account Address, blockHeight uint64, votes int64) {
	cps := append(o.history[account], votesCheckpoint{block: blockHeight, votes: votes})
	sort.Slice(cps, func(i, j int) bool { return cps[i].block < cps[j].block })
	o.history[account] = cps
}

func (o *DevVotesOracle) GetPastVotes(account Address, blockHeight uint64) int64 {
	cps := o.history[account]
	for i := len(cps) - 1; i >= 0; i-- {
		if cps[i].block <= blockHeight {
			return cps[i].votes
		}
	}
	return 0
}

// RecordedCall is one executed governance action.
type RecordedCall struct {
	Target   Address
	Value    int64
	Calldata []byte
}

// DevExecutor records calls and can be told to fail a specific target so
// tests can exercise the atomic-rollback path.
type DevExecutor struct {
	Calls      []RecordedCall
	FailTarget Address
}

func NewDevExecutor() *DevExecutor {
	return &DevExecutor{}
}

func (e *DevExecutor) Call(target Address, value int64, calldata []byte) error {
	if !e.FailTarget.IsZero() && target == e.FailTarget {
		return fmt.Errorf("call to %s rejected", target)
	}
	e.Calls = append(e.Calls, RecordedCall{Target: target, Value: value, Calldata: calldata})
	return nil
}
