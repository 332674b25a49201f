package dao

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/state"
)

// Config are the governance parameters, fixed at construction.
type Config struct {
	// VotingDelay is the number of blocks between proposing and the start
	// of voting; the snapshot block for voting weight is the start block.
	VotingDelay uint64
	// VotingPeriod is the number of blocks voting stays open.
	VotingPeriod uint64
	// ProposalThreshold is the minimum voting weight required to propose.
	ProposalThreshold int64
	// Quorum is the minimum for-votes for a proposal to succeed.
	Quorum int64
	// MaxActions caps the number of actions per proposal.
	MaxActions int
	// TimelockDelay is the seconds between queueing and earliest execution.
	TimelockDelay int64
	// GracePeriod is the seconds after ETA before a queued proposal expires.
	GracePeriod int64
	// Guardian may cancel any proposal that has not executed yet.
	Guardian sdk.Address
}

// Governor runs the proposal lifecycle: propose, vote, queue, execute or
// cancel. Proposals and receipts live in its own keyspace; voting weight
// always comes fresh from the oracle.
type Governor struct {
	cfg   Config
	be    state.Backend
	votes sdk.VotesOracle
	exec  sdk.Executor
	env   sdk.EnvSource
	log   *slog.Logger

	mu sync.Mutex
}

func NewGovernor(
	cfg Config,
	be state.Backend,
	votes sdk.VotesOracle,
	exec sdk.Executor,
	env sdk.EnvSource,
	logger *slog.Logger,
) *Governor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Governor{
		cfg:   cfg,
		be:    be,
		votes: votes,
		exec:  exec,
		env:   env,
		log:   logger,
	}
}

// StateOf derives the lifecycle state of a proposal at a given height and
// time. The checks are ordered; the first match wins.
func (g *Governor) StateOf(p *Proposal, blockHeight uint64, now int64) ProposalState {
	switch {
	case p.Canceled:
		return StateCanceled
	case p.Executed:
		return StateExecuted
	case blockHeight <= p.StartBlock:
		return StatePending
	case blockHeight <= p.EndBlock:
		return StateActive
	case p.ForVotes < g.cfg.Quorum || p.ForVotes <= p.AgainstVotes:
		return StateDefeated
	case p.ETA == 0:
		return StateSucceeded
	case now < p.ETA:
		return StateQueued
	case now >= p.ETA+g.cfg.GracePeriod:
		return StateExpired
	default:
		return StateQueued
	}
}

// State looks up a proposal and derives its current state.
func (g *Governor) State(id uint64) (ProposalState, error) {
	p, err := g.Proposal(id)
	if err != nil {
		return 0, err
	}
	env := g.env.Env()
	return g.StateOf(p, env.BlockHeight, env.Timestamp), nil
}

// Propose opens a new proposal. The proposer's weight is snapshotted one
// block back so the proposing transaction itself cannot mint the threshold.
func (g *Governor) Propose(caller sdk.Address, targets []sdk.Address, values []int64, calldatas [][]byte, description string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.env.Env()
	if weight := g.votes.GetPastVotes(caller, env.BlockHeight-1); weight < g.cfg.ProposalThreshold {
		return 0, fmt.Errorf("%w: weight %d below proposal threshold %d",
			perrs.ErrUnauthorized, weight, g.cfg.ProposalThreshold)
	}
	if len(targets) != len(values) || len(targets) != len(calldatas) {
		return 0, fmt.Errorf("%w: action arity mismatch (%d targets, %d values, %d calldatas)",
			perrs.ErrInvalidArgument, len(targets), len(values), len(calldatas))
	}
	if len(targets) == 0 {
		return 0, fmt.Errorf("%w: a proposal needs at least one action", perrs.ErrInvalidArgument)
	}
	if len(targets) > g.cfg.MaxActions {
		return 0, fmt.Errorf("%w: %d actions exceed the maximum of %d",
			perrs.ErrInvalidArgument, len(targets), g.cfg.MaxActions)
	}

	txn := g.be.Begin()
	defer txn.Discard()

	id := g.nextProposalID(txn)
	startBlock := env.BlockHeight + g.cfg.VotingDelay
	p := &Proposal{
		ID:          id,
		Proposer:    caller,
		Targets:     targets,
		Values:      values,
		Calldatas:   calldatas,
		StartBlock:  startBlock,
		EndBlock:    startBlock + g.cfg.VotingPeriod,
		Description: description,
	}
	txn.Set(proposalKey(id), string(encodeProposal(p)))
	if err := txn.Commit(); err != nil {
		return 0, err
	}

	g.emitProposalCreated(id, caller)
	return id, nil
}

// CastVote records a vote on an active proposal. Weight is the voter's power
// at the proposal's start block, so buying tokens mid-vote changes nothing.
func (g *Governor) CastVote(caller sdk.Address, id uint64, support bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.env.Env()
	txn := g.be.Begin()
	defer txn.Discard()

	p, err := g.proposal(txn, id)
	if err != nil {
		return err
	}
	if st := g.StateOf(p, env.BlockHeight, env.Timestamp); st != StateActive {
		return fmt.Errorf("%w: proposal %d is %s, not active", perrs.ErrInvalidState, id, st)
	}
	if rcRaw := txn.Get(receiptKey(id, caller)); rcRaw != nil {
		return fmt.Errorf("%w: %s already voted on proposal %d", perrs.ErrInvalidState, caller, id)
	}

	weight := g.votes.GetPastVotes(caller, p.StartBlock)
	if weight <= 0 {
		return fmt.Errorf("%w: %s had no voting power at block %d",
			perrs.ErrUnauthorized, caller, p.StartBlock)
	}

	if support {
		p.ForVotes += weight
	} else {
		p.AgainstVotes += weight
	}
	txn.Set(proposalKey(id), string(encodeProposal(p)))
	txn.Set(receiptKey(id, caller), string(encodeReceipt(&Receipt{
		HasVoted: true,
		Support:  support,
		Votes:    weight,
	})))
	if err := txn.Commit(); err != nil {
		return err
	}

	g.emitVoteCast(id, caller, support, weight)
	return nil
}

// Queue moves a succeeded proposal into the timelock.
func (g *Governor) Queue(caller sdk.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.env.Env()
	txn := g.be.Begin()
	defer txn.Discard()

	p, err := g.proposal(txn, id)
	if err != nil {
		return err
	}
	if st := g.StateOf(p, env.BlockHeight, env.Timestamp); st != StateSucceeded {
		return fmt.Errorf("%w: proposal %d is %s, not succeeded", perrs.ErrInvalidState, id, st)
	}

	p.ETA = env.Timestamp + g.cfg.TimelockDelay
	txn.Set(proposalKey(id), string(encodeProposal(p)))
	if err := txn.Commit(); err != nil {
		return err
	}

	g.emitProposalQueued(id, p.ETA)
	return nil
}

// Execute runs a queued proposal's actions once its ETA has passed. The
// executed flag is written before the first action; any action failure
// discards the transaction, rolling the flag back with everything else.
func (g *Governor) Execute(caller sdk.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.env.Env()
	txn := g.be.Begin()
	defer txn.Discard()

	p, err := g.proposal(txn, id)
	if err != nil {
		return err
	}
	if st := g.StateOf(p, env.BlockHeight, env.Timestamp); st != StateQueued {
		return fmt.Errorf("%w: proposal %d is %s, not queued", perrs.ErrInvalidState, id, st)
	}
	if env.Timestamp < p.ETA {
		return fmt.Errorf("%w: proposal %d not executable before %d",
			perrs.ErrInvalidState, id, p.ETA)
	}

	p.Executed = true
	txn.Set(proposalKey(id), string(encodeProposal(p)))

	for i := range p.Targets {
		if err := g.exec.Call(p.Targets[i], p.Values[i], p.Calldatas[i]); err != nil {
			return fmt.Errorf("%w: action %d of proposal %d: %v",
				perrs.ErrExternalCall, i, id, err)
		}
	}
	if err := txn.Commit(); err != nil {
		return err
	}

	g.emitProposalExecuted(id, caller)
	return nil
}

// Cancel stops a proposal. The guardian may cancel anything not yet
// executed; the proposer may withdraw their own proposal while it is still
// pending or active.
func (g *Governor) Cancel(caller sdk.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	env := g.env.Env()
	txn := g.be.Begin()
	defer txn.Discard()

	p, err := g.proposal(txn, id)
	if err != nil {
		return err
	}
	st := g.StateOf(p, env.BlockHeight, env.Timestamp)

	switch {
	case caller == g.cfg.Guardian && !g.cfg.Guardian.IsZero():
		if st == StateExecuted {
			return fmt.Errorf("%w: proposal %d already executed", perrs.ErrInvalidState, id)
		}
	case caller == p.Proposer:
		if st != StatePending && st != StateActive {
			return fmt.Errorf("%w: proposer can only cancel while pending or active, proposal %d is %s",
				perrs.ErrInvalidState, id, st)
		}
	default:
		return fmt.Errorf("%w: %s may not cancel proposal %d", perrs.ErrUnauthorized, caller, id)
	}

	p.Canceled = true
	txn.Set(proposalKey(id), string(encodeProposal(p)))
	if err := txn.Commit(); err != nil {
		return err
	}

	g.emitProposalCanceled(id, caller)
	return nil
}

// Proposal reads a proposal record.
func (g *Governor) Proposal(id uint64) (*Proposal, error) {
	txn := g.be.Begin()
	defer txn.Discard()
	return g.proposal(txn, id)
}

// Receipt reads a voter's receipt for a proposal; a zero receipt comes back
// for accounts that never voted.
func (g *Governor) Receipt(id uint64, voter sdk.Address) (*Receipt, error) {
	txn := g.be.Begin()
	defer txn.Discard()
	raw := txn.Get(receiptKey(id, voter))
	if raw == nil {
		return &Receipt{}, nil
	}
	return decodeReceipt([]byte(*raw))
}

func (g *Governor) proposal(kv state.KV, id uint64) (*Proposal, error) {
	raw := kv.Get(proposalKey(id))
	if raw == nil {
		return nil, fmt.Errorf("%w: proposal %d", perrs.ErrNotFound, id)
	}
	return decodeProposal([]byte(*raw))
}

func (g *Governor) nextProposalID(kv state.KV) uint64 {
	var n uint64
	if raw := kv.Get(proposalCount); raw != nil && *raw != "" {
		n, _ = strconv.ParseUint(*raw, 10, 64)
	}
	n++
	kv.Set(proposalCount, strconv.FormatUint(n, 10))
	return n
}
