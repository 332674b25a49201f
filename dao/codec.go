package dao

import (
	"fmt"

	"padi_protocol/codec"
	"padi_protocol/sdk"
)

func encodeProposal(p *Proposal) []byte {
	w := codec.NewWriter()
	w.Uint64(p.ID)
	w.Address(p.Proposer)
	w.Int64(p.ETA)
	w.VarUint(uint64(len(p.Targets)))
	for i := range p.Targets {
		w.Address(p.Targets[i])
		w.Int64(p.Values[i])
		w.BytesField(p.Calldatas[i])
	}
	w.Uint64(p.StartBlock)
	w.Uint64(p.EndBlock)
	w.String(p.Description)
	w.Int64(p.ForVotes)
	w.Int64(p.AgainstVotes)
	w.Bool(p.Canceled)
	w.Bool(p.Executed)
	return w.Bytes()
}

func decodeProposal(data []byte) (*Proposal, error) {
	r := codec.NewReader(data)
	var p Proposal
	var err error
	if p.ID, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.Proposer, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.ETA, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	actions, err := r.VarUint()
	if err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	p.Targets = make([]sdk.Address, 0, actions)
	p.Values = make([]int64, 0, actions)
	p.Calldatas = make([][]byte, 0, actions)
	for i := uint64(0); i < actions; i++ {
		target, err := r.Address()
		if err != nil {
			return nil, fmt.Errorf("decode proposal action: %w", err)
		}
		value, err := r.Int64()
		if err != nil {
			return nil, fmt.Errorf("decode proposal action: %w", err)
		}
		calldata, err := r.BytesField()
		if err != nil {
			return nil, fmt.Errorf("decode proposal action: %w", err)
		}
		p.Targets = append(p.Targets, target)
		p.Values = append(p.Values, value)
		p.Calldatas = append(p.Calldatas, calldata)
	}
	if p.StartBlock, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.EndBlock, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.Description, err = r.String(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.ForVotes, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.AgainstVotes, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.Canceled, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.Executed, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	return &p, nil
}

func encodeReceipt(rc *Receipt) []byte {
	w := codec.NewWriter()
	w.Bool(rc.HasVoted)
	w.Bool(rc.Support)
	w.Int64(rc.Votes)
	return w.Bytes()
}

func decodeReceipt(data []byte) (*Receipt, error) {
	r := codec.NewReader(data)
	var rc Receipt
	var err error
	if rc.HasVoted, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	if rc.Support, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	if rc.Votes, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	return &rc, nil
}
