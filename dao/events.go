package dao

import (
	"fmt"

	"padi_protocol/sdk"
)

// Short-code log lines, mirroring the protocol engine's event format so one
// watcher can tail both.

func (g *Governor) emitProposalCreated(id uint64, proposer sdk.Address) {
	g.log.Info(fmt.Sprintf("gc|id:%d|by:%s", id, proposer))
}

// emitVoteCast includes support and weight so tallies can be replayed from
// logs alone.
func (g *Governor) emitVoteCast(id uint64, voter sdk.Address, support bool, weight int64) {
	g.log.Info(fmt.Sprintf("gv|id:%d|by:%s|s:%t|w:%d", id, voter, support, weight))
}

func (g *Governor) emitProposalQueued(id uint64, eta int64) {
	g.log.Info(fmt.Sprintf("gq|id:%d|eta:%d", id, eta))
}

func (g *Governor) emitProposalExecuted(id uint64, caller sdk.Address) {
	g.log.Info(fmt.Sprintf("gx|id:%d|by:%s", id, caller))
}

func (g *Governor) emitProposalCanceled(id uint64, caller sdk.Address) {
	g.log.Info(fmt.Sprintf("gn|id:%d|by:%s", id, caller))
}
