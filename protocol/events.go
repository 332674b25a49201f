package protocol

import (
	"fmt"

	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// Event lines use two-letter short codes so log watchers can follow protocol
// activity without replaying storage diffs.

// emitMembershipMinted writes an mm line for every fresh membership token.
func (e *Engine) emitMembershipMinted(tokenID uint64, member sdk.Address) {
	e.log.Info(fmt.Sprintf("mm|id:%d|by:%s", tokenID, member))
}

// emitRepresentativeAssigned records who may now act for the member.
func (e *Engine) emitRepresentativeAssigned(member, representative, caller sdk.Address) {
	e.log.Info(fmt.Sprintf("ra|m:%s|rep:%s|by:%s", member, representative, caller))
}

// emitCaseAdded pings observers about a new case; em marks emergencies so
// responders can prioritize without loading the record.
func (e *Engine) emitCaseAdded(caseID uint64, member, lawyer sdk.Address, emergency bool) {
	e.log.Info(fmt.Sprintf("ca|id:%d|by:%s|lw:%s|em:%t", caseID, member, lawyer, emergency))
}

func (e *Engine) emitCaseResolved(caseID uint64, lawyer sdk.Address) {
	e.log.Info(fmt.Sprintf("cr|id:%d|by:%s", caseID, lawyer))
}

func (e *Engine) emitCaseCancelled(caseID uint64, admin sdk.Address) {
	e.log.Info(fmt.Sprintf("cc|id:%d|by:%s", caseID, admin))
}

func (e *Engine) emitLawyerRegistered(lawyer, caller sdk.Address) {
	e.log.Info(fmt.Sprintf("lr|lw:%s|by:%s", lawyer, caller))
}

// emitEmergencyConfirmed leaves a hint that someone acknowledged the
// response; there is no state behind it.
func (e *Engine) emitEmergencyConfirmed(caseID uint64, caller sdk.Address) {
	e.log.Info(fmt.Sprintf("ec|id:%d|by:%s", caseID, caller))
}

func (e *Engine) emitEmergencyReward(caseID uint64, lawyer sdk.Address, amount int64) {
	e.log.Info(fmt.Sprintf("er|id:%d|lw:%s|am:%d", caseID, lawyer, amount))
}

func (e *Engine) emitIncidentReported(incidentID uint64, reporter sdk.Address) {
	e.log.Info(fmt.Sprintf("ir|id:%d|by:%s", incidentID, reporter))
}

func (e *Engine) emitIncidentCorroborated(incidentID uint64, corroborator sdk.Address) {
	e.log.Info(fmt.Sprintf("ic|id:%d|by:%s", incidentID, corroborator))
}

func (e *Engine) emitIncidentStatusUpdated(incidentID uint64, status storage.IncidentStatus, admin sdk.Address) {
	e.log.Info(fmt.Sprintf("is|id:%d|s:%s|by:%s", incidentID, status, admin))
}

// emitBalanceSwept is the audit trail for the admin moving the full escrow
// balance to a successor contract.
func (e *Engine) emitBalanceSwept(to sdk.Address, amount int64) {
	e.log.Info(fmt.Sprintf("tb|to:%s|am:%d", to, amount))
}

// emitRelayed marks a meta-transaction dispatch with its accepted nonce.
func (e *Engine) emitRelayed(method string, signer sdk.Address, nonce uint64) {
	e.log.Info(fmt.Sprintf("rx|m:%s|by:%s|n:%d", method, signer, nonce))
}
