package protocol

import (
	"fmt"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// AddCase files a new case for member against a lawyer and escrows the
// reward with the engine. Only the member themselves may file; the emergency
// flag changes nothing in storage, it only shows up in the event line.
func (e *Engine) AddCase(caller, lawyer, member sdk.Address, description string, reward int64, emergency bool) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != member {
		return 0, fmt.Errorf("%w: only the member can file their case", perrs.ErrUnauthorized)
	}
	if lawyer.IsZero() {
		return 0, fmt.Errorf("%w: lawyer address required", perrs.ErrInvalidArgument)
	}
	if reward <= 0 {
		return 0, fmt.Errorf("%w: reward must be positive, got %d", perrs.ErrInvalidArgument, reward)
	}

	var caseID uint64
	err := e.update(func(tx *storage.Tx) error {
		m, err := tx.Member(member)
		if err != nil || !m.Active {
			return fmt.Errorf("%w: membership required to file a case", perrs.ErrInvalidState)
		}

		caseID = tx.NextCaseID()
		if err := tx.PutCase(&storage.Case{
			ID:                  caseID,
			Member:              member,
			Lawyer:              lawyer,
			DescriptionMetadata: description,
			CreationDate:        e.env.Env().Timestamp,
			Resolved:            false,
			RewardAmount:        reward,
		}); err != nil {
			return err
		}

		m.TotalCases++
		if err := tx.PutMember(m); err != nil {
			return err
		}

		if err := e.ledger.TransferFrom(member, e.cfg.Self, reward); err != nil {
			return externalErr("escrow case reward", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.emitCaseAdded(caseID, member, lawyer, emergency)
	return caseID, nil
}

// ResolveCase closes a case and pays the escrowed reward out to the lawyer.
// The resolved flag is persisted before the payout so any reentrant observer
// already sees the case closed.
func (e *Engine) ResolveCase(caller, lawyer sdk.Address, caseID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != lawyer {
		return fmt.Errorf("%w: only the assigned lawyer can resolve", perrs.ErrUnauthorized)
	}

	var reward int64
	err := e.update(func(tx *storage.Tx) error {
		l, err := tx.Lawyer(lawyer)
		if err != nil {
			return fmt.Errorf("%w: lawyer %s is not registered", perrs.ErrUnauthorized, lawyer)
		}
		if !l.Active {
			return fmt.Errorf("%w: lawyer %s is not active", perrs.ErrUnauthorized, lawyer)
		}

		c, err := tx.Case(caseID)
		if err != nil {
			return err
		}
		if c.Lawyer != lawyer {
			return fmt.Errorf("%w: case %d is not assigned to %s", perrs.ErrUnauthorized, caseID, lawyer)
		}
		if c.Resolved {
			return fmt.Errorf("%w: case %d already resolved", perrs.ErrInvalidState, caseID)
		}

		c.Resolved = true
		c.ResolutionDate = e.env.Env().Timestamp
		reward = c.RewardAmount
		if err := tx.PutCase(c); err != nil {
			return err
		}

		if !l.HasCase(caseID) {
			l.CaseIDs = append(l.CaseIDs, caseID)
		}
		l.TotalRewards += reward
		if err := tx.PutLawyer(l); err != nil {
			return err
		}

		if reward > 0 {
			if err := e.ledger.Transfer(lawyer, reward); err != nil {
				return externalErr("pay case reward", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.emitCaseResolved(caseID, lawyer)
	return nil
}

// ConfirmEmergencyResponse acknowledges an emergency response. Log-only; the
// OpenEmergencyConfirm knob restricts it to the admin when disabled.
func (e *Engine) ConfirmEmergencyResponse(caller sdk.Address, caseID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cfg.OpenEmergencyConfirm {
		if err := e.requireAdmin(caller); err != nil {
			return err
		}
	}
	e.emitEmergencyConfirmed(caseID, caller)
	return nil
}

// RewardLawyerForEmergency pays a lawyer out of the engine balance for an
// emergency response, independent of any case escrow.
func (e *Engine) RewardLawyerForEmergency(caller, lawyer sdk.Address, caseID uint64, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: reward must be positive, got %d", perrs.ErrInvalidArgument, amount)
	}

	err := e.update(func(tx *storage.Tx) error {
		l, err := tx.Lawyer(lawyer)
		if err != nil {
			return err
		}
		l.TotalRewards += amount
		if err := tx.PutLawyer(l); err != nil {
			return err
		}
		if err := e.ledger.Transfer(lawyer, amount); err != nil {
			return externalErr("emergency reward", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.emitEmergencyReward(caseID, lawyer, amount)
	return nil
}

// AdminCancelCase closes an unresolved case and refunds the escrow. A
// cancelled case is a resolved case in the record; only the refund direction
// differs.
func (e *Engine) AdminCancelCase(caller sdk.Address, caseID uint64, refundTo sdk.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if refundTo.IsZero() {
		return fmt.Errorf("%w: refund address required", perrs.ErrInvalidArgument)
	}

	err := e.update(func(tx *storage.Tx) error {
		c, err := tx.Case(caseID)
		if err != nil {
			return err
		}
		if c.Resolved {
			return fmt.Errorf("%w: case %d already resolved", perrs.ErrInvalidState, caseID)
		}

		c.Resolved = true
		c.ResolutionDate = e.env.Env().Timestamp
		if err := tx.PutCase(c); err != nil {
			return err
		}
		// a cancelled case never counts as lawyer work
		if err := tx.DropCaseFromBuckets(c.Lawyer, caseID); err != nil {
			return err
		}

		if c.RewardAmount > 0 {
			if err := e.ledger.Transfer(refundTo, c.RewardAmount); err != nil {
				return externalErr("refund case escrow", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.emitCaseCancelled(caseID, caller)
	return nil
}

// TransferTokenCaseBalance sweeps the full engine balance to a successor
// contract, the migration escape hatch.
func (e *Engine) TransferTokenCaseBalance(caller, newContract sdk.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if newContract.IsZero() {
		return fmt.Errorf("%w: successor address required", perrs.ErrInvalidArgument)
	}

	balance := e.ledger.BalanceOf(e.cfg.Self)
	if balance == 0 {
		return fmt.Errorf("%w: nothing to sweep", perrs.ErrInvalidState)
	}
	if err := e.ledger.Transfer(newContract, balance); err != nil {
		return externalErr("sweep balance", err)
	}

	e.emitBalanceSwept(newContract, balance)
	return nil
}

// Case reads a case record.
func (e *Engine) Case(id uint64) (*storage.Case, error) {
	var c *storage.Case
	err := e.store.View(func(tx *storage.Tx) error {
		var err error
		c, err = tx.Case(id)
		return err
	})
	return c, err
}
