package protocol

import (
	"fmt"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// RegisterLawyer is the admin path for onboarding a lawyer. An existing
// record is overwritten, wiping its case list.
func (e *Engine) RegisterLawyer(caller, lawyer sdk.Address, profileURI string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.putFreshLawyer(lawyer, profileURI); err != nil {
		return err
	}
	e.emitLawyerRegistered(lawyer, caller)
	return nil
}

// SignUpLawyer is the self-service path; it writes the same record the admin
// path does.
func (e *Engine) SignUpLawyer(caller, lawyer sdk.Address, profileURI string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != lawyer {
		return fmt.Errorf("%w: lawyers can only sign up themselves", perrs.ErrUnauthorized)
	}
	if err := e.putFreshLawyer(lawyer, profileURI); err != nil {
		return err
	}
	e.emitLawyerRegistered(lawyer, caller)
	return nil
}

func (e *Engine) putFreshLawyer(lawyer sdk.Address, profileURI string) error {
	return e.update(func(tx *storage.Tx) error {
		return tx.PutLawyer(&storage.Lawyer{
			Wallet:     lawyer,
			CaseIDs:    []uint64{},
			ProfileURI: profileURI,
			JoinDate:   e.env.Env().Timestamp,
			Active:     true,
		})
	})
}

// Lawyer reads a lawyer record.
func (e *Engine) Lawyer(wallet sdk.Address) (*storage.Lawyer, error) {
	var l *storage.Lawyer
	err := e.store.View(func(tx *storage.Tx) error {
		var err error
		l, err = tx.Lawyer(wallet)
		return err
	})
	return l, err
}

// LawyerCases returns a lawyer's open and closed case ids.
func (e *Engine) LawyerCases(wallet sdk.Address) (open, closed []uint64, err error) {
	err = e.store.View(func(tx *storage.Tx) error {
		open, closed, err = tx.LawyerCases(wallet)
		return err
	})
	return open, closed, err
}
