package protocol

import (
	"errors"
	"fmt"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// MintMembership issues a membership token to member against payment of the
// configured price. The fee is pulled from caller, so representatives can
// sponsor a membership on someone else's behalf.
// Example payload: engine.MintMembership("eth:0xabc", "eth:0xabc", "ipfs://m", 500)
func (e *Engine) MintMembership(caller, member sdk.Address, metadataURI string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if member.IsZero() {
		return fmt.Errorf("%w: member address required", perrs.ErrInvalidArgument)
	}
	if amount != e.cfg.MembershipPrice {
		return fmt.Errorf("%w: membership costs %d, got %d",
			perrs.ErrInvalidArgument, e.cfg.MembershipPrice, amount)
	}

	var tokenID uint64
	err := e.update(func(tx *storage.Tx) error {
		existing, err := tx.Member(member)
		if err != nil && !errors.Is(err, perrs.ErrNotFound) {
			return err
		}
		if existing != nil && existing.Active {
			return fmt.Errorf("%w: %s is already a member", perrs.ErrInvalidState, member)
		}

		// payment first: a failed fee must leave the token supply untouched
		if err := e.ledger.TransferFrom(caller, e.cfg.PaymentWallet, amount); err != nil {
			return externalErr("membership payment", err)
		}

		tokenID = tx.NextTokenID()
		if err := e.nft.Mint(member, tokenID); err != nil {
			return externalErr("mint membership token", err)
		}
		if err := e.nft.SetURI(tokenID, metadataURI); err != nil {
			return externalErr("set token uri", err)
		}

		return tx.PutMember(&storage.Member{
			Wallet:            member,
			Representative:    sdk.AddressZero,
			MembershipTokenID: tokenID,
			MetadataURI:       metadataURI,
			JoinDate:          e.env.Env().Timestamp,
			TotalCases:        0,
			Active:            true,
		})
	})
	if err != nil {
		return err
	}

	e.emitMembershipMinted(tokenID, member)
	return nil
}

// AssignRepresentative lets a member, or their current representative, point
// the membership at a new representative.
func (e *Engine) AssignRepresentative(caller, member, representative sdk.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.update(func(tx *storage.Tx) error {
		m, err := tx.Member(member)
		if err != nil {
			return err
		}
		if caller != member && (m.Representative.IsZero() || caller != m.Representative) {
			return fmt.Errorf("%w: %s may not change %s's representative",
				perrs.ErrUnauthorized, caller, member)
		}
		m.Representative = representative
		return tx.PutMember(m)
	})
	if err != nil {
		return err
	}

	e.emitRepresentativeAssigned(member, representative, caller)
	return nil
}

// Member reads a membership record.
func (e *Engine) Member(wallet sdk.Address) (*storage.Member, error) {
	var m *storage.Member
	err := e.store.View(func(tx *storage.Tx) error {
		var err error
		m, err = tx.Member(wallet)
		return err
	})
	return m, err
}
