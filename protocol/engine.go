package protocol

import (
	"fmt"
	"log/slog"
	"sync"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// Config fixes the engine's privileged addresses and policy knobs at
// construction time.
type Config struct {
	// Admin may register lawyers, verify incidents and cancel cases.
	Admin sdk.Address
	// PaymentWallet receives membership fees.
	PaymentWallet sdk.Address
	// Self is the engine's own account; case rewards are escrowed here.
	// Must match the address bound in storage.
	Self sdk.Address
	// MembershipPrice is the exact fee a mint must pay.
	MembershipPrice int64
	// OpenCorroboration lets non-members corroborate incidents.
	OpenCorroboration bool
	// OpenEmergencyConfirm lets anyone confirm an emergency response.
	OpenEmergencyConfirm bool
}

// Engine is the protocol state machine: membership, cases, lawyers and
// incidents. One mutex serializes every entry point, so id allocation and
// escrow accounting never race.
type Engine struct {
	cfg    Config
	store  *storage.Store
	ledger sdk.TokenLedger
	nft    sdk.MembershipToken
	env    sdk.EnvSource
	log    *slog.Logger

	mu sync.Mutex
}

func NewEngine(
	cfg Config,
	store *storage.Store,
	ledger sdk.TokenLedger,
	nft sdk.MembershipToken,
	env sdk.EnvSource,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		store:  store,
		ledger: ledger,
		nft:    nft,
		env:    env,
		log:    logger,
	}
}

// Self returns the engine's own account address.
func (e *Engine) Self() sdk.Address {
	return e.cfg.Self
}

// Store exposes the underlying registry for read paths.
func (e *Engine) Store() *storage.Store {
	return e.store
}

func (e *Engine) requireAdmin(caller sdk.Address) error {
	if caller != e.cfg.Admin {
		return fmt.Errorf("%w: caller %s is not admin", perrs.ErrUnauthorized, caller)
	}
	return nil
}

// update runs fn against the registry under the engine lock. Any error from
// fn discards the whole transaction.
func (e *Engine) update(fn func(tx *storage.Tx) error) error {
	return e.store.Update(e.cfg.Self, fn)
}

// externalErr tags a token/NFT boundary failure so callers can match on the
// ExternalCall class.
func externalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", perrs.ErrExternalCall, op, err)
}
