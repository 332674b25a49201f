package sdk

// Boundary interfaces. Token mechanics, NFT internals and vote checkpointing
// live outside the protocol; the engines only ever see these contracts.

// TokenLedger moves the payment asset around. Implementations must make a
// failed transfer observable as an error — the engines treat any failure as
// a full rollback of the surrounding call.
type TokenLedger interface {
	// TransferFrom pulls amount from payer towards recipient.
	TransferFrom(payer, recipient Address, amount int64) error
	// Transfer sends amount from the engine's own account.
	Transfer(recipient Address, amount int64) error
	// BalanceOf reads the current balance of an account.
	BalanceOf(account Address) int64
}

// MembershipToken mints the non-transferable membership NFT.
type MembershipToken interface {
	// Mint assigns a fresh token id to the holder. Minting an id twice is an
	// implementation error and must fail.
	Mint(to Address, id uint64) error
	// SetURI attaches metadata to a minted token.
	SetURI(id uint64, uri string) error
}

// VotesOracle answers historical voting-power queries. The governance engine
// treats the answer as ground truth and never caches it.
type VotesOracle interface {
	GetPastVotes(account Address, blockHeight uint64) int64
}

// Executor performs a queued governance action. value rides along for
// implementations that forward native funds with the call.
type Executor interface {
	Call(target Address, value int64, calldata []byte) error
}
