package sdk

type Asset string

const (
	// AssetPadi is the collateral-backed stable token used for membership
	// fees, case escrow and lawyer rewards.
	AssetPadi Asset = "padi"
	// AssetPadiGov is the governance token whose historical voting power
	// gates proposals.
	AssetPadiGov Asset = "padi_gov"
)

// String returns the raw ticker string for logging or ledger calls.
// Example payload: sdk.AssetPadi.String()
func (a Asset) String() string {
	return string(a)
}
