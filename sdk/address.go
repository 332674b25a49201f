package sdk

import "strings"

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainContract AddressDomain = "contract"
	AddressDomainSystem   AddressDomain = "system"
)

type AddressType string

const (
	AddressTypeEVM     AddressType = "evm"
	AddressTypeKey     AddressType = "key"
	AddressTypeSystem  AddressType = "system"
	AddressTypeUnknown AddressType = "unknown"
)

// Address is the wallet identity used across the protocol. The zero value is
// the protocol's null sentinel: records store it to mean "unset" and
// mutators reject it as a key.
type Address string

// AddressZero is the unset/null address.
const AddressZero Address = ""

// String returns the literal representation of the address.
// Example payload: sdk.Address("eth:0xabc").String()
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is the null sentinel.
// Example payload: sdk.AddressZero.IsZero()
func (a Address) IsZero() bool {
	return a == AddressZero
}

// Domain quickly checks the prefix to guess if we deal with user/contract/system domain.
// Example payload: sdk.Address("contract:padi").Domain()
func (a Address) Domain() AddressDomain {
	if strings.HasPrefix(a.String(), "system:") {
		return AddressDomainSystem
	}
	if strings.HasPrefix(a.String(), "contract:") {
		return AddressDomainContract
	}
	return AddressDomainUser
}

// Type inspects the prefix to categorize the address key scheme.
// Example payload: sdk.Address("did:pkh:eip155:1:0xabc").Type()
func (a Address) Type() AddressType {
	switch {
	case strings.HasPrefix(a.String(), "did:pkh:eip155"),
		strings.HasPrefix(a.String(), "eth:"):
		return AddressTypeEVM
	case strings.HasPrefix(a.String(), "did:key:"):
		return AddressTypeKey
	case strings.HasPrefix(a.String(), "system:"):
		return AddressTypeSystem
	default:
		return AddressTypeUnknown
	}
}

// IsValid returns false for the null sentinel, used as a light sanity check
// before a record write.
// Example payload: sdk.Address("eth:0xabc").IsValid()
func (a Address) IsValid() bool {
	return !a.IsZero()
}
