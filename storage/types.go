package storage

import "padi_protocol/sdk"

// IncidentStatus captures the admin-set verification state of an incident.
type IncidentStatus uint8

const (
	IncidentUnverified IncidentStatus = 0
	IncidentVerified   IncidentStatus = 1
	IncidentRejected   IncidentStatus = 2
)

// String prints the incident status as lower-case text for events and logs.
// Example payload: storage.IncidentVerified.String()
func (s IncidentStatus) String() string {
	switch s {
	case IncidentVerified:
		return "verified"
	case IncidentRejected:
		return "rejected"
	default:
		return "unverified"
	}
}

// Valid reports whether the status is one of the three known values.
func (s IncidentStatus) Valid() bool {
	return s <= IncidentRejected
}

// Member is a protocol participant holding a membership token. Records are
// never deleted; Active flips on once at mint.
type Member struct {
	Wallet            sdk.Address
	Representative    sdk.Address
	MembershipTokenID uint64
	MetadataURI       string
	JoinDate          int64
	TotalCases        uint64
	Active            bool
}

// Lawyer is a registered representative eligible for case assignment.
// CaseIDs is append-only with set semantics; TotalRewards never decreases.
type Lawyer struct {
	Wallet       sdk.Address
	CaseIDs      []uint64
	ProfileURI   string
	JoinDate     int64
	TotalRewards int64
	Active       bool
}

// HasCase reports whether the case id is already linked to the lawyer.
func (l *Lawyer) HasCase(id uint64) bool {
	for _, existing := range l.CaseIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// Case is one legal-aid engagement. Resolved is one-way and doubles as the
// terminal flag for admin cancellation.
type Case struct {
	ID                  uint64
	Member              sdk.Address
	Lawyer              sdk.Address
	DescriptionMetadata string
	CreationDate        int64
	ResolutionDate      int64
	Resolved            bool
	RewardAmount        int64
}

// Corroborator is one supporting statement on an incident, immutable once
// appended.
type Corroborator struct {
	Member    sdk.Address
	Timestamp int64
	Comment   string
	MediaURIs []string
}

// Incident is a reported event awaiting verification. Status moves freely
// between the three values but only by admin action.
type Incident struct {
	ID                  uint64
	Reporter            sdk.Address
	DescriptionMetadata string
	Timestamp           int64
	Status              IncidentStatus
	VerifiedBy          sdk.Address
	MediaURIs           []string
	Corroborators       []Corroborator
}
