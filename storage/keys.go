package storage

import "padi_protocol/sdk"

// Storage key layout. One byte of prefix keeps record families contiguous;
// numeric ids are packed little-endian so keys stay compact.
const (
	// kMember houses encoded Member structs keyed by wallet.
	kMember byte = 0x01
	// kLawyer houses encoded Lawyer structs keyed by wallet.
	kLawyer byte = 0x02
	// kCase contains encoded Case records by id.
	kCase byte = 0x03
	// kIncident contains encoded Incident records by id.
	kIncident byte = 0x04
	// kBinding stores the one-shot protocol engine binding.
	kBinding byte = 0x05
)

// Counter keys for monotonic id allocation.
const (
	// CaseCount holds the last issued case id.
	CaseCount = "count:case"
	// IncidentCount holds the last issued incident id.
	IncidentCount = "count:incident"
	// TokenCount holds the last issued membership token id.
	TokenCount = "count:token"
)

// Per-lawyer case bucket index bases. The chunked index under each base
// carries the open respectively closed case ids for that lawyer.
const (
	idxLawyerCasesOpen   = "lwyr:open:"
	idxLawyerCasesClosed = "lwyr:closed:"
)

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// memberKey mixes the prefix plus wallet bytes to avoid nested maps in kv storage.
func memberKey(addr sdk.Address) string {
	s := addr.String()
	buf := make([]byte, 0, 1+len(s))
	buf = append(buf, kMember)
	buf = append(buf, s...)
	return string(buf)
}

// lawyerKey mirrors member keys under its own prefix.
func lawyerKey(addr sdk.Address) string {
	s := addr.String()
	buf := make([]byte, 0, 1+len(s))
	buf = append(buf, kLawyer)
	buf = append(buf, s...)
	return string(buf)
}

// caseKey builds a storage key string for a case by id.
func caseKey(id uint64) string {
	var buf [9]byte
	buf[0] = kCase
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// incidentKey builds a storage key string for an incident by id.
func incidentKey(id uint64) string {
	var buf [9]byte
	buf[0] = kIncident
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// bindingKey holds the registered protocol engine address.
func bindingKey() string {
	return string([]byte{kBinding})
}

// openCasesKey is the index base for a lawyer's unresolved cases.
func openCasesKey(lawyer sdk.Address) string {
	return idxLawyerCasesOpen + lawyer.String()
}

// closedCasesKey is the index base for a lawyer's resolved cases.
func closedCasesKey(lawyer sdk.Address) string {
	return idxLawyerCasesClosed + lawyer.String()
}

// relayNonceKey holds the last accepted meta-transaction nonce of a signer.
func relayNonceKey(signer sdk.Address) string {
	return "relay:nonce:" + signer.String()
}
