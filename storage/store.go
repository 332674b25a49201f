package storage

import (
	"fmt"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/state"
)

// Store owns the persisted registry of members, lawyers, cases and
// incidents. All mutation goes through Update, which only the bound
// protocol engine may call; reads are open to anyone via View.
type Store struct {
	be    state.Backend
	admin sdk.Address
}

func NewStore(be state.Backend, admin sdk.Address) *Store {
	return &Store{be: be, admin: admin}
}

// Bind records the protocol engine address allowed to mutate the store.
// Admin-only and one-shot: rebinding would let a second engine race the
// first over the same counters.
func (s *Store) Bind(caller, protocol sdk.Address) error {
	if caller != s.admin {
		return fmt.Errorf("%w: only admin can bind protocol", perrs.ErrUnauthorized)
	}
	if protocol.IsZero() {
		return fmt.Errorf("%w: protocol address required", perrs.ErrInvalidArgument)
	}
	txn := s.be.Begin()
	defer txn.Discard()
	if existing := txn.Get(bindingKey()); existing != nil {
		return fmt.Errorf("%w: protocol already bound", perrs.ErrInvalidState)
	}
	txn.Set(bindingKey(), string(protocol))
	return txn.Commit()
}

// Bound returns the currently bound protocol address, or the zero address.
func (s *Store) Bound() sdk.Address {
	txn := s.be.Begin()
	defer txn.Discard()
	if v := txn.Get(bindingKey()); v != nil {
		return sdk.Address(*v)
	}
	return sdk.AddressZero
}

// Update runs fn inside a write transaction. The whole transaction is
// discarded when fn errors, so callers never observe half-applied writes.
func (s *Store) Update(caller sdk.Address, fn func(tx *Tx) error) error {
	txn := s.be.Begin()
	defer txn.Discard()
	bound := txn.Get(bindingKey())
	if bound == nil || sdk.Address(*bound) != caller || caller.IsZero() {
		return fmt.Errorf("%w: caller is not the bound protocol", perrs.ErrUnauthorized)
	}
	if err := fn(&Tx{kv: txn}); err != nil {
		return err
	}
	return txn.Commit()
}

// View runs fn against a read-only snapshot.
func (s *Store) View(fn func(tx *Tx) error) error {
	txn := s.be.Begin()
	defer txn.Discard()
	return fn(&Tx{kv: txn})
}

// Tx is the handle fn receives inside Update/View. It is only valid for
// the duration of that call.
type Tx struct {
	kv state.KV
}

// NextCaseID allocates the next case id. The first call returns 1.
func (tx *Tx) NextCaseID() uint64 {
	return nextID(tx.kv, CaseCount)
}

// NextIncidentID allocates the next incident id. The first call returns 1.
func (tx *Tx) NextIncidentID() uint64 {
	return nextID(tx.kv, IncidentCount)
}

// NextTokenID allocates the next membership token id. The first call returns 1.
func (tx *Tx) NextTokenID() uint64 {
	return nextID(tx.kv, TokenCount)
}

func (tx *Tx) PutMember(m *Member) error {
	if m.Wallet.IsZero() {
		return fmt.Errorf("%w: member wallet required", perrs.ErrInvalidArgument)
	}
	tx.kv.Set(memberKey(m.Wallet), string(EncodeMember(m)))
	return nil
}

func (tx *Tx) Member(wallet sdk.Address) (*Member, error) {
	v := tx.kv.Get(memberKey(wallet))
	if v == nil {
		return nil, fmt.Errorf("%w: member %s", perrs.ErrNotFound, wallet)
	}
	return DecodeMember([]byte(*v))
}

func (tx *Tx) PutLawyer(l *Lawyer) error {
	if l.Wallet.IsZero() {
		return fmt.Errorf("%w: lawyer wallet required", perrs.ErrInvalidArgument)
	}
	tx.kv.Set(lawyerKey(l.Wallet), string(EncodeLawyer(l)))
	return nil
}

func (tx *Tx) Lawyer(wallet sdk.Address) (*Lawyer, error) {
	v := tx.kv.Get(lawyerKey(wallet))
	if v == nil {
		return nil, fmt.Errorf("%w: lawyer %s", perrs.ErrNotFound, wallet)
	}
	return DecodeLawyer([]byte(*v))
}

// PutCase upserts a case and keeps the per-lawyer open/closed buckets in
// sync: a case id lives in exactly one bucket at a time.
func (tx *Tx) PutCase(c *Case) error {
	if c.ID == 0 {
		return fmt.Errorf("%w: case id required", perrs.ErrInvalidArgument)
	}
	tx.kv.Set(caseKey(c.ID), string(EncodeCase(c)))
	if c.Lawyer.IsZero() {
		return nil
	}
	if c.Resolved {
		if err := removeIDFromIndex(tx.kv, openCasesKey(c.Lawyer), c.ID); err != nil {
			return err
		}
		return addIDToIndex(tx.kv, closedCasesKey(c.Lawyer), c.ID)
	}
	if err := removeIDFromIndex(tx.kv, closedCasesKey(c.Lawyer), c.ID); err != nil {
		return err
	}
	return addIDToIndex(tx.kv, openCasesKey(c.Lawyer), c.ID)
}

func (tx *Tx) Case(id uint64) (*Case, error) {
	v := tx.kv.Get(caseKey(id))
	if v == nil {
		return nil, fmt.Errorf("%w: case %d", perrs.ErrNotFound, id)
	}
	return DecodeCase([]byte(*v))
}

// DropCaseFromBuckets removes a case id from both buckets of a lawyer.
// Used when a case is cancelled rather than resolved.
func (tx *Tx) DropCaseFromBuckets(lawyer sdk.Address, id uint64) error {
	if lawyer.IsZero() {
		return nil
	}
	if err := removeIDFromIndex(tx.kv, openCasesKey(lawyer), id); err != nil {
		return err
	}
	return removeIDFromIndex(tx.kv, closedCasesKey(lawyer), id)
}

func (tx *Tx) PutIncident(in *Incident) error {
	if in.ID == 0 {
		return fmt.Errorf("%w: incident id required", perrs.ErrInvalidArgument)
	}
	tx.kv.Set(incidentKey(in.ID), string(EncodeIncident(in)))
	return nil
}

func (tx *Tx) Incident(id uint64) (*Incident, error) {
	v := tx.kv.Get(incidentKey(id))
	if v == nil {
		return nil, fmt.Errorf("%w: incident %d", perrs.ErrNotFound, id)
	}
	return DecodeIncident([]byte(*v))
}

// AddCorroborator appends a corroborator to an existing incident.
func (tx *Tx) AddCorroborator(id uint64, c Corroborator) error {
	in, err := tx.Incident(id)
	if err != nil {
		return err
	}
	in.Corroborators = append(in.Corroborators, c)
	return tx.PutIncident(in)
}

// RelayNonce returns the last accepted meta-transaction nonce for a signer,
// zero if the signer never relayed.
func (tx *Tx) RelayNonce(signer sdk.Address) uint64 {
	return getCount(tx.kv, relayNonceKey(signer))
}

// SetRelayNonce records the latest accepted nonce of a signer.
func (tx *Tx) SetRelayNonce(signer sdk.Address, nonce uint64) {
	setCount(tx.kv, relayNonceKey(signer), nonce)
}

// LawyerCases returns the open and closed case ids of a lawyer, each in
// insertion order.
func (tx *Tx) LawyerCases(lawyer sdk.Address) (open, closed []uint64, err error) {
	if open, err = idsFromIndex(tx.kv, openCasesKey(lawyer)); err != nil {
		return nil, nil, err
	}
	if closed, err = idsFromIndex(tx.kv, closedCasesKey(lawyer)); err != nil {
		return nil, nil, err
	}
	return open, closed, nil
}
