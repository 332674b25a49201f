package storage

import (
	"fmt"

	"padi_protocol/codec"
)

// Record encoders. Field order is the wire format; never reorder without a
// migration.

// EncodeMember packs a Member into bytes so storage stays lean.
// Example payload: EncodeMember(&Member{Wallet: "eth:0xabc", Active: true})
func EncodeMember(m *Member) []byte {
	w := codec.NewWriter()
	w.Address(m.Wallet)
	w.Address(m.Representative)
	w.Uint64(m.MembershipTokenID)
	w.String(m.MetadataURI)
	w.Int64(m.JoinDate)
	w.Uint64(m.TotalCases)
	w.Bool(m.Active)
	return w.Bytes()
}

func DecodeMember(data []byte) (*Member, error) {
	r := codec.NewReader(data)
	var m Member
	var err error
	if m.Wallet, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if m.Representative, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if m.MembershipTokenID, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if m.MetadataURI, err = r.String(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if m.JoinDate, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if m.TotalCases, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if m.Active, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	return &m, nil
}

// EncodeLawyer serializes lawyer lifecycle data for caching and rehydrating later.
func EncodeLawyer(l *Lawyer) []byte {
	w := codec.NewWriter()
	w.Address(l.Wallet)
	w.VarUint(uint64(len(l.CaseIDs)))
	for _, id := range l.CaseIDs {
		w.VarUint(id)
	}
	w.String(l.ProfileURI)
	w.Int64(l.JoinDate)
	w.Int64(l.TotalRewards)
	w.Bool(l.Active)
	return w.Bytes()
}

func DecodeLawyer(data []byte) (*Lawyer, error) {
	r := codec.NewReader(data)
	var l Lawyer
	var err error
	if l.Wallet, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode lawyer: %w", err)
	}
	count, err := r.VarUint()
	if err != nil {
		return nil, fmt.Errorf("decode lawyer: %w", err)
	}
	l.CaseIDs = make([]uint64, 0, count)
	for i := uint64(0); i < count; i++ {
		id, err := r.VarUint()
		if err != nil {
			return nil, fmt.Errorf("decode lawyer: %w", err)
		}
		l.CaseIDs = append(l.CaseIDs, id)
	}
	if l.ProfileURI, err = r.String(); err != nil {
		return nil, fmt.Errorf("decode lawyer: %w", err)
	}
	if l.JoinDate, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode lawyer: %w", err)
	}
	if l.TotalRewards, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode lawyer: %w", err)
	}
	if l.Active, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode lawyer: %w", err)
	}
	return &l, nil
}

// EncodeCase serializes the entire Case into deterministic bytes.
func EncodeCase(c *Case) []byte {
	w := codec.NewWriter()
	w.Uint64(c.ID)
	w.Address(c.Member)
	w.Address(c.Lawyer)
	w.String(c.DescriptionMetadata)
	w.Int64(c.CreationDate)
	w.Int64(c.ResolutionDate)
	w.Bool(c.Resolved)
	w.Int64(c.RewardAmount)
	return w.Bytes()
}

func DecodeCase(data []byte) (*Case, error) {
	r := codec.NewReader(data)
	var c Case
	var err error
	if c.ID, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.Member, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.Lawyer, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.DescriptionMetadata, err = r.String(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.CreationDate, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.ResolutionDate, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.Resolved, err = r.Bool(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if c.RewardAmount, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	return &c, nil
}

func encodeCorroborator(w *codec.Writer, c *Corroborator) {
	w.Address(c.Member)
	w.Int64(c.Timestamp)
	w.String(c.Comment)
	w.StringList(c.MediaURIs)
}

func decodeCorroborator(r *codec.Reader) (Corroborator, error) {
	var c Corroborator
	var err error
	if c.Member, err = r.Address(); err != nil {
		return c, err
	}
	if c.Timestamp, err = r.Int64(); err != nil {
		return c, err
	}
	if c.Comment, err = r.String(); err != nil {
		return c, err
	}
	if c.MediaURIs, err = r.StringList(); err != nil {
		return c, err
	}
	return c, nil
}

// EncodeIncident packs the incident plus its ordered corroborator list.
func EncodeIncident(in *Incident) []byte {
	w := codec.NewWriter()
	w.Uint64(in.ID)
	w.Address(in.Reporter)
	w.String(in.DescriptionMetadata)
	w.Int64(in.Timestamp)
	w.Byte(byte(in.Status))
	w.Address(in.VerifiedBy)
	w.StringList(in.MediaURIs)
	w.VarUint(uint64(len(in.Corroborators)))
	for i := range in.Corroborators {
		encodeCorroborator(w, &in.Corroborators[i])
	}
	return w.Bytes()
}

func DecodeIncident(data []byte) (*Incident, error) {
	r := codec.NewReader(data)
	var in Incident
	var err error
	if in.ID, err = r.Uint64(); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	if in.Reporter, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	if in.DescriptionMetadata, err = r.String(); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	if in.Timestamp, err = r.Int64(); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	statusByte, err := r.Byte()
	if err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	in.Status = IncidentStatus(statusByte)
	if in.VerifiedBy, err = r.Address(); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	if in.MediaURIs, err = r.StringList(); err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	count, err := r.VarUint()
	if err != nil {
		return nil, fmt.Errorf("decode incident: %w", err)
	}
	in.Corroborators = make([]Corroborator, 0, count)
	for i := uint64(0); i < count; i++ {
		c, err := decodeCorroborator(r)
		if err != nil {
			return nil, fmt.Errorf("decode incident corroborator: %w", err)
		}
		in.Corroborators = append(in.Corroborators, c)
	}
	return &in, nil
}
