package protocol

import (
	"errors"
	"fmt"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// ReportIncident opens a new incident in the registry. Anyone may report;
// the record starts unverified with no corroborators.
func (e *Engine) ReportIncident(caller sdk.Address, description string, mediaURIs []string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller.IsZero() {
		return 0, fmt.Errorf("%w: reporter address required", perrs.ErrInvalidArgument)
	}

	var incidentID uint64
	err := e.update(func(tx *storage.Tx) error {
		incidentID = tx.NextIncidentID()
		return tx.PutIncident(&storage.Incident{
			ID:                  incidentID,
			Reporter:            caller,
			DescriptionMetadata: description,
			Timestamp:           e.env.Env().Timestamp,
			Status:              storage.IncidentUnverified,
			MediaURIs:           mediaURIs,
		})
	})
	if err != nil {
		return 0, err
	}

	e.emitIncidentReported(incidentID, caller)
	return incidentID, nil
}

// AddCorroboration appends a witness statement to an incident. With
// OpenCorroboration disabled only active members may corroborate.
func (e *Engine) AddCorroboration(caller sdk.Address, incidentID uint64, comment string, mediaURIs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.update(func(tx *storage.Tx) error {
		if !e.cfg.OpenCorroboration {
			m, err := tx.Member(caller)
			if err != nil {
				if errors.Is(err, perrs.ErrNotFound) {
					return fmt.Errorf("%w: corroboration is members-only", perrs.ErrUnauthorized)
				}
				return err
			}
			if !m.Active {
				return fmt.Errorf("%w: corroboration is members-only", perrs.ErrUnauthorized)
			}
		}
		return tx.AddCorroborator(incidentID, storage.Corroborator{
			Member:    caller,
			Timestamp: e.env.Env().Timestamp,
			Comment:   comment,
			MediaURIs: mediaURIs,
		})
	})
	if err != nil {
		return err
	}

	e.emitIncidentCorroborated(incidentID, caller)
	return nil
}

// UpdateIncidentStatus moves an incident between verification states. Any
// transition is allowed, including back to unverified.
func (e *Engine) UpdateIncidentStatus(caller sdk.Address, incidentID uint64, status storage.IncidentStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown incident status %d", perrs.ErrInvalidArgument, status)
	}

	err := e.update(func(tx *storage.Tx) error {
		in, err := tx.Incident(incidentID)
		if err != nil {
			return err
		}
		in.Status = status
		in.VerifiedBy = caller
		return tx.PutIncident(in)
	})
	if err != nil {
		return err
	}

	e.emitIncidentStatusUpdated(incidentID, status, caller)
	return nil
}

// Incident reads an incident record.
func (e *Engine) Incident(id uint64) (*storage.Incident, error) {
	var in *storage.Incident
	err := e.store.View(func(tx *storage.Tx) error {
		var err error
		in, err = tx.Incident(id)
		return err
	})
	return in, err
}
