package protocol

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"padi_protocol/codec"
	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// Relayable methods. The payload of each is a codec-encoded argument list in
// declaration order.
const (
	RelayAssignRepresentative = "assign_representative"
	RelayAddCase              = "add_case"
	RelayResolveCase          = "resolve_case"
	RelayReportIncident       = "report_incident"
	RelayAddCorroboration     = "add_corroboration"
)

// RelayRequest is a signed instruction executed on behalf of Signer.
type RelayRequest struct {
	Signer    sdk.Address
	Method    string
	Payload   []byte
	Nonce     uint64
	Deadline  int64
	Signature []byte
}

// SigningBytes returns the canonical byte string a signature covers.
func (r *RelayRequest) SigningBytes() []byte {
	w := codec.NewWriter()
	w.Address(r.Signer)
	w.String(r.Method)
	w.BytesField(r.Payload)
	w.VarUint(r.Nonce)
	w.Int64(r.Deadline)
	return w.Bytes()
}

// Verifier authenticates a relay request. Implementations must reject any
// request whose signature does not bind every field of SigningBytes.
type Verifier interface {
	Verify(req *RelayRequest) error
}

// HMACVerifier authenticates requests with a shared secret. Dev-mode only;
// production deployments plug in a signature-recovery verifier instead.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret []byte) *HMACVerifier {
	return &HMACVerifier{secret: secret}
}

// Sign produces the signature Verify expects, for tests and dev tooling.
func (v *HMACVerifier) Sign(req *RelayRequest) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(req.SigningBytes())
	return mac.Sum(nil)
}

func (v *HMACVerifier) Verify(req *RelayRequest) error {
	if !hmac.Equal(req.Signature, v.Sign(req)) {
		return fmt.Errorf("signature mismatch for %s", req.Signer)
	}
	return nil
}

// Relay executes a signed request with the recovered signer as the effective
// caller. Two stages: authenticate (signature, deadline, strictly increasing
// per-signer nonce), then dispatch. The nonce is consumed even when the
// dispatched operation fails, so a failed instruction cannot be replayed.
func (e *Engine) Relay(verifier Verifier, req *RelayRequest) error {
	if verifier == nil {
		return fmt.Errorf("%w: no verifier configured", perrs.ErrInvalidState)
	}
	if req.Signer.IsZero() {
		return fmt.Errorf("%w: signer address required", perrs.ErrInvalidArgument)
	}
	if err := verifier.Verify(req); err != nil {
		return fmt.Errorf("%w: %v", perrs.ErrUnauthorized, err)
	}
	if now := e.env.Env().Timestamp; req.Deadline < now {
		return fmt.Errorf("%w: request expired at %d, now %d",
			perrs.ErrInvalidState, req.Deadline, now)
	}

	if err := e.consumeNonce(req.Signer, req.Nonce); err != nil {
		return err
	}
	if err := e.dispatch(req); err != nil {
		return err
	}

	e.emitRelayed(req.Method, req.Signer, req.Nonce)
	return nil
}

func (e *Engine) consumeNonce(signer sdk.Address, nonce uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.update(func(tx *storage.Tx) error {
		last := tx.RelayNonce(signer)
		if nonce <= last {
			return fmt.Errorf("%w: nonce %d not above last accepted %d",
				perrs.ErrInvalidState, nonce, last)
		}
		tx.SetRelayNonce(signer, nonce)
		return nil
	})
}

func (e *Engine) dispatch(req *RelayRequest) error {
	r := codec.NewReader(req.Payload)
	switch req.Method {
	case RelayAssignRepresentative:
		member, err := r.Address()
		if err != nil {
			return badPayload(req.Method, err)
		}
		rep, err := r.Address()
		if err != nil {
			return badPayload(req.Method, err)
		}
		return e.AssignRepresentative(req.Signer, member, rep)

	case RelayAddCase:
		lawyer, err := r.Address()
		if err != nil {
			return badPayload(req.Method, err)
		}
		description, err := r.String()
		if err != nil {
			return badPayload(req.Method, err)
		}
		reward, err := r.Int64()
		if err != nil {
			return badPayload(req.Method, err)
		}
		emergency, err := r.Bool()
		if err != nil {
			return badPayload(req.Method, err)
		}
		_, err = e.AddCase(req.Signer, lawyer, req.Signer, description, reward, emergency)
		return err

	case RelayResolveCase:
		caseID, err := r.VarUint()
		if err != nil {
			return badPayload(req.Method, err)
		}
		return e.ResolveCase(req.Signer, req.Signer, caseID)

	case RelayReportIncident:
		description, err := r.String()
		if err != nil {
			return badPayload(req.Method, err)
		}
		mediaURIs, err := r.StringList()
		if err != nil {
			return badPayload(req.Method, err)
		}
		_, err = e.ReportIncident(req.Signer, description, mediaURIs)
		return err

	case RelayAddCorroboration:
		incidentID, err := r.VarUint()
		if err != nil {
			return badPayload(req.Method, err)
		}
		comment, err := r.String()
		if err != nil {
			return badPayload(req.Method, err)
		}
		mediaURIs, err := r.StringList()
		if err != nil {
			return badPayload(req.Method, err)
		}
		return e.AddCorroboration(req.Signer, incidentID, comment, mediaURIs)

	default:
		return fmt.Errorf("%w: unknown relay method %q", perrs.ErrInvalidArgument, req.Method)
	}
}

func badPayload(method string, err error) error {
	return fmt.Errorf("%w: malformed %s payload: %v", perrs.ErrInvalidArgument, method, err)
}
