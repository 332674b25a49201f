package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padi_protocol/codec"
	"padi_protocol/perrs"
	"padi_protocol/sdk"
)

func signedRequest(v *HMACVerifier, signer sdk.Address, method string, payload []byte, nonce uint64, deadline int64) *RelayRequest {
	req := &RelayRequest{
		Signer:   signer,
		Method:   method,
		Payload:  payload,
		Nonce:    nonce,
		Deadline: deadline,
	}
	req.Signature = v.Sign(req)
	return req
}

func TestRelayAssignRepresentative(t *testing.T) {
	f := newFixture(t)
	f.mintMember(t, alice)
	verifier := NewHMACVerifier([]byte("dev-secret"))

	w := codec.NewWriter()
	w.Address(alice)
	w.Address(bob)
	req := signedRequest(verifier, alice, RelayAssignRepresentative, w.Bytes(), 1, 1_700_000_100)

	require.NoError(t, f.engine.Relay(verifier, req))

	m, err := f.engine.Member(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, m.Representative)
}

func TestRelayRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	verifier := NewHMACVerifier([]byte("dev-secret"))
	other := NewHMACVerifier([]byte("wrong-secret"))

	w := codec.NewWriter()
	w.String("ipfs://incident")
	w.StringList(nil)
	req := signedRequest(other, alice, RelayReportIncident, w.Bytes(), 1, 1_700_000_100)

	err := f.engine.Relay(verifier, req)
	require.ErrorIs(t, err, perrs.ErrUnauthorized)
}

func TestRelayRejectsExpiredDeadline(t *testing.T) {
	f := newFixture(t)
	verifier := NewHMACVerifier([]byte("dev-secret"))

	w := codec.NewWriter()
	w.String("ipfs://incident")
	w.StringList(nil)
	req := signedRequest(verifier, alice, RelayReportIncident, w.Bytes(), 1, 1_699_999_999)

	err := f.engine.Relay(verifier, req)
	require.ErrorIs(t, err, perrs.ErrInvalidState)
}

func TestRelayNonceStrictlyIncreasing(t *testing.T) {
	f := newFixture(t)
	verifier := NewHMACVerifier([]byte("dev-secret"))

	report := func(nonce uint64) error {
		w := codec.NewWriter()
		w.String("ipfs://incident")
		w.StringList(nil)
		return f.engine.Relay(verifier,
			signedRequest(verifier, alice, RelayReportIncident, w.Bytes(), nonce, 1_700_000_100))
	}

	require.NoError(t, report(5))

	// replay and lower nonces are rejected
	require.ErrorIs(t, report(5), perrs.ErrInvalidState)
	require.ErrorIs(t, report(3), perrs.ErrInvalidState)

	// gaps are fine, only monotonicity matters
	require.NoError(t, report(9))
}

func TestRelayConsumesNonceOnFailedDispatch(t *testing.T) {
	f := newFixture(t)
	verifier := NewHMACVerifier([]byte("dev-secret"))

	// bob has no membership, so the relayed add_case fails
	w := codec.NewWriter()
	w.Address(counsel)
	w.String("ipfs://case")
	w.Int64(1_000)
	w.Bool(false)
	req := signedRequest(verifier, bob, RelayAddCase, w.Bytes(), 1, 1_700_000_100)

	err := f.engine.Relay(verifier, req)
	require.ErrorIs(t, err, perrs.ErrInvalidState)

	// the nonce is burned regardless
	err = f.engine.Relay(verifier, req)
	require.ErrorIs(t, err, perrs.ErrInvalidState)

	w2 := codec.NewWriter()
	w2.String("ipfs://incident")
	w2.StringList(nil)
	require.NoError(t, f.engine.Relay(verifier,
		signedRequest(verifier, bob, RelayReportIncident, w2.Bytes(), 2, 1_700_000_100)))
}

func TestRelayUnknownMethod(t *testing.T) {
	f := newFixture(t)
	verifier := NewHMACVerifier([]byte("dev-secret"))

	req := signedRequest(verifier, alice, "self_destruct", nil, 1, 1_700_000_100)
	err := f.engine.Relay(verifier, req)
	require.ErrorIs(t, err, perrs.ErrInvalidArgument)
}
