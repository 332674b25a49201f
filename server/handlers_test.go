package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padi_protocol/codec"
	"padi_protocol/dao"
	"padi_protocol/protocol"
	"padi_protocol/sdk"
	"padi_protocol/state"
	"padi_protocol/storage"
)

const (
	admin   = "system:admin"
	alice   = "eth:0xalice"
	bob     = "eth:0xbob"
	counsel = "eth:0xcounsel"
	engAddr = "contract:padi-protocol"
)

type apiFixture struct {
	handler http.Handler
	ledger  *sdk.DevLedger
	env     *sdk.ManualEnv
	oracle  *sdk.DevVotesOracle
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := storage.NewStore(state.NewMemoryBackend(), admin)
	require.NoError(t, store.Bind(admin, engAddr))

	ledger := sdk.NewDevLedger(engAddr)
	ledger.Credit(alice, 10_000)
	ledger.Credit(bob, 10_000)

	oracle := sdk.NewDevVotesOracle()
	oracle.Checkpoint(alice, 0, 5_000)

	env := sdk.NewManualEnv(100, 1_700_000_000)

	engine := protocol.NewEngine(protocol.Config{
		Admin:                admin,
		PaymentWallet:        "system:payments",
		Self:                 engAddr,
		MembershipPrice:      500,
		OpenCorroboration:    true,
		OpenEmergencyConfirm: true,
	}, store, ledger, sdk.NewDevMembershipToken(), env, logger)

	gov := dao.NewGovernor(dao.Config{
		VotingDelay:       5,
		VotingPeriod:      100,
		ProposalThreshold: 1_000,
		Quorum:            4_000,
		MaxActions:        10,
		TimelockDelay:     60,
		GracePeriod:       3_600,
		Guardian:          admin,
	}, state.NewMemoryBackend(), oracle, sdk.NewDevExecutor(), env, logger)

	verifier := protocol.NewHMACVerifier([]byte("dev-secret"))
	api := NewAPIHandlers(logger, engine, gov, verifier)
	handler := NewRouter(logger, api, NewMetrics())

	return &apiFixture{handler: handler, ledger: ledger, env: env, oracle: oracle}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeJSON(t, rec)["status"])
}

func TestMembershipEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/membership",
		`{"caller":"eth:0xalice","member":"eth:0xalice","metadataUri":"ipfs://m","amount":500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), decodeJSON(t, rec)["id"])

	rec = f.do(t, http.MethodGet, "/v1/members/eth:0xalice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, alice, body["wallet"])
	assert.Equal(t, true, body["active"])

	// wrong fee -> 400
	rec = f.do(t, http.MethodPost, "/v1/membership",
		`{"caller":"eth:0xbob","member":"eth:0xbob","metadataUri":"ipfs://m","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// double mint -> 409
	rec = f.do(t, http.MethodPost, "/v1/membership",
		`{"caller":"eth:0xalice","member":"eth:0xalice","metadataUri":"ipfs://m","amount":500}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// unknown member -> 404
	rec = f.do(t, http.MethodGet, "/v1/members/eth:0xnobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCaseEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodPost, "/v1/membership",
		`{"caller":"eth:0xalice","member":"eth:0xalice","metadataUri":"ipfs://m","amount":500}`)
	f.do(t, http.MethodPost, "/v1/lawyers",
		`{"caller":"eth:0xcounsel","lawyer":"eth:0xcounsel","profileUri":"ipfs://l"}`)

	// non-member filing -> 409
	rec := f.do(t, http.MethodPost, "/v1/cases",
		`{"caller":"eth:0xbob","lawyer":"eth:0xcounsel","member":"eth:0xbob","description":"d","reward":1000}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/cases",
		`{"caller":"eth:0xalice","lawyer":"eth:0xcounsel","member":"eth:0xalice","description":"ipfs://case","reward":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/cases/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, counsel, body["lawyer"])
	assert.Equal(t, false, body["resolved"])

	// someone else resolving -> 403
	rec = f.do(t, http.MethodPost, "/v1/cases/1/resolve",
		`{"caller":"eth:0xbob","lawyer":"eth:0xcounsel"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/cases/1/resolve",
		`{"caller":"eth:0xcounsel","lawyer":"eth:0xcounsel"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1_000), f.ledger.BalanceOf(counsel))

	rec = f.do(t, http.MethodGet, "/v1/lawyers/eth:0xcounsel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeJSON(t, rec)
	assert.Equal(t, []any{float64(1)}, body["closedCases"])

	rec = f.do(t, http.MethodGet, "/v1/cases/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIncidentEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/incidents",
		`{"caller":"eth:0xbob","description":"ipfs://incident","mediaUris":["ipfs://p1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/v1/incidents/1/corroborate",
		`{"caller":"eth:0xalice","comment":"saw it","mediaUris":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// status updates are admin-only
	rec = f.do(t, http.MethodPost, "/v1/incidents/1/status",
		`{"caller":"eth:0xbob","status":"verified"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/incidents/1/status",
		`{"caller":"system:admin","status":"verified"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/incidents/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "verified", body["status"])
	assert.Len(t, body["corroborators"], 1)

	rec = f.do(t, http.MethodPost, "/v1/incidents/1/status",
		`{"caller":"system:admin","status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProposalEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/proposals",
		`{"caller":"eth:0xalice","targets":["contract:treasury"],"values":[0],"calldatas":[""],"description":"fund"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/proposals/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "pending", body["state"])
	assert.Equal(t, float64(105), body["startBlock"])

	// open voting and vote
	f.env.SetBlock(106)
	rec = f.do(t, http.MethodPost, "/v1/proposals/1/vote",
		`{"caller":"eth:0xalice","support":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/proposals/1/receipts/eth:0xalice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeJSON(t, rec)
	assert.Equal(t, true, body["hasVoted"])
	assert.Equal(t, float64(5_000), body["votes"])

	// double vote -> 409
	rec = f.do(t, http.MethodPost, "/v1/proposals/1/vote",
		`{"caller":"eth:0xalice","support":true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// full queue/execute path
	f.env.SetBlock(206)
	rec = f.do(t, http.MethodPost, "/v1/proposals/1/queue", `{"caller":"eth:0xalice"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	f.env.Advance(0, 60)
	rec = f.do(t, http.MethodPost, "/v1/proposals/1/execute", `{"caller":"eth:0xalice"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/proposals/1", "")
	body = decodeJSON(t, rec)
	assert.Equal(t, "executed", body["state"])
}

func TestRelayEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	verifier := protocol.NewHMACVerifier([]byte("dev-secret"))

	req := &protocol.RelayRequest{
		Signer:   alice,
		Method:   protocol.RelayReportIncident,
		Payload:  reportIncidentPayload("ipfs://incident"),
		Nonce:    1,
		Deadline: 1_700_000_100,
	}
	req.Signature = verifier.Sign(req)

	body, err := json.Marshal(map[string]any{
		"signer":    string(req.Signer),
		"method":    req.Method,
		"payload":   req.Payload,
		"nonce":     req.Nonce,
		"deadline":  req.Deadline,
		"signature": req.Signature,
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/v1/relay", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// replayed nonce -> 409
	rec = f.do(t, http.MethodPost, "/v1/relay", string(body))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/incidents/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice, decodeJSON(t, rec)["reporter"])
}

func reportIncidentPayload(description string) []byte {
	w := codec.NewWriter()
	w.String(description)
	w.StringList(nil)
	return w.Bytes()
}

func TestMalformedBody(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/membership", `{"caller":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodDelete, "/v1/cases", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
