package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"padi_protocol/dao"
	"padi_protocol/perrs"
	"padi_protocol/protocol"
	"padi_protocol/sdk"
	"padi_protocol/storage"
)

// APIHandlers exposes the protocol and governance engines over HTTP. The
// effective caller comes from the request body; authentication of that
// caller is the relay's job, the plain endpoints trust their deployment
// boundary.
type APIHandlers struct {
	logger   *slog.Logger
	engine   *protocol.Engine
	gov      *dao.Governor
	verifier protocol.Verifier
}

func NewAPIHandlers(logger *slog.Logger, engine *protocol.Engine, gov *dao.Governor, verifier protocol.Verifier) *APIHandlers {
	return &APIHandlers{
		logger:   logger,
		engine:   engine,
		gov:      gov,
		verifier: verifier,
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	respond(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", perrs.ErrInvalidArgument, raw)
	}
	return id, nil
}

func (h *APIHandlers) handleMembership(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req mintMembershipRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.engine.MintMembership(
		sdk.Address(req.Caller), sdk.Address(req.Member), req.MetadataURI, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	m, err := h.engine.Member(sdk.Address(req.Member))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, idResponse{ID: m.MembershipTokenID})
}

func (h *APIHandlers) handleMembers(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/members/"), "/")
	if rest == "" {
		respond(w, http.StatusBadRequest, errorResponse{Error: "member address is required"})
		return
	}

	if addr, ok := strings.CutSuffix(rest, "/representative"); ok {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req representativeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		err := h.engine.AssignRepresentative(
			sdk.Address(req.Caller), sdk.Address(addr), sdk.Address(req.Representative))
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "ok"})
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	m, err := h.engine.Member(sdk.Address(rest))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, memberResponse{Member: m})
}

func (h *APIHandlers) handleCases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req addCaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.engine.AddCase(
		sdk.Address(req.Caller), sdk.Address(req.Lawyer), sdk.Address(req.Member),
		req.Description, req.Reward, req.Emergency)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, idResponse{ID: id})
}

func (h *APIHandlers) handleCase(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/cases/"), "/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := parseID(idPart)
	if err != nil {
		respondError(w, err)
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		c, err := h.engine.Case(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, caseResponse{Case: c})

	case "resolve":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req resolveCaseRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.engine.ResolveCase(sdk.Address(req.Caller), sdk.Address(req.Lawyer), id); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "resolved"})

	case "cancel":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req cancelCaseRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.engine.AdminCancelCase(sdk.Address(req.Caller), id, sdk.Address(req.RefundTo)); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "cancelled"})

	case "emergency-confirm":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req callerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.engine.ConfirmEmergencyResponse(sdk.Address(req.Caller), id); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "confirmed"})

	case "emergency-reward":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req emergencyRewardRequest
		if !decodeBody(w, r, &req) {
			return
		}
		err := h.engine.RewardLawyerForEmergency(
			sdk.Address(req.Caller), sdk.Address(req.Lawyer), id, req.Amount)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "rewarded"})

	default:
		respond(w, http.StatusNotFound, errorResponse{Error: "unknown case action " + action})
	}
}

func (h *APIHandlers) handleLawyers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req lawyerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.engine.SignUpLawyer(sdk.Address(req.Caller), sdk.Address(req.Lawyer), req.ProfileURI)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, statusResponse{Status: "registered"})
}

func (h *APIHandlers) handleLawyer(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/lawyers/"), "/")
	if rest == "register" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req lawyerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		err := h.engine.RegisterLawyer(sdk.Address(req.Caller), sdk.Address(req.Lawyer), req.ProfileURI)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusCreated, statusResponse{Status: "registered"})
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	l, err := h.engine.Lawyer(sdk.Address(rest))
	if err != nil {
		respondError(w, err)
		return
	}
	open, closed, err := h.engine.LawyerCases(sdk.Address(rest))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, lawyerResponse{Lawyer: l, Open: open, Closed: closed})
}

func parseIncidentStatus(raw string) (storage.IncidentStatus, error) {
	switch raw {
	case "unverified":
		return storage.IncidentUnverified, nil
	case "verified":
		return storage.IncidentVerified, nil
	case "rejected":
		return storage.IncidentRejected, nil
	}
	return 0, fmt.Errorf("%w: unknown incident status %q", perrs.ErrInvalidArgument, raw)
}

func (h *APIHandlers) handleIncidents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req incidentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.engine.ReportIncident(sdk.Address(req.Caller), req.Description, req.MediaURIs)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, idResponse{ID: id})
}

func (h *APIHandlers) handleIncident(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/incidents/"), "/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := parseID(idPart)
	if err != nil {
		respondError(w, err)
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		in, err := h.engine.Incident(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, incidentResponse{Incident: in})

	case "corroborate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req corroborationRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.engine.AddCorroboration(sdk.Address(req.Caller), id, req.Comment, req.MediaURIs); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "corroborated"})

	case "status":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req incidentStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		status, err := parseIncidentStatus(req.Status)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := h.engine.UpdateIncidentStatus(sdk.Address(req.Caller), id, status); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: status.String()})

	default:
		respond(w, http.StatusNotFound, errorResponse{Error: "unknown incident action " + action})
	}
}

func (h *APIHandlers) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req sweepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.engine.TransferTokenCaseBalance(sdk.Address(req.Caller), sdk.Address(req.NewContract))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, statusResponse{Status: "swept"})
}

func (h *APIHandlers) handleRelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req relayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.engine.Relay(h.verifier, &protocol.RelayRequest{
		Signer:    sdk.Address(req.Signer),
		Method:    req.Method,
		Payload:   req.Payload,
		Nonce:     req.Nonce,
		Deadline:  req.Deadline,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, statusResponse{Status: "relayed"})
}

func (h *APIHandlers) handleProposals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req proposeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	targets := make([]sdk.Address, len(req.Targets))
	for i, t := range req.Targets {
		targets[i] = sdk.Address(t)
	}
	id, err := h.gov.Propose(sdk.Address(req.Caller), targets, req.Values, req.Calldatas, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, idResponse{ID: id})
}

func (h *APIHandlers) handleProposal(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/proposals/"), "/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := parseID(idPart)
	if err != nil {
		respondError(w, err)
		return
	}

	if voter, ok := strings.CutPrefix(action, "receipts/"); ok {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		rc, err := h.gov.Receipt(id, sdk.Address(voter))
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, receiptResponse{Receipt: rc})
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		p, err := h.gov.Proposal(id)
		if err != nil {
			respondError(w, err)
			return
		}
		st, err := h.gov.State(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, proposalResponse{Proposal: p, State: st})

	case "vote":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req voteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.gov.CastVote(sdk.Address(req.Caller), id, req.Support); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: "voted"})

	case "queue", "execute", "cancel":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		var req callerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		var opErr error
		status := ""
		switch action {
		case "queue":
			opErr = h.gov.Queue(sdk.Address(req.Caller), id)
			status = "queued"
		case "execute":
			opErr = h.gov.Execute(sdk.Address(req.Caller), id)
			status = "executed"
		case "cancel":
			opErr = h.gov.Cancel(sdk.Address(req.Caller), id)
			status = "canceled"
		}
		if opErr != nil {
			respondError(w, opErr)
			return
		}
		respond(w, http.StatusOK, statusResponse{Status: status})

	default:
		respond(w, http.StatusNotFound, errorResponse{Error: "unknown proposal action " + action})
	}
}
