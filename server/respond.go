package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/CosmWasm/tinyjson"

	"padi_protocol/perrs"
)

// httpStatus maps the engine error taxonomy onto HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, perrs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, perrs.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, perrs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, perrs.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, perrs.ErrExternalCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, payload tinyjson.Marshaler) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	buf, err := tinyjson.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = w.Write(buf)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, httpStatus(err), errorResponse{Error: err.Error()})
}

const maxBodySize = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst tinyjson.Unmarshaler) bool {
	buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		respond(w, http.StatusRequestEntityTooLarge,
			errorResponse{Error: "request body too large"})
		return false
	}
	if err := tinyjson.Unmarshal(buf, dst); err != nil {
		respond(w, http.StatusBadRequest,
			errorResponse{Error: "malformed request body: " + err.Error()})
		return false
	}
	return true
}
