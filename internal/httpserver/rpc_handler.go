package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"rpc-cache-proxy/internal/engine"
	"rpc-cache-proxy/internal/metrics"
	"rpc-cache-proxy/internal/utils"
)

// handleRPC serves POST /{chain}: it normalizes the body into an ordered
// request sequence, runs the reconciliation engine and translates the
// outcome into an HTTP response. A lone request answers with a bare object,
// anything else with an array.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	chainName := mux.Vars(r)["chain"]

	chain, ok := s.registry.Lookup(chainName)
	if !ok {
		s.writeErrorResponse(w, "endpoint not supported", http.StatusNotFound)
		return
	}

	metrics.RecordRPCRequest(chain.Name)
	timer := metrics.TimeRequest(chain.Name)
	defer timer()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	requests, _, err := utils.ParseClientRequests(body)
	if err != nil {
		s.writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	responses, err := s.engine.Execute(r.Context(), chain, requests)
	if err != nil {
		// Internal detail stays in the logs; clients get the class only.
		s.logger.Error("RPC call failed",
			zap.String("chain", chain.Name),
			zap.Error(err))
		switch {
		case errors.Is(err, engine.ErrInvalidRequest), errors.Is(err, engine.ErrBadCorrelation):
			s.writeErrorResponse(w, "bad request", http.StatusBadRequest)
		default:
			s.writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	// Exactly one request gets a bare object response, whether the client
	// sent it bare or as a one-element array.
	if len(responses) == 1 {
		s.writeResponse(w, responses[0])
		return
	}
	s.writeResponse(w, responses)
}
