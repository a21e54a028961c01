package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"voicetasks/internal/logging"
	"voicetasks/internal/metrics"
	"voicetasks/internal/telephony"
)

// Trigger authorization inputs.
const (
	TriggerTokenHeader = "X-Trigger-Token"
	TriggerTokenQuery  = "token"
)

// ErrUnauthorized is reported when the trigger token does not match.
var ErrUnauthorized = errors.New("unauthorized")

// CallResponse is the JSON body returned once a call is placed.
type CallResponse struct {
	Status string `json:"status"`
	SID    string `json:"sid"`
}

// ErrorResponse is the JSON body of a failed trigger.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleCall asks the provider to ring the configured number and point the
// call at this deployment's prompt endpoint.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, "call")

	if err := s.authorize(r); err != nil {
		s.metrics.CallTriggered(metrics.ResultDenied)
		logger.Warn("call trigger rejected", logging.Err(err))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	tw := s.cfg.Twilio
	if s.caller == nil || !tw.Configured() {
		s.metrics.CallTriggered(metrics.ResultError)
		logger.Error("call trigger without telephony settings")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: telephony.ErrNotConfigured.Error()})
		return
	}

	call, err := s.caller.PlaceCall(r.Context(), telephony.CallRequest{
		To:     tw.ToNumber,
		From:   tw.FromNumber,
		URL:    s.callbackURL(r),
		Method: http.MethodPost,
	})
	if err != nil {
		s.metrics.CallTriggered(metrics.ResultError)
		logger.Error("failed to place call", logging.Err(err))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "failed to place call"})
		return
	}

	s.metrics.CallTriggered(metrics.ResultSuccess)
	logger.Info("call started", logging.CallSID(call.SID), "to", logging.MaskNumber(tw.ToNumber))
	writeJSON(w, http.StatusOK, CallResponse{Status: "started", SID: call.SID})
}

// authorize checks the shared secret against the header or query token.
// With no secret configured every request is allowed.
func (s *Server) authorize(r *http.Request) error {
	secret := s.cfg.TriggerToken
	if secret == "" {
		return nil
	}
	for _, got := range []string{r.Header.Get(TriggerTokenHeader), r.URL.Query().Get(TriggerTokenQuery)} {
		if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(secret)) == 1 {
			return nil
		}
	}
	return ErrUnauthorized
}

// callbackURL is the prompt endpoint as reachable by the provider.
func (s *Server) callbackURL(r *http.Request) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimRight(s.cfg.BaseURL, "/") + PathVoice
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host + PathVoice
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
