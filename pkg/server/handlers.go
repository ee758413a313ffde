package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/status"
)

// maxBodyBytes bounds an update-status request body.
const maxBodyBytes = 4 << 20

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

type healthResponse struct {
	Status   string            `json:"status"`
	Breakers map[string]string `json:"breakers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	breakers := map[string]string{}
	if s.breakers != nil {
		breakers = s.breakers.States()
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Breakers: breakers})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.latest(r.Context())
	if err != nil {
		s.cycleFailed(w, err)
		return
	}
	rows := status.Filter(report.Rows, r.URL.Query().Get("filter"))
	if rows == nil {
		rows = []status.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.latest(r.Context())
	if err != nil {
		s.cycleFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summary)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query json.RawMessage `json:"query"`
		Rows  json.RawMessage `json:"rows"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	query, msg := decodeQuery(in.Query)
	if msg != "" {
		badRequest(w, msg)
		return
	}
	rows, msg := decodeRows(in.Rows)
	if msg != "" {
		badRequest(w, msg)
		return
	}

	resolved, err := s.runner.Resolve(r.Context(), rows, query)
	if err != nil {
		s.cycleFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

// decodeQuery returns the query string or the message of the 400 to send.
func decodeQuery(raw json.RawMessage) (string, string) {
	if isAbsent(raw) {
		return "", "missing query"
	}
	var q string
	if err := json.Unmarshal(raw, &q); err != nil {
		return "", "invalid query"
	}
	if q == "" {
		return "", "missing query"
	}
	if !isQueryOperation(q) {
		return "", "only query operations are allowed"
	}
	return q, ""
}

// isQueryOperation reports whether doc is a shorthand "{ ... }" selection or
// starts with the query keyword. The server's token must never run a
// mutation or subscription on the caller's behalf.
func isQueryOperation(doc string) bool {
	doc = strings.TrimSpace(doc)
	if strings.HasPrefix(doc, "{") {
		return true
	}
	rest, ok := strings.CutPrefix(doc, "query")
	if !ok {
		return false
	}
	return rest == "" || strings.ContainsRune(" \t\r\n{(", rune(rest[0]))
}

// decodeRows returns the rows or the message of the 400 to send.
func decodeRows(raw json.RawMessage) ([]status.Row, string) {
	if isAbsent(raw) {
		return nil, "missing rows"
	}
	var rows []status.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, "invalid rows"
	}
	if len(rows) == 0 {
		return nil, "empty rows"
	}
	return rows, ""
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (s *Server) cycleFailed(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.logger.Error("refresh failed", "code", code, "err", err)
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: errors.ErrCodeInvalidInput})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
