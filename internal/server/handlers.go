package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/starfederation/datastar-go/datastar"
)

type restoreRequest struct {
	Log string `json:"log"`
}

type formatRequest struct {
	SQL string `json:"sql"`
}

type formatResponse struct {
	SQL string `json:"sql"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRestore accepts the log either as a plain text body or as JSON
// {"log": "..."}.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decodeBody(w, r, &req, func(text string) { req.Log = text }); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.service.Restore(r.Context(), req.Log)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.notifier.Publish(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := decodeBody(w, r, &req, func(text string) { req.SQL = text }); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := s.service.Format(r.Context(), req.SQL)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, formatResponse{SQL: out})
}

// handleEvents streams each newly restored statement as a signals patch.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the stream opens so no publish is missed once the
	// client sees the response headers.
	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			res := s.notifier.Latest()
			if res == nil {
				continue
			}
			if err := sse.MarshalAndPatchSignals(res); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errors.New("history is disabled"))
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	entries, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("history list failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errors.New("history is disabled"))
		return
	}

	e, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, history.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// decodeBody reads a JSON body into v, or hands a non-JSON body to text.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, text func(string)) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		return json.Unmarshal(body, v)
	}
	text(string(body))
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, restore.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, restore.ErrNoStatement):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
