package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/maloquacious/timetracker/internal/entry"
	"github.com/maloquacious/timetracker/internal/logger"
	"github.com/maloquacious/timetracker/internal/store"
)

// Backend is the part of the datastore the HTTP handlers need.
type Backend interface {
	store.Entries
	CheckState() (store.StoreState, error)
	GetSchemaVersion() (string, error)
}

// Server holds the shared store handle and serves the public and admin routes.
type Server struct {
	store    Backend
	log      logger.Logger
	version  string
	shutdown func()
}

// New returns a Server. A nil log falls back to logger.Default; shutdown is
// invoked by the admin shutdown route.
func New(backend Backend, log logger.Logger, version string, shutdown func()) *Server {
	if log == nil {
		log = logger.Default
	}
	if shutdown == nil {
		shutdown = func() {}
	}
	return &Server{
		store:    backend,
		log:      log,
		version:  version,
		shutdown: shutdown,
	}
}

type entryJSON struct {
	ID      int64     `json:"id,omitempty"`
	Seconds int64     `json:"seconds"`
	Date    time.Time `json:"date"`
}

func toJSON(e entry.Entry) entryJSON {
	return entryJSON{ID: e.ID, Seconds: e.Seconds, Date: e.Date}
}

// PublicHandler returns the public routes: health checks and the entries API.
func (s *Server) PublicHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		state, err := s.store.CheckState()
		if err != nil || state != store.StateReady {
			s.log.Warn("readiness check failed: state=%s err=%v", state, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	mux.Handle("GET /entries", jsonOnly(http.HandlerFunc(s.listEntries)))
	mux.Handle("POST /entries", jsonOnly(http.HandlerFunc(s.addEntry)))
	mux.Handle("GET /entries/{id}", jsonOnly(http.HandlerFunc(s.getEntry)))
	mux.Handle("PUT /entries/{id}", jsonOnly(http.HandlerFunc(s.putEntry)))
	mux.Handle("DELETE /entries/{id}", jsonOnly(http.HandlerFunc(s.deleteEntry)))

	return mux
}

// AdminHandler returns the JSON-only admin routes. Callers bind it to loopback.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/admin/status", jsonOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, err := s.store.CheckState()
		if err != nil {
			s.log.Error("admin status: check state: %v", err)
		}
		schemaVersion, err := s.store.GetSchemaVersion()
		if err != nil {
			s.log.Error("admin status: schema version: %v", err)
		}
		count, err := s.store.Count(r.Context())
		if err != nil {
			s.log.Error("admin status: count: %v", err)
		}
		resp := map[string]any{
			"version":       s.version,
			"schemaVersion": schemaVersion,
			"state":         state.String(),
			"entries":       count,
			"time":          time.Now().UTC().Format(time.RFC3339),
			"mode":          "running",
		}
		writeJSON(w, http.StatusOK, resp)
	})))

	mux.Handle("/admin/shutdown", jsonOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "shutting down"})
		s.log.Info("shutdown requested via admin route")
		s.shutdown()
	})))

	return mux
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := entry.ParseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entries, err := s.store.ListByDate(r.Context(), rng)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var payload entryJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if payload.ID != 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "id is assigned by the server")
		return
	}

	e, err := s.store.Add(r.Context(), entry.Draft{Seconds: payload.Seconds, Date: payload.Date})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.Debug("added entry %d", e.ID)
	writeJSON(w, http.StatusCreated, toJSON(e))
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(e))
}

func (s *Server) putEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload entryJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if payload.ID != 0 && payload.ID != id {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "id in body does not match path")
		return
	}

	e, err := s.store.Put(r.Context(), entry.Entry{ID: id, Seconds: payload.Seconds, Date: payload.Date})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.Debug("deleted entry %d", id)
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, entry.ErrInvalidEntry):
		writeJSONError(w, http.StatusBadRequest, "invalid_entry", err.Error())
	default:
		s.log.Error("store error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal", "storage failure")
	}
}

// jsonOnly enforces the JSON-only contract.
func jsonOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		if !strings.Contains(accept, "application/json") && accept != "" && accept != "*/*" {
			writeJSONError(w, http.StatusNotAcceptable, "not_acceptable", "Accept must include application/json")
			return
		}
		if (r.Method == http.MethodPost || r.Method == http.MethodPut) && !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": msg,
	})
}
