// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/capability"
	"github.com/AnyUserName/docbatch/internal/engine"
	"github.com/AnyUserName/docbatch/internal/report"
)

// maxBody caps request bodies; requests only carry a path and one value.
const maxBody = 64 << 10

// Server routes API requests to an engine.
type Server struct {
	eng *engine.Engine
	log *logrus.Logger
}

// New creates a server over eng.
func New(eng *engine.Engine, log *logrus.Logger) *Server {
	return &Server{eng: eng, log: log}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/operations", s.listOperations).Methods("GET")
	api.HandleFunc("/capabilities", s.capabilities).Methods("GET")
	api.HandleFunc("/operations/{name}", s.runOperation).Methods("POST")
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.log.WithField("addr", addr).Info("listening")
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type operationInfo struct {
	Name  string `json:"name"`
	Short string `json:"short"`
	Input string `json:"input"`
}

func (s *Server) listOperations(w http.ResponseWriter, _ *http.Request) {
	ops := s.eng.Operations()
	out := make([]operationInfo, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationInfo{Name: op.Name, Short: op.Short, Input: op.Input.String()})
	}
	writeJSON(w, http.StatusOK, out, s.log)
}

func (s *Server) capabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, capability.Describe(s.eng.Capabilities()), s.log)
}

// RunRequest is the body of POST /api/v1/operations/{name}.
type RunRequest struct {
	Dir   string `json:"dir"`
	Input string `json:"input,omitempty"`
}

// RunResponse is returned for every run request.
type RunResponse struct {
	Status string         `json:"status"`
	Kind   string         `json:"kind,omitempty"`
	Text   string         `json:"text"`
	Result *report.Result `json:"result,omitempty"`
}

func (s *Server) runOperation(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if _, ok := s.eng.Lookup(name); !ok {
		writeJSON(w, http.StatusNotFound, RunResponse{Status: "error", Kind: "NotFound", Text: "unknown operation " + name}, s.log)
		return
	}

	var req RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RunResponse{Status: "error", Kind: "InvalidInput", Text: "decode request: " + err.Error()}, s.log)
		return
	}

	var text string
	res, err := s.eng.Run(r.Context(), name, req.Dir, batch.ReporterFunc(func(t string) { text = t }), batch.StaticInput(req.Input))
	if err != nil {
		writeJSON(w, statusFor(err), RunResponse{Status: "error", Kind: batch.Kind(err), Text: text}, s.log)
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{Status: "ok", Text: text, Result: res}, s.log)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch batch.Kind(err) {
	case "NotFound":
		return http.StatusNotFound
	case "NoInput", "InsufficientInput", "NoCredential", "InvalidInput":
		return http.StatusBadRequest
	case "CapabilityUnavailable", "ExternalToolMissing":
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any, log *logrus.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("encode response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("request")
	})
}
