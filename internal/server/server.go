// Package server exposes a captured output directory over HTTP so the
// images can be reviewed before they are committed to the docs.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"wizardshot/internal/imgcheck"
	"wizardshot/internal/runner"
	"wizardshot/internal/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	dir   string
	plan  wizard.Plan
	files map[string]bool
}

func New(dir string, plan wizard.Plan) *Server {
	files := make(map[string]bool, len(plan))
	for _, f := range plan.Files() {
		files[f] = true
	}
	return &Server{dir: dir, plan: plan, files: files}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	r.Get("/health", s.health)
	r.Get("/v1/manifest", s.manifest)
	r.Get("/v1/verify", s.verify)
	r.Get("/v1/logs", s.logs)
	r.Get("/shots/{file}", s.shot)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

func (s *Server) manifest(w http.ResponseWriter, r *http.Request) {
	m, err := runner.LoadManifest(filepath.Join(s.dir, runner.ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run in " + s.dir})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	for i := range m.Shots {
		m.Shots[i].File = "/shots/" + m.Shots[i].File
	}
	m.LogPath = "/v1/logs"
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	rep := imgcheck.Verify(s.dir, runner.Expectations(s.plan))
	status := http.StatusOK
	if !rep.OK() {
		status = http.StatusConflict
	}
	writeJSON(w, status, rep)
}

// shot serves only the images the plan writes.
func (s *Server) shot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if !s.files[name] {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown shot"})
		return
	}
	http.ServeFile(w, r, filepath.Join(s.dir, name))
}

func (s *Server) logs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	http.ServeFile(w, r, filepath.Join(s.dir, runner.LogsDir, runner.LogFile))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		if r.Method == http.MethodOptions {
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
