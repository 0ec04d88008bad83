package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tomz197/cellbreak/internal/store"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// api serves the leaderboard. The score file is written by the SSH server,
// so it is reopened on every request.
type api struct {
	scoresPath string
	log        *log.Logger
}

func newRouter(page, sshHost, scoresPath string, logger *log.Logger) *mux.Router {
	a := &api{scoresPath: scoresPath, log: logger}
	page = strings.ReplaceAll(page, "{{.SSHHost}}", sshHost)

	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/scores", a.topScores).Methods(http.MethodGet)
	apiRouter.HandleFunc("/scores/{id}", a.score).Methods(http.MethodGet)
	apiRouter.HandleFunc("/best/{player}", a.best).Methods(http.MethodGet)
	return r
}

func (a *api) open(w http.ResponseWriter) (*store.File, bool) {
	f, err := store.Open(a.scoresPath)
	if err != nil {
		a.log.Error("failed to open scores", "err", err)
		writeError(w, http.StatusInternalServerError, "scores unavailable")
		return nil, false
	}
	return f, true
}

func (a *api) topScores(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	f, ok := a.open(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, f.Top(limit))
}

func (a *api) score(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	f, ok := a.open(w)
	if !ok {
		return
	}
	e, err := f.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *api) best(w http.ResponseWriter, r *http.Request) {
	player := mux.Vars(r)["player"]
	f, ok := a.open(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player": player,
		"best":   f.Best(player),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
