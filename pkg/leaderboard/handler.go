package leaderboard

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Handler serves the leaderboard REST API backed by a Store:
//
//	GET  /rest/v1/leaderboard?select=*&order=score.desc&limit=N
//	POST /rest/v1/leaderboard  {"player_name": "...", "score": N}
type Handler struct {
	store     Store
	apiKey    string
	secretKey string
	log       logrus.FieldLogger
}

// NewHandler creates a handler. With an empty apiKey requests are not
// authenticated. Requests made with secretKey are refused with the
// message clients look for when a secret key leaks into a browser.
func NewHandler(store Store, apiKey, secretKey string, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{store: store, apiKey: apiKey, secretKey: secretKey, log: log}
}

// Register mounts the handler on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle(restPath, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleTop(w, r)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) bool {
	key := r.Header.Get("apikey")
	if key == "" {
		key = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if h.secretKey != "" && keyEqual(key, h.secretKey) {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Message: "Forbidden use of secret API key in browser",
			Hint:    "Use the anon key",
		})
		return false
	}
	if h.apiKey == "" || keyEqual(key, h.apiKey) {
		return true
	}
	writeError(w, http.StatusUnauthorized, "invalid API key")
	return false
}

func (h *Handler) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if order := q.Get("order"); order != "" && order != "score.desc" {
		writeError(w, http.StatusBadRequest, "unsupported order "+order)
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.store.TopScores(r.Context(), ClampLimit(limit))
	if err != nil {
		h.log.WithError(err).Error("Failed to read leaderboard")
		writeError(w, http.StatusInternalServerError, "failed to read leaderboard")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerName string `json:"player_name"`
		Score      *int   `json:"score"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if body.Score == nil {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}

	entry, err := NewEntry(body.PlayerName, *body.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.store.AddScore(r.Context(), entry)
	if err != nil {
		h.log.WithError(err).Error("Failed to store score")
		writeError(w, http.StatusInternalServerError, "failed to store score")
		return
	}
	h.log.WithFields(logrus.Fields{"player": stored.PlayerName, "score": stored.Score}).Info("Score submitted")

	if r.Header.Get("Prefer") == "return=representation" {
		writeJSON(w, http.StatusCreated, []Entry{stored})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func keyEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Message: msg})
}
