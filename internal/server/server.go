// Package server exposes the resolver as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/lookup/{word}[?nr=N]
//	POST /api/analyze         body: {"text":"...","fetch_all_meanings":true}
//	POST /api/word-frequency  body: {"text":"...","search_words":["..."]}
//	GET  /api/health
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/cors"

	"github.com/dkrebs/navilex/internal/cache"
	"github.com/dkrebs/navilex/internal/llm"
	"github.com/dkrebs/navilex/internal/model"
	"github.com/dkrebs/navilex/internal/resolve"
	"github.com/dkrebs/navilex/internal/textproc"
)

// Server wires the resolver behind HTTP handlers. The glosser is optional;
// nil disables hints without any other behavior change.
type Server struct {
	resolver *resolve.Resolver
	words    *cache.WordCache
	glosser  *llm.Glosser
	handler  http.Handler
}

// New builds the server and its routing table.
func New(resolver *resolve.Resolver, words *cache.WordCache, glosser *llm.Glosser, allowedOrigins []string) *Server {
	s := &Server{
		resolver: resolver,
		words:    words,
		glosser:  glosser,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/lookup/", s.handleLookup)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/word-frequency", s.handleWordFrequency)
	mux.HandleFunc("/api/health", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = c.Handler(mux)
	return s
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ---- JSON response types ------------------------------------------------

type lookupResponse struct {
	model.LookupRecord
	GlossHint string `json:"gloss_hint,omitempty"`
}

type analyzeRequest struct {
	Text             string `json:"text"`
	FetchAllMeanings *bool  `json:"fetch_all_meanings"`
}

type analyzeResponse struct {
	OriginalText string             `json:"original_text"`
	WordCount    int                `json:"word_count"`
	Results      model.TextAnalysis `json:"results"`
}

type frequencyRequest struct {
	Text        string   `json:"text"`
	SearchWords []string `json:"search_words"`
}

type healthResponse struct {
	Status    string `json:"status"`
	CacheSize int    `json:"cache_size"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ---- handlers -----------------------------------------------------------

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/lookup/")
	word, err := url.PathUnescape(raw)
	if err != nil || word == "" || strings.Contains(word, "/") {
		writeError(w, http.StatusBadRequest, "missing or malformed word in path")
		return
	}

	nr := 1
	if q := r.URL.Query().Get("nr"); q != "" {
		nr, err = strconv.Atoi(q)
		if err != nil || nr < 1 {
			writeError(w, http.StatusBadRequest, "'nr' must be a positive integer")
			return
		}
	}

	record := s.resolver.Lookup(r.Context(), word, nr)
	resp := lookupResponse{LookupRecord: record}
	if !record.Found && record.Error == "" && s.glosser != nil {
		hint, err := s.glosser.Gloss(r.Context(), word)
		if err != nil {
			log.Printf("gloss hint %q: %v", word, err)
		} else {
			resp.GlossHint = hint
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}
	// Emptiness is judged after cleanup: input that is all control
	// characters or punctuation noise is as empty as "".
	text := textproc.Preprocess(body.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}

	fetchAll := true
	if body.FetchAllMeanings != nil {
		fetchAll = *body.FetchAllMeanings
	}

	cleaned, analysis := s.resolver.AnalyzeText(r.Context(), text, fetchAll)
	writeJSON(w, http.StatusOK, analyzeResponse{
		OriginalText: cleaned,
		WordCount:    len(analysis),
		Results:      analysis,
	})
}

func (s *Server) handleWordFrequency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body frequencyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}
	text := textproc.Preprocess(body.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}
	if len(body.SearchWords) == 0 {
		writeError(w, http.StatusBadRequest, "'search_words' must be a non-empty array")
		return
	}

	report := s.resolver.WordFrequency(r.Context(), text, body.SearchWords)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", CacheSize: s.words.Len()})
}
