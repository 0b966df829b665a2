// Package httpadapter exposes the feedback analyzer over HTTP: the embedded
// dashboard page, the JSON API and the health endpoint.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
)

type Router struct {
	analyzer  ports.BatchAnalyzer
	ingestor  ports.TweetIngestor
	dashboard ports.DashboardReader
	overrider ports.CategoryOverrider
	logger    *slog.Logger
}

func NewRouter(
	analyzer ports.BatchAnalyzer,
	ingestor ports.TweetIngestor,
	dashboard ports.DashboardReader,
	overrider ports.CategoryOverrider,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		analyzer:  analyzer,
		ingestor:  ingestor,
		dashboard: dashboard,
		overrider: overrider,
		logger:    logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/analyze", rt.analyze)
	mux.HandleFunc("/api/dashboard", rt.dashboardData)
	mux.HandleFunc("/api/category/", rt.categoryTweets)
	mux.HandleFunc("/api/override", rt.override)
	mux.HandleFunc("/api/tweets", rt.ingestTweet)
	return requestIDMiddleware(accessLogMiddleware(corsMiddleware(mux)))
}

// root serves the dashboard page on the exact "/" path; the catch-all nature
// of the route otherwise makes it the 404 handler.
func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not Found"))
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dashboardHTML)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := rt.analyzer.AnalyzeUnprocessed(r.Context())
	if err != nil {
		rt.logger.Error("batch_analysis_failed", "error", err)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) dashboardData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := rt.dashboard.Dashboard(r.Context())
	if err != nil {
		rt.logger.Error("dashboard_query_failed", "error", err)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (rt *Router) categoryTweets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	category := strings.TrimPrefix(r.URL.Path, "/api/category/")
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	tweets, err := rt.dashboard.TweetsByCategory(r.Context(), category)
	if err != nil {
		rt.logger.Error("category_query_failed", "category", category, "error", err)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tweets)
}

func (rt *Router) override(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		TweetID     string `json:"tweet_id"`
		NewCategory string `json:"new_category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := rt.overrider.Override(r.Context(), req.TweetID, req.NewCategory); err != nil {
		rt.logger.Warn("override_failed", "tweet_id", req.TweetID, "error", err)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (rt *Router) ingestTweet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		TweetID   string    `json:"tweet_id"`
		Text      string    `json:"text"`
		Author    string    `json:"author"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	tweet, err := rt.ingestor.Ingest(r.Context(), &domain.Tweet{
		TweetID:   req.TweetID,
		Text:      req.Text,
		Author:    req.Author,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		rt.logger.Warn("ingest_failed", "tweet_id", req.TweetID, "error", err)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, tweet)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
