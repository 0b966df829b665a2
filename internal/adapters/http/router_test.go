package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
)

type analyzerFake struct {
	result domain.BatchResult
	err    error
}

func (f analyzerFake) AnalyzeUnprocessed(_ context.Context) (domain.BatchResult, error) {
	return f.result, f.err
}

func (f analyzerFake) AnalyzeTweet(_ context.Context, _ string) error {
	return f.err
}

type ingestorFake struct {
	err error
}

func (f ingestorFake) Ingest(_ context.Context, tweet *domain.Tweet) (*domain.Tweet, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *tweet
	if stored.TweetID == "" {
		stored.TweetID = "generated-id"
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)
	}
	return &stored, nil
}

type capturingIngestor struct {
	got domain.Tweet
}

func (f *capturingIngestor) Ingest(_ context.Context, tweet *domain.Tweet) (*domain.Tweet, error) {
	f.got = *tweet
	return tweet, nil
}

type dashboardFake struct {
	data   *domain.DashboardData
	tweets []domain.TweetWithAnalysis
	err    error
}

func (f dashboardFake) Dashboard(_ context.Context) (*domain.DashboardData, error) {
	return f.data, f.err
}

func (f dashboardFake) TweetsByCategory(_ context.Context, _ string) ([]domain.TweetWithAnalysis, error) {
	return f.tweets, f.err
}

type overriderFake struct {
	err       error
	gotID     string
	gotTarget string
	calls     int
}

func (f *overriderFake) Override(_ context.Context, tweetID, newCategory string) error {
	f.calls++
	f.gotID = tweetID
	f.gotTarget = newCategory
	return f.err
}

func newTestHandler(analyzer analyzerFake, ingestor ingestorFake, dashboard dashboardFake, overrider *overriderFake) http.Handler {
	if overrider == nil {
		overrider = &overriderFake{}
	}
	return NewRouter(analyzer, ingestor, dashboard, overrider, nil).Handler()
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected permissive CORS header, got %q", got)
	}
}

func TestRootServesDashboardPage(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	if !strings.Contains(res.Body.String(), "Feedback Analyzer") {
		t.Fatal("expected dashboard markup in response body")
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestOptionsPreflightShortCircuits(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/override", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", res.Code)
	}
	if res.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", res.Body.String())
	}
	if got := res.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("expected allowed methods header, got %q", got)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	handler := newTestHandler(analyzerFake{
		result: domain.BatchResult{Analyzed: 3, Message: "Successfully analyzed 3 tweets"},
	}, ingestorFake{}, dashboardFake{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var result domain.BatchResult
	if err := json.Unmarshal(res.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Analyzed != 3 {
		t.Fatalf("expected 3 analyzed, got %d", result.Analyzed)
	}
}

func TestAnalyzeRejectsGet(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{
		data: &domain.DashboardData{
			Summary:       domain.Summary{TotalTweets: 10, AnalyzedTweets: 7, TotalCorrections: 2},
			CategoryStats: []domain.CategoryStats{{Category: "api_error", Count: 4, AvgUrgency: 8.5}},
			AllCategories: []string{"api_error", "ux_issue"},
			RecentCorrections: []domain.Correction{
				{TweetID: "t1", OriginalCategory: "general_feedback", CorrectedCategory: "pricing_concern"},
			},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var data domain.DashboardData
	if err := json.Unmarshal(res.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if data.Summary.TotalTweets != 10 {
		t.Fatalf("expected 10 total tweets, got %d", data.Summary.TotalTweets)
	}
	if len(data.CategoryStats) != 1 || data.CategoryStats[0].Category != "api_error" {
		t.Fatalf("unexpected category stats: %+v", data.CategoryStats)
	}
}

func TestCategoryEndpointReturnsBareArray(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{
		tweets: []domain.TweetWithAnalysis{
			{TweetID: "t1", Text: "deploy keeps failing", FinalCategory: "deployment_issue", UrgencyScore: 8},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/category/deployment_issue", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var tweets []domain.TweetWithAnalysis
	if err := json.Unmarshal(res.Body.Bytes(), &tweets); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tweets) != 1 || tweets[0].TweetID != "t1" {
		t.Fatalf("unexpected tweets payload: %+v", tweets)
	}
}

func TestCategoryEndpointRequiresCategory(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/category/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestOverrideSuccess(t *testing.T) {
	overrider := &overriderFake{}
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, overrider)

	body := bytes.NewBufferString(`{"tweet_id":"t1","new_category":"competitor_mention"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/override", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if overrider.gotID != "t1" || overrider.gotTarget != "competitor_mention" {
		t.Fatalf("override args = (%q, %q)", overrider.gotID, overrider.gotTarget)
	}
	var resp map[string]bool
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["success"] {
		t.Fatal("expected success true")
	}
}

func TestOverrideMissingAnalysisMapsTo404(t *testing.T) {
	overrider := &overriderFake{
		err: domain.WrapError(domain.ErrAnalysisNotFound, "apply override", errors.New("no analysis row")),
	}
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, overrider)

	body := bytes.NewBufferString(`{"tweet_id":"missing","new_category":"ux_issue"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/override", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestOverrideInvalidJSON(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/override", strings.NewReader("{not json"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestIngestTweetAccepted(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)

	body := bytes.NewBufferString(`{"text":"the api is down","author":"@dev"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tweets", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	var tweet domain.Tweet
	if err := json.Unmarshal(res.Body.Bytes(), &tweet); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if tweet.TweetID == "" {
		t.Fatal("expected stored tweet to carry an id")
	}
}

func TestIngestPreservesClientTimestamp(t *testing.T) {
	ingestor := &capturingIngestor{}
	handler := NewRouter(analyzerFake{}, ingestor, dashboardFake{}, &overriderFake{}, nil).Handler()

	body := bytes.NewBufferString(`{"text":"old report","author":"@dev","timestamp":"2025-01-02T03:04:05Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tweets", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if !ingestor.got.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", ingestor.got.Timestamp, want)
	}
}

func TestIngestDuplicateMapsTo409(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{
		err: domain.WrapError(domain.ErrDuplicateTweet, "insert tweet", errors.New("unique violation")),
	}, dashboardFake{}, nil)

	body := bytes.NewBufferString(`{"tweet_id":"t1","text":"again"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tweets", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.Code)
	}
}

func TestIngestEmptyTextMapsTo400(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{
		err: domain.WrapError(domain.ErrInvalidInput, "ingest tweet", errors.New("text is required")),
	}, dashboardFake{}, nil)

	body := bytes.NewBufferString(`{"text":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tweets", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	handler := newTestHandler(analyzerFake{}, ingestorFake{}, dashboardFake{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}
