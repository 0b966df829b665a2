package domain

import "time"

// Tweet is one piece of raw feedback text. Tweets arrive through the
// ingestion path and are immutable once stored.
type Tweet struct {
	TweetID   string    `json:"tweet_id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Analysis is the categorization result attached to exactly one tweet.
// SuggestedCategory preserves the original engine output; FinalCategory is
// the only mutable field and always reflects the latest accepted correction.
type Analysis struct {
	TweetID           string    `json:"tweet_id"`
	SuggestedCategory string    `json:"suggested_category"`
	FinalCategory     string    `json:"final_category"`
	ConfidenceScore   float64   `json:"confidence_score"`
	UrgencyScore      int       `json:"urgency_score"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}

// Correction is one reviewer override, kept append-only as an audit trail
// and as few-shot input for future categorization calls. OriginalCategory
// captures the final category immediately before this override.
type Correction struct {
	TweetID           string    `json:"tweet_id"`
	OriginalCategory  string    `json:"original_category"`
	CorrectedCategory string    `json:"corrected_category"`
	TweetText         string    `json:"tweet_text"`
	CorrectedAt       time.Time `json:"corrected_at"`
}

// TweetWithAnalysis is the category drill-down read model.
type TweetWithAnalysis struct {
	TweetID           string    `json:"tweet_id"`
	Text              string    `json:"text"`
	Author            string    `json:"author"`
	Timestamp         time.Time `json:"timestamp"`
	SuggestedCategory string    `json:"suggested_category"`
	FinalCategory     string    `json:"final_category"`
	ConfidenceScore   float64   `json:"confidence_score"`
	UrgencyScore      int       `json:"urgency_score"`
}

type CategoryStats struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	AvgUrgency float64 `json:"avg_urgency"`
}

type Summary struct {
	TotalTweets      int `json:"total_tweets"`
	AnalyzedTweets   int `json:"analyzed_tweets"`
	TotalCorrections int `json:"total_corrections"`
}

type DashboardData struct {
	Summary           Summary         `json:"summary"`
	CategoryStats     []CategoryStats `json:"category_stats"`
	AllCategories     []string        `json:"all_categories"`
	RecentCorrections []Correction    `json:"recent_corrections"`
}

// BatchResult reports one run of the batch analysis driver. Analyzed counts
// successes only; per-tweet failures are logged and skipped.
type BatchResult struct {
	Analyzed int    `json:"analyzed"`
	Message  string `json:"message"`
}
