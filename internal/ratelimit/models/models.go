// Package models holds the rate limiting vocabulary shared by stores, the
// checker and the HTTP middleware.
package models

import (
	"strings"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassClaim: redemption attempts, PATCH /cards/claim
	ClassClaim EndpointClass = "claim"
	// ClassLookup: printed card lookups that could enumerate identifiers,
	// /cards/validate and /cards/details
	ClassLookup EndpointClass = "lookup"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassClaim, ClassLookup:
		return true
	}
	return false
}

// Policy is a sliding window budget.
type Policy struct {
	Limit  int
	Window time.Duration
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so a crafted identifier cannot address another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// UserKey is the bucket key for one user and class.
func UserKey(userID string, class EndpointClass) string {
	return "rl:user:" + string(class) + ":" + SanitizeKeySegment(userID)
}
