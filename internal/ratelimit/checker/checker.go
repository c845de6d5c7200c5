// Package checker applies per-class policies to a bucket store.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"almanah/internal/ratelimit/models"
)

// BucketStore is a sliding window counter keyed by string.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Service checks user budgets per endpoint class. Middleware depends on it.
type Service struct {
	buckets  BucketStore
	policies map[models.EndpointClass]models.Policy
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPolicy overrides the budget for one class.
func WithPolicy(class models.EndpointClass, policy models.Policy) Option {
	return func(s *Service) {
		s.policies[class] = policy
	}
}

// DefaultPolicies: a handful of claims per minute, more generous lookups.
func DefaultPolicies() map[models.EndpointClass]models.Policy {
	return map[models.EndpointClass]models.Policy{
		models.ClassClaim:  {Limit: 10, Window: time.Minute},
		models.ClassLookup: {Limit: 60, Window: time.Minute},
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, fmt.Errorf("bucket store is required")
	}
	svc := &Service{
		buckets:  buckets,
		policies: DefaultPolicies(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	for class, p := range svc.policies {
		if p.Limit < 1 || p.Window <= 0 {
			return nil, fmt.Errorf("invalid rate limit policy for %s", class)
		}
	}
	return svc, nil
}

func (s *Service) CheckUserRateLimit(ctx context.Context, userID string, class models.EndpointClass) (*models.RateLimitResult, error) {
	policy, ok := s.policies[class]
	if !ok || !class.IsValid() {
		return nil, fmt.Errorf("no rate limit policy for class %q", class)
	}
	result, err := s.buckets.Allow(ctx, models.UserKey(userID, class), policy.Limit, policy.Window)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		s.logger.InfoContext(ctx, "user rate limit exceeded",
			"class", string(class),
			"user_id", userID,
			"retry_after", result.RetryAfter,
		)
	}
	return result, nil
}
