// Package ratelimit enforces a fixed number of mutating catalog actions per
// user per window. Counters live in a shared store so every service instance
// sees the same quota.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxActions = 10
	DefaultWindow     = time.Minute
)

type Limiter struct {
	store   CounterStore
	max     int64
	window  time.Duration
	limited map[domain.Action]struct{}
	log     *logrus.Logger
}

type Option func(*Limiter)

func WithMaxActions(max int64) Option {
	return func(l *Limiter) { l.max = max }
}

func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

// WithLimitedActions replaces the set of action kinds that count against the
// quota.
func WithLimitedActions(actions ...domain.Action) Option {
	return func(l *Limiter) {
		l.limited = make(map[domain.Action]struct{}, len(actions))
		for _, a := range actions {
			l.limited[a] = struct{}{}
		}
	}
}

func NewLimiter(store CounterStore, logger *logrus.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		max:    DefaultMaxActions,
		window: DefaultWindow,
		log:    logger,
	}
	WithLimitedActions(domain.ActionCreate, domain.ActionUpdate)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Limits(action domain.Action) bool {
	_, ok := l.limited[action]
	return ok
}

// CheckAndConsume counts one action for userID. Attempts over the limit still
// count, so retrying does not shorten the window.
func (l *Limiter) CheckAndConsume(ctx context.Context, userID string, action domain.Action) error {
	if !l.Limits(action) {
		return nil
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingUserID
	}

	count, ttl, err := l.store.Incr(ctx, userID, l.window)
	if err != nil {
		l.log.Errorf("Rate limiter: counter store failed for user %s: %v", userID, err)
		return fmt.Errorf("rate limiter unavailable: %w", err)
	}

	if count > l.max {
		l.log.WithFields(logrus.Fields{
			"user_id": userID,
			"action":  action,
			"count":   count,
			"max":     l.max,
		}).Warn("Rate limiter: quota exceeded")
		return &domain.QuotaExceededError{Max: l.max, RetryAfter: ttl}
	}

	l.log.Debugf("Rate limiter: user %s used %d/%d actions", userID, count, l.max)
	return nil
}
