package ratelimit

import (
	"sync"
	"time"
)

// Rate limited actions
const (
	ActionGeneral = "general"
	ActionAuth    = "auth"
	ActionPayment = "payment"
)

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int           // tokens added per refill interval
	refillTime time.Duration // refill interval
	lastRefill time.Time
	lastSeen   time.Time
	mutex      sync.Mutex
}

// Policy describes the bucket created for an action.
type Policy struct {
	MaxTokens  int
	RefillRate int
	RefillTime time.Duration
}

// DefaultPolicies: payments 10 per minute, auth 5 per minute, everything
// else 60 per minute.
var DefaultPolicies = map[string]Policy{
	ActionPayment: {MaxTokens: 10, RefillRate: 1, RefillTime: 6 * time.Second},
	ActionAuth:    {MaxTokens: 5, RefillRate: 1, RefillTime: 12 * time.Second},
	ActionGeneral: {MaxTokens: 60, RefillRate: 1, RefillTime: time.Second},
}

// RateLimiter keeps one bucket per caller and action.
type RateLimiter struct {
	buckets  map[string]*TokenBucket
	policies map[string]Policy
	mutex    sync.RWMutex
	now      func() time.Time
}

func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	if policies == nil {
		policies = DefaultPolicies
	}
	return &RateLimiter{
		buckets:  make(map[string]*TokenBucket),
		policies: policies,
		now:      time.Now,
	}
}

func newTokenBucket(p Policy, now time.Time) *TokenBucket {
	return &TokenBucket{
		tokens:     p.MaxTokens,
		maxTokens:  p.MaxTokens,
		refillRate: p.RefillRate,
		refillTime: p.RefillTime,
		lastRefill: now,
		lastSeen:   now,
	}
}

// allow consumes a token if one is available, otherwise returns the wait
// until the next refill.
func (tb *TokenBucket) allow(now time.Time) (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.lastSeen = now
	if intervals := int(now.Sub(tb.lastRefill) / tb.refillTime); intervals > 0 {
		tb.tokens += intervals * tb.refillRate
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(intervals) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

// Allow checks if a caller action is allowed.
func (rl *RateLimiter) Allow(caller, action string) (bool, time.Duration) {
	key := caller + ":" + action
	now := rl.now()

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if bucket, exists = rl.buckets[key]; !exists {
			policy, ok := rl.policies[action]
			if !ok {
				policy = rl.policies[ActionGeneral]
			}
			bucket = newTokenBucket(policy, now)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.allow(now)
}

// Cleanup removes buckets idle for more than an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastSeen)
		bucket.mutex.Unlock()
		if idle > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every 30 minutes until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
