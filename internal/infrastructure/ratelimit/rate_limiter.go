package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionLogin        = "login"
	ActionRegister     = "register"
	ActionTopUpRequest = "topup_request"
)

// Policy allows Burst events at once, refilled one every Every.
type Policy struct {
	Burst int
	Every time.Duration
}

// DefaultPolicies returns the limits used by the API. loginPerMinute caps
// login attempts per client.
func DefaultPolicies(loginPerMinute int) map[string]Policy {
	if loginPerMinute <= 0 {
		loginPerMinute = 5
	}
	return map[string]Policy{
		ActionLogin:        {Burst: loginPerMinute, Every: time.Minute / time.Duration(loginPerMinute)},
		ActionRegister:     {Burst: 3, Every: 10 * time.Minute},
		ActionTopUpRequest: {Burst: 5, Every: 12 * time.Minute},
	}
}

var defaultPolicy = Policy{Burst: 20, Every: 3 * time.Second}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per (key, action).
type RateLimiter struct {
	mu       sync.Mutex
	policies map[string]Policy
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	return &RateLimiter{
		policies: policies,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow consumes a token for key performing action. When none is available
// it reports how long until the next one.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v := rl.visitorLocked(key, action, now)
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) visitorLocked(key, action string, now time.Time) *visitor {
	id := key + ":" + action
	if v, ok := rl.visitors[id]; ok {
		return v
	}

	policy, ok := rl.policies[action]
	if !ok {
		policy = defaultPolicy
	}
	v := &visitor{
		limiter:  rate.NewLimiter(rate.Every(policy.Every), policy.Burst),
		lastSeen: now,
	}
	rl.visitors[id] = v
	return v
}

// Cleanup forgets buckets idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(rl.visitors, id)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			}
		}
	}()
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
