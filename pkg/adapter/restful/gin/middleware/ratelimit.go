// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/log"
	"golang.org/x/time/rate"
)

// ErrRateLimited is reported with the 429 responses.
var ErrRateLimited = errors.New("too many requests, retry later")

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. A client is
// identified by its authenticated user ID or by its IP address.
// Buckets which were not used for ttl are forgotten.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*keyLimiter
	lastSweep time.Time
}

// NewRateLimiter creates a RateLimiter which permits perMinute
// requests per minute with bursts of up to burst requests.
func NewRateLimiter(
	perMinute, burst int, ttl time.Duration,
) (*RateLimiter, error) {
	switch {
	case perMinute < 1:
		return nil, fmt.Errorf("per minute rate (%d) < 1", perMinute)
	case burst < 1:
		return nil, fmt.Errorf("burst (%d) < 1", burst)
	case ttl <= 0:
		return nil, fmt.Errorf("ttl (%v) is not positive", ttl)
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
		limiters: make(map[string]*keyLimiter),
	}, nil
}

// Allow consumes one token of the key bucket and reports if it was
// available.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.ttl {
		rl.sweepLocked(now)
	}
	kl, ok := rl.limiters[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = kl
	}
	kl.lastSeen = now
	return kl.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, kl := range rl.limiters {
		if now.Sub(kl.lastSeen) >= rl.ttl {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// Len returns the number of tracked client keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Handler aborts the requests of the clients which have exhausted
// their bucket with a 429 status. It must be installed after the
// Authenticator handler, so authenticated users are keyed by their
// user ID instead of their shared IP address.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	retry := strconv.Itoa(int(math.Ceil(1 / float64(rl.limit))))
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if p := Principal(c); p != nil {
			key = "user:" + p.UserID.String()
		}
		if rl.Allow(key) {
			c.Next()
			return
		}
		log.Warn(
			c, "rate limit exceeded",
			slog.String("key", key),
			slog.String("route", c.FullPath()),
		)
		c.Header("Retry-After", retry)
		serdser.SerErr(c, cerr.TooManyRequests(ErrRateLimited))
		c.Abort()
	}
}
