// Package ratelimit limits requests per client and route with token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter keeps one token bucket per client, route and method.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets *lru.Cache[string, *rate.Limiter]
	now     func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
		}
	}
	size := config.MaxClients
	if size <= 0 {
		size = DefaultMaxClients
	}
	buckets, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		panic(err)
	}
	return &Limiter{config: config, buckets: buckets, now: time.Now}
}

// Allow checks whether a request from clientID to endpoint may proceed and
// consumes a token when it does.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	// Requests under a prefix rule share one bucket, whatever the ID in the path.
	key := endpoint
	ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if ec != nil {
		key = ec.Path
	} else {
		ec = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if ec.Limit <= 0 || ec.Window <= 0 {
		return true, Info{Allowed: true}
	}

	burst := ec.Burst
	if burst <= 0 {
		burst = ec.Limit
	}
	every := rate.Limit(float64(ec.Limit) / ec.Window.Seconds())

	now := l.now()
	bucket := l.bucket(clientID+":"+key+":"+method, every, burst)
	allowed := bucket.AllowN(now, 1)
	tokens := bucket.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Limit:     ec.Limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now.Add(secondsFor(float64(burst)-tokens, every)),
	}
	if !allowed {
		info.RetryAfter = secondsFor(1-tokens, every)
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, every rate.Limit, burst int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets.Get(key); ok {
		return b
	}
	b := rate.NewLimiter(every, burst)
	l.buckets.Add(key, b)
	return b
}

// Tracked returns the number of buckets currently held.
func (l *Limiter) Tracked() int {
	return l.buckets.Len()
}

// Stop releases the tracked buckets.
func (l *Limiter) Stop() {
	l.buckets.Purge()
}

func secondsFor(tokens float64, every rate.Limit) time.Duration {
	if tokens <= 0 || every <= 0 {
		return 0
	}
	return time.Duration(tokens / float64(every) * float64(time.Second))
}
