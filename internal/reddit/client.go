package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pentyflix/pentyflix-api/pkg/config"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
	"github.com/pentyflix/pentyflix-api/pkg/telemetry"
)

// userAgents is the rotation pool. Reddit rejects default library agents,
// so these mimic real browsers plus one contact-style string.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"pentyflix-api/1.0 (+https://pentyflix.example/contact)",
}

// throttleState serializes outbound dispatches from one client instance.
// The mutex is held across the wait so at most one request is in the
// dispatch path at a time.
type throttleState struct {
	mu   sync.Mutex
	last time.Time
}

// Client issues rate-limited, header-rotated GET requests to the upstream
// JSON API with retry, 429 handling, and a circuit breaker. One instance
// owns one throttle and one breaker, so independent upstream targets can
// have independent state.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[string]
	throttle throttleState
	agents   []string
	cfg      config.RedditConfig
	logger   *zap.Logger
}

// NewClient creates a new upstream client
func NewClient(cfg *config.RedditConfig) *Client {
	logger := logging.GetLogger().With(zap.String("component", "reddit-client"))

	c := &Client{
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		// Hard ceiling independent of the jittered throttle floor
		limiter: rate.NewLimiter(rate.Every(cfg.ThrottleMin), 1),
		agents:  userAgents,
		cfg:     *cfg,
		logger:  logger,
	}
	if len(cfg.UserAgents) > 0 {
		c.agents = cfg.UserAgents
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "reddit-api",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerThreshold)
		},
		// Permanent 4xx responses and caller cancellations are answered
		// states, not upstream outages; they must not trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var perm *PermanentError
			if errors.As(err, &perm) {
				return true
			}
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	logger.Info("Reddit client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("throttle_min", cfg.ThrottleMin),
		zap.Duration("throttle_max", cfg.ThrottleMax))

	return c
}

// Fetch performs a GET against url and returns the raw body. It fails with
// ErrCircuitOpen while the breaker is open, a PermanentError for 4xx
// responses other than 429, and a TransientError once retries exhaust.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.fetch")
	defer span.End()

	body, err := c.breaker.Execute(func() (string, error) {
		return c.fetchWithRetry(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("GET %s: %w", url, ErrCircuitOpen)
		}
		return "", err
	}
	return body, nil
}

// fetchWithRetry runs the retry loop: up to MaxRetries extra attempts on
// transient failures, exponential backoff doubling from RetryBackoff, and a
// flat extra delay plus throttle refresh after a 429.
func (c *Client) fetchWithRetry(ctx context.Context, url string) (string, error) {
	op := "GET " + url

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.RetryBackoff << (attempt - 1)
			c.logger.Info("retrying upstream request",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			if err := sleepContext(ctx, backoff); err != nil {
				return "", err
			}
		}

		body, status, err := c.doRequest(ctx, url)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = &TransientError{Op: op, Err: err}

		case status >= 200 && status < 300:
			return body, nil

		case status == http.StatusTooManyRequests:
			// 429 gets special-cased treatment on top of the generic
			// backoff: a flat cool-off and a fresh throttle window, so the
			// next attempt goes out with new headers after a full pause.
			lastErr = &TransientError{Op: op, StatusCode: status}
			c.logger.Warn("upstream rate limit hit", zap.String("url", url))
			if err := sleepContext(ctx, c.cfg.RateLimitDelay); err != nil {
				return "", err
			}
			c.refreshThrottle()

		case status >= 500:
			lastErr = &TransientError{Op: op, StatusCode: status}

		default:
			// Any other 4xx is not worth retrying
			return "", &PermanentError{Op: op, StatusCode: status}
		}
	}

	return "", lastErr
}

// doRequest waits out the rate ceiling and the jittered throttle floor,
// then dispatches one GET with a freshly built header set.
func (c *Client) doRequest(ctx context.Context, url string) (string, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", 0, err
	}
	if err := c.waitThrottle(ctx); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}

	// Headers are rebuilt per request, never accumulated
	req.Header.Set("User-Agent", c.agents[rand.Intn(len(c.agents))])
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	return string(body), resp.StatusCode, nil
}

// waitThrottle enforces a randomized minimum interval between consecutive
// dispatches. The floor is drawn uniformly from [ThrottleMin, ThrottleMax]
// on every call; the mutex serializes all outbound requests through one
// client instance.
func (c *Client) waitThrottle(ctx context.Context) error {
	c.throttle.mu.Lock()
	defer c.throttle.mu.Unlock()

	floor := c.cfg.ThrottleMin
	if window := c.cfg.ThrottleMax - c.cfg.ThrottleMin; window > 0 {
		floor += time.Duration(rand.Int63n(int64(window)))
	}

	if wait := floor - time.Since(c.throttle.last); wait > 0 {
		if err := sleepContext(ctx, wait); err != nil {
			return err
		}
	}

	c.throttle.last = time.Now()
	return nil
}

// refreshThrottle restarts the throttle window, forcing the next dispatch
// to wait a full randomized interval from now.
func (c *Client) refreshThrottle() {
	c.throttle.mu.Lock()
	c.throttle.last = time.Now()
	c.throttle.mu.Unlock()
}

// sleepContext sleeps for d or until ctx is done, whichever comes first
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
