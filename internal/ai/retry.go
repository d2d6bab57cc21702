package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

type emptyContentError struct {
	Operation string
	Detail    string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Detail)
}

// callWithRetry runs one provider operation under the shared rate limiter,
// retrying transient failures with capped exponential backoff. Every attempt
// gets its own timeout derived from the configured request timeout.
func (c *Client) callWithRetry(ctx context.Context, operation string, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		callCtx := ctx
		cancel := func() {}
		if timeout := time.Duration(c.cfg.RequestTimeoutSeconds) * time.Second; timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		started := time.Now()
		result, err := fn(callCtx)
		cancel()
		c.metrics.ObserveAIRequest(c.cfg.Provider, operation, err, time.Since(started))
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= c.maxAttempts || ctx.Err() != nil || !retryable(err) {
			break
		}

		delay := c.retryDelay(err, attempt)
		c.metrics.ObserveAIRetry(c.cfg.Provider, operation)
		c.logger.Warn("provider call failed, retrying",
			"operation", operation,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err.Error(),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("ai %s: failed after %d attempts: %w", operation, c.maxAttempts, lastErr)
}

// retryable classifies provider failures. Rate limits, server errors, and
// timeouts are worth another attempt; auth and request errors are not.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var empty *emptyContentError
	if errors.As(err, &empty) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return retryableStatus(geminiErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

func retryableStatus(status int) bool {
	switch {
	case status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests,
		status >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

// retryDelay prefers the wait the provider asked for over the computed
// backoff. Rate-limit responses state it in the error body ("Please try
// again in 2m59.56s"); the SDK error types drop the Retry-After header, so
// the message is the only place the hint survives.
func (c *Client) retryDelay(err error, attempt int) time.Duration {
	if hint, ok := retryAfterHint(err); ok {
		if hint > c.maxDelay {
			return c.maxDelay
		}
		return hint
	}
	return c.backoffDelay(attempt)
}

var retryAfterPattern = regexp.MustCompile(`(?i)try again in ([0-9][0-9a-z.]*)`)

func retryAfterHint(err error) (time.Duration, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parseRetryAfter(apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parseRetryAfter(string(reqErr.Body))
	}
	return 0, false
}

// parseRetryAfter reads a duration like "7.66s" or "2m59.56s" out of a
// rate-limit message. A bare number counts as seconds.
func parseRetryAfter(message string) (time.Duration, bool) {
	match := retryAfterPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	raw := strings.TrimRight(match[1], ".")
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, true
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}

// backoffDelay doubles the base delay per attempt, capped at the max delay.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		if delay > c.maxDelay/2 {
			return c.maxDelay
		}
		delay *= 2
	}
	if delay > c.maxDelay {
		return c.maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
