package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Client is a wrapper for HTTP client with rate limiting and retries.
// It satisfies tgbotapi.HTTPClient, so every Telegram API call goes through it.
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	opts       ClientOptions
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
	RetryInterval   time.Duration
}

// NewClient creates a new HTTP client with rate limiting
func NewClient(opts ClientOptions) *Client {
	// Set default values if not provided
	if opts.Timeout == 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 25
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = 500 * time.Millisecond
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		Limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		opts:    opts,
	}
}

// Do performs req with rate limiting. 429 and 5xx answers are retried with
// exponential backoff, waiting at least the retry_after Telegram asks for.
// Transport errors are retried only for read-only calls: a send that timed out
// may already have been delivered. Any other response is returned untouched so
// the caller can decode API errors from the body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoRequest(req.Context(), req)
}

// DoRequest performs an HTTP request with rate limiting and retries
func (c *Client) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	operation := func() error {
		// Wait for rate limiter
		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		r := req
		if attempt > 0 {
			r = req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				r.Body = body
			}
		}
		attempt++

		var err error
		resp, err = c.HTTPClient.Do(r)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if !readOnly(req) {
				return backoff.Permanent(err)
			}
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait > c.opts.MaxRetryTimeout {
				wait = c.opts.MaxRetryTimeout
			}
			if err := sleep(ctx, wait); err != nil {
				return backoff.Permanent(err)
			}
			return &HTTPStatusError{StatusCode: resp.StatusCode}
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return &HTTPStatusError{StatusCode: resp.StatusCode}
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryInterval
	policy.MaxElapsedTime = c.opts.MaxRetryTimeout

	strategy := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.opts.MaxRetries)), ctx)
	if err := backoff.Retry(operation, strategy); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}

	return resp, nil
}

// readOnly reports whether repeating req cannot duplicate a side effect.
// Bot API calls are POSTs named by the last path segment, e.g. /bot<token>/getUpdates.
func readOnly(req *http.Request) bool {
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		return true
	}
	return strings.HasPrefix(path.Base(req.URL.Path), "get")
}

// retryAfter reads the wait Telegram asks for on 429, from the JSON body or the
// Retry-After header.
func retryAfter(resp *http.Response) time.Duration {
	var apiResp tgbotapi.APIResponse
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(body, &apiResp) == nil &&
		apiResp.Parameters != nil && apiResp.Parameters.RetryAfter > 0 {
		return time.Duration(apiResp.Parameters.RetryAfter) * time.Second
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HTTPStatusError represents a retryable HTTP status that did not recover
type HTTPStatusError struct {
	StatusCode int
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return "retryable status code: " + http.StatusText(e.StatusCode)
}
