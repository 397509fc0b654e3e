package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ResponseData captures the response details and duration.
type ResponseData struct {
	Status    int
	Headers   http.Header
	BodyBytes []byte
	Duration  time.Duration
	Attempts  int
}

// OK reports a 2xx status.
func (r ResponseData) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Executor executes HTTP requests with a per-attempt timeout and retries
// idempotent requests on transient failures.
type Executor struct {
	client        *http.Client
	timeout       time.Duration
	maxTries      uint
	backoffFactor time.Duration
	retryStatuses map[int]bool
	log           *slog.Logger
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the default timeout applied to each attempt.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// WithRetries sets how many times an idempotent request is retried after
// the first attempt, so 3 means up to 4 calls. Negative values mean none.
func WithRetries(retries int) ExecutorOption {
	return func(e *Executor) {
		if retries < 0 {
			retries = 0
		}
		e.maxTries = uint(retries) + 1
	}
}

// WithBackoffFactor sets the first retry interval; later ones double.
func WithBackoffFactor(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.backoffFactor = d }
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// NewExecutor builds an Executor with a default client and timeout.
func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	e := &Executor{
		client:        New(cfg),
		timeout:       cfg.Timeout,
		maxTries:      1,
		backoffFactor: time.Second,
		retryStatuses: map[int]bool{
			http.StatusTooManyRequests:     true,
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
		log: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// retryableStatus carries a response whose status warrants another attempt.
type retryableStatus struct {
	resp ResponseData
}

func (r *retryableStatus) Error() string {
	return fmt.Sprintf("retryable status %d", r.resp.Status)
}

// Do executes the request and returns response data plus duration.
// Non-2xx responses are returned as data, not errors; only transport failures
// (after retries) produce an error.
func (e *Executor) Do(ctx context.Context, spec Request) (ResponseData, error) {
	start := time.Now()
	attempts := 0
	idempotent := isIdempotent(spec.Method)
	var last ResponseData

	op := func() (ResponseData, error) {
		attempts++
		resp, err := e.once(ctx, spec)
		last = resp
		if err != nil {
			var pe *backoff.PermanentError
			if errors.As(err, &pe) {
				return resp, err
			}
			if ctx.Err() != nil || !idempotent {
				return resp, backoff.Permanent(err)
			}
			return resp, err
		}
		if idempotent && e.retryStatuses[resp.Status] {
			if secs, ok := retryAfter(resp.Headers); ok {
				return resp, backoff.RetryAfter(secs)
			}
			return resp, &retryableStatus{resp: resp}
		}
		return resp, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.backoffFactor
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = e.backoffFactor * 8

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(e.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			e.log.Warn("http.retry",
				"method", spec.Method,
				"url", spec.URL,
				"attempt", attempts,
				"next", next.String(),
				"err", err.Error(),
			)
		}),
	)
	duration := time.Since(start)

	// Exhausted retries on a retryable status: hand the last response back
	// so the caller can report the status and body.
	var rs *retryableStatus
	var ra *backoff.RetryAfterError
	if errors.As(err, &rs) || (errors.As(err, &ra) && last.Status != 0) {
		resp, err = last, nil
	}

	resp.Duration = duration
	resp.Attempts = attempts
	return resp, err
}

func (e *Executor) once(ctx context.Context, spec Request) (ResponseData, error) {
	ctxWithTimeout := ctx
	cancel := func() {}
	if e.timeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	req, err := BuildRequest(ctxWithTimeout, spec)
	if err != nil {
		return ResponseData{}, backoff.Permanent(err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return ResponseData{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseData{}, err
	}

	return ResponseData{
		Status:    resp.StatusCode,
		Headers:   resp.Header.Clone(),
		BodyBytes: body,
	}, nil
}

func isIdempotent(method string) bool {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func retryAfter(h http.Header) (int, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return secs, true
}
