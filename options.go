package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultEntrypoint is the Bitly API host.
	DefaultEntrypoint = "https://api-ssl.bitly.com"

	// DefaultRequestIDHeader is stamped with a fresh UUID on every request.
	DefaultRequestIDHeader = "X-Request-ID"

	maxRetryCount    = 100
	maxRetryWaitTime = time.Minute
)

type Option func(*Options)

type Options struct {
	entrypoint      string
	retryCount      int
	retryWaitTime   time.Duration
	requestTimeout  time.Duration
	requestLogger   RequestLogger
	transientPolicy func(error) bool
	requestHeaders  map[string]string
	sessionFactory  SessionFactory
	tracerProvider  trace.TracerProvider
	requestIDHeader string
}

func newClientOptions() *Options {
	return &Options{
		entrypoint:      DefaultEntrypoint,
		retryCount:      5,
		retryWaitTime:   time.Second,
		requestTimeout:  30 * time.Second,
		requestLogger:   &NoopLogger{},
		transientPolicy: DefaultTransientPolicy,
		requestHeaders: map[string]string{
			"Accept": "application/json",
		},
		sessionFactory:  NewRestySession,
		tracerProvider:  otel.GetTracerProvider(),
		requestIDHeader: DefaultRequestIDHeader,
	}
}

// WithEntrypoint overrides the API host, e.g. to point at a test server.
func WithEntrypoint(entrypoint string) Option {
	return func(o *Options) {
		entrypoint = strings.TrimSuffix(strings.TrimSpace(entrypoint), "/")
		if entrypoint != "" {
			o.entrypoint = entrypoint
		}
	}
}

// WithRetryCount sets the total number of attempts per call, including the first.
func WithRetryCount(count int) Option {
	return func(o *Options) {
		if count >= 1 {
			o.retryCount = count
		}
	}
}

// WithRetryWaitTime sets the fixed delay between attempts.
func WithRetryWaitTime(waitTime time.Duration) Option {
	return func(o *Options) {
		if waitTime >= 0 {
			o.retryWaitTime = waitTime
		}
	}
}

// WithRequestTimeout sets the transport timeout of a single attempt.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.requestTimeout = timeout
		}
	}
}

func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

func WithTransientPolicy(policy func(error) bool) Option {
	return func(o *Options) {
		if policy != nil {
			o.transientPolicy = policy
		}
	}
}

func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" || strings.EqualFold(header, "Content-Type") || strings.EqualFold(header, "Accept") {
			return
		}

		o.requestHeaders[header] = value
	}
}

func WithSessionFactory(factory SessionFactory) Option {
	return func(o *Options) {
		if factory != nil {
			o.sessionFactory = factory
		}
	}
}

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Options) {
		if provider != nil {
			o.tracerProvider = provider
		}
	}
}

// WithRequestIDHeader changes the request ID header name. An empty name
// disables the header.
func WithRequestIDHeader(header string) Option {
	return func(o *Options) {
		o.requestIDHeader = strings.TrimSpace(header)
	}
}

func (o *Options) Validate() error {
	if o.entrypoint == "" {
		return errors.New("entrypoint must be set")
	}

	if u, err := url.Parse(o.entrypoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("entrypoint %q must be an absolute URL", o.entrypoint)
	}

	if o.retryCount < 1 {
		return errors.New("retryCount must be at least 1")
	}

	if o.retryCount > maxRetryCount {
		return fmt.Errorf("retryCount must not exceed %d", maxRetryCount)
	}

	if o.retryWaitTime < 0 {
		return errors.New("retryWaitTime must not be negative")
	}

	if o.retryWaitTime > maxRetryWaitTime {
		return fmt.Errorf("retryWaitTime must not exceed %v", maxRetryWaitTime)
	}

	if o.requestTimeout <= 0 {
		return errors.New("requestTimeout must be positive")
	}

	if o.requestLogger == nil {
		return errors.New("requestLogger must not be nil")
	}

	if o.transientPolicy == nil {
		return errors.New("transientPolicy must not be nil")
	}

	if o.sessionFactory == nil {
		return errors.New("sessionFactory must not be nil")
	}

	if o.tracerProvider == nil {
		return errors.New("tracerProvider must not be nil")
	}

	return nil
}
