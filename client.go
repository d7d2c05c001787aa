package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

// State is the lifecycle state of a [Client]'s session.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Client is a Bitly API client. Calls are only possible between [Client.Open]
// and [Client.Close]; [Client.WithSession] pairs the two.
type Client struct {
	credentials Credentials
	options     *Options
	retrier     *retrier
	tracer      trace.Tracer

	// openMu serializes Open and Close.
	openMu sync.Mutex

	mu      sync.RWMutex
	session Session
	token   string
	state   State
}

// New validates creds and options and returns a closed client.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	options := newClientOptions()

	for _, opt := range opts {
		opt(options)
	}

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Client{
		credentials: creds,
		options:     options,
		retrier:     newRetrier(options),
		tracer:      options.tracerProvider.Tracer(tracerName),
		token:       creds.Token,
	}, nil
}

// Open opens the session. Without a token, the session authenticates with
// the client id and secret and exchanges username and password for a token
// first; if that fails the session is closed again and the error returned
// unchanged. Opening an open client replaces its session.
func (c *Client) Open(ctx context.Context) error {
	if c == nil {
		return errors.New("bitly client is nil")
	}

	c.openMu.Lock()
	defer c.openMu.Unlock()

	c.mu.Lock()
	previous := c.session
	c.session = nil
	c.state = StateOpening
	token := c.token
	c.mu.Unlock()

	if previous != nil {
		if err := previous.Close(); err != nil {
			c.options.requestLogger.Warnf("failed to close previous session: %v", err)
		}
	}

	cfg := SessionConfig{
		Timeout:         c.options.requestTimeout,
		Headers:         c.options.requestHeaders,
		Logger:          c.options.requestLogger,
		RequestIDHeader: c.options.requestIDHeader,
	}

	if token == "" {
		cfg.BasicAuth = c.credentials.basicAuth()
	}

	session, err := c.options.sessionFactory(cfg)
	if err != nil {
		c.setState(nil, StateClosed)
		return fmt.Errorf("failed to open session: %w", err)
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	if token == "" {
		token, err = c.exchangeToken(ctx)
		if err != nil {
			if cerr := session.Close(); cerr != nil {
				c.options.requestLogger.Warnf("failed to close session: %v", cerr)
			}
			c.setState(nil, StateClosed)
			return err
		}

		c.mu.Lock()
		c.token = token
		c.mu.Unlock()
	}

	c.setState(session, StateOpen)

	return nil
}

// Close closes the session. The access token is kept, so a later Open reuses
// it without a new exchange. Closing a closed client does nothing.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.openMu.Lock()
	defer c.openMu.Unlock()

	c.mu.Lock()
	session := c.session
	c.session = nil
	c.state = StateClosed
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	return session.Close()
}

// WithSession opens the client, runs fn and always closes the client again.
// An error from fn is returned unchanged; a Close error is returned only if
// fn succeeded.
func (c *Client) WithSession(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := c.Open(ctx); err != nil {
		return err
	}

	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close session: %w", cerr)
		}
	}()

	return fn(ctx)
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Token returns the access token in use: the static token, or the one
// obtained by the last successful exchange.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setState(session Session, state State) {
	c.mu.Lock()
	c.session = session
	c.state = state
	c.mu.Unlock()
}

func (c *Client) exchangeToken(ctx context.Context) (string, error) {
	result, err := c.Path(accessTokenPath).Call(ctx, Params{
		"username":   c.credentials.Username,
		"password":   c.credentials.Password,
		"grant_type": "password",
	})
	if err != nil {
		return "", err
	}

	field, ok := result.Get(accessTokenKey)
	if !ok {
		return "", &DecodeError{Body: result.String(), Err: ErrMissingAccessToken}
	}

	var token string
	if err := field.Decode(&token); err != nil || token == "" {
		return "", &DecodeError{Body: result.String(), Err: ErrMissingAccessToken}
	}

	return token, nil
}
