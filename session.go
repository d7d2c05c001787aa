package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Session is the transport a [Client] dispatches through while open. A
// session is shared by every call made during one open lifetime, so
// implementations must be safe for concurrent use.
type Session interface {
	// Request sends data to rawURL and returns the full response. Errors are
	// transport failures only; any HTTP status is a successful Request.
	Request(ctx context.Context, method, rawURL string, data url.Values) (*SessionResponse, error)

	// Supports reports whether the session can send method.
	Supports(method string) bool

	Close() error
}

// SessionResponse is the raw result of one [Session.Request].
type SessionResponse struct {
	StatusCode int
	Body       []byte
}

// Text returns the body as a string.
func (r *SessionResponse) Text() string {
	return string(r.Body)
}

// BasicAuth contains basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// SessionConfig is passed to a [SessionFactory] when a [Client] opens.
type SessionConfig struct {
	// BasicAuth is set when the session must authenticate the client
	// application for the OAuth2 password grant.
	BasicAuth       *BasicAuth
	Timeout         time.Duration
	Headers         map[string]string
	Logger          RequestLogger
	RequestIDHeader string
}

// SessionFactory opens a [Session].
type SessionFactory func(cfg SessionConfig) (Session, error)

var supportedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
	http.MethodHead:   {},
}

type restySession struct {
	client *resty.Client
}

// NewRestySession is the default [SessionFactory]. It sends payloads as query
// parameters for GET, HEAD and DELETE and as a form body otherwise. Retries
// are left to the [Client], so resty's own retry is disabled.
func NewRestySession(cfg SessionConfig) (Session, error) {
	client := resty.New().
		SetRetryCount(0).
		SetHeaders(cfg.Headers)

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	if cfg.Logger != nil {
		client.SetLogger(cfg.Logger)
	}

	if cfg.BasicAuth != nil {
		client.SetBasicAuth(cfg.BasicAuth.Username, cfg.BasicAuth.Password)
	}

	if header := cfg.RequestIDHeader; header != "" {
		client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(header) == "" {
				r.SetHeader(header, uuid.NewString())
			}
			return nil
		})
	}

	return &restySession{client: client}, nil
}

func (s *restySession) Request(ctx context.Context, method, rawURL string, data url.Values) (*SessionResponse, error) {
	req := s.client.R().SetContext(ctx)

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		req.SetQueryParamsFromValues(data)
	default:
		req.SetFormDataFromValues(data)
	}

	resp, err := req.Execute(method, rawURL)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

func (s *restySession) Supports(method string) bool {
	_, ok := supportedMethods[method]
	return ok
}

func (s *restySession) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
