package client

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/peteraglen/bitly-go-client"

	versionPrefix   = "v3/"
	accessTokenPath = "oauth/access_token"
	accessTokenKey  = "access_token"
)

var nonVersionedPaths = map[string]struct{}{
	accessTokenPath: {},
}

var pathMethods = map[string]string{
	accessTokenPath: http.MethodPost,
}

func isVersioned(path string) bool {
	_, ok := nonVersionedPaths[path]
	return !ok
}

func (c *Client) endpoint(path string, versioned bool) string {
	if versioned {
		return c.options.entrypoint + "/" + versionPrefix + path
	}
	return c.options.entrypoint + "/" + path
}

func (c *Client) request(ctx context.Context, path, method string, params Params) (Result, error) {
	if c == nil {
		return Result{}, errors.New("bitly client is nil")
	}

	c.mu.RLock()
	session, token := c.session, c.token
	c.mu.RUnlock()

	if session == nil {
		return Result{}, ErrSessionRequired
	}

	if !session.Supports(method) {
		return Result{}, &MethodNotAllowedError{Method: method}
	}

	versioned := isVersioned(path)
	endpoint := c.endpoint(path, versioned)

	data := params.values()
	if token != "" {
		data.Set(accessTokenKey, token)
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.Bool("bitly.versioned", versioned),
	)

	c.options.requestLogger.Debugf("Request(%q, data=%v)", endpoint, redact(data))

	resp, attempts, err := c.retrier.do(ctx, func(ctx context.Context) (*SessionResponse, error) {
		resp, err := session.Request(ctx, method, endpoint, data)
		return resp, redactError(err)
	})

	span.SetAttributes(attribute.Int("bitly.attempts", attempts))

	if err != nil {
		err = &TransportError{Method: method, URL: endpoint, Attempts: attempts, Err: err}
		c.options.requestLogger.Errorf("%v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	result, err := decodeResponse(resp, versioned)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	return result, nil
}
