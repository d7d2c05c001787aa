package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debugf("hidden %d", 1)
	logger.Infof("retrying %d", 2)
	logger.Warnf("warn %s", "x")
	logger.Errorf("failed: %v", "boom")

	out := buf.String()

	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered, got %s", out)
	}

	for _, want := range []string{
		`"level":"info","message":"retrying 2"`,
		`"level":"warn","message":"warn x"`,
		`"level":"error","message":"failed: boom"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s, got %s", want, out)
		}
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()

	data := url.Values{
		"username":      {"jane"},
		"password":      {"secret"},
		"client_secret": {"s3cr3t"},
		"access_token":  {"tok"},
		"longUrl":       {"https://example.com"},
	}

	masked := redact(data)

	tests := map[string]string{
		"username":      "jane",
		"password":      maskValue,
		"client_secret": maskValue,
		"access_token":  maskValue,
		"longUrl":       "https://example.com",
	}

	for key, want := range tests {
		if got := masked.Get(key); got != want {
			t.Errorf("expected %s=%s, got %s", key, want, got)
		}
	}

	if data.Get("password") != "secret" {
		t.Error("redact must not modify its input")
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{"token masked", "https://api.example.com/v3/user/info?access_token=tok123&longUrl=x", "longUrl=x", "tok123"},
		{"no query", "https://api.example.com/v3/user/info", "https://api.example.com/v3/user/info", "?"},
		{"unparseable", "http://[::1/v3?access_token=tok123", "http://[::1/v3", "tok123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := redactURL(tt.input)

			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
			if strings.Contains(got, tt.absent) {
				t.Errorf("expected %q not to contain %q", got, tt.absent)
			}
		})
	}
}

func TestRequestLogging_MasksToken(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	session := &scriptedSession{results: []scriptedResult{
		{resp: okResponse(`{"status_code":200,"status_txt":"OK","data":{}}`)},
	}}
	c, _ := newScriptedClient(t, session, WithRequestLogger(logger), WithEntrypoint("https://api.example.com"))

	if _, err := c.Path("shorten").Call(context.Background(), Params{"longUrl": "https://example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()

	if !strings.Contains(out, "https://api.example.com/v3/shorten") || !strings.Contains(out, "longUrl") {
		t.Errorf("expected request to be logged, got %s", out)
	}
	if strings.Contains(out, testStaticToken) {
		t.Errorf("token leaked into log: %s", out)
	}
}

func TestTransportErrors_MaskToken(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	refused := &url.Error{
		Op:  "Get",
		URL: "https://api.example.com/v3/user/info?access_token=" + testStaticToken,
		Err: syscall.ECONNREFUSED,
	}
	session := &scriptedSession{results: []scriptedResult{{err: refused}}}
	c, _ := newScriptedClient(t, session, WithRequestLogger(logger), WithRetryCount(2))

	_, err := c.Path("user", "info").Call(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	if !errors.Is(err, syscall.ECONNREFUSED) {
		t.Errorf("expected the transport error to be kept, got %v", err)
	}
	if strings.Contains(err.Error(), testStaticToken) {
		t.Errorf("token leaked into error: %v", err)
	}

	out := buf.String()

	if !strings.Contains(out, "Retrying 1 because of") {
		t.Errorf("expected retry to be logged, got %s", out)
	}
	if strings.Contains(out, testStaticToken) {
		t.Errorf("token leaked into log: %s", out)
	}
}

func TestTransportErrors_MaskTokenFromDeadServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	entrypoint := server.URL
	server.Close()

	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	c, err := New(Credentials{Token: testStaticToken},
		WithEntrypoint(entrypoint),
		WithRequestLogger(logger),
		WithRetryCount(2),
		WithRetryWaitTime(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	_, err = c.Path("user", "info").Call(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	if strings.Contains(err.Error(), testStaticToken) {
		t.Errorf("token leaked into error: %v", err)
	}
	if out := buf.String(); strings.Contains(out, testStaticToken) {
		t.Errorf("token leaked into log: %s", out)
	}
}
