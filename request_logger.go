package client

import (
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// RequestLogger is the interface used by [Client] for logging requests,
// retries and errors. It is also handed to resty as its logger. Implement it
// to integrate with your logging library and supply the implementation via
// [WithRequestLogger].
type RequestLogger interface {
	Errorf(format string, v ...any)
	Warnf(format string, v ...any)
	Infof(format string, v ...any)
	Debugf(format string, v ...any)
}

// NoopLogger is a [RequestLogger] that silently discards all log messages.
// It is the default logger used when no logger is provided to [New].
type NoopLogger struct{}

func (l *NoopLogger) Errorf(_ string, _ ...any) {}
func (l *NoopLogger) Warnf(_ string, _ ...any)  {}
func (l *NoopLogger) Infof(_ string, _ ...any)  {}
func (l *NoopLogger) Debugf(_ string, _ ...any) {}

// ZerologLogger adapts a zerolog.Logger to [RequestLogger].
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger returns a [RequestLogger] writing through l.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: l}
}

func (l *ZerologLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l *ZerologLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l *ZerologLogger) Infof(format string, v ...any)  { l.log.Info().Msgf(format, v...) }
func (l *ZerologLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }

const maskValue = "***"

var sensitiveFields = []string{"password", "secret", "token", "authorization", "credential"}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(key, field) {
			return true
		}
	}

	return false
}

// redact returns a copy of data with sensitive values masked, for logging only.
func redact(data url.Values) url.Values {
	masked := make(url.Values, len(data))

	for key, values := range data {
		if isSensitiveField(key) {
			masked[key] = []string{maskValue}
			continue
		}
		masked[key] = values
	}

	return masked
}

// redactURL masks sensitive query values of rawURL.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		base, _, _ := strings.Cut(rawURL, "?")
		return base
	}

	if u.RawQuery == "" {
		return rawURL
	}

	u.RawQuery = redact(u.Query()).Encode()

	return u.String()
}

// redactError masks the query of a *url.Error in err's chain, which the HTTP
// transport fills with the full request URL including the access token.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}

	return err
}
