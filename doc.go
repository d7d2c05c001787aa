// Package client provides an HTTP client for the Bitly v3 REST API.
//
// The client wraps [github.com/go-resty/resty/v2] with fixed-delay retries on
// transient network errors, OAuth2 password-grant authentication and
// pluggable logging.
//
// # Basic Usage
//
//	c, err := client.New(client.Credentials{Token: "my-token"},
//	    client.WithRetryCount(5),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = c.WithSession(ctx, func(ctx context.Context) error {
//	    data, err := c.Path("link", "clicks").Call(ctx, client.Params{
//	        "link": "https://bit.ly/abc123",
//	    })
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(data)
//	    return nil
//	})
//
// # Building Requests
//
// [Client.Path] starts a [Query]. Every name appends a path segment, and the
// result is always a new Query; the names get, post, put, patch, delete and
// head fix the HTTP method instead. Without a fixed method the call uses the
// default method of the path (POST for oauth/access_token) or GET.
//
//	c.Path("user", "link_save").Post().Call(ctx, params)
//	c.Path("user", "link_save", "post").Call(ctx, params) // same request
//
// All paths except oauth/access_token are sent below /v3/. For those, a call
// returns only the data field of the response envelope.
//
// # Sessions
//
// Calls are possible only while the client is open. [Client.Open] creates the
// transport session and, when no token was supplied, exchanges the username
// and password for one. [Client.Close] releases the session. Use
// [Client.WithSession] to guarantee the close. Calls outside a session fail
// with [ErrSessionRequired].
//
// # Configuration
//
// Credentials are passed to [New], which fails with [ErrMissingCredentials]
// unless a token or all four password-grant fields are present.
// [CredentialsFromEnv] reads them from BITLY_* environment variables.
// All other configuration is supplied as [Option] functions passed to [New].
// Invalid values are silently ignored and the default is retained.
//
// # Retry Behaviour
//
// Each call is attempted up to [WithRetryCount] times (default 5) with a
// fixed [WithRetryWaitTime] delay (default 1s) after every transient failure.
// [DefaultTransientPolicy] decides what is transient; supply a custom function
// via [WithTransientPolicy] to override it. HTTP errors and API status errors
// are never retried.
//
// # Errors
//
// A non-200 HTTP status yields an [HTTPError] with the raw body. A 200 whose
// envelope status_code is not 200 yields an [APIStatusError]. Transport
// failures yield a [TransportError]; the access token is masked in its text.
// An [APIStatusError] also matches errors.As with an [*HTTPError] target, and
// [StatusCode] extracts the status from either.
//
// # Logging
//
// Implement [RequestLogger] and supply it via [WithRequestLogger] to
// integrate with your logging library, or wrap a zerolog logger with
// [NewZerologLogger]. The default [NoopLogger] discards all log output.
// Passwords, secrets and tokens are masked in request logs.
package client
