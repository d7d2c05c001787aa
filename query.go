package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// verbs maps the path names that fix a call's method instead of extending
// its path.
var verbs = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"patch":  http.MethodPatch,
	"delete": http.MethodDelete,
	"head":   http.MethodHead,
}

// Params are the keyword arguments of a call, sent as form fields.
type Params map[string]any

func (p Params) values() url.Values {
	values := make(url.Values, len(p))

	for key, v := range p {
		switch v := v.(type) {
		case nil:
		case string:
			values.Set(key, v)
		case []string:
			values[key] = slices.Clone(v)
		case fmt.Stringer:
			values.Set(key, v.String())
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}

	return values
}

// Query is a not yet executed API call: an immutable path and an optional
// fixed method. Every builder method returns a new Query, so a Query can be
// shared and extended from several places.
//
//	links := c.Path("user", "link_history")
//	res, err := links.Call(ctx, client.Params{"limit": 10})
type Query struct {
	client   *Client
	segments []string
	method   string
}

// Path starts a [Query] at the API root. See [Query.Path].
func (c *Client) Path(names ...string) Query {
	return Query{client: c}.Path(names...)
}

// Path appends each name as a path segment. A name equal to get, post, put,
// patch, delete or head fixes the method instead and is left out of the path.
func (q Query) Path(names ...string) Query {
	next := q.clone()

	for _, name := range names {
		if method, ok := verbs[name]; ok {
			next.method = method
			continue
		}
		next.segments = append(next.segments, name)
	}

	return next
}

// Method fixes the HTTP method of the call.
func (q Query) Method(method string) Query {
	next := q.clone()
	next.method = strings.ToUpper(method)
	return next
}

func (q Query) Get() Query    { return q.Method(http.MethodGet) }
func (q Query) Post() Query   { return q.Method(http.MethodPost) }
func (q Query) Put() Query    { return q.Method(http.MethodPut) }
func (q Query) Patch() Query  { return q.Method(http.MethodPatch) }
func (q Query) Delete() Query { return q.Method(http.MethodDelete) }
func (q Query) Head() Query   { return q.Method(http.MethodHead) }

// String returns the slash-joined path.
func (q Query) String() string {
	return strings.Join(q.segments, "/")
}

// ResolvedMethod returns the fixed method, else the default method of the
// path, else GET.
func (q Query) ResolvedMethod() string {
	if q.method != "" {
		return q.method
	}

	if method, ok := pathMethods[q.String()]; ok {
		return method
	}

	return http.MethodGet
}

// Call sends the request and returns the decoded result.
func (q Query) Call(ctx context.Context, params Params) (Result, error) {
	return q.client.request(ctx, q.String(), q.ResolvedMethod(), params)
}

func (q Query) clone() Query {
	return Query{
		client:   q.client,
		segments: slices.Clone(q.segments),
		method:   q.method,
	}
}
