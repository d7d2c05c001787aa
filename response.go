package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/itchyny/gojq"
)

// envelope is the wrapper of every versioned response. The token endpoint
// may omit it entirely.
type envelope struct {
	StatusCode *int            `json:"status_code"`
	StatusText string          `json:"status_txt"`
	Data       json.RawMessage `json:"data"`
}

func decodeResponse(resp *SessionResponse, versioned bool) (Result, error) {
	text := resp.Text()
	if resp.StatusCode != http.StatusOK {
		return Result{}, &HTTPError{StatusCode: resp.StatusCode, Body: text}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return Result{}, &DecodeError{Body: text, Err: err}
	}

	if env.StatusCode == nil {
		if versioned {
			return Result{}, &DecodeError{Body: text, Err: errors.New("missing status_code")}
		}
		return newResult(resp.Body), nil
	}

	if *env.StatusCode != http.StatusOK {
		return Result{}, &APIStatusError{StatusCode: *env.StatusCode, StatusText: env.StatusText}
	}

	if !versioned {
		return newResult(resp.Body), nil
	}

	// An explicit "data": null decodes to the literal null, never to nil.
	if env.Data == nil {
		return Result{}, &DecodeError{Body: text, Err: errors.New("missing data")}
	}

	return newResult(env.Data), nil
}

// Result is an immutable decoded JSON value returned by a successful call:
// the data field of a versioned response, or the whole object returned by
// the token endpoint.
type Result struct {
	raw json.RawMessage
}

var nullJSON = json.RawMessage("null")

func newResult(raw []byte) Result {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Result{raw: nullJSON}
	}

	return Result{raw: bytes.Clone(raw)}
}

// Raw returns a copy of the JSON text.
func (r Result) Raw() json.RawMessage {
	if r.raw == nil {
		return bytes.Clone(nullJSON)
	}
	return bytes.Clone(r.raw)
}

// IsNull reports whether the value is JSON null or absent.
func (r Result) IsNull() bool {
	return r.raw == nil || bytes.Equal(r.raw, nullJSON)
}

// Decode unmarshals the value into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r.Raw(), v)
}

// Value returns the value decoded into maps, slices, strings, float64s and bools.
func (r Result) Value() any {
	var v any
	if err := r.Decode(&v); err != nil {
		return nil
	}
	return v
}

// Get returns the field name of an object value.
func (r Result) Get(name string) (Result, bool) {
	var fields map[string]json.RawMessage
	if err := r.Decode(&fields); err != nil {
		return Result{}, false
	}

	field, ok := fields[name]
	if !ok {
		return Result{}, false
	}

	return newResult(field), true
}

// Query runs a jq expression against the value and returns every output.
func (r Result) Query(expression string) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	values := make([]any, 0)
	iter := code.Run(r.Value())

	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq evaluation failed: %w", err)
		}

		values = append(values, v)
	}

	return values, nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	return r.Raw(), nil
}

// String returns the JSON text.
func (r Result) String() string {
	return string(r.Raw())
}
