package client

import (
	"context"
	"errors"
)

// ShortLink is the data of a v3 shorten response.
type ShortLink struct {
	URL        string `json:"url"`
	Hash       string `json:"hash"`
	GlobalHash string `json:"global_hash"`
	LongURL    string `json:"long_url"`
	NewHash    int    `json:"new_hash"`
}

// ExpandedLink is one entry of a v3 expand response.
type ExpandedLink struct {
	ShortURL   string `json:"short_url"`
	LongURL    string `json:"long_url"`
	UserHash   string `json:"user_hash"`
	GlobalHash string `json:"global_hash"`
	Error      string `json:"error"`
}

// Shorten creates a short link for longURL.
func (c *Client) Shorten(ctx context.Context, longURL string) (*ShortLink, error) {
	if longURL == "" {
		return nil, errors.New("long URL cannot be empty")
	}

	result, err := c.Path("shorten").Call(ctx, Params{"longUrl": longURL})
	if err != nil {
		return nil, err
	}

	var link ShortLink
	if err := result.Decode(&link); err != nil {
		return nil, &DecodeError{Body: result.String(), Err: err}
	}

	return &link, nil
}

// Expand resolves one or more short URLs. Unknown links are returned with
// Error set rather than failing the whole call.
func (c *Client) Expand(ctx context.Context, shortURLs ...string) ([]ExpandedLink, error) {
	if len(shortURLs) == 0 {
		return nil, errors.New("short URL list cannot be empty")
	}

	result, err := c.Path("expand").Call(ctx, Params{"shortUrl": shortURLs})
	if err != nil {
		return nil, err
	}

	var data struct {
		Expand []ExpandedLink `json:"expand"`
	}
	if err := result.Decode(&data); err != nil {
		return nil, &DecodeError{Body: result.String(), Err: err}
	}

	return data.Expand, nil
}
