// Package mulearn talks to the µLearn dashboard API: one login call that
// yields a bearer token, then the campus roster (CSV) and campus summary
// (JSON) fetched with that token.
package mulearn

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/netx"
)

const (
	loginPath   = "/auth/user-authentication/"
	rosterPath  = "/dashboard/campus/student-details/csv/"
	campusPath  = "/dashboard/campus/campus-details/"
	contentJSON = "application/json"
)

// Client is safe for concurrent use once constructed.
type Client struct {
	baseURL   string
	tokenPath jp.Expr
	http      *http.Client
}

// New returns a client rooted at baseURL. tokenPath is the JSONPath of the
// access token inside the login response. A nil httpClient uses
// http.DefaultClient.
func New(baseURL, tokenPath string, httpClient *http.Client) (*Client, error) {
	expr, err := jp.ParseString(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w: token path %q: %v", common.ErrConfig, tokenPath, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokenPath: expr,
		http:      httpClient,
	}, nil
}

type loginRequest struct {
	EmailOrMuid string `json:"emailOrMuid"`
	Password    string `json:"password"`
}

// Login exchanges credentials for an access token. Every failure, including
// empty credentials, wraps common.ErrAuth.
func (c *Client) Login(ctx context.Context, user, password string) (string, error) {
	if user == "" || password == "" {
		return "", fmt.Errorf("%w: missing upstream user or password", common.ErrAuth)
	}

	body, err := json.Marshal(loginRequest{EmailOrMuid: user, Password: password})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAuth, err)
	}
	req.Header.Set("Content-Type", contentJSON)

	resp, err := netx.Do(c.http, req)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed: %w", common.ErrAuth, err)
	}

	doc, err := oj.Parse(resp)
	if err != nil {
		return "", fmt.Errorf("%w: login response: %v", common.ErrAuth, err)
	}
	for _, v := range c.tokenPath.Get(doc) {
		if tok, ok := v.(string); ok && tok != "" {
			return tok, nil
		}
	}
	return "", fmt.Errorf("%w: no access token at %s", common.ErrAuth, c.tokenPath)
}

// FetchRoster returns the campus student roster as delimited text.
func (c *Client) FetchRoster(ctx context.Context, token string) ([]byte, error) {
	body, err := c.get(ctx, rosterPath, token)
	if err != nil {
		return nil, &common.FetchError{Resource: common.ResourceStudents, Err: err}
	}
	return body, nil
}

// FetchCampus returns the "response" object of the campus summary.
func (c *Client) FetchCampus(ctx context.Context, token string) (map[string]any, error) {
	body, err := c.get(ctx, campusPath, token)
	if err != nil {
		return nil, &common.FetchError{Resource: common.ResourceCampus, Err: err}
	}

	var payload struct {
		Response map[string]any `json:"response"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: campus payload: %v", common.ErrMalformedInput, err)
	}
	if payload.Response == nil {
		return nil, fmt.Errorf("%w: campus payload has no response object", common.ErrMalformedInput)
	}
	return payload.Response, nil
}

func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return netx.Do(c.http, req)
}
