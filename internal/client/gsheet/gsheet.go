// Package gsheet fetches a published Google spreadsheet tab through the
// visualization query endpoint, which answers with a JSON table wrapped in a
// JavaScript callback.
package gsheet

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/netx"
)

const DefaultBaseURL = "https://docs.google.com/spreadsheets/d"

type Fetcher struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// URL builds the query address for one sheet tab.
func (f *Fetcher) URL(sheetID, gid string) string {
	q := url.Values{}
	q.Set("tqx", "out:json")
	if gid != "" {
		q.Set("gid", gid)
	}
	return f.baseURL + "/" + url.PathEscape(sheetID) + "/gviz/tq?" + q.Encode()
}

// Fetch returns the raw response body. Failures are *common.FetchError
// naming the sheet resource.
func (f *Fetcher) Fetch(ctx context.Context, sheetID, gid string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(sheetID, gid), nil)
	if err != nil {
		return "", &common.FetchError{Resource: common.ResourceSheet, Err: err}
	}
	body, err := netx.Do(f.http, req)
	if err != nil {
		return "", &common.FetchError{Resource: common.ResourceSheet, Err: err}
	}
	return string(body), nil
}
