package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

type fakeLeaderboard struct {
	lb   services.Leaderboard
	err  error
	last services.LeaderboardQuery
}

func (f *fakeLeaderboard) Get(_ context.Context, q services.LeaderboardQuery) (services.Leaderboard, error) {
	f.last = q
	return f.lb, f.err
}

type fakeSyncer struct {
	res   services.SyncResult
	err   error
	calls int
}

func (f *fakeSyncer) Sync(context.Context) (services.SyncResult, error) {
	f.calls++
	return f.res, f.err
}

func sample() services.Leaderboard {
	return services.Leaderboard{
		Table: table.Table{
			Cols: []string{"Name", "Karma"},
			Rows: []table.Row{
				{table.Text("Ann"), table.Number(150)},
				{table.Text("Bob"), table.Null},
			},
		},
		Spec:    "Name,Karma,nope",
		Dropped: []string{"nope"},
	}
}

func newTestServer(lb LeaderboardReader, s Syncer, token string) *Server {
	return NewServer(":0", logging.Nop(), lb, s, token, prometheus.NewRegistry())
}

func do(t *testing.T, h http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLeaderboardJSON_Golden(t *testing.T) {
	lb := &fakeLeaderboard{lb: sample()}
	h := newTestServer(lb, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/api/leaderboard?cols=Name,Karma,nope&view=sprint", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, services.LeaderboardQuery{Cols: "Name,Karma,nope", View: "sprint"}, lb.last)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "leaderboard", rec.Body.Bytes())
}

func TestLeaderboardJSON_EmptyListsAreNotNull(t *testing.T) {
	h := newTestServer(&fakeLeaderboard{}, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/api/leaderboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cols":[],"rows":[],"dropped":[]}`, rec.Body.String())
}

func TestLeaderboardJSON_SourceFailure(t *testing.T) {
	err := &common.FetchError{Resource: common.ResourceSheet, Err: errors.New("boom")}
	h := newTestServer(&fakeLeaderboard{err: err}, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/api/leaderboard", nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "boom")
	assert.Equal(t, []any{}, body["dropped"])
}

func TestIndex_RendersRankedRows(t *testing.T) {
	lb := services.Leaderboard{
		Table: table.Table{
			Cols: []string{"fullname", "muid", "level", "karma"},
			Rows: []table.Row{
				{table.Text("Ann"), table.Text("ann@mulearn"), table.Text("lvl3"), table.Number(150)},
				{table.Text("Bob"), table.Null, table.Null, table.Null},
			},
		},
	}
	h := newTestServer(&fakeLeaderboard{lb: lb}, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "01")
	assert.Contains(t, body, "02")
	assert.Contains(t, body, "Ann")
	assert.Contains(t, body, "ann@mulearn")
	assert.Contains(t, body, "150")
	assert.Contains(t, body, "—")
	assert.Less(t, strings.Index(body, "Ann"), strings.Index(body, "Bob"))
	assert.NotContains(t, body, "No data found.")
}

func TestIndex_EmptyState(t *testing.T) {
	tests := []struct {
		name     string
		lb       *fakeLeaderboard
		wantHint bool
		wantErr  string
	}{
		{name: "no rows, no spec", lb: &fakeLeaderboard{}},
		{name: "no rows with spec", lb: &fakeLeaderboard{lb: services.Leaderboard{Spec: "1,4"}}, wantHint: true},
		{
			name:     "source failure",
			lb:       &fakeLeaderboard{lb: services.Leaderboard{Spec: "1"}, err: errors.New("sheet unreachable")},
			wantHint: true,
			wantErr:  "sheet unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(tt.lb, &fakeSyncer{}, "").Handler()

			rec := do(t, h, http.MethodGet, "/", nil)

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "No data found.")
			assert.Equal(t, tt.wantHint, strings.Contains(body, "Try adjusting the ?cols=... parameter"))
			if tt.wantErr != "" {
				assert.Contains(t, body, tt.wantErr)
			}
		})
	}
}

func TestLeaderboardXLSX(t *testing.T) {
	h := newTestServer(&fakeLeaderboard{lb: sample()}, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/leaderboard.xlsx", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsxSheet}, f.GetSheetList())
	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Name", "Karma"}, rows[0])
	assert.Equal(t, []string{"1", "Ann", "150"}, rows[1])
	assert.Equal(t, "Bob", rows[2][1])
}

func TestSync(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		header     string
		syncer     *fakeSyncer
		wantStatus int
		wantCalls  int
		wantBody   string
	}{
		{
			name:       "no token configured",
			syncer:     &fakeSyncer{res: services.SyncResult{RunID: "r1", Students: 2}},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   "Successfully updated 2 students and campus details.",
		},
		{
			name:       "valid bearer",
			token:      "s3cret",
			header:     "Bearer s3cret",
			syncer:     &fakeSyncer{res: services.SyncResult{RunID: "r1", Students: 5}},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "wrong bearer",
			token:      "s3cret",
			header:     "Bearer nope",
			syncer:     &fakeSyncer{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header",
			token:      "s3cret",
			syncer:     &fakeSyncer{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "sync failure",
			syncer:     &fakeSyncer{err: common.ErrAuth},
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
			wantBody:   common.ErrAuth.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeLeaderboard{}, tt.syncer, tt.token).Handler()
			hdr := map[string]string{}
			if tt.header != "" {
				hdr["Authorization"] = tt.header
			}

			rec := do(t, h, http.MethodPost, "/sync", hdr)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.syncer.calls)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSync_GetNotAllowed(t *testing.T) {
	h := newTestServer(&fakeLeaderboard{}, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/sync", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(&fakeLeaderboard{}, &fakeSyncer{}, "").Handler()

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", logging.Nop(), &fakeLeaderboard{}, &fakeSyncer{}, "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}


func TestIndex_LinksKeepColumns(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{
			name:   "no query",
			target: "/",
			want:   []string{`href="/"`, `href="/?view=sprint"`, `href="/leaderboard.xlsx"`},
		},
		{
			name:   "cols kept across views and download",
			target: "/?cols=1,4&view=sprint",
			want: []string{
				`href="/?cols=1%2C4"`,
				`href="/?cols=1%2C4&amp;view=sprint"`,
				`href="/leaderboard.xlsx?cols=1%2C4&amp;view=sprint"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeLeaderboard{lb: sample()}, &fakeSyncer{}, "").Handler()

			rec := do(t, h, http.MethodGet, tt.target, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			for _, w := range tt.want {
				assert.Contains(t, rec.Body.String(), w)
			}
		})
	}
}
