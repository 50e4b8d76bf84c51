package function

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
)

type stubSyncer struct {
	res   services.SyncResult
	err   error
	calls int
}

func (s *stubSyncer) Sync(context.Context) (services.SyncResult, error) {
	s.calls++
	return s.res, s.err
}

func decode(t *testing.T, resp events.APIGatewayProxyResponse) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &r))
	return r
}

func TestHandler_Success(t *testing.T) {
	s := &stubSyncer{res: services.SyncResult{RunID: "run-1", Students: 3}}
	h := New(s, "", logging.Nop())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	body := decode(t, resp)
	assert.Equal(t, "Successfully updated 3 students and campus details.", body.Message)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "run-1", body.RunID)
}

func TestHandler_Failure(t *testing.T) {
	s := &stubSyncer{res: services.SyncResult{RunID: "run-2"}, err: &common.FetchError{Resource: common.ResourceCampus, Err: common.ErrMalformedInput}}
	h := New(s, "", logging.Nop())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "fetch error: campus: malformed input", body.Error)
	assert.Equal(t, "run-2", body.RunID)
}

func TestHandler_Token(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "canonical header", headers: map[string]string{"Authorization": "Bearer tok"}, want: http.StatusOK},
		{name: "lowercase header", headers: map[string]string{"authorization": "Bearer tok"}, want: http.StatusOK},
		{name: "wrong token", headers: map[string]string{"Authorization": "Bearer other"}, want: http.StatusUnauthorized},
		{name: "not bearer", headers: map[string]string{"Authorization": "tok"}, want: http.StatusUnauthorized},
		{name: "missing", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSyncer{}
			h := New(s, "tok", logging.Nop())

			resp, err := h(context.Background(), events.APIGatewayProxyRequest{Headers: tt.headers})
			require.NoError(t, err)

			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusUnauthorized {
				assert.Zero(t, s.calls)
			}
		})
	}
}
