// Package function exposes the sync pass as an AWS Lambda handler behind
// API Gateway, so it can run on a schedule or on demand without the server.
package function

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
)

// Syncer runs one sync pass.
type Syncer interface {
	Sync(ctx context.Context) (services.SyncResult, error)
}

type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type response struct {
	Message string `json:"message,omitempty"`
	Count   int    `json:"count,omitempty"`
	RunID   string `json:"run_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// New returns a handler that runs s once per invocation. A non-empty token
// must be presented as a bearer Authorization header.
func New(s Syncer, token string, log logging.Logger) Handler {
	log = log.With("module", "lambda")

	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if !authorized(req.Headers, token) {
			return reply(http.StatusUnauthorized, response{Error: common.ErrUnauthorized.Error()}), nil
		}

		res, err := s.Sync(ctx)
		if err != nil {
			log.Error(ctx, "sync failed", "run_id", res.RunID, "error", err)
			return reply(http.StatusInternalServerError, response{RunID: res.RunID, Error: err.Error()}), nil
		}
		return reply(http.StatusOK, response{Message: res.Message(), Count: res.Students, RunID: res.RunID}), nil
	}
}

func authorized(headers map[string]string, token string) bool {
	if token == "" {
		return true
	}
	var value string
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			value = v
			break
		}
	}
	got, ok := strings.CutPrefix(value, "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

func reply(status int, body response) events.APIGatewayProxyResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}
