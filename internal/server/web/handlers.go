package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

type leaderboardResponse struct {
	Cols    []string    `json:"cols"`
	Rows    []table.Row `json:"rows"`
	Dropped []string    `json:"dropped"`
	Error   string      `json:"error,omitempty"`
}

type syncResponse struct {
	Message string `json:"message,omitempty"`
	Count   int    `json:"count,omitempty"`
	RunID   string `json:"run_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func queryOf(r *http.Request) services.LeaderboardQuery {
	q := r.URL.Query()
	return services.LeaderboardQuery{Cols: q.Get("cols"), View: q.Get("view")}
}

// handleIndex never fails the request: a broken source renders the empty
// state with the error shown.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	lb, err := s.leaderboard.Get(r.Context(), queryOf(r))

	data := pageData{
		Rows: lb.Rows,
		Spec: lb.Spec,
		Cols: r.URL.Query().Get("cols"),
		View: r.URL.Query().Get("view"),
	}
	if err != nil {
		s.logger.Error(r.Context(), "leaderboard", "error", err)
		data.Rows = nil
		data.Error = err.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error(r.Context(), "render", "error", err)
	}
}

func (s *Server) handleLeaderboardJSON(w http.ResponseWriter, r *http.Request) {
	lb, err := s.leaderboard.Get(r.Context(), queryOf(r))
	if err != nil {
		s.logger.Error(r.Context(), "leaderboard", "error", err)
		writeJSON(w, http.StatusBadGateway, leaderboardResponse{
			Cols: []string{}, Rows: []table.Row{}, Dropped: []string{}, Error: err.Error(),
		})
		return
	}

	resp := leaderboardResponse{Cols: lb.Cols, Rows: lb.Rows, Dropped: lb.Dropped}
	if resp.Cols == nil {
		resp.Cols = []string{}
	}
	if resp.Rows == nil {
		resp.Rows = []table.Row{}
	}
	if resp.Dropped == nil {
		resp.Dropped = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboardXLSX(w http.ResponseWriter, r *http.Request) {
	lb, err := s.leaderboard.Get(r.Context(), queryOf(r))
	if err != nil {
		s.logger.Error(r.Context(), "leaderboard", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	if err := writeXLSX(w, lb.Table); err != nil {
		s.logger.Error(r.Context(), "xlsx", "error", err)
	}
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, syncResponse{Error: common.ErrUnauthorized.Error()})
		return
	}

	res, err := s.syncer.Sync(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, syncResponse{RunID: res.RunID, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Message: res.Message(), Count: res.Students, RunID: res.RunID})
}

func (s *Server) authorized(r *http.Request) bool {
	if s.syncToken == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.syncToken)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
