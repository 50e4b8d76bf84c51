package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/server/models"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/tables"
)

type fakeUpstream struct {
	mu sync.Mutex

	token     string
	roster    []byte
	campus    map[string]any
	loginErr  error
	rosterErr error
	campusErr error

	gotUser, gotPassword string
	fetchTokens          []string
}

func (f *fakeUpstream) Login(ctx context.Context, user, password string) (string, error) {
	f.gotUser, f.gotPassword = user, password
	return f.token, f.loginErr
}

func (f *fakeUpstream) FetchRoster(ctx context.Context, token string) ([]byte, error) {
	f.mu.Lock()
	f.fetchTokens = append(f.fetchTokens, token)
	f.mu.Unlock()
	return f.roster, f.rosterErr
}

func (f *fakeUpstream) FetchCampus(ctx context.Context, token string) (map[string]any, error) {
	f.mu.Lock()
	f.fetchTokens = append(f.fetchTokens, token)
	f.mu.Unlock()
	return f.campus, f.campusErr
}

type storeCall struct {
	op    string
	table string
	rows  []models.Record
	key   string
}

type fakeStore struct {
	calls     []storeCall
	failTable string
	failErr   error
	selected  []models.Record
}

func (s *fakeStore) fail(table string) error {
	if table == s.failTable {
		return s.failErr
	}
	return nil
}

func (s *fakeStore) Upsert(ctx context.Context, table string, rows []models.Record, conflictKey string) error {
	s.calls = append(s.calls, storeCall{op: "upsert", table: table, rows: rows, key: conflictKey})
	return s.fail(table)
}

func (s *fakeStore) Insert(ctx context.Context, table string, rows []models.Record) error {
	s.calls = append(s.calls, storeCall{op: "insert", table: table, rows: rows})
	return s.fail(table)
}

func (s *fakeStore) Select(ctx context.Context, table string, columns []string, orderBy ...tables.Order) ([]models.Record, error) {
	s.calls = append(s.calls, storeCall{op: "select", table: table})
	return s.selected, s.fail(table)
}

type fakeRepoManager struct {
	store *fakeStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Tables(dbx.DBTX) tables.Store { return m.store }

// directRunner calls fn without any database handle.
func directRunner(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeArchive struct {
	key  string
	body []byte
	err  error
}

func (a *fakeArchive) Put(ctx context.Context, key string, body []byte) error {
	a.key, a.body = key, body
	return a.err
}

type fakeSheet struct {
	body string
	err  error
}

func (f *fakeSheet) Fetch(ctx context.Context, sheetID, gid string) (string, error) {
	return f.body, f.err
}
