package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/server/config"
	"github.com/dmitrijs2005/karmaboard/internal/server/metrics"
	"github.com/dmitrijs2005/karmaboard/internal/server/models"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/tables"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

// Leaderboard views.
const (
	ViewAll    = "all"
	ViewSprint = "sprint"
)

// leaderboardColumns are read from the students table in display order;
// karma sits at table.DefaultRankColumn.
var leaderboardColumns = []string{
	models.FieldFullName,
	models.FieldMuid,
	models.FieldLevel,
	models.FieldKarma,
	models.FieldJointDate,
}

// SheetFetcher returns the raw body of a published spreadsheet tab.
type SheetFetcher interface {
	Fetch(ctx context.Context, sheetID, gid string) (string, error)
}

// LeaderboardQuery carries the request parameters. An empty Cols falls back
// to the configured default spec.
type LeaderboardQuery struct {
	Cols string
	View string
}

// Leaderboard is a projected and ranked table ready for display.
type Leaderboard struct {
	table.Table
	// Spec is the projection spec that was in effect, if any.
	Spec string `json:"-"`
	// Dropped lists selectors of Spec that matched no column.
	Dropped []string `json:"dropped"`
}

type LeaderboardService struct {
	source      string
	sheet       SheetFetcher
	sheetID     string
	sheetGID    string
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	defaultCols string
	sprintStart time.Time
	metrics     *metrics.Metrics
	log         logging.Logger
}

// NewLeaderboardService builds the read path. sheet may be nil for the
// database source and db may be nil for the sheet source.
func NewLeaderboardService(cfg *config.Config, sheet SheetFetcher, db dbx.DBTX, rm repomanager.RepositoryManager, m *metrics.Metrics, log logging.Logger) (*LeaderboardService, error) {
	start, err := time.Parse(time.DateOnly, cfg.SprintStart)
	if err != nil {
		return nil, fmt.Errorf("%w: sprint_start: %v", common.ErrConfig, err)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &LeaderboardService{
		source:      cfg.LeaderboardSource,
		sheet:       sheet,
		sheetID:     cfg.SheetID,
		sheetGID:    cfg.SheetGID,
		db:          db,
		repomanager: rm,
		defaultCols: cfg.ProjectionCols,
		sprintStart: start,
		metrics:     m,
		log:         log.With("module", "leaderboard"),
	}, nil
}

// Get loads the leaderboard, narrows it to the requested columns and ranks
// it by karma.
func (s *LeaderboardService) Get(ctx context.Context, q LeaderboardQuery) (Leaderboard, error) {
	spec := q.Cols
	if spec == "" {
		spec = s.defaultCols
	}

	t, err := s.load(ctx, q.View)
	if err != nil {
		return Leaderboard{Spec: spec}, err
	}
	s.metrics.RendersTotal.WithLabelValues(s.source).Inc()

	p := table.Project(t, spec)
	if len(p.Dropped) > 0 {
		s.log.Warn(ctx, "projection tokens matched no column", "spec", spec, "dropped", p.Dropped)
	}

	return Leaderboard{
		Table:   table.Table{Cols: p.Cols, Rows: table.RankBy(p.Rows, table.DefaultRankColumn)},
		Spec:    spec,
		Dropped: p.Dropped,
	}, nil
}

func (s *LeaderboardService) load(ctx context.Context, view string) (table.Table, error) {
	switch s.source {
	case config.SourceSheet:
		body, err := s.sheet.Fetch(ctx, s.sheetID, s.sheetGID)
		if err != nil {
			return table.Table{}, err
		}
		return table.ParseEmbeddedJSON(body)

	case config.SourceDatabase:
		recs, err := s.repomanager.Tables(s.db).Select(ctx, common.TableStudents, leaderboardColumns, tables.Desc(models.FieldKarma))
		if err != nil {
			return table.Table{}, &common.FetchError{Resource: common.ResourceStudents, Err: err}
		}
		if view == ViewSprint {
			recs = s.sprint(recs)
		}
		return recordsTable(recs), nil

	default:
		return table.Table{}, fmt.Errorf("%w: unknown leaderboard source %q", common.ErrConfig, s.source)
	}
}

// sprint keeps students who joined on or after the sprint start. Rows
// without a readable join date are left out.
func (s *LeaderboardService) sprint(recs []models.Record) []models.Record {
	out := recs[:0:0]
	for _, r := range recs {
		d := r.String(models.FieldJointDate)
		if len(d) > len(time.DateOnly) {
			d = d[:len(time.DateOnly)]
		}
		joined, err := time.Parse(time.DateOnly, d)
		if err != nil || joined.Before(s.sprintStart) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func recordsTable(recs []models.Record) table.Table {
	t := table.Table{
		Cols: append([]string(nil), leaderboardColumns...),
		Rows: make([]table.Row, len(recs)),
	}
	for i, r := range recs {
		row := make(table.Row, len(leaderboardColumns))
		for j, c := range leaderboardColumns {
			row[j] = table.ValueOf(r[c])
		}
		t.Rows[i] = row
	}
	return t
}
