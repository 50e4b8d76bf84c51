package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/roster"
	"github.com/dmitrijs2005/karmaboard/internal/server/archive"
	"github.com/dmitrijs2005/karmaboard/internal/server/auth"
	"github.com/dmitrijs2005/karmaboard/internal/server/config"
	"github.com/dmitrijs2005/karmaboard/internal/server/metrics"
	"github.com/dmitrijs2005/karmaboard/internal/server/models"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

// Upstream is the µLearn API as seen by a sync pass.
type Upstream interface {
	Login(ctx context.Context, user, password string) (string, error)
	FetchRoster(ctx context.Context, token string) ([]byte, error)
	FetchCampus(ctx context.Context, token string) (map[string]any, error)
}

// Archiver keeps a copy of the raw roster.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte) error
}

// SyncResult describes a finished pass.
type SyncResult struct {
	RunID    string
	Students int
}

// Message is the caller-facing success text.
func (r SyncResult) Message() string {
	return fmt.Sprintf("Successfully updated %d students and campus details.", r.Students)
}

// SyncService runs one pass: authenticate, fetch roster and campus summary
// concurrently, reshape, then upsert students and append history and the
// campus snapshot. Any failure aborts the pass; there are no retries.
type SyncService struct {
	upstream    Upstream
	repomanager repomanager.RepositoryManager
	run         dbx.Runner
	archive     Archiver
	metrics     *metrics.Metrics
	log         logging.Logger

	user     string
	password string
	comma    rune

	now      func() time.Time
	newRunID func() string
}

// NewSyncService wires a sync pass. run decides the transaction boundary of
// the three writes (dbx.Sequential or dbx.Transactional).
func NewSyncService(upstream Upstream, rm repomanager.RepositoryManager, run dbx.Runner, cfg *config.Config, m *metrics.Metrics, log logging.Logger) *SyncService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &SyncService{
		upstream:    upstream,
		repomanager: rm,
		run:         run,
		metrics:     m,
		log:         log.With("module", "sync"),
		user:        cfg.MulearnUser,
		password:    cfg.MulearnPassword,
		comma:       cfg.Comma(),
		now:         time.Now,
		newRunID:    uuid.NewString,
	}
}

// SetArchive enables best-effort archival of the raw roster.
func (s *SyncService) SetArchive(a Archiver) {
	s.archive = a
}

// Sync runs one pass and returns how many students were written.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	runID := s.newRunID()
	ctx = logging.ContextWith(ctx, "run_id", runID)
	start := s.now()

	n, err := s.sync(ctx, runID)

	s.metrics.SyncDuration.Observe(s.now().Sub(start).Seconds())
	if err != nil {
		s.metrics.SyncRunsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.Error(ctx, "sync failed", "error", err)
		return SyncResult{RunID: runID}, err
	}

	s.metrics.SyncRunsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.metrics.SyncStudentsTotal.Add(float64(n))
	s.log.Info(ctx, "sync finished", "students", n, "elapsed", s.now().Sub(start).String())
	return SyncResult{RunID: runID, Students: n}, nil
}

func (s *SyncService) sync(ctx context.Context, runID string) (int, error) {
	token, err := s.upstream.Login(ctx, s.user, s.password)
	if err != nil {
		return 0, err
	}
	if info, ok := auth.Inspect(token); ok {
		if now := s.now(); info.Expired(now) {
			s.log.Warn(ctx, "upstream token already expired", "subject", info.Subject, "expired_at", info.ExpiresAt)
		} else {
			s.log.Debug(ctx, "upstream token", "subject", info.Subject, "ttl", info.TTL(now).String())
		}
	}
	s.log.Info(ctx, "authenticated")

	var (
		raw    []byte
		campus map[string]any
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.upstream.FetchRoster(gctx, token)
		if err != nil {
			return asFetchError(common.ResourceStudents, err)
		}
		raw = b
		return nil
	})
	g.Go(func() error {
		c, err := s.upstream.FetchCampus(gctx, token)
		if err != nil {
			return asFetchError(common.ResourceCampus, err)
		}
		campus = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	digest := xxh3.Hash(raw)
	s.log.Info(ctx, "fetched", "roster_size", humanize.Bytes(uint64(len(raw))), "roster_xxh3", fmt.Sprintf("%016x", digest))

	if s.archive != nil {
		key := archive.Key(s.now(), runID, digest)
		if err := s.archive.Put(ctx, key, raw); err != nil {
			s.log.Warn(ctx, "roster archive failed", "key", key, "error", err)
		} else {
			s.log.Debug(ctx, "roster archived", "key", key)
		}
	}

	t, err := table.ParseDelimited(string(raw), s.comma)
	if err != nil {
		return 0, err
	}
	students := roster.Students(t)
	history := roster.History(students)
	snapshot := roster.Snapshot(campus)
	s.log.Info(ctx, "parsed", "students", len(students), "columns", len(t.Cols))

	// current is the table being written; begin and commit failures of an
	// atomic run are reported against it.
	current := common.TableStudents
	err = s.run(ctx, func(ctx context.Context, h dbx.DBTX) error {
		store := s.repomanager.Tables(h)

		if err := store.Upsert(ctx, common.TableStudents, students, models.FieldUserID); err != nil {
			return &common.PersistError{Table: common.TableStudents, Err: err}
		}

		current = common.TableKarmaHistory
		rows := make([]models.Record, len(history))
		for i, e := range history {
			rows[i] = e.Record()
		}
		if err := store.Insert(ctx, common.TableKarmaHistory, rows); err != nil {
			return &common.PersistError{Table: common.TableKarmaHistory, Err: err}
		}

		current = common.TableCampus
		if err := store.Insert(ctx, common.TableCampus, []models.Record{snapshot.Record()}); err != nil {
			return &common.PersistError{Table: common.TableCampus, Err: err}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrPersist) {
			err = &common.PersistError{Table: current, Err: err}
		}
		return 0, err
	}
	s.log.Info(ctx, "persisted", "students", len(students), "history", len(history))

	return len(students), nil
}

func asFetchError(resource string, err error) error {
	if errors.Is(err, common.ErrFetch) {
		return err
	}
	return &common.FetchError{Resource: resource, Err: err}
}
