// Package service caches the reference tables for entry sessions
package service

import (
	"context"
	"sync"
	"time"

	"fieldnote/internal/modkit/repokit"
	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/platform/logger"
	ptime "fieldnote/internal/platform/time"
	"fieldnote/internal/services/api/lookups/domain"
	"fieldnote/internal/services/api/lookups/repo"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Service defines the lookups contract
type Service interface{ domain.ServicePort }

// DefaultTTL is the snapshot freshness when none is configured
const DefaultTTL = 10 * time.Minute

// loadTimeout bounds one shared load of all tables
const loadTimeout = 30 * time.Second

// Options tune the cache
type Options struct {
	// TTL is how long a snapshot is served before the next read reloads it
	TTL   time.Duration
	Clock ptime.Clock
}

// Svc loads all tables at once and serves the snapshot until it goes stale
type Svc struct {
	repo  repo.Repo
	ttl   time.Duration
	clock ptime.Clock
	log   *logger.Logger

	mu    sync.RWMutex
	snap  domain.Snapshot
	valid bool

	group singleflight.Group
}

// New creates the lookups service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], o Options) *Svc {
	if db == nil {
		panic("lookups.Service requires a non nil TxRunner")
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return &Svc{
		repo:  repokit.MustBind(binder, db),
		ttl:   o.TTL,
		clock: o.Clock.Or(),
		log:   logger.Named("lookups"),
	}
}

// Snapshot returns the cached tables, loading them when missing or stale
func (s *Svc) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snap, s.valid && s.clock().Sub(s.snap.LoadedAt) < s.ttl
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// Refresh reloads every table; concurrent callers share one load
// a failed load keeps the previous snapshot in place
func (s *Svc) Refresh(ctx context.Context) (domain.Snapshot, error) {
	v, err, _ := s.group.Do("load", func() (any, error) {
		// shared by every waiting caller, so one caller going away must not cancel it
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		snap, err := s.load(lctx)
		if err != nil {
			s.log.Error().Err(err).Msg("lookup load failed")
			return domain.Snapshot{}, perr.Wrap(err, perr.CodeOf(err), "reference tables could not be read")
		}
		s.mu.Lock()
		s.snap, s.valid = snap, true
		s.mu.Unlock()
		s.log.Info().
			Int("sites", len(snap.Sites)).
			Int("instruments", len(snap.Instruments)).
			Int("flags", len(snap.Flags)).
			Int("users", len(snap.Users)).
			Int("projects", len(snap.Projects)).
			Msg("lookups loaded")
		return snap, nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return v.(domain.Snapshot), nil
}

func (s *Svc) load(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	for t, dst := range map[domain.Table]*[]domain.Record{
		domain.Sites:       &snap.Sites,
		domain.Instruments: &snap.Instruments,
		domain.Flags:       &snap.Flags,
		domain.Users:       &snap.Users,
	} {
		g.Go(func() error {
			recs, err := s.repo.Read(gctx, t)
			*dst = recs
			return err
		})
	}
	g.Go(func() error {
		p, err := s.repo.Projects(gctx)
		snap.Projects = p
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	snap.LoadedAt = s.clock()
	return snap, nil
}
