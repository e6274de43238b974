// Package service runs the kit entry workflow: row entry, finalize into a
// batch, cell edits and the append upload
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldnote/internal/core/batch"
	"fieldnote/internal/core/entry"
	"fieldnote/internal/core/kitid"
	"fieldnote/internal/core/textnorm"
	"fieldnote/internal/modkit/repokit"
	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/platform/logger"
	pnet "fieldnote/internal/platform/net"
	ptime "fieldnote/internal/platform/time"
	"fieldnote/internal/services/api/kits/domain"
	"fieldnote/internal/services/api/kits/repo"
	"fieldnote/internal/services/api/kits/session"
	lookups "fieldnote/internal/services/api/lookups/domain"
)

// Service defines the kits contract
type Service interface{ domain.ServicePort }

// uploadFailed is all the client learns about a store failure; the cause is logged
const uploadFailed = "upload failed, nothing was written; try again or contact the data team"

// uploadAttempts bounds retries of a transaction that hit a transient store error
const uploadAttempts = 3

// Options tune the workflow
type Options struct {
	Policy     entry.Policy
	SessionTTL time.Duration
	Clock      ptime.Clock
	// Audit receives edit, finalize, load and upload events; nil logs them
	Audit domain.AuditSink
	// Log picks the logger for a call, logger.C when nil
	Log func(ctx context.Context) *logger.Logger
}

// Svc implements Service
type Svc struct {
	db       repokit.TxRunner
	binder   repokit.Binder[repo.Repo]
	lookups  lookups.ServicePort
	sessions *session.Store
	policy   entry.Policy
	audit    domain.AuditSink
	clock    ptime.Clock
	log      func(ctx context.Context) *logger.Logger
}

// New creates the kits service; db should carry the upload lock hooks
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], lk lookups.ServicePort, o Options) *Svc {
	if db == nil {
		panic("kits.Service requires a non nil TxRunner")
	}
	if lk == nil {
		panic("kits.Service requires the lookups port")
	}
	if o.Policy.CompletionLen <= 0 {
		o.Policy = entry.DefaultPolicy()
	}
	if o.Audit == nil {
		o.Audit = repo.LogAudit{Log: logger.Named("kits")}
	}
	if o.Log == nil {
		o.Log = logger.C
	}
	clock := o.Clock.Or()
	return &Svc{
		db:       db,
		binder:   binder,
		lookups:  lk,
		sessions: session.NewStore(o.SessionTTL, clock),
		policy:   o.Policy,
		audit:    o.Audit,
		clock:    clock,
		log:      o.Log,
	}
}

// Sessions exposes the session store for sweeping
func (s *Svc) Sessions() *session.Store { return s.sessions }

// Open starts a session on the New flow; the header identity wins over a typed user
func (s *Svc) Open(ctx context.Context, who pnet.Identity, in domain.OpenInput) (domain.OpenResult, error) {
	user, locked := who.User, who.Locked && who.User != ""
	if !locked {
		user = textnorm.User(in.User)
	}
	if user == "" {
		return domain.OpenResult{}, perr.WithField(perr.Validationf("user is required when no identity header is present"), "user")
	}

	snap, err := s.lookups.Snapshot(ctx)
	if err != nil {
		return domain.OpenResult{}, err
	}

	st := s.sessions.Create(user, locked, entry.Start())
	s.log(ctx).Debug().Str("session", st.ID).Bool("locked", locked).Msg("session opened")
	return domain.OpenResult{Session: s.view(st, nil), Lookups: snap}, nil
}

// View returns the current state
func (s *Svc) View(ctx context.Context, id string) (domain.SessionView, error) {
	return s.run(ctx, id, func(*session.State) (*domain.Feedback, error) { return nil, nil })
}

// Done closes the entry form; the batch stays until the session expires
func (s *Svc) Done(ctx context.Context, id string) (domain.SessionView, error) {
	return s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		st.Entry = entry.Closed()
		return nil, nil
	})
}

// Reset restarts the New flow inside the same session
func (s *Svc) Reset(ctx context.Context, id string) (domain.SessionView, error) {
	return s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		st.Entry = entry.Start()
		return nil, nil
	})
}

// AddRow appends an empty row
func (s *Svc) AddRow(ctx context.Context, id string) (domain.SessionView, error) {
	return s.apply(ctx, id, entry.Add())
}

// SetRowValue sets the text of the row with index
func (s *Svc) SetRowValue(ctx context.Context, id string, index int, in domain.RowValueInput) (domain.SessionView, error) {
	return s.apply(ctx, id, entry.Input(index, in.Value))
}

// SetRowType sets the type of the row with index
func (s *Svc) SetRowType(ctx context.Context, id string, index int, in domain.RowTypeInput) (domain.SessionView, error) {
	return s.apply(ctx, id, entry.Select(index, in.Type))
}

// DeleteRow removes the row with index; remaining rows keep their indices
func (s *Svc) DeleteRow(ctx context.Context, id string, index int) (domain.SessionView, error) {
	return s.apply(ctx, id, entry.Delete(index))
}

func (s *Svc) apply(ctx context.Context, id string, c entry.Command) (domain.SessionView, error) {
	return s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		st.Entry = entry.Apply(st.Entry, s.policy, c)
		return nil, nil
	})
}

// Finalize validates the rows against kit and replaces the batch with them
// a failed check leaves both the rows and the batch as they were
func (s *Svc) Finalize(ctx context.Context, id string, in domain.FinalizeInput) (domain.SessionView, error) {
	var ev *domain.AuditEvent
	v, err := s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		rows := st.Entry.Filled()
		if err := kitid.Validate(in.KitID, rows); err != nil {
			return nil, err
		}
		if len(batch.Materialize(in.KitID, rows)) == 0 {
			return info("no sampler ids entered, nothing to finalize"), nil
		}
		kit := strings.TrimSpace(in.KitID)
		st.KitID, st.Batch = kit, batch.Materialize(kit, rows)
		msg := fmt.Sprintf("kit %s ready with %d records", kit, len(st.Batch))
		ev = s.event(st, domain.AuditFinalize, msg)
		return success(msg), nil
	})
	s.record(ctx, ev)
	return v, err
}

// Load replaces the batch with the tracked records of a kit (the Update flow)
func (s *Svc) Load(ctx context.Context, id string, in domain.LoadInput) (domain.SessionView, error) {
	var ev *domain.AuditEvent
	v, err := s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		kit := strings.TrimSpace(in.KitID)
		recs, err := repokit.MustBind(s.binder, s.db).Kit(ctx, kit)
		if err != nil {
			s.log(ctx).Error().Err(err).Str("kit_id", kit).Msg("kit read failed")
			return nil, err
		}
		if len(recs) == 0 {
			return info(fmt.Sprintf("no records tracked for kit %s", kit)), nil
		}
		st.KitID, st.Batch = kit, recs
		msg := fmt.Sprintf("loaded %d records of kit %s", len(recs), kit)
		ev = s.event(st, domain.AuditLoad, msg)
		return success(msg), nil
	})
	s.record(ctx, ev)
	return v, err
}

// Edit applies one cell edit to the batch
// a malformed timestamp is reported in the result with Reverted set, not as an error
func (s *Svc) Edit(ctx context.Context, id string, in domain.CellEditInput) (domain.EditResult, error) {
	var (
		res domain.EditResult
		ev  *domain.AuditEvent
	)
	_, err := s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		out, oc, err := batch.Edit(st.Batch, in.Row, batch.Column(in.Column), in.Value)
		if err != nil && !oc.Reverted {
			return nil, err
		}
		res = domain.EditResult{
			Row:      oc.Row,
			Column:   string(oc.Column),
			Record:   &oc.Record,
			Audit:    oc.Audit,
			Notice:   oc.Notice,
			Reverted: oc.Reverted,
			Severity: domain.Success,
		}
		if oc.Reverted {
			res.Severity = domain.Warning
			if e, ok := perr.As(err); ok {
				res.Error, res.Field = e.Message(), e.Field()
			}
		} else {
			st.Batch = out
		}
		ev = s.event(st, domain.AuditEdit, oc.Audit)
		ev.Row, ev.Column, ev.Old, ev.New, ev.Reverted = oc.Row, string(oc.Column), oc.Old, oc.Attempted, oc.Reverted
		return nil, nil
	})
	if err != nil {
		return domain.EditResult{}, err
	}
	s.record(ctx, ev)
	return res, nil
}

// Upload appends the batch records that are neither repeated inside the batch
// nor already tracked. The key read and the append share one transaction
func (s *Svc) Upload(ctx context.Context, id string) (domain.UploadReport, error) {
	var (
		rep domain.UploadReport
		ev  *domain.AuditEvent
	)
	_, err := s.run(ctx, id, func(st *session.State) (*domain.Feedback, error) {
		if blank := batch.BlankSamplers(st.Batch); blank == len(st.Batch) {
			rep = domain.UploadReport{Skipped: []string{}, Internal: []string{}, Existing: []string{},
				Excluded: blank, Message: "batch has no sampler ids, nothing to upload", Severity: domain.Info}
			return nil, nil
		}
		// every cell must parse before anything is written
		if _, err := batch.StoreRows(st.Batch); err != nil {
			return nil, err
		}

		var plan batch.Plan
		inserted := 0
		tx := func(q repokit.Queryer) error {
			inserted = 0
			r := repokit.MustBind(s.binder, q)
			keys, err := r.ExistingKeys(ctx)
			if err != nil {
				return err
			}
			plan = batch.Reconcile(st.Batch, keys)
			if len(plan.Insert) == 0 {
				return nil
			}
			rows, err := batch.StoreRows(plan.Insert)
			if err != nil {
				return err
			}
			inserted, err = r.Insert(ctx, rows)
			return err
		}
		err := s.db.Tx(ctx, tx)
		for try := 1; try < uploadAttempts && perr.IsRetryable(err); try++ {
			s.log(ctx).Warn().Err(err).Int("attempt", try).Msg("upload hit a transient store error, retrying")
			err = s.db.Tx(ctx, tx)
		}
		if perr.IsDuplicateKey(err) {
			s.log(ctx).Warn().Err(err).Str("kit_id", st.KitID).Int("records", len(st.Batch)).Msg("upload raced another writer")
			return nil, perr.Wrap(err, perr.ErrorCodeConflict, "some samples were tracked by another upload meanwhile; nothing was written, upload again")
		}
		if err != nil {
			s.log(ctx).Error().Err(err).Str("kit_id", st.KitID).Int("records", len(st.Batch)).Msg("upload failed")
			rep = domain.UploadReport{Skipped: []string{}, Internal: []string{}, Existing: []string{},
				Message: uploadFailed, Severity: domain.Danger, Error: uploadFailed}
			return nil, nil
		}

		rep = report(plan, inserted)
		ev = s.event(st, domain.AuditUpload, rep.Message)
		return nil, nil
	})
	if err != nil {
		return domain.UploadReport{}, err
	}
	s.record(ctx, ev)
	return rep, nil
}

func report(p batch.Plan, inserted int) domain.UploadReport {
	r := domain.UploadReport{
		Inserted: inserted,
		Skipped:  p.Skipped,
		Internal: p.Internal,
		Existing: p.Existing,
		Excluded: p.Excluded,
		Severity: domain.Success,
	}
	parts := []string{fmt.Sprintf("inserted %d records", inserted)}
	if len(p.Skipped) > 0 {
		r.Severity = domain.Warning
		parts = append(parts, fmt.Sprintf("skipped duplicates: %s", strings.Join(p.Skipped, ", ")))
	}
	if inserted == 0 && len(p.Skipped) > 0 {
		r.Severity = domain.Info
	}
	r.Message = strings.Join(parts, "; ")
	return r
}

// run executes fn under the session lock and renders the resulting view
func (s *Svc) run(ctx context.Context, id string, fn func(st *session.State) (*domain.Feedback, error)) (domain.SessionView, error) {
	ctx = logger.WithSession(ctx, id)
	var fb *domain.Feedback
	st, err := s.sessions.Do(ctx, id, func(st *session.State) error {
		var err error
		fb, err = fn(st)
		return err
	})
	if err != nil {
		return domain.SessionView{}, err
	}
	return s.view(st, fb), nil
}

func (s *Svc) view(st session.State, fb *domain.Feedback) domain.SessionView {
	b := st.Batch
	if b == nil {
		b = []batch.Record{}
	}
	return domain.SessionView{
		ID:            st.ID,
		User:          st.User,
		Locked:        st.Locked,
		Rows:          st.Entry.Rows,
		Next:          st.Entry.Next,
		KitID:         st.KitID,
		Batch:         b,
		UploadEnabled: len(b) > 0,
		Feedback:      fb,
		ExpiresAt:     s.sessions.ExpiresAt(st),
	}
}

func (s *Svc) event(st *session.State, kind domain.AuditKind, msg string) *domain.AuditEvent {
	return &domain.AuditEvent{
		At:      s.clock(),
		Session: st.ID,
		User:    st.User,
		Kind:    kind,
		KitID:   st.KitID,
		Message: msg,
	}
}

// record sends ev to the audit sink outside the session lock; sink errors are logged only
func (s *Svc) record(ctx context.Context, ev *domain.AuditEvent) {
	if ev == nil {
		return
	}
	if err := s.audit.Record(ctx, *ev); err != nil {
		s.log(ctx).Warn().Err(err).Str("kind", string(ev.Kind)).Msg("audit write failed")
	}
}

func info(msg string) *domain.Feedback { return &domain.Feedback{Message: msg, Severity: domain.Info} }

func success(msg string) *domain.Feedback {
	return &domain.Feedback{Message: msg, Severity: domain.Success}
}
