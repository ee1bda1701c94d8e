package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/models"
	appErrors "github.com/noah-isme/matricula-admin/pkg/errors"
)

// ListingConfig tunes ListingService.
type ListingConfig struct {
	Collection      string
	DefaultPageSize int
	PageSizes       []int
	SessionTTL      time.Duration
}

type listingSession struct {
	mu       sync.Mutex
	pipeline *Pipeline
}

// ListingService keeps one Pipeline per browser session. Operations on the
// same session run one at a time.
type ListingService struct {
	store    recordStore
	exports  *ExportService
	sessions *cache.Cache
	create   sync.Mutex
	cfg      ListingConfig
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewListingService constructs ListingService.
func NewListingService(store recordStore, exports *ExportService, cfg ListingConfig, metrics *MetricsService, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Collection == "" {
		cfg.Collection = "matriculas"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if len(cfg.PageSizes) == 0 {
		cfg.PageSizes = []int{5, defaultPageSize, 25, 50}
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaultPageSize
	}
	if exports == nil {
		exports = NewExportService(nil, 0, metrics, logger, nil, nil)
	}
	svc := &ListingService{
		store:    store,
		exports:  exports,
		sessions: cache.New(cfg.SessionTTL, cfg.SessionTTL/2),
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	svc.sessions.OnEvicted(func(string, interface{}) {
		svc.metrics.SetActiveSessions(svc.sessions.ItemCount())
	})
	return svc
}

// NewSessionID returns a fresh listing session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// PageSizes lists the selectable page sizes.
func (s *ListingService) PageSizes() []int {
	return append([]int(nil), s.cfg.PageSizes...)
}

// View returns the current page of the session, creating it from storage on
// first use.
func (s *ListingService) View(ctx context.Context, sessionID string) ListingView {
	var view ListingView
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		view = p.View()
	})
	return view
}

// Reload re-reads the collection and re-applies the session criteria.
func (s *ListingService) Reload(ctx context.Context, sessionID string) ListingView {
	var view ListingView
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		p.Reload(s.store.Load(ctx, s.cfg.Collection))
		view = p.View()
	})
	return view
}

// Filter applies criteria and returns to page 1.
func (s *ListingService) Filter(ctx context.Context, sessionID string, criteria FilterCriteria) ListingView {
	var view ListingView
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		p.ApplyFilter(criteria)
		view = p.View()
	})
	return view
}

// Clear resets the criteria.
func (s *ListingService) Clear(ctx context.Context, sessionID string) ListingView {
	var view ListingView
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		p.ClearFilter()
		view = p.View()
	})
	return view
}

// GoToPage moves the session to page n. ok is false when n is out of range
// and the page was left unchanged.
func (s *ListingService) GoToPage(ctx context.Context, sessionID string, n int) (ListingView, bool) {
	var (
		view ListingView
		ok   bool
	)
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		ok = p.GoToPage(n)
		view = p.View()
	})
	return view, ok
}

// Step moves the session delta pages from its current page, reading and
// moving under one lock. ok is false when the target is out of range.
func (s *ListingService) Step(ctx context.Context, sessionID string, delta int) (ListingView, bool) {
	var (
		view ListingView
		ok   bool
	)
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		ok = p.GoToPage(p.Page() + delta)
		view = p.View()
	})
	return view, ok
}

// SetPageSize switches the page size. Sizes outside the configured list are
// rejected with ErrInvalidPageSize.
func (s *ListingService) SetPageSize(ctx context.Context, sessionID string, size int) (ListingView, error) {
	var (
		view ListingView
		ok   bool
	)
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		ok = p.SetPageSize(size)
		view = p.View()
	})
	if !ok {
		return view, appErrors.ErrInvalidPageSize
	}
	return view, nil
}

// Delete removes id from the stored collection, then reloads the session from
// storage keeping its criteria. The session is untouched when id is unknown
// or the save fails.
func (s *ListingService) Delete(ctx context.Context, sessionID, id string) (ListingView, error) {
	var (
		view ListingView
		err  error
	)
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		stored, ok := s.store.LoadForUpdate(ctx, s.cfg.Collection)
		if !ok {
			err = appErrors.ErrStorage
			view = p.View()
			return
		}
		remaining, found := withoutRecord(stored, id)
		if !found {
			err = appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
			view = p.View()
			return
		}
		if !s.store.Save(ctx, s.cfg.Collection, remaining) {
			err = appErrors.ErrStorage
			view = p.View()
			return
		}
		p.Reload(s.store.Load(ctx, s.cfg.Collection))
		view = p.View()
	})
	if err != nil {
		return view, err
	}
	s.metrics.RecordDeletion()
	s.logger.Info("enrollment deleted", zap.String("enrollment_id", id), zap.Int("stored_total", view.StoredAll))
	return view, nil
}

// Details returns the record with id from the session collection.
func (s *ListingService) Details(ctx context.Context, sessionID, id string) (*models.Enrollment, error) {
	var (
		rec   models.Enrollment
		found bool
	)
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		rec, found = p.Find(id)
	})
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
	}
	return &rec, nil
}

// Edit is a placeholder: it validates the id and always answers with the
// not-implemented notice. No record is modified.
func (s *ListingService) Edit(ctx context.Context, sessionID, id string) error {
	if _, err := s.Details(ctx, sessionID, id); err != nil {
		return err
	}
	return appErrors.ErrNotImplemented
}

// ExportCSV exports the session's filtered view.
func (s *ListingService) ExportCSV(ctx context.Context, sessionID string) (*ExportFile, error) {
	return s.exports.ExportCSV(s.filtered(ctx, sessionID), s.now())
}

// ExportPDF exports the session's filtered view as PDF.
func (s *ListingService) ExportPDF(ctx context.Context, sessionID string) (*ExportFile, error) {
	return s.exports.ExportPDF(s.filtered(ctx, sessionID), s.now())
}

// Export dispatches on format.
func (s *ListingService) Export(ctx context.Context, sessionID, format string) (*ExportFile, error) {
	switch format {
	case "", FormatCSV:
		return s.ExportCSV(ctx, sessionID)
	case FormatPDF:
		return s.ExportPDF(ctx, sessionID)
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "formato de exportación no soportado")
}

// Print renders the printable document for the whole filtered view.
func (s *ListingService) Print(ctx context.Context, sessionID string) ([]byte, error) {
	return s.exports.RenderPrintable(s.filtered(ctx, sessionID), s.now())
}

// StoredCount returns the number of stored enrollments.
func (s *ListingService) StoredCount(ctx context.Context) int {
	return len(s.store.Load(ctx, s.cfg.Collection))
}

// ActiveSessions returns the number of live sessions.
func (s *ListingService) ActiveSessions() int {
	return s.sessions.ItemCount()
}

func (s *ListingService) filtered(ctx context.Context, sessionID string) []models.Enrollment {
	var records []models.Enrollment
	s.withSession(ctx, sessionID, func(p *Pipeline) {
		records = p.Filtered()
	})
	return records
}

func (s *ListingService) withSession(ctx context.Context, sessionID string, fn func(p *Pipeline)) {
	sess := s.session(ctx, sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.pipeline)
}

func (s *ListingService) session(ctx context.Context, sessionID string) *listingSession {
	s.create.Lock()
	defer s.create.Unlock()

	if cached, ok := s.sessions.Get(sessionID); ok {
		sess := cached.(*listingSession)
		s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
		return sess
	}

	records := s.store.Load(ctx, s.cfg.Collection)
	sess := &listingSession{pipeline: NewPipeline(records, s.cfg.DefaultPageSize, s.cfg.PageSizes)}
	s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
	s.metrics.SetActiveSessions(s.sessions.ItemCount())
	s.logger.Debug("listing session created", zap.String("session_id", sessionID), zap.Int("records", len(records)))
	return sess
}
