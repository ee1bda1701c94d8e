package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/models"
)

// KeyValue is a whole-document key-value area. Get reports found=false for a
// key that was never written.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// StoreObserver receives one callback per load or save.
type StoreObserver interface {
	ObserveStoreOperation(operation, result string)
}

// Operation results reported to the observer.
const (
	ResultOK      = "ok"
	ResultMissing = "missing"
	ResultError   = "error"
)

// RecordStore loads and saves named collections of enrollments. Both
// directions fail soft: problems are logged and reported through the return
// value, never raised.
type RecordStore struct {
	backend  KeyValue
	logger   *zap.Logger
	observer StoreObserver
}

// NewRecordStore constructs a RecordStore over backend.
func NewRecordStore(backend KeyValue, logger *zap.Logger, observer StoreObserver) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{backend: backend, logger: logger, observer: observer}
}

// Load returns the collection, or an empty slice when it is missing or cannot
// be read or decoded.
func (s *RecordStore) Load(ctx context.Context, collection string) []models.Enrollment {
	records, _ := s.load(ctx, collection)
	return records
}

// LoadForUpdate is Load for callers that write the collection back. ok is
// false when the stored document exists but could not be read or decoded, so
// the caller must not save over it. A missing document is an empty
// collection.
func (s *RecordStore) LoadForUpdate(ctx context.Context, collection string) ([]models.Enrollment, bool) {
	return s.load(ctx, collection)
}

func (s *RecordStore) load(ctx context.Context, collection string) ([]models.Enrollment, bool) {
	raw, found, err := s.backend.Get(ctx, collection)
	if err != nil {
		s.logger.Error("record store load failed", zap.String("collection", collection), zap.Error(err))
		s.observe("load", ResultError)
		return []models.Enrollment{}, false
	}
	if !found || len(raw) == 0 {
		s.observe("load", ResultMissing)
		return []models.Enrollment{}, true
	}

	var records []models.Enrollment
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Error("record store decode failed", zap.String("collection", collection), zap.Error(err))
		s.observe("load", ResultError)
		return []models.Enrollment{}, false
	}
	if records == nil {
		records = []models.Enrollment{}
	}
	s.observe("load", ResultOK)
	return records, true
}

// Save replaces the collection. It returns false when nothing was persisted.
func (s *RecordStore) Save(ctx context.Context, collection string, records []models.Enrollment) bool {
	if records == nil {
		records = []models.Enrollment{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		s.logger.Error("record store encode failed", zap.String("collection", collection), zap.Error(err))
		s.observe("save", ResultError)
		return false
	}
	if err := s.backend.Set(ctx, collection, payload); err != nil {
		s.logger.Error("record store save failed",
			zap.String("collection", collection),
			zap.Int("records", len(records)),
			zap.Error(err),
		)
		s.observe("save", ResultError)
		return false
	}
	s.logger.Debug("record store saved", zap.String("collection", collection), zap.Int("records", len(records)))
	s.observe("save", ResultOK)
	return true
}

func (s *RecordStore) observe(operation, result string) {
	if s.observer != nil {
		s.observer.ObserveStoreOperation(operation, result)
	}
}
