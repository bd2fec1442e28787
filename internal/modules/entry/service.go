package entry

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spark-journal/core/internal/models"
	"github.com/spark-journal/core/internal/pkg/isodate"
	"github.com/spark-journal/core/internal/pkg/snapshot"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no entry matches the given id.
var ErrNotFound = errors.New("entry not found")

// ValidationError rejects a create request with missing required fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Service owns the journal-entry collection. Every operation reloads the
// snapshot file and every mutation rewrites it whole; there is no caching
// between calls and no cross-operation transaction, so concurrent mutating
// callers are last-writer-wins. A deployment with concurrent clients needs a
// serialization point in front of the mutating operations.
type Service struct {
	path string
	log  *zap.Logger
	now  func() time.Time // injectable for deterministic tests
}

// NewService creates a Service persisting to the snapshot file at path.
func NewService(path string, log *zap.Logger) *Service {
	return &Service{path: path, log: log, now: time.Now}
}

// load reads the current collection. An unreadable or corrupt snapshot
// degrades to an empty collection rather than failing the operation.
func (s *Service) load() []models.Entry {
	entries, err := snapshot.Load(s.path)
	if err != nil {
		s.log.Warn("snapshot unreadable, treating collection as empty",
			zap.String("path", s.path), zap.Error(err))
	}
	return entries
}

// indexOf finds an entry by id, case-insensitively.
func indexOf(entries []models.Entry, id string) int {
	for i := range entries {
		if strings.EqualFold(entries[i].ID, id) {
			return i
		}
	}
	return -1
}

// normalizeField canonicalizes one timestamp value, logging when the value
// could not be parsed and only a best-effort form is kept.
func (s *Service) normalizeField(field, value string) string {
	r := isodate.Normalize(value)
	switch r.Kind {
	case isodate.KindFallbackStamped, isodate.KindPassthroughUnparsed:
		s.log.Warn("timestamp did not parse, keeping best-effort value",
			zap.String("field", field),
			zap.String("value", value),
			zap.Stringer("kind", r.Kind))
	}
	return r.Value
}

// normalizeEntry canonicalizes every timestamp field in place. Idempotent.
func (s *Service) normalizeEntry(e *models.Entry) {
	e.CreationDate = s.normalizeField("creationDate", e.CreationDate)
	e.EarliestUnlock = s.normalizeField("earliestUnlock", e.EarliestUnlock)
	if e.UnlockedAt != nil {
		if v := s.normalizeField("unlockedAt", *e.UnlockedAt); v == "" {
			e.UnlockedAt = nil
		} else {
			e.UnlockedAt = &v
		}
	}
}

// List returns all entries with normalized timestamps. It never fails: an
// absent or corrupt store yields an empty slice.
func (s *Service) List() []models.Entry {
	entries := s.load()
	for i := range entries {
		s.normalizeEntry(&entries[i])
	}
	return entries
}

// Get returns the entry whose id matches case-insensitively.
func (s *Service) Get(id string) (*models.Entry, error) {
	entries := s.load()
	idx := indexOf(entries, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	e := entries[idx]
	s.normalizeEntry(&e)
	return &e, nil
}

// Create appends a new entry. Title and content are required; creationDate
// and earliestUnlock default to "now" when absent or unparseable-empty.
func (s *Service) Create(dto *CreateEntryDTO) (*models.Entry, error) {
	if dto.Title == "" || dto.Content == "" {
		return nil, &ValidationError{Msg: "title and content are required"}
	}

	nowStamp := isodate.Stamp(s.now())
	e := models.Entry{
		ID:             uuid.New().String(),
		Title:          dto.Title,
		Content:        dto.Content,
		CreationDate:   s.normalizeField("creationDate", dto.CreationDate),
		Geofence:       dto.Geofence,
		Weather:        dto.Weather,
		Emotion:        dto.Emotion,
		EarliestUnlock: s.normalizeField("earliestUnlock", dto.EarliestUnlock),
	}
	if e.CreationDate == "" {
		e.CreationDate = nowStamp
	}
	if e.EarliestUnlock == "" {
		e.EarliestUnlock = nowStamp
	}
	if dto.UnlockedAt != nil && *dto.UnlockedAt != "" {
		v := s.normalizeField("unlockedAt", *dto.UnlockedAt)
		e.UnlockedAt = &v
	}

	entries := s.load()
	entries = append(entries, e)
	if err := snapshot.Save(s.path, entries); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update applies a field-level merge to an existing entry. Title and content
// only change when the new value is non-empty; geofence, weather and emotion
// change whenever the key is present, with an explicit null clearing them;
// unlockedAt is set by a parseable value, cleared by an explicit null and
// left unchanged by any other present-but-unusable value.
func (s *Service) Update(id string, dto *UpdateEntryDTO) (*models.Entry, error) {
	entries := s.load()
	idx := indexOf(entries, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	e := &entries[idx]

	if dto.Title != nil && *dto.Title != "" {
		e.Title = *dto.Title
	}
	if dto.Content != nil && *dto.Content != "" {
		e.Content = *dto.Content
	}
	if dto.EarliestUnlock != nil && *dto.EarliestUnlock != "" {
		e.EarliestUnlock = s.normalizeField("earliestUnlock", *dto.EarliestUnlock)
	}
	applyOpaque(&e.Geofence, dto.Geofence)
	applyOpaque(&e.Weather, dto.Weather)
	applyOpaque(&e.Emotion, dto.Emotion)
	if present, value := dto.unlockedAtValue(); present {
		if value == nil {
			e.UnlockedAt = nil // explicit null locks the entry again
		} else if *value != "" {
			v := s.normalizeField("unlockedAt", *value)
			e.UnlockedAt = &v
		}
		// present but unusable (e.g. ""): left unchanged
	}

	s.normalizeEntry(e)
	if err := snapshot.Save(s.path, entries); err != nil {
		return nil, err
	}
	out := *e
	return &out, nil
}

// Delete removes the entry permanently. No soft delete.
func (s *Service) Delete(id string) error {
	entries := s.load()
	idx := indexOf(entries, id)
	if idx < 0 {
		return ErrNotFound
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	return snapshot.Save(s.path, entries)
}

// Unlock stamps unlockedAt with "now", overwriting any prior value. The
// stamp is unconditional: earliestUnlock is never consulted, the client owns
// the decision of when an entry may be unlocked.
func (s *Service) Unlock(id string) (*models.Entry, error) {
	entries := s.load()
	idx := indexOf(entries, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	e := &entries[idx]
	stamp := isodate.Stamp(s.now())
	e.UnlockedAt = &stamp

	s.normalizeEntry(e)
	if err := snapshot.Save(s.path, entries); err != nil {
		return nil, err
	}
	out := *e
	return &out, nil
}
