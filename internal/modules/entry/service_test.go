package entry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spark-journal/core/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestService returns a service over a throwaway snapshot file with a
// deterministic clock that advances one second per call.
func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(filepath.Join(t.TempDir(), "entries.json"), zap.NewNop())
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	return svc
}

func strptr(s string) *string { return &s }

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

func TestCreate_DefaultsAndID(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Create(&CreateEntryDTO{Title: "T", Content: "C"})
	require.NoError(t, err)

	require.NotEmpty(t, e.ID)
	_, parseErr := uuid.Parse(e.ID)
	require.NoError(t, parseErr, "id must be a UUID")
	require.Equal(t, "T", e.Title)
	require.Equal(t, "C", e.Content)
	require.True(t, strings.HasSuffix(e.CreationDate, "Z"))
	require.True(t, strings.HasSuffix(e.EarliestUnlock, "Z"))
	require.Nil(t, e.UnlockedAt)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := newTestService(t)

	for _, dto := range []*CreateEntryDTO{
		{Title: "", Content: "C"},
		{Title: "T", Content: ""},
		{},
	} {
		_, err := svc.Create(dto)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	}
	require.Empty(t, svc.List(), "no entry may be persisted on validation failure")
}

func TestCreate_NormalizesSuppliedTimestamps(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Create(&CreateEntryDTO{
		Title:          "T",
		Content:        "C",
		CreationDate:   "2024-01-01T00:00:00+00:00",
		EarliestUnlock: "2024-01-01T05:00:00+05:00",
		UnlockedAt:     strptr("2024-01-02T00:00:00"),
	})
	require.NoError(t, err)
	require.Equal(t, "2024-01-01T00:00:00Z", e.CreationDate)
	require.Equal(t, "2024-01-01T00:00:00Z", e.EarliestUnlock)
	require.NotNil(t, e.UnlockedAt)
	require.Equal(t, "2024-01-02T00:00:00Z", *e.UnlockedAt)
}

func TestCreate_KeepsOpaqueMetadata(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Create(&CreateEntryDTO{
		Title:    "T",
		Content:  "C",
		Geofence: map[string]any{"lat": 1.0, "lng": 2.0},
		Weather:  "rainy",
		Emotion:  "calm",
	})
	require.NoError(t, err)
	require.Equal(t, "rainy", e.Weather)
	require.Equal(t, "calm", e.Emotion)
	require.NotNil(t, e.Geofence)
}

func TestGet_MatchesCaseInsensitively(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(&CreateEntryDTO{Title: "T", Content: "C"})
	require.NoError(t, err)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	upper, err := svc.Get(strings.ToUpper(created.ID))
	require.NoError(t, err)
	require.Equal(t, created.ID, upper.ID)
}

func TestGet_UnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(uuid.New().String())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_NormalizesStoredTimestamps(t *testing.T) {
	svc := newTestService(t)

	// Seed a snapshot written by an older client with raw offsets.
	seed := []models.Entry{{
		ID:             "a5e1b2c3-0000-4000-8000-000000000001",
		Title:          "old",
		Content:        "body",
		CreationDate:   "2024-01-01T00:00:00+00:00",
		EarliestUnlock: "2024-01-01T05:00:00+05:00",
		UnlockedAt:     strptr("2024-01-02T00:00:00"),
	}}
	data, err := json.MarshalIndent(seed, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(svc.path, data, 0o644))

	entries := svc.List()
	require.Len(t, entries, 1)
	require.Equal(t, "2024-01-01T00:00:00Z", entries[0].CreationDate)
	require.Equal(t, "2024-01-01T00:00:00Z", entries[0].EarliestUnlock)
	require.Equal(t, "2024-01-02T00:00:00Z", *entries[0].UnlockedAt)
}

func TestList_CorruptSnapshotYieldsEmpty(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, os.WriteFile(svc.path, []byte("not json at all"), 0o644))

	entries := svc.List()
	require.Empty(t, entries)
	require.NotNil(t, entries)
}

func TestUpdate_PartialMergeSemantics(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(&CreateEntryDTO{
		Title:   "T",
		Content: "C",
		Weather: "sunny",
	})
	require.NoError(t, err)

	// Title replaced, content untouched.
	updated, err := svc.Update(created.ID, &UpdateEntryDTO{Title: strptr("New")})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
	require.Equal(t, "C", updated.Content)

	// Empty title is "no change".
	updated, err = svc.Update(created.ID, &UpdateEntryDTO{Title: strptr("")})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)

	// Absent weather key is untouched; present geofence (even null) applies.
	updated, err = svc.Update(created.ID, &UpdateEntryDTO{Geofence: rawJSON(`{"lat":3,"lng":4}`)})
	require.NoError(t, err)
	require.Equal(t, "sunny", updated.Weather)
	require.NotNil(t, updated.Geofence)

	// Explicit null clears geofence.
	updated, err = svc.Update(created.ID, &UpdateEntryDTO{Geofence: rawJSON(`null`)})
	require.NoError(t, err)
	require.Nil(t, updated.Geofence)

	// Changes survive a reload.
	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, "New", got.Title)
	require.Nil(t, got.Geofence)
	require.Equal(t, "sunny", got.Weather)
}

func TestUpdate_EarliestUnlockOnlyWhenNonEmpty(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(&CreateEntryDTO{Title: "T", Content: "C"})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, &UpdateEntryDTO{EarliestUnlock: strptr("")})
	require.NoError(t, err)
	require.Equal(t, created.EarliestUnlock, updated.EarliestUnlock)

	updated, err = svc.Update(created.ID, &UpdateEntryDTO{EarliestUnlock: strptr("2030-01-01T00:00:00+00:00")})
	require.NoError(t, err)
	require.Equal(t, "2030-01-01T00:00:00Z", updated.EarliestUnlock)
}

func TestUpdate_UnlockedAtPresenceSemantics(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(&CreateEntryDTO{Title: "T", Content: "C"})
	require.NoError(t, err)

	// Parseable value sets it.
	updated, err := svc.Update(created.ID, &UpdateEntryDTO{UnlockedAt: rawJSON(`"2024-03-01T00:00:00"`)})
	require.NoError(t, err)
	require.NotNil(t, updated.UnlockedAt)
	require.Equal(t, "2024-03-01T00:00:00Z", *updated.UnlockedAt)

	// Present but empty string: no usable value, left unchanged.
	updated, err = svc.Update(created.ID, &UpdateEntryDTO{UnlockedAt: rawJSON(`""`)})
	require.NoError(t, err)
	require.NotNil(t, updated.UnlockedAt)
	require.Equal(t, "2024-03-01T00:00:00Z", *updated.UnlockedAt)

	// Present non-string value: also left unchanged.
	updated, err = svc.Update(created.ID, &UpdateEntryDTO{UnlockedAt: rawJSON(`false`)})
	require.NoError(t, err)
	require.NotNil(t, updated.UnlockedAt)

	// Explicit null locks the entry again.
	updated, err = svc.Update(created.ID, &UpdateEntryDTO{UnlockedAt: rawJSON(`null`)})
	require.NoError(t, err)
	require.Nil(t, updated.UnlockedAt)
	require.True(t, updated.Locked())
}

func TestUpdate_UnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update(uuid.New().String(), &UpdateEntryDTO{Title: strptr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(&CreateEntryDTO{Title: "T", Content: "C"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(strings.ToUpper(created.ID)))
	_, err = svc.Get(created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, svc.Delete(created.ID), ErrNotFound)
	require.Empty(t, svc.List())
}

func TestDelete_UnknownIDLeavesCollectionIntact(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(&CreateEntryDTO{Title: "T", Content: "C"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(uuid.New().String()), ErrNotFound)
	require.Len(t, svc.List(), 1)
}

func TestUnlock_StampsUnconditionally(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(&CreateEntryDTO{
		Title:          "T",
		Content:        "C",
		EarliestUnlock: "2099-01-01T00:00:00Z", // far future: unlock must not care
	})
	require.NoError(t, err)

	first, err := svc.Unlock(created.ID)
	require.NoError(t, err)
	require.NotNil(t, first.UnlockedAt)
	require.True(t, strings.HasSuffix(*first.UnlockedAt, "Z"))

	second, err := svc.Unlock(created.ID)
	require.NoError(t, err)
	require.NotNil(t, second.UnlockedAt)

	t1, err := time.Parse(time.RFC3339, *first.UnlockedAt)
	require.NoError(t, err)
	t2, err := time.Parse(time.RFC3339, *second.UnlockedAt)
	require.NoError(t, err)
	require.True(t, t2.After(t1), "second unlock must stamp a later time")
}

func TestUnlock_UnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Unlock(uuid.New().String())
	require.ErrorIs(t, err, ErrNotFound)
}
