package announcements_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/features/announcements"
	"github.com/dalemusser/campushub/internal/app/store/announcement"
	"github.com/dalemusser/campushub/internal/app/system/isodate"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory AnnouncementStore that mirrors the Mongo
// adapter's semantics: hex-string ids, lexicographic comparison of the
// stored ISO date strings against the "now" stamp, and the adapter's
// sentinel errors.
type memStore struct {
	mu   sync.Mutex
	ids  []string
	docs map[string]models.Announcement
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]models.Announcement)}
}

func (m *memStore) Active(ctx context.Context, nowStamp string) ([]models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Announcement, 0)
	for _, id := range m.ids {
		a := m.docs[id]
		if (a.StartDate == nil || *a.StartDate <= nowStamp) && a.ExpirationDate >= nowStamp {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) All(ctx context.Context) ([]models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Announcement, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.docs[id])
	}
	return out, nil
}

func (m *memStore) Insert(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	id := a.ID.Hex()
	m.ids = append(m.ids, id)
	m.docs[id] = a
	return a, nil
}

func (m *memStore) Update(ctx context.Context, id string, f announcement.UpdateFields) (models.Announcement, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return models.Announcement{}, announcement.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.docs[id]
	if !ok {
		return models.Announcement{}, announcement.ErrNotFound
	}
	a.Message = f.Message
	a.StartDate = f.StartDate
	a.ExpirationDate = f.ExpirationDate
	a.UpdatedBy = f.UpdatedBy
	a.UpdatedAt = f.UpdatedAt
	m.docs[id] = a
	return a, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return announcement.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return announcement.ErrNotFound
	}
	delete(m.docs, id)
	for i, existing := range m.ids {
		if existing == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
}

// seed places a document directly in the store, bypassing validation.
func (m *memStore) seed(a models.Announcement) models.Announcement {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	id := a.ID.Hex()
	m.ids = append(m.ids, id)
	m.docs[id] = a
	return a
}

// memTeachers is an in-memory TeacherDirectory.
type memTeachers map[string]bool

func (m memTeachers) Exists(ctx context.Context, username string) (bool, error) {
	return m[username], nil
}

const teacherName = "mrodriguez"

// newTestService returns a service over fresh fakes with a fixed clock.
func newTestService(t *testing.T) (*announcements.Service, *memStore, time.Time) {
	t.Helper()
	store := newMemStore()
	svc := announcements.NewService(store, memTeachers{teacherName: true})
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	svc.Now = func() time.Time { return now }
	return svc, store, now
}

func stamp(t time.Time) string { return isodate.FormatStamp(t) }

// testAnnouncement returns a minimal currently-active announcement for
// seeding directly into the fake store.
func testAnnouncement(now time.Time) models.Announcement {
	return models.Announcement{
		Message:        "Seeded announcement",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		CreatedBy:      teacherName,
		CreatedAt:      stamp(now),
	}
}

func strptr(s string) *string { return &s }

func assertInvalidInput(t *testing.T, err error, reason string) {
	t.Helper()
	var invalid *announcements.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if invalid.Reason != reason {
		t.Errorf("reason: got %q, want %q", invalid.Reason, reason)
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	svc, _, now := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, announcements.Input{
		Message:        "School closes early on Friday",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       teacherName,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID.IsZero() {
		t.Error("created announcement has no id")
	}
	if created.CreatedBy != teacherName {
		t.Errorf("created_by: got %q, want %q", created.CreatedBy, teacherName)
	}
	if created.CreatedAt != stamp(now) {
		t.Errorf("created_at: got %q, want %q", created.CreatedAt, stamp(now))
	}
	if created.StartDate != nil {
		t.Errorf("start_date: got %v, want nil", *created.StartDate)
	}

	all, err := svc.ListAll(ctx, teacherName)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != created.ID {
		t.Errorf("ListAll: got %v, want the created announcement", all)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != created.ID {
		t.Errorf("ListActive: got %v, want the created announcement", active)
	}
}

func TestCreate_StoresDateStringsVerbatim(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), announcements.Input{
		Message:        "Spirit week",
		StartDate:      strptr("2999-01-01T00:00:00Z"),
		ExpirationDate: "2999-01-02T00:00:00Z",
		Username:       teacherName,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := *created.StartDate; got != "2999-01-01T00:00:00Z" {
		t.Errorf("start_date not stored verbatim: %q", got)
	}
	if created.ExpirationDate != "2999-01-02T00:00:00Z" {
		t.Errorf("expiration_date not stored verbatim: %q", created.ExpirationDate)
	}
}

func TestCreate_FutureStartExcludedFromActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, announcements.Input{
		Message:        "Graduation ceremony",
		StartDate:      strptr("2999-01-01T00:00:00Z"),
		ExpirationDate: "2999-01-02T00:00:00Z",
		Username:       teacherName,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("announcement with future start listed as active: %v", active)
	}

	all, err := svc.ListAll(ctx, teacherName)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListAll: got %d announcements, want 1", len(all))
	}
}

func TestCreate_PastExpirationFails(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), announcements.Input{
		Message:        "Too late",
		ExpirationDate: "2000-01-01T00:00:00Z",
		Username:       teacherName,
	})
	assertInvalidInput(t, err, "Expiration date must be in the future")
}

func TestCreate_ExpirationNotStrictlyFutureFails(t *testing.T) {
	svc, _, now := newTestService(t)

	_, err := svc.Create(context.Background(), announcements.Input{
		Message:        "Boundary",
		ExpirationDate: stamp(now),
		Username:       teacherName,
	})
	assertInvalidInput(t, err, "Expiration date must be in the future")
}

func TestCreate_StartNotBeforeExpirationFails(t *testing.T) {
	svc, _, now := newTestService(t)
	exp := stamp(now.Add(1 * time.Hour))

	for _, start := range []string{exp, stamp(now.Add(2 * time.Hour))} {
		_, err := svc.Create(context.Background(), announcements.Input{
			Message:        "Backwards window",
			StartDate:      strptr(start),
			ExpirationDate: exp,
			Username:       teacherName,
		})
		assertInvalidInput(t, err, "Start date must be before expiration date")
	}
}

func TestCreate_BadDateFormat(t *testing.T) {
	svc, _, now := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, announcements.Input{
		Message:        "Bad expiration",
		ExpirationDate: "next tuesday",
		Username:       teacherName,
	})
	assertInvalidInput(t, err, "Invalid date format")

	_, err = svc.Create(ctx, announcements.Input{
		Message:        "Bad start",
		StartDate:      strptr("soon"),
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       teacherName,
	})
	assertInvalidInput(t, err, "Invalid date format")
}

func TestCreate_UnknownUsername(t *testing.T) {
	svc, _, now := newTestService(t)

	_, err := svc.Create(context.Background(), announcements.Input{
		Message:        "Not a teacher",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       "intruder",
	})
	if !errors.Is(err, announcements.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestListAll_UnknownUsername(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.ListAll(context.Background(), "intruder"); !errors.Is(err, announcements.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdate_AuthorizationPrecedesAllValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	// Malformed id and malformed dates must not mask the auth failure.
	_, err := svc.Update(context.Background(), "not-a-hex-id", announcements.Input{
		Message:        "irrelevant",
		ExpirationDate: "garbage",
		Username:       "intruder",
	})
	if !errors.Is(err, announcements.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDelete_AuthorizationPrecedesIDValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	if err := svc.Delete(context.Background(), "not-a-hex-id", "intruder"); !errors.Is(err, announcements.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdate_DateValidationPrecedesIDCheck(t *testing.T) {
	svc, _, _ := newTestService(t)

	// With a malformed id and a past expiration, the date error wins.
	_, err := svc.Update(context.Background(), "not-a-hex-id", announcements.Input{
		Message:        "irrelevant",
		ExpirationDate: "2000-01-01T00:00:00Z",
		Username:       teacherName,
	})
	assertInvalidInput(t, err, "Expiration date must be in the future")
}

func TestUpdate_MalformedID(t *testing.T) {
	svc, _, now := newTestService(t)

	_, err := svc.Update(context.Background(), "not-a-hex-id", announcements.Input{
		Message:        "irrelevant",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       teacherName,
	})
	assertInvalidInput(t, err, "Invalid announcement ID")
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, now := newTestService(t)

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), announcements.Input{
		Message:        "irrelevant",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       teacherName,
	})
	if !errors.Is(err, announcements.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_OverwritesAndStamps(t *testing.T) {
	svc, _, now := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, announcements.Input{
		Message:        "Original message",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       teacherName,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newExp := stamp(now.Add(2 * time.Hour))
	newStart := stamp(now.Add(-1 * time.Hour))
	updated, err := svc.Update(ctx, created.ID.Hex(), announcements.Input{
		Message:        "Revised message",
		StartDate:      &newStart,
		ExpirationDate: newExp,
		Username:       teacherName,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Message != "Revised message" {
		t.Errorf("message: got %q", updated.Message)
	}
	if updated.StartDate == nil || *updated.StartDate != newStart {
		t.Errorf("start_date: got %v, want %q", updated.StartDate, newStart)
	}
	if updated.ExpirationDate != newExp {
		t.Errorf("expiration_date: got %q, want %q", updated.ExpirationDate, newExp)
	}
	if updated.UpdatedBy != teacherName {
		t.Errorf("updated_by: got %q, want %q", updated.UpdatedBy, teacherName)
	}
	if updated.UpdatedAt != stamp(now) {
		t.Errorf("updated_at: got %q, want %q", updated.UpdatedAt, stamp(now))
	}
	// Create-time fields survive the overwrite.
	if updated.CreatedBy != teacherName || updated.CreatedAt != created.CreatedAt {
		t.Errorf("create stamps changed: %+v", updated)
	}
}

func TestDelete_SecondCallNotFound(t *testing.T) {
	svc, _, now := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, announcements.Input{
		Message:        "Ephemeral",
		ExpirationDate: stamp(now.Add(1 * time.Hour)),
		Username:       teacherName,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID.Hex(), teacherName); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID.Hex(), teacherName); !errors.Is(err, announcements.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestDelete_MalformedID(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), "not-a-hex-id", teacherName)
	assertInvalidInput(t, err, "Invalid announcement ID")
}

func TestListActive_WindowBoundaries(t *testing.T) {
	svc, store, now := newTestService(t)
	nowStamp := stamp(now)

	seed := func(name string, start *string, exp string) primitive.ObjectID {
		return store.seed(models.Announcement{
			Message:        name,
			StartDate:      start,
			ExpirationDate: exp,
			CreatedBy:      teacherName,
			CreatedAt:      nowStamp,
		}).ID
	}

	wantActive := map[primitive.ObjectID]bool{
		// No start date, expiration exactly now: active (>= now).
		seed("no-start-boundary-exp", nil, nowStamp): true,
		// Start exactly now: active (<= now).
		seed("start-boundary", &nowStamp, stamp(now.Add(time.Hour))): true,
		// Open window.
		seed("open", strptr(stamp(now.Add(-time.Hour))), stamp(now.Add(time.Hour))): true,
		// Expired.
		seed("expired", nil, stamp(now.Add(-time.Second))): false,
		// Not started yet.
		seed("pending", strptr(stamp(now.Add(time.Second))), stamp(now.Add(time.Hour))): false,
	}

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}

	got := make(map[primitive.ObjectID]bool)
	for _, a := range active {
		got[a.ID] = true
	}
	for id, want := range wantActive {
		if got[id] != want {
			t.Errorf("announcement %s: active=%v, want %v", id.Hex(), got[id], want)
		}
	}
}
