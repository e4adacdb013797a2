// internal/app/features/announcements/service.go
package announcements

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/app/store/announcement"
	"github.com/dalemusser/campushub/internal/app/system/isodate"
	"github.com/dalemusser/campushub/internal/domain/models"
)

var (
	// ErrUnauthorized is returned when the acting username does not
	// correspond to a known teacher.
	ErrUnauthorized = errors.New("unknown teacher username")

	// ErrNotFound is returned when no announcement matches the given id.
	ErrNotFound = errors.New("announcement not found")
)

// InvalidInputError carries the client-facing reason for a rejected
// request (bad date format or ordering, malformed announcement id).
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// AnnouncementStore is the persistence surface the service depends on.
// *announcement.Store implements it; tests substitute an in-memory fake.
type AnnouncementStore interface {
	Active(ctx context.Context, nowStamp string) ([]models.Announcement, error)
	All(ctx context.Context) ([]models.Announcement, error)
	Insert(ctx context.Context, a models.Announcement) (models.Announcement, error)
	Update(ctx context.Context, id string, f announcement.UpdateFields) (models.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// TeacherDirectory answers whether a username belongs to a known teacher.
type TeacherDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// Input holds the caller-supplied fields for create and update.
// StartDate is nil when the announcement should be active immediately.
type Input struct {
	Message        string
	ExpirationDate string
	StartDate      *string
	Username       string
}

// Service validates announcement requests and orchestrates the store and
// the teacher directory. It holds no mutable state beyond its
// collaborators; every request samples the clock fresh.
type Service struct {
	store    AnnouncementStore
	teachers TeacherDirectory

	// Now is the clock used for validation and timestamps. Tests may
	// override it; it defaults to time.Now.
	Now func() time.Time
}

// NewService constructs an announcements Service.
func NewService(store AnnouncementStore, teachers TeacherDirectory) *Service {
	return &Service{store: store, teachers: teachers, Now: time.Now}
}

// ListActive returns the announcements whose window contains the current
// time. No authorization required.
func (s *Service) ListActive(ctx context.Context) ([]models.Announcement, error) {
	return s.store.Active(ctx, isodate.FormatStamp(s.Now()))
}

// ListAll returns every announcement, active or not. Requires a known
// teacher username.
func (s *Service) ListAll(ctx context.Context, username string) ([]models.Announcement, error) {
	if err := s.authorize(ctx, username); err != nil {
		return nil, err
	}
	return s.store.All(ctx)
}

// Create validates and persists a new announcement, returning it with its
// assigned id. The caller's date strings are stored verbatim; only
// created_at is generated here.
func (s *Service) Create(ctx context.Context, in Input) (models.Announcement, error) {
	if err := s.authorize(ctx, in.Username); err != nil {
		return models.Announcement{}, err
	}
	if err := validateDates(in.ExpirationDate, in.StartDate, s.Now()); err != nil {
		return models.Announcement{}, err
	}

	a := models.Announcement{
		Message:        in.Message,
		StartDate:      in.StartDate,
		ExpirationDate: in.ExpirationDate,
		CreatedBy:      in.Username,
		CreatedAt:      isodate.FormatStamp(s.Now()),
	}
	return s.store.Insert(ctx, a)
}

// Update overwrites the mutable fields of an existing announcement and
// returns the post-update document as read back from the store.
//
// Order matters for error precedence: authorization first, then date
// validation, then id parsing and the store write.
func (s *Service) Update(ctx context.Context, id string, in Input) (models.Announcement, error) {
	if err := s.authorize(ctx, in.Username); err != nil {
		return models.Announcement{}, err
	}
	if err := validateDates(in.ExpirationDate, in.StartDate, s.Now()); err != nil {
		return models.Announcement{}, err
	}

	updated, err := s.store.Update(ctx, id, announcement.UpdateFields{
		Message:        in.Message,
		StartDate:      in.StartDate,
		ExpirationDate: in.ExpirationDate,
		UpdatedBy:      in.Username,
		UpdatedAt:      isodate.FormatStamp(s.Now()),
	})
	if err != nil {
		return models.Announcement{}, mapStoreErr(err)
	}
	return updated, nil
}

// Delete removes an announcement. Hard delete; no content of the deleted
// document is returned.
func (s *Service) Delete(ctx context.Context, id, username string) error {
	if err := s.authorize(ctx, username); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, username string) error {
	ok, err := s.teachers.Exists(ctx, username)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// validateDates enforces the announcement window invariants: the
// expiration date must parse and lie strictly in the future, and a start
// date, when given, must parse and lie strictly before the expiration.
func validateDates(expiration string, start *string, now time.Time) error {
	exp, err := isodate.Parse(expiration)
	if err != nil {
		return &InvalidInputError{Reason: "Invalid date format"}
	}
	if !exp.After(now) {
		return &InvalidInputError{Reason: "Expiration date must be in the future"}
	}
	if start != nil {
		st, err := isodate.Parse(*start)
		if err != nil {
			return &InvalidInputError{Reason: "Invalid date format"}
		}
		if !st.Before(exp) {
			return &InvalidInputError{Reason: "Start date must be before expiration date"}
		}
	}
	return nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, announcement.ErrInvalidID):
		return &InvalidInputError{Reason: "Invalid announcement ID"}
	case errors.Is(err, announcement.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}
