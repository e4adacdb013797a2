// internal/app/features/announcements/handler.go
package announcements

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/store/announcement"
	teacherstore "github.com/dalemusser/campushub/internal/app/store/teacher"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all announcement HTTP handlers.
type Handler struct {
	Svc *Service
	Log *zap.Logger
}

// NewHandler constructs an announcements Handler backed by the Mongo
// stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: NewService(announcement.New(db), teacherstore.New(db)),
		Log: logger,
	}
}

// announcementJSON is the wire shape of an announcement. The store _id is
// exposed as a hex string; start_date serializes as null when absent.
type announcementJSON struct {
	ID             string  `json:"id"`
	Message        string  `json:"message"`
	StartDate      *string `json:"start_date"`
	ExpirationDate string  `json:"expiration_date"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
	UpdatedBy      string  `json:"updated_by,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

func toJSON(a models.Announcement) announcementJSON {
	return announcementJSON{
		ID:             a.ID.Hex(),
		Message:        a.Message,
		StartDate:      a.StartDate,
		ExpirationDate: a.ExpirationDate,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
		UpdatedBy:      a.UpdatedBy,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toJSONList(anns []models.Announcement) []announcementJSON {
	out := make([]announcementJSON, 0, len(anns))
	for _, a := range anns {
		out = append(out, toJSON(a))
	}
	return out
}

// ListActive handles GET /.
// Returns every announcement whose window contains the current time.
// No authentication required.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	anns, err := h.Svc.ListActive(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSONList(anns))
}

// ListAll handles GET /all?username=...
// Returns every announcement irrespective of active window. Requires a
// known teacher username.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	anns, err := h.Svc.ListAll(ctx, r.FormValue("username"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSONList(anns))
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Svc.Create(ctx, inputFromRequest(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(created))
}

// Update handles PUT /{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Svc.Update(ctx, chi.URLParam(r, "id"), inputFromRequest(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(updated))
}

// Delete handles DELETE /{id}?username=...
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.Delete(ctx, chi.URLParam(r, "id"), r.FormValue("username")); err != nil {
		h.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement deleted successfully"})
}

// inputFromRequest reads the announcement fields from the query string or
// form body. An empty start_date is treated as absent.
func inputFromRequest(r *http.Request) Input {
	in := Input{
		Message:        r.FormValue("message"),
		ExpirationDate: r.FormValue("expiration_date"),
		Username:       r.FormValue("username"),
	}
	if sd := r.FormValue("start_date"); sd != "" {
		in.StartDate = &sd
	}
	return in
}

// renderError maps service errors onto the API's error taxonomy:
// 401 unknown teacher, 400 invalid input, 404 missing announcement,
// 500 for anything unexpected (store faults are not retried or recovered).
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *InvalidInputError
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Reason)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Announcement not found")
	default:
		h.Log.Error("announcement request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
