package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/httputil"
)

// Handler exposes the audit trail to administrators. Mount behind
// RequireAdminToken.
type Handler struct {
	recorder *Recorder
	logger   *slog.Logger
}

func NewHandler(recorder *Recorder, logger *slog.Logger) *Handler {
	return &Handler{recorder: recorder, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/officers/{officerID}/audit-records", h.handleListByOfficer)
}

func (h *Handler) handleListByOfficer(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	records, err := h.recorder.ListByOfficer(r.Context(), officerID, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}
