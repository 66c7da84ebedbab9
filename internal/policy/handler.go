package policy

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/httputil"
	"bigoffice/pkg/requestcontext"
)

// Handler exposes the admin surface for field access policies.
// Mount it behind RequireAdminToken.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers admin policy routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/field-policies", h.handleList)
	r.Put("/admin/field-policies", h.handleUpsert)
	r.Delete("/admin/field-policies", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	policies, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"policies": policies})
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := httputil.DecodeJSON[FieldAccessPolicy](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.Upsert(ctx, p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	role := id.Role(r.URL.Query().Get("role"))
	field, err := id.ParseField(r.URL.Query().Get("field"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), role, field); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
