package unmask

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/httputil"
	"bigoffice/pkg/requestcontext"
)

// Handler exposes the unmask workflow. Mount behind RequireAuth; every route
// needs an authenticated actor.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/officers/{officerID}/unmask-capability", h.handleCapability)
	r.Post("/officers/{officerID}/unmask-requests", h.handleRequest)
	r.Get("/unmask-requests/{requestID}", h.handleGet)
	r.Post("/unmask-requests/{requestID}/verify", h.handleVerify)
	r.Post("/unmask-requests/{requestID}/approve", h.handleApprove)
	r.Post("/unmask-requests/{requestID}/reject", h.handleReject)
	r.Get("/unmask-requests/{requestID}/value", h.handleDisclose)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*id.Actor, bool) {
	actor, err := httputil.RequireActor(r.Context(), h.logger, requestcontext.RequestID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return actor, true
}

type unmaskRequestBody struct {
	Field string `json:"field_name"`
}

type verifyCodeBody struct {
	Code string `json:"code"`
}

func (h *Handler) handleCapability(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	field, err := id.ParseField(r.URL.Query().Get("field"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	capability, err := h.service.CanRequest(r.Context(), actor, field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, capability)
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.DecodeJSON[unmaskRequestBody](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	field, err := id.ParseField(body.Field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := h.service.Request(r.Context(), actor, officerID, field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requestID, err := id.ParseUnmaskRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := h.service.Get(r.Context(), actor, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requestID, err := id.ParseUnmaskRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.DecodeJSON[verifyCodeBody](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	req, err := h.service.VerifyCode(r.Context(), actor, requestID, body.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.service.Reject)
}

func (h *Handler) handleDecision(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, approver *id.Actor, requestID id.UnmaskRequestID) (*Request, error),
) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requestID, err := id.ParseUnmaskRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := decide(r.Context(), actor, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) handleDisclose(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requestID, err := id.ParseUnmaskRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	disclosure, err := h.service.Disclose(r.Context(), actor, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, disclosure)
}
