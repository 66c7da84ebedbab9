package transition

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	id "bigoffice/pkg/domain"
	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/platform/httputil"
	"bigoffice/pkg/requestcontext"
)

// Handler exposes transfer and promotion operations. Mount behind
// RequireAuth; the service re-checks the role on every call.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/officers/{officerID}/transfers", h.handleTransfer)
	r.Post("/officers/{officerID}/promotions", h.handlePromote)
	r.Get("/officers/{officerID}/transfers", h.handleListTransfers)
	r.Get("/officers/{officerID}/promotions", h.handleListPromotions)
}

type transferRequest struct {
	ToOfficeID      string `json:"to_office_id"`
	ToDesignationID string `json:"to_designation_id"`
	EffectiveDate   string `json:"effective_date"`
	OrderRef        string `json:"order_ref"`
	Remarks         string `json:"remarks"`
}

type promotionRequest struct {
	ToDesignationID string `json:"to_designation_id"`
	FromGrade       int    `json:"from_grade"`
	ToGrade         int    `json:"to_grade"`
	NewSalary       int64  `json:"new_salary"`
	EffectiveDate   string `json:"effective_date"`
	OrderRef        string `json:"order_ref"`
	Remarks         string `json:"remarks"`
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*id.Actor, bool) {
	actor, err := httputil.RequireActor(r.Context(), h.logger, requestcontext.RequestID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return actor, true
}

func parseEffectiveDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "effective_date is required")
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "effective_date must be YYYY-MM-DD")
	}
	return t, nil
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.DecodeJSON[transferRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	toOffice, err := id.ParseOfficeID(body.ToOfficeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var toDesignation id.DesignationID
	if body.ToDesignationID != "" {
		if toDesignation, err = id.ParseDesignationID(body.ToDesignationID); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	effective, err := parseEffectiveDate(body.EffectiveDate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	event, err := h.service.Transfer(r.Context(), actor, TransferInput{
		OfficerID:       officerID,
		ToOfficeID:      toOffice,
		ToDesignationID: toDesignation,
		EffectiveDate:   effective,
		OrderRef:        body.OrderRef,
		Remarks:         body.Remarks,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) handlePromote(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.DecodeJSON[promotionRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	toDesignation, err := id.ParseDesignationID(body.ToDesignationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	effective, err := parseEffectiveDate(body.EffectiveDate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	event, err := h.service.Promote(r.Context(), actor, PromotionInput{
		OfficerID:       officerID,
		ToDesignationID: toDesignation,
		FromGrade:       body.FromGrade,
		ToGrade:         body.ToGrade,
		NewSalary:       body.NewSalary,
		EffectiveDate:   effective,
		OrderRef:        body.OrderRef,
		Remarks:         body.Remarks,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.service.Transfers(r.Context(), officerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"transfers": events})
}

func (h *Handler) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.service.Promotions(r.Context(), officerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"promotions": events})
}
