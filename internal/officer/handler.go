package officer

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

// Handler exposes the officer read and mutation surface. Reads go through the
// record filter; raw records never reach the response writer.
type Handler struct {
	service *Service
	filter  *FilterService
	logger  *slog.Logger
}

func NewHandler(service *Service, filter *FilterService, logger *slog.Logger) *Handler {
	return &Handler{service: service, filter: filter, logger: logger}
}

// RegisterReads mounts the read routes (anonymous viewers allowed; the filter
// decides what they see).
func (h *Handler) RegisterReads(r chi.Router) {
	r.Get("/officers/{officerID}", h.handleGet)
}

// RegisterWrites mounts the mutation routes. Mount behind RequireAuth.
func (h *Handler) RegisterWrites(r chi.Router) {
	r.Post("/officers", h.handleCreate)
	r.Put("/officers/{officerID}", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	o, err := h.service.Get(ctx, officerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view := h.filter.Filter(ctx, o, requestcontext.Actor(ctx), FilterOptions{
		Mask:        true,
		Audit:       true,
		UnmaskHints: r.URL.Query().Get("unmask_hints") == "1",
	})
	if view == nil {
		// Hidden records are indistinguishable from missing ones.
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "officer not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// officerRequest is the mutation payload. Posting fields (office,
// designation, grade) are absent: those change only through transfers and
// promotions.
type officerRequest struct {
	FullName         string `json:"full_name"`
	PersonalMobile   string `json:"personal_mobile"`
	OfficePhone      string `json:"office_phone"`
	PersonalEmail    string `json:"personal_email"`
	OfficialEmail    string `json:"official_email"`
	NationalID       string `json:"national_id"`
	PassportNo       string `json:"passport_no"`
	TIN              string `json:"tin"`
	DateOfBirth      string `json:"date_of_birth"`
	BloodGroup       string `json:"blood_group"`
	MaritalStatus    string `json:"marital_status"`
	PermanentAddress string `json:"permanent_address"`
	BankAccount      string `json:"bank_account"`
	PhoneVisibility  string `json:"phone_visibility"`
	EmailVisibility  string `json:"email_visibility"`
	NIDVisibility    string `json:"nid_visibility"`
	ProfilePublished bool   `json:"profile_published"`
}

func (req *officerRequest) toOfficer() (*Officer, error) {
	o := &Officer{
		FullName:         req.FullName,
		PersonalMobile:   req.PersonalMobile,
		OfficePhone:      req.OfficePhone,
		PersonalEmail:    req.PersonalEmail,
		OfficialEmail:    req.OfficialEmail,
		NationalID:       req.NationalID,
		PassportNo:       req.PassportNo,
		TIN:              req.TIN,
		BloodGroup:       req.BloodGroup,
		MaritalStatus:    req.MaritalStatus,
		PermanentAddress: req.PermanentAddress,
		BankAccount:      req.BankAccount,
		PhoneVisibility:  id.VisibilityLevel(req.PhoneVisibility),
		EmailVisibility:  id.VisibilityLevel(req.EmailVisibility),
		NIDVisibility:    id.VisibilityLevel(req.NIDVisibility),
		ProfilePublished: req.ProfilePublished,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
		}
		o.DateOfBirth = dob
	}
	for _, level := range []id.VisibilityLevel{o.PhoneVisibility, o.EmailVisibility, o.NIDVisibility} {
		if level != "" && !level.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, "unknown visibility level")
		}
	}
	return o, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx, h.logger, requestcontext.RequestID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[officerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	o, err := req.toOfficer()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.service.Create(ctx, actor, o)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view := h.filter.Filter(ctx, created, actor, FilterOptions{Mask: true})
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx, h.logger, requestcontext.RequestID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[officerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	o, err := req.toOfficer()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	o.ID = officerID

	updated, err := h.service.Update(ctx, actor, o)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view := h.filter.Filter(ctx, updated, actor, FilterOptions{Mask: true})
	httputil.WriteJSON(w, http.StatusOK, view)
}
