package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/auth"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/service"
)

// DoctorHandler covers the authenticated doctor surface: availability rules,
// absences and the doctor's own agenda.
type DoctorHandler struct {
	Schedule *service.ScheduleService
}

func NewDoctorHandler(schedule *service.ScheduleService) *DoctorHandler {
	return &DoctorHandler{Schedule: schedule}
}

func (h *DoctorHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	var req entities.CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	rule, err := h.Schedule.CreateRule(r.Context(), viewer.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRuleResponse(rule))
}

func (h *DoctorHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	rules, err := h.Schedule.ListRules(viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.AvailabilityRuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, toRuleResponse(&rules[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DoctorHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	if err := h.Schedule.DeleteRule(r.Context(), mux.Vars(r)["id"], viewer.UserID); err != nil {
		writeError(w, r, errors.ErrNotFound(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "availability rule deleted"})
}

// CreateAbsence returns 409 with an AbsenceConflict body when the range
// overlaps booked consultations and confirm_cascade was not set.
func (h *DoctorHandler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	var req entities.CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	resp, err := h.Schedule.CreateAbsence(r.Context(), viewer.UserID, req)
	if err != nil {
		if errors.StatusOf(err) == http.StatusConflict && !req.ConfirmCascade {
			overlapping, cerr := h.Schedule.CountOverlappingBookings(viewer.UserID, req.StartDate, req.EndDate)
			if cerr == nil {
				writeJSON(w, http.StatusConflict, entities.AbsenceConflict{
					Message:              err.Error(),
					OverlappingBookings:  overlapping,
					ConfirmationRequired: true,
				})
				return
			}
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *DoctorHandler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	absences, err := h.Schedule.ListAbsences(viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.AbsenceResponse, 0, len(absences))
	for i := range absences {
		out = append(out, toAbsenceResponse(&absences[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DoctorHandler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	if err := h.Schedule.DeleteAbsence(r.Context(), mux.Vars(r)["id"], viewer.UserID); err != nil {
		writeError(w, r, errors.ErrNotFound(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "absence deleted"})
}

// GetAgenda returns the doctor's own consultations for ?from=...&to=...
func (h *DoctorHandler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, r, errors.ErrBadRequest("from and to query parameters are required"))
		return
	}
	consultations, err := h.Schedule.ListConsultations(viewer.UserID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.ConsultationResponse, 0, len(consultations))
	for i := range consultations {
		out = append(out, toConsultationResponse(&consultations[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
