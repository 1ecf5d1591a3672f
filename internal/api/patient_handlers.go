package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/auth"
	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/service"
)

// PatientHandler covers the authenticated patient surface: booking, the
// cart/checkout flow and cancellations.
type PatientHandler struct {
	Booking *service.BookingService
	Admin   *service.AdminService
}

func NewPatientHandler(booking *service.BookingService, admin *service.AdminService) *PatientHandler {
	return &PatientHandler{Booking: booking, Admin: admin}
}

func (h *PatientHandler) BookSlots(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	c, err := h.Booking.BookSlots(r.Context(), viewer.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConsultationResponse(c))
}

func (h *PatientHandler) ListMyConsultations(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	consultations, err := h.Booking.ListMyConsultations(viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withDoctorNames(consultations))
}

func (h *PatientHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	items, err := h.Booking.ListCart(viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withDoctorNames(items))
}

func (h *PatientHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	if err := h.Booking.RemoveCartItem(r.Context(), viewer.UserID, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart item removed"})
}

func (h *PatientHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	resp, err := h.Booking.Checkout(r.Context(), viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PatientHandler) CancelConsultation(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	if err := h.Booking.Cancel(r.Context(), viewer.UserID, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "consultation cancelled"})
}

// withDoctorNames joins the doctor directory onto consultation rows.
func (h *PatientHandler) withDoctorNames(consultations []db.Consultation) []entities.ConsultationResponse {
	names := map[string]string{}
	if doctors, err := h.Admin.ListDoctors(); err == nil {
		for i := range doctors {
			names[doctors[i].ID] = doctors[i].FullName
		}
	}
	out := make([]entities.ConsultationResponse, 0, len(consultations))
	for i := range consultations {
		resp := toConsultationResponse(&consultations[i])
		resp.DoctorName = names[consultations[i].DoctorID]
		out = append(out, resp)
	}
	return out
}
