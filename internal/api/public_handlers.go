package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/service"
)

// PublicHandler serves the unauthenticated browsing surface: the doctor
// directory, per-doctor slot grids and the price table.
type PublicHandler struct {
	Admin    *service.AdminService
	Schedule *service.ScheduleService
	Booking  *service.BookingService
}

func NewPublicHandler(admin *service.AdminService, schedule *service.ScheduleService, booking *service.BookingService) *PublicHandler {
	return &PublicHandler{Admin: admin, Schedule: schedule, Booking: booking}
}

func (h *PublicHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.Admin.ListDoctors()
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDoctorSchedule resolves the slot grid for ?from=...&to=... (inclusive).
func (h *PublicHandler) GetDoctorSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["id"]
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, r, errors.ErrBadRequest("from and to query parameters are required"))
		return
	}
	days, err := h.Schedule.RangeSchedule(doctorID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *PublicHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.Booking.ListPrices()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prices)
}
