package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/service"
)

type AdminHandler struct {
	Admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{Admin: admin}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.ListUsers()
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	var req entities.BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	if err := h.Admin.SetBanned(mux.Vars(r)["id"], req.Banned); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"banned": req.Banned})
}

func (h *AdminHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	profile, err := h.Admin.CreateDoctor(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(profile))
}
