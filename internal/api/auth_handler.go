package api

import (
	"encoding/json"
	"net/http"

	"medibook/internal/auth"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/service"
)

type AuthHandler struct {
	Service service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	profile, token, err := h.Service.Register(req.FullName, req.Email, req.Phone, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.LoginResponse{
		Token: token,
		User:  toUserResponse(profile),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	profile, token, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.LoginResponse{
		Token: token,
		User:  toUserResponse(profile),
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	profile, err := h.Service.GetProfile(viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(profile))
}
