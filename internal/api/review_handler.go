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

type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	var req entities.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	review, err := h.Reviews.Create(viewer.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	var req entities.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid request body"))
		return
	}
	if err := h.Reviews.Update(viewer.UserID, mux.Vars(r)["id"], req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "review updated"})
}

func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	reviews, err := h.Reviews.ListMine(viewer.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetForConsultation is public: reviews are visible on doctor pages.
func (h *ReviewHandler) GetForConsultation(w http.ResponseWriter, r *http.Request) {
	review, err := h.Reviews.GetForConsultation(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if review == nil {
		writeError(w, r, errors.ErrNotFound("no review for this consultation"))
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(review))
}
