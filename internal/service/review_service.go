package service

import (
	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
)

// ReviewService lets patients rate consultations they attended. One review
// per consultation; only the booking patient may write it, and only once the
// consultation is over.
type ReviewService struct {
	Reviews       ReviewStore
	Consultations ConsultationStore
}

func NewReviewService(reviews ReviewStore, consultations ConsultationStore) *ReviewService {
	return &ReviewService{Reviews: reviews, Consultations: consultations}
}

func (s *ReviewService) Create(patientID string, req entities.ReviewRequest) (*db.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.ErrBadRequest("rating must be between 1 and 5")
	}

	c, err := s.Consultations.GetByID(req.ConsultationID)
	if err != nil {
		return nil, errors.ErrNotFound("consultation not found")
	}
	if c.PatientID == nil || *c.PatientID != patientID {
		return nil, errors.ErrForbidden("not your consultation")
	}
	if c.Status == db.StatusCancelled {
		return nil, errors.ErrConflict("cancelled consultations cannot be reviewed")
	}
	if !c.IsPaid {
		return nil, errors.ErrConflict("unpaid consultations cannot be reviewed")
	}
	// The sweeper may not have flipped the status yet, so compare against the
	// clock rather than requiring COMPLETED.
	now := nowFunc()
	endsAt := c.Date + " " + c.EndTime
	if c.Status != db.StatusCompleted && endsAt > now.Format("2006-01-02 15:04:05") {
		return nil, errors.ErrConflict("the consultation has not ended yet")
	}

	existing, err := s.Reviews.GetByConsultation(req.ConsultationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrConflict("this consultation already has a review")
	}

	review := &db.Review{
		ConsultationID: req.ConsultationID,
		PatientID:      patientID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}
	if err := s.Reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(patientID, reviewID string, req entities.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return errors.ErrBadRequest("rating must be between 1 and 5")
	}
	if err := s.Reviews.Update(reviewID, patientID, req.Rating, req.Comment); err != nil {
		return errors.ErrNotFound(err.Error())
	}
	return nil
}

func (s *ReviewService) ListMine(patientID string) ([]db.Review, error) {
	return s.Reviews.ListByPatient(patientID)
}

func (s *ReviewService) GetForConsultation(consultationID string) (*db.Review, error) {
	return s.Reviews.GetByConsultation(consultationID)
}
