package service

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"

	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/repository"
)

const documentFolder = "medibook/consultations"

// UploadFile is one incoming multipart file.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DocumentService stores consultation documents in Cloudinary and records
// their metadata. Files are uploaded one by one; a failure is reported for
// that file only and already-uploaded files stay attached.
type DocumentService struct {
	Cloud         *cloudinary.Cloudinary
	Documents     *repository.DocumentRepository
	Consultations ConsultationStore
}

func NewDocumentService(cloud *cloudinary.Cloudinary, documents *repository.DocumentRepository, consultations ConsultationStore) *DocumentService {
	return &DocumentService{Cloud: cloud, Documents: documents, Consultations: consultations}
}

// UploadDocuments attaches files to a consultation. The caller must be the
// booking patient or the consultation's doctor.
func (s *DocumentService) UploadDocuments(ctx context.Context, userID, role, consultationID string, files []UploadFile) ([]entities.UploadStep, error) {
	if len(files) == 0 {
		return nil, errors.ErrBadRequest("no files provided")
	}
	if err := s.authorize(userID, role, consultationID); err != nil {
		return nil, err
	}

	steps := make([]entities.UploadStep, 0, len(files))
	for _, file := range files {
		step := entities.UploadStep{Name: file.Name}
		doc, err := s.uploadOne(ctx, consultationID, file)
		if err != nil {
			step.Error = err.Error()
			log.Error().Err(err).Str("consultation", consultationID).Str("file", file.Name).Msg("document upload failed")
		} else {
			step.Uploaded = true
			step.Document = &entities.DocumentResponse{
				ID:          doc.ID,
				Name:        doc.Name,
				URL:         doc.URL,
				ContentType: doc.ContentType,
				Size:        doc.Size,
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (s *DocumentService) uploadOne(ctx context.Context, consultationID string, file UploadFile) (*db.ConsultationDocument, error) {
	if s.Cloud == nil {
		return nil, fmt.Errorf("document storage not configured")
	}
	result, err := s.Cloud.Upload.Upload(ctx, file.Reader, uploader.UploadParams{
		Folder:       documentFolder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading to cloudinary: %w", err)
	}

	doc := &db.ConsultationDocument{
		ConsultationID: consultationID,
		Name:           file.Name,
		URL:            result.SecureURL,
		ContentType:    file.ContentType,
		Size:           file.Size,
	}
	if err := s.Documents.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(userID, role, consultationID string) ([]db.ConsultationDocument, error) {
	if err := s.authorize(userID, role, consultationID); err != nil {
		return nil, err
	}
	return s.Documents.ListByConsultation(consultationID)
}

func (s *DocumentService) authorize(userID, role, consultationID string) error {
	c, err := s.Consultations.GetByID(consultationID)
	if err != nil {
		return errors.ErrNotFound("consultation not found")
	}
	switch role {
	case db.RoleAdmin:
		return nil
	case db.RoleDoctor:
		if c.DoctorID == userID {
			return nil
		}
	case db.RolePatient:
		if c.PatientID != nil && *c.PatientID == userID {
			return nil
		}
	}
	return errors.ErrForbidden("no access to this consultation")
}
