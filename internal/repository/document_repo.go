package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"medibook/internal/db"
)

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(database *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: database}
}

func (r *DocumentRepository) Create(doc *db.ConsultationDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	query := `
		INSERT INTO consultation_documents (id, consultation_id, name, url, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.DB.QueryRow(query,
		doc.ID, doc.ConsultationID, doc.Name, doc.URL, doc.ContentType, doc.Size,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording document metadata: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListByConsultation(consultationID string) ([]db.ConsultationDocument, error) {
	query := `
		SELECT id, consultation_id, name, url, content_type, size, created_at
		FROM consultation_documents WHERE consultation_id = $1 ORDER BY created_at`
	rows, err := r.DB.Query(query, consultationID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	var docs []db.ConsultationDocument
	for rows.Next() {
		var doc db.ConsultationDocument
		err := rows.Scan(&doc.ID, &doc.ConsultationID, &doc.Name, &doc.URL, &doc.ContentType, &doc.Size, &doc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
