package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"medibook/internal/auth"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/service"
)

// 10 MiB multipart cap across all files in one request.
const maxUploadBytes = 10 << 20

type DocumentHandler struct {
	Documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Documents: documents}
}

// Upload accepts multipart form uploads under the "files" field and attaches
// them to the consultation. The response carries a per-file outcome.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	consultationID := mux.Vars(r)["id"]

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, errors.ErrBadRequest("invalid multipart body"))
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, r, errors.ErrBadRequest("no files provided"))
		return
	}

	var files []service.UploadFile
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			writeError(w, r, errors.ErrBadRequest("could not read uploaded file "+header.Filename))
			return
		}
		defer f.Close()
		files = append(files, service.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      f,
		})
	}

	steps, err := h.Documents.UploadDocuments(r.Context(), viewer.UserID, viewer.Role, consultationID, files)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, steps)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFrom(r.Context())
	docs, err := h.Documents.ListDocuments(viewer.UserID, viewer.Role, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]entities.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
