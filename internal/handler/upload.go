package handler

import (
	"net/http"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/service"
)

// maxUploadBatch caps POST /api/upload/files at ten files per request.
const maxUploadBatch = 10

type UploadHandler struct {
	uploads  *service.UploadService
	maxBytes int64
}

func NewUploadHandler(uploads *service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploads:  uploads,
		maxBytes: maxBytes,
	}
}

// Upload handles POST /api/upload: one multipart file field named "file".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.Validation("file", "a file field is required"))
		return
	}
	defer file.Close()

	result, err := h.uploads.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "upload successful", uploadResponse(result))
}

// UploadMany handles POST /api/upload/files: up to ten multipart files in
// the "files" field, stored in request order. The batch is all-or-nothing
// from the client's view; a bad file fails the request before later files
// are read.
func (h *UploadHandler) UploadMany(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes*maxUploadBatch)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, apperror.Validation("files", "a files field is required"))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, apperror.Validation("files", "a files field is required"))
		return
	}
	if len(headers) > maxUploadBatch {
		writeError(w, apperror.Validation("files", "at most 10 files per upload"))
		return
	}

	results := make([]map[string]any, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, apperror.Validation("files", "unreadable file in upload"))
			return
		}

		result, err := h.uploads.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
		file.Close()
		if err != nil {
			writeError(w, err)
			return
		}
		results = append(results, uploadResponse(result))
	}

	writeJSON(w, http.StatusOK, "upload successful", results)
}

func uploadResponse(result *service.UploadResult) map[string]any {
	return map[string]any{
		"url":  result.URL,
		"type": result.Type,
		"size": result.Size,
	}
}
