package transport

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"

	"coqueta/internal/domain"
	"coqueta/internal/media"
	"coqueta/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory is how much of a form is kept in memory before spilling to disk
const multipartMemory = 8 << 20

// UploadErrorResponse is the relay's flat error body
type UploadErrorResponse struct {
	Error string `json:"error"`
}

// UploadHandler relays multipart files to the media host
type UploadHandler struct {
	relay  *media.Relay
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(relay *media.Relay, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{relay: relay, logger: logger}
}

// RegisterRoutes registers POST /api/upload behind the given middleware
func (h *UploadHandler) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.With(mws...).Post("/api/upload", h.Upload)
}

// Upload accepts files under any form field name and answers with the
// stored URLs in the order the files were sent
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Upload exceeds request limit", zap.Int64("limit", tooLarge.Limit))
			middleware.RespondWithJSON(w, http.StatusRequestEntityTooLarge, UploadErrorResponse{Error: "El archivo excede el tamaño permitido"})
			return
		}
		h.logger.Debug("Upload without multipart body", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusBadRequest, UploadErrorResponse{Error: domain.ErrNoFiles.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, closeAll, err := formFiles(r.MultipartForm)
	defer closeAll()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusBadRequest, UploadErrorResponse{Error: domain.ErrNoFiles.Error()})
		return
	}

	result, err := h.relay.Upload(r.Context(), files)
	if err != nil {
		if errors.Is(err, domain.ErrNoFiles) {
			middleware.RespondWithJSON(w, http.StatusBadRequest, UploadErrorResponse{Error: domain.ErrNoFiles.Error()})
			return
		}
		message := "Cloudinary upload failed"
		var ue *domain.UploadError
		if errors.As(err, &ue) && ue.Message != "" {
			message = ue.Message
		}
		h.logger.Error("Upload failed", zap.Int("files", len(files)), zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, UploadErrorResponse{Error: message})
		return
	}

	h.logger.Info("Files uploaded", zap.Int("files", len(result.URLs)))
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// formFiles opens every file part. Fields are taken in name order and
// files keep their order within a field.
func formFiles(form *multipart.Form) ([]media.File, func(), error) {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var (
		files   []media.File
		closers []multipart.File
	)
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, closeAll, err
			}
			closers = append(closers, f)

			contentType := fh.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			files = append(files, media.File{Name: fh.Filename, ContentType: contentType, Body: f})
		}
	}
	return files, closeAll, nil
}
