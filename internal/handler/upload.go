package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/media"
)

// UploadHandler accepts a standalone image upload and returns its hosted URL.
// The editor uses this for inline images before the post itself exists.
type UploadHandler struct {
	uploader media.Uploader
	logger   *slog.Logger
}

func NewUploadHandler(uploader media.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: logger}
}

// HandleUpload stores a multipart "image" file and responds with {"url": ...}.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid multipart form"))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "image file is required"))
		return
	}
	defer file.Close()

	asset, err := h.uploader.Upload(r.Context(), file, media.FolderBlogs)
	if err != nil {
		h.logger.Error("image upload failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url": asset.URL,
	})
}
