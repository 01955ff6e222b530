package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/auth"
	"github.com/sakif/kickstart-blog/internal/service"
)

// ProfileHandler manages the caller's profile picture. Both routes carry the
// user id in the path and the handler rejects any id that is not the
// caller's own.
//
//	PUT    /api/profile/picture/{id}
//	DELETE /api/profile/picture/{id}
type ProfileHandler struct {
	profile *service.ProfileService
	logger  *slog.Logger
}

func NewProfileHandler(profile *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profile: profile, logger: logger}
}

func (h *ProfileHandler) ownerID(r *http.Request) (string, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", apperror.Unauthorized("no token provided")
	}
	if r.PathValue("id") != userID {
		return "", apperror.Forbidden("you can only modify your own profile")
	}
	return userID, nil
}

// HandleUpdatePicture replaces the caller's profile picture with an uploaded
// image.
func (h *ProfileHandler) HandleUpdatePicture(w http.ResponseWriter, r *http.Request) {
	userID, err := h.ownerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeError(w, apperror.ValidationFailed("profilePic", "profile picture file is required"))
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid multipart form"))
		return
	}

	file, _, err := r.FormFile("profilePic")
	if err != nil {
		writeError(w, apperror.ValidationFailed("profilePic", "profile picture file is required"))
		return
	}
	defer file.Close()

	user, err := h.profile.UpdatePicture(r.Context(), userID, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile picture updated",
		"user":    toUserResponse(user),
	})
}

// HandleRemovePicture deletes the caller's profile picture.
func (h *ProfileHandler) HandleRemovePicture(w http.ResponseWriter, r *http.Request) {
	userID, err := h.ownerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.profile.RemovePicture(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile picture removed",
		"user":    toUserResponse(user),
	})
}
