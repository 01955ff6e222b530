package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/kickstart-blog/internal/auth"
	"github.com/sakif/kickstart-blog/internal/service"
)

// EngagementHandler covers likes and comments:
//
//	POST /api/posts/{id}/like      → toggle my like (protected)
//	GET  /api/posts/{id}/status    → my like state + count (protected)
//	GET  /api/posts/{id}/comments  → list comments (public)
//	POST /api/posts/{id}/comment   → add comment (protected)
type EngagementHandler struct {
	engagement *service.EngagementService
	logger     *slog.Logger
}

func NewEngagementHandler(engagement *service.EngagementService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{engagement: engagement, logger: logger}
}

// HandleToggleLike flips the caller's like on a post and reports the new state.
func (h *EngagementHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	status, err := h.engagement.ToggleLike(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// HandleLikeStatus reports whether the caller has liked the post, plus the
// current count.
func (h *EngagementHandler) HandleLikeStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	status, err := h.engagement.LikeStatus(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleAddComment appends a comment to a post.
func (h *EngagementHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkRequest(req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.engagement.AddComment(r.Context(), r.PathValue("id"), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment added",
		"comment": comment,
	})
}

// HandleListComments lists a post's comments, newest first.
func (h *EngagementHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.engagement.Comments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}
