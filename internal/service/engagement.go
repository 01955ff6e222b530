package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// EngagementService handles likes and comments. Both are thin over the
// store — the interesting invariants (one like per user per post, append-only
// comments) live in the schema, so this layer is mostly validation.
type EngagementService struct {
	engagement repository.EngagementRepository
	logger     *slog.Logger
}

func NewEngagementService(engagement repository.EngagementRepository, logger *slog.Logger) *EngagementService {
	return &EngagementService{engagement: engagement, logger: logger}
}

// ToggleLike flips the user's like on a post and returns the resulting state
// plus live count. Repeated calls alternate: like, unlike, like, ...
func (s *EngagementService) ToggleLike(ctx context.Context, postID, userID string) (*model.LikeStatus, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	status, err := s.engagement.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("like toggled",
		slog.String("post_id", postID),
		slog.String("user_id", userID),
		slog.Bool("liked", status.Liked),
	)

	return status, nil
}

// LikeStatus returns the live count and the caller's current state.
func (s *EngagementService) LikeStatus(ctx context.Context, postID, userID string) (*model.LikeStatus, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.engagement.GetLikeStatus(ctx, postID, userID)
}

// AddComment appends a comment to a post. Comments are immutable once
// written — there is no edit or delete anywhere in the API.
func (s *EngagementService) AddComment(ctx context.Context, postID, userID, content string) (*model.Comment, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	if err := s.engagement.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	s.logger.Info("comment added",
		slog.String("post_id", postID),
		slog.String("comment_id", comment.ID),
	)

	return comment, nil
}

// Comments lists a post's comments, newest-first.
func (s *EngagementService) Comments(ctx context.Context, postID string) ([]model.CommentView, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.engagement.ListComments(ctx, postID)
}
