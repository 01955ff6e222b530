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

// LatestLimit caps the home-page latest feed.
const LatestLimit = 10

// PostService enforces the post lifecycle: drafts are created by their owner,
// published by their owner exactly once, and listed publicly only once
// published.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, users: users, logger: logger}
}

// CreateDraft validates and saves a new post in the draft state.
// imageURL is the media-host URL of an already-uploaded image, or empty.
func (s *PostService) CreateDraft(ctx context.Context, ownerID, subject, text, category, imageURL string) (*model.Post, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperror.ValidationFailed("subject", "subject is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("text", "message is required")
	}
	if !model.ValidCategory(category) {
		return nil, apperror.ValidationFailed("category",
			fmt.Sprintf("category must be one of: %s", strings.Join(model.Categories, ", ")))
	}

	post := &model.Post{
		UserID:   ownerID,
		Subject:  subject,
		Text:     text,
		Category: category,
		Image:    imageURL,
		Status:   model.StatusDraft,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("owner", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("draft created",
		slog.String("post_id", post.ID),
		slog.String("owner", ownerID),
	)

	return post, nil
}

// Publish transitions the requester's draft to published. Ownership and the
// once-only rule are enforced by the store in a single conditional update;
// this method just validates input and logs.
func (s *PostService) Publish(ctx context.Context, postID, requesterID string) error {
	if strings.TrimSpace(postID) == "" {
		return apperror.ValidationFailed("id", "post ID is required")
	}

	if err := s.posts.PublishPost(ctx, postID, requesterID); err != nil {
		return err
	}

	s.logger.Info("post published",
		slog.String("post_id", postID),
		slog.String("owner", requesterID),
	)
	return nil
}

// GetPublished returns one published post for display. viewerID may be empty
// (anonymous), in which case userLiked is always false.
func (s *PostService) GetPublished(ctx context.Context, postID, viewerID string) (*model.PostFeedItem, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.posts.GetPublished(ctx, postID, viewerID)
}

// ListByCategory returns published posts in one category, newest-first.
func (s *PostService) ListByCategory(ctx context.Context, category, viewerID string) ([]model.PostFeedItem, error) {
	if !model.ValidCategory(category) {
		return nil, apperror.ValidationFailed("category", "unknown category")
	}
	return s.posts.ListPublished(ctx, repository.PostFilter{
		Category: category,
		ViewerID: viewerID,
	})
}

// Latest returns the newest published posts for the home page.
func (s *PostService) Latest(ctx context.Context, viewerID string) ([]model.PostFeedItem, error) {
	return s.posts.ListPublished(ctx, repository.PostFilter{
		ViewerID: viewerID,
		Limit:    LatestLimit,
	})
}

// Trending returns published posts ordered by live like count.
func (s *PostService) Trending(ctx context.Context) ([]model.PostFeedItem, error) {
	return s.posts.ListPublished(ctx, repository.PostFilter{
		Order: repository.OrderTrending,
	})
}

// TopAuthors returns all authors ordered by published-post count.
func (s *PostService) TopAuthors(ctx context.Context) ([]model.AuthorStat, error) {
	return s.users.TopAuthors(ctx)
}

// AuthorDetails is the author page payload: the author's profile plus their
// published posts (drafts stay private even on their public page).
type AuthorDetails struct {
	Author *model.User          `json:"author"`
	Posts  []model.PostFeedItem `json:"blogs"`
}

// GetAuthorDetails returns an author's profile and published posts. viewerID
// drives the per-post userLiked flag and may be empty.
func (s *PostService) GetAuthorDetails(ctx context.Context, authorID, viewerID string) (*AuthorDetails, error) {
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListPublished(ctx, repository.PostFilter{
		AuthorID: authorID,
		ViewerID: viewerID,
	})
	if err != nil {
		return nil, fmt.Errorf("listing author posts: %w", err)
	}

	return &AuthorDetails{Author: author, Posts: posts}, nil
}

// MyPosts returns everything the owner has written, drafts included.
func (s *PostService) MyPosts(ctx context.Context, ownerID string) ([]model.PostFeedItem, error) {
	return s.posts.ListByOwner(ctx, ownerID)
}
