// Package repository defines the storage interfaces the service layer
// programs against. The only implementation today is SQLite
// (repository/sqlite); services never import it directly.
package repository

import (
	"context"

	"github.com/sakif/kickstart-blog/internal/model"
)

// FeedOrder selects how a published-post listing is sorted.
type FeedOrder int

const (
	// OrderLatest sorts newest-first by creation time.
	OrderLatest FeedOrder = iota
	// OrderTrending sorts by live like count, ties broken newest-first.
	OrderTrending
)

// PostFilter narrows a published-post listing. Zero values mean "no filter".
// ViewerID, when set, makes the store compute the per-post UserLiked flag for
// that user; when empty, UserLiked is always false.
type PostFilter struct {
	Category string
	AuthorID string
	ViewerID string
	Order    FeedOrder
	Limit    int
}

type UserRepository interface {
	// CreatePending inserts a new user row in the pending-verification state
	// (OTP fields set). Returns apperror.ErrConflict if the email is taken,
	// whether by a verified account or an abandoned pending one.
	CreatePending(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// ClearOTP transitions a pending user to verified by nulling the OTP
	// columns.
	ClearOTP(ctx context.Context, userID string) error
	// SwapAvatar replaces the avatar columns only if the stored public ID
	// still equals oldPublicID (compare-and-swap; "" matches no avatar).
	// Returns apperror.ErrConflict if a concurrent update won the race.
	SwapAvatar(ctx context.Context, userID, oldPublicID, newURL, newPublicID string) error
	// ClearAvatar nulls the avatar columns unconditionally.
	ClearAvatar(ctx context.Context, userID string) error
	// TopAuthors lists all users ordered by published-post count.
	TopAuthors(ctx context.Context) ([]model.AuthorStat, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	// PublishPost transitions a draft to published, guarded on ownership and
	// current state in a single statement. Returns apperror.ErrNotFound if
	// the requester owns no such post, apperror.ErrConflict if it is already
	// published.
	PublishPost(ctx context.Context, postID, ownerID string) error
	// GetPublished returns a single published post with author and live
	// counts. Drafts are invisible here regardless of the viewer.
	GetPublished(ctx context.Context, postID, viewerID string) (*model.PostFeedItem, error)
	// ListPublished returns published posts matching the filter.
	ListPublished(ctx context.Context, filter PostFilter) ([]model.PostFeedItem, error)
	// ListByOwner returns every post owned by ownerID, drafts included,
	// newest-first. This is the only listing where drafts appear.
	ListByOwner(ctx context.Context, ownerID string) ([]model.PostFeedItem, error)
}

type EngagementRepository interface {
	// ToggleLike flips the (post, user) like in one conditional step: a
	// constraint-guarded insert, falling back to delete when the row already
	// exists. Returns the resulting state and live count.
	ToggleLike(ctx context.Context, postID, userID string) (*model.LikeStatus, error)
	GetLikeStatus(ctx context.Context, postID, userID string) (*model.LikeStatus, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListComments returns the post's comments newest-first.
	ListComments(ctx context.Context, postID string) ([]model.CommentView, error)
}
