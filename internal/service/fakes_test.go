package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/mail"
	"github.com/sakif/kickstart-blog/internal/media"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================
//
// Hand-written in-memory fakes, not a mock framework: each one implements the
// same repository interface the sqlite store does, so the services under test
// can't tell the difference.

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreatePending(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user already exists")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Role == "" {
		user.Role = model.RoleAuthor
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) ClearOTP(_ context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.OTP = ""
	u.OTPExpiresAt = time.Time{}
	return nil
}

func (f *fakeUserRepo) SwapAvatar(_ context.Context, userID, oldPublicID, newURL, newPublicID string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	if u.AvatarID != oldPublicID {
		return apperror.Conflict("profile picture was changed by a concurrent request")
	}
	u.AvatarURL = newURL
	u.AvatarID = newPublicID
	return nil
}

func (f *fakeUserRepo) ClearAvatar(_ context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.AvatarURL = ""
	u.AvatarID = ""
	return nil
}

func (f *fakeUserRepo) TopAuthors(_ context.Context) ([]model.AuthorStat, error) {
	stats := []model.AuthorStat{}
	for _, u := range f.users {
		stats = append(stats, model.AuthorStat{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL})
	}
	return stats, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakePostRepo struct {
	posts  map[string]*model.Post
	nextID int

	// lastFilter records what ListPublished was called with, so tests can
	// assert the service translated its arguments correctly.
	lastFilter repository.PostFilter
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *model.Post) error {
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Status == "" {
		post.Status = model.StatusDraft
	}
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) PublishPost(_ context.Context, postID, ownerID string) error {
	p, ok := f.posts[postID]
	if !ok || p.UserID != ownerID {
		return apperror.NotFound("blog", postID)
	}
	if p.Status == model.StatusPublished {
		return apperror.Conflict("blog is already published")
	}
	p.Status = model.StatusPublished
	return nil
}

func (f *fakePostRepo) GetPublished(_ context.Context, postID, viewerID string) (*model.PostFeedItem, error) {
	p, ok := f.posts[postID]
	if !ok || p.Status != model.StatusPublished {
		return nil, apperror.NotFound("post", postID)
	}
	return &model.PostFeedItem{Post: *p}, nil
}

func (f *fakePostRepo) ListPublished(_ context.Context, filter repository.PostFilter) ([]model.PostFeedItem, error) {
	f.lastFilter = filter
	items := []model.PostFeedItem{}
	for _, p := range f.posts {
		if p.Status != model.StatusPublished {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.AuthorID != "" && p.UserID != filter.AuthorID {
			continue
		}
		items = append(items, model.PostFeedItem{Post: *p})
	}
	return items, nil
}

func (f *fakePostRepo) ListByOwner(_ context.Context, ownerID string) ([]model.PostFeedItem, error) {
	items := []model.PostFeedItem{}
	for _, p := range f.posts {
		if p.UserID == ownerID {
			items = append(items, model.PostFeedItem{Post: *p})
		}
	}
	return items, nil
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

type fakeEngagementRepo struct {
	likes    map[string]map[string]bool // postID → userID → liked
	comments []model.Comment
	nextID   int

	knownPosts map[string]bool
}

func newFakeEngagementRepo(postIDs ...string) *fakeEngagementRepo {
	known := make(map[string]bool)
	for _, id := range postIDs {
		known[id] = true
	}
	return &fakeEngagementRepo{
		likes:      make(map[string]map[string]bool),
		knownPosts: known,
	}
}

func (f *fakeEngagementRepo) ToggleLike(_ context.Context, postID, userID string) (*model.LikeStatus, error) {
	if !f.knownPosts[postID] {
		return nil, apperror.NotFound("post", postID)
	}
	if f.likes[postID] == nil {
		f.likes[postID] = make(map[string]bool)
	}
	liked := !f.likes[postID][userID]
	f.likes[postID][userID] = liked

	count := 0
	for _, l := range f.likes[postID] {
		if l {
			count++
		}
	}
	return &model.LikeStatus{Liked: liked, LikesCount: count}, nil
}

func (f *fakeEngagementRepo) GetLikeStatus(_ context.Context, postID, userID string) (*model.LikeStatus, error) {
	count := 0
	for _, l := range f.likes[postID] {
		if l {
			count++
		}
	}
	return &model.LikeStatus{Liked: f.likes[postID][userID], LikesCount: count}, nil
}

func (f *fakeEngagementRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	if !f.knownPosts[comment.PostID] {
		return apperror.NotFound("post", comment.PostID)
	}
	f.nextID++
	comment.ID = fmt.Sprintf("comment-%d", f.nextID)
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeEngagementRepo) ListComments(_ context.Context, postID string) ([]model.CommentView, error) {
	views := []model.CommentView{}
	for _, c := range f.comments {
		if c.PostID == postID {
			views = append(views, model.CommentView{Comment: c})
		}
	}
	return views, nil
}

var _ repository.EngagementRepository = (*fakeEngagementRepo)(nil)

// fakeMailer records every message; set sendErr to simulate delivery failure.
type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeUploader records uploads and destroys; errors are injectable.
type fakeUploader struct {
	uploads   int
	destroyed []string

	uploadErr  error
	destroyErr error
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, folder string) (*media.Asset, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	id := fmt.Sprintf("%s/asset-%d", folder, f.uploads)
	return &media.Asset{URL: "https://img.example/" + id, PublicID: id}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, publicID string) error {
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

var _ media.Uploader = (*fakeUploader)(nil)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
