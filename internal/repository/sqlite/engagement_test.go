package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/model"
)

// Repeated toggles from the same user strictly alternate: like, unlike, like.
// The count tracks the state, never drifting above one for a single user.
func TestToggleLike_Alternates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author@example.com", "Author")
	fan := createTestUser(t, db, "fan@example.com", "Fan")
	post := createPublishedPost(t, db, author.ID, "likeable", "Tech")

	for i := 0; i < 4; i++ {
		status, err := db.ToggleLike(ctx, post.ID, fan.ID)
		if err != nil {
			t.Fatalf("ToggleLike() #%d error = %v", i+1, err)
		}
		wantLiked := i%2 == 0
		if status.Liked != wantLiked {
			t.Errorf("toggle #%d: Liked = %v, want %v", i+1, status.Liked, wantLiked)
		}
		wantCount := 0
		if wantLiked {
			wantCount = 1
		}
		if status.LikesCount != wantCount {
			t.Errorf("toggle #%d: LikesCount = %d, want %d", i+1, status.LikesCount, wantCount)
		}
	}
}

func TestToggleLike_CountsPerUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author@example.com", "Author")
	fan1 := createTestUser(t, db, "fan1@example.com", "Fan One")
	fan2 := createTestUser(t, db, "fan2@example.com", "Fan Two")
	post := createPublishedPost(t, db, author.ID, "likeable", "Tech")

	if _, err := db.ToggleLike(ctx, post.ID, fan1.ID); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	status, err := db.ToggleLike(ctx, post.ID, fan2.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if status.LikesCount != 2 {
		t.Errorf("LikesCount = %d after two different users, want 2", status.LikesCount)
	}

	// fan1 unlikes; fan2's like survives.
	status, err = db.ToggleLike(ctx, post.ID, fan1.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if status.Liked || status.LikesCount != 1 {
		t.Errorf("after fan1 unlike: (Liked=%v, count=%d), want (false, 1)", status.Liked, status.LikesCount)
	}
}

func TestToggleLike_MissingPost(t *testing.T) {
	db := newTestDB(t)
	fan := createTestUser(t, db, "fan@example.com", "Fan")

	_, err := db.ToggleLike(context.Background(), "nonexistent", fan.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleLike() error = %v, want ErrNotFound", err)
	}
}

func TestGetLikeStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author@example.com", "Author")
	fan := createTestUser(t, db, "fan@example.com", "Fan")
	other := createTestUser(t, db, "other@example.com", "Other")
	post := createPublishedPost(t, db, author.ID, "likeable", "Tech")

	if _, err := db.ToggleLike(ctx, post.ID, fan.ID); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	status, err := db.GetLikeStatus(ctx, post.ID, fan.ID)
	if err != nil {
		t.Fatalf("GetLikeStatus() error = %v", err)
	}
	if !status.Liked || status.LikesCount != 1 {
		t.Errorf("fan status = (%v, %d), want (true, 1)", status.Liked, status.LikesCount)
	}

	status, err = db.GetLikeStatus(ctx, post.ID, other.ID)
	if err != nil {
		t.Fatalf("GetLikeStatus() error = %v", err)
	}
	if status.Liked || status.LikesCount != 1 {
		t.Errorf("other status = (%v, %d), want (false, 1)", status.Liked, status.LikesCount)
	}
}

func TestCreateComment(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")
	post := createPublishedPost(t, db, author.ID, "commentable", "Tech")

	comment := &model.Comment{PostID: post.ID, UserID: author.ID, Content: "first!"}
	if err := db.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if comment.ID == "" {
		t.Error("CreateComment() did not set comment.ID")
	}
}

func TestCreateComment_MissingPost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")

	comment := &model.Comment{PostID: "nonexistent", UserID: author.ID, Content: "void"}
	err := db.CreateComment(context.Background(), comment)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("CreateComment() error = %v, want ErrNotFound", err)
	}
}

func TestListComments_NewestFirstAndScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author@example.com", "Author")
	commenter := createTestUser(t, db, "commenter@example.com", "Commenter")
	post := createPublishedPost(t, db, author.ID, "commentable", "Tech")
	otherPost := createPublishedPost(t, db, author.ID, "other", "Tech")

	if err := db.CreateComment(ctx, &model.Comment{PostID: post.ID, UserID: commenter.ID, Content: "older"}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := db.CreateComment(ctx, &model.Comment{PostID: post.ID, UserID: commenter.ID, Content: "newer"}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if err := db.CreateComment(ctx, &model.Comment{PostID: otherPost.ID, UserID: commenter.ID, Content: "elsewhere"}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	comments, err := db.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ListComments() returned %d comments, want 2", len(comments))
	}
	if comments[0].Content != "newer" || comments[1].Content != "older" {
		t.Errorf("order = [%q, %q], want newest first", comments[0].Content, comments[1].Content)
	}
	if comments[0].UserName != "Commenter" {
		t.Errorf("UserName = %q, want %q", comments[0].UserName, "Commenter")
	}
}

func TestListComments_Empty(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")
	post := createPublishedPost(t, db, author.ID, "lonely", "Tech")

	comments, err := db.ListComments(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("ListComments() returned %d comments, want 0", len(comments))
	}
}
