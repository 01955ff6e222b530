package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakif/kickstart-blog/internal/model"
)

// newTestDB returns a DB backed by a throwaway file. A file (not ":memory:")
// because database/sql pools connections and each in-memory connection would
// be a separate empty database.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a verified user (no pending OTP).
func createTestUser(t *testing.T, db *DB, email, name string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName:    name,
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
	}
	if err := db.CreatePending(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createPendingUser inserts a user mid-signup, with an unverified OTP.
func createPendingUser(t *testing.T, db *DB, email, otp string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "pending",
		Email:        email,
		PasswordHash: "hash",
		OTP:          otp,
		OTPExpiresAt: time.Now().Add(5 * time.Minute),
	}
	if err := db.CreatePending(context.Background(), user); err != nil {
		t.Fatalf("failed to create pending user: %v", err)
	}
	return user
}

// createTestPost inserts a draft owned by userID.
func createTestPost(t *testing.T, db *DB, userID, subject, category string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:   userID,
		Subject:  subject,
		Text:     "some text",
		Category: category,
	}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// createPublishedPost inserts a draft and publishes it.
func createPublishedPost(t *testing.T, db *DB, userID, subject, category string) *model.Post {
	t.Helper()
	post := createTestPost(t, db, userID, subject, category)
	if err := db.PublishPost(context.Background(), post.ID, userID); err != nil {
		t.Fatalf("failed to publish test post: %v", err)
	}
	post.Status = model.StatusPublished
	return post
}
