package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// compile-time check that *DB implements repository.EngagementRepository
var _ repository.EngagementRepository = (*DB)(nil)

// ToggleLike flips the caller's like on a post.
//
// The first step is INSERT OR IGNORE against the (post_id, user_id) primary
// key. That single statement is the whole race-safety story: two concurrent
// toggles from the same user both hit the constraint, exactly one insert
// wins, and the loser observes "already present" and takes the delete branch.
// There is no SELECT-then-decide window, so a double-click cannot create a
// duplicate like or a phantom unlike.
//
// The returned count is recomputed live after the write.
func (db *DB) ToggleLike(ctx context.Context, postID, userID string) (*model.LikeStatus, error) {
	result, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)`,
		postID, userID, time.Now(),
	)
	if err != nil {
		// The post FK is the existence check — liking a missing post fails
		// here rather than in a separate lookup.
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return nil, apperror.NotFound("post", postID)
		}
		return nil, fmt.Errorf("sqlite: inserting like: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	liked := inserted == 1
	if !liked {
		if _, err := db.conn.ExecContext(ctx,
			`DELETE FROM likes WHERE post_id = ? AND user_id = ?`,
			postID, userID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: deleting like: %w", err)
		}
	}

	count, err := db.likesCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &model.LikeStatus{Liked: liked, LikesCount: count}, nil
}

// GetLikeStatus returns the live like count and whether userID has liked the
// post. Aggregated at read time, never cached.
func (db *DB) GetLikeStatus(ctx context.Context, postID, userID string) (*model.LikeStatus, error) {
	count, err := db.likesCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	var liked bool
	err = db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = ? AND user_id = ?)`,
		postID, userID,
	).Scan(&liked)
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking like for post %s: %w", postID, err)
	}

	return &model.LikeStatus{Liked: liked, LikesCount: count}, nil
}

func (db *DB) likesCount(ctx context.Context, postID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes for post %s: %w", postID, err)
	}
	return count, nil
}

// CreateComment appends an immutable comment row.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return apperror.NotFound("post", comment.PostID)
		}
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	return nil
}

// ListComments returns a post's comments newest-first, each joined with its
// author. The post_id predicate scopes the list — comments can never leak
// across posts.
func (db *DB) ListComments(ctx context.Context, postID string) ([]model.CommentView, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.CommentView{}
	for rows.Next() {
		var c model.CommentView
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
			&c.UserName, &c.UserAvatar,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}
