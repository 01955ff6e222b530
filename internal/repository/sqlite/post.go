package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/model"
	"github.com/sakif/kickstart-blog/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// feedSelect is the shared projection for every feed query: the post joined
// with its author, plus live engagement counts computed by correlated
// subqueries. The first bind parameter is always the viewer ID for the
// userLiked EXISTS check ("" for anonymous viewers, which matches nothing).
const feedSelect = `
	SELECT
		p.id, p.user_id, p.subject, p.text, p.category, p.image, p.status,
		p.created_at, p.updated_at,
		u.name, u.avatar_url,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
		EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?) AS user_liked
	FROM posts p
	JOIN users u ON u.id = p.user_id`

// CreatePost inserts a new post. The caller decides the initial status; the
// service layer only ever passes draft.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = model.StatusDraft
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, subject, text, category, image, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.UserID, post.Subject, post.Text, post.Category,
		post.Image, post.Status, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// PublishPost transitions a draft to published in ONE conditional statement:
// the WHERE clause checks id, ownership, and current state together, so there
// is no read-then-write window in which a concurrent request could observe or
// interleave with a half-done transition. Draft → published is the only
// transition the schema and this method allow; nothing un-publishes.
//
// On zero rows affected we run one follow-up read purely to produce the right
// error: no row for (id, owner) → not found; row exists → already published.
func (db *DB) PublishPost(ctx context.Context, postID, ownerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND status = ?`,
		model.StatusPublished, time.Now(), postID, ownerID, model.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("sqlite: publishing post %s: %w", postID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var status string
	err = db.conn.QueryRowContext(ctx,
		`SELECT status FROM posts WHERE id = ? AND user_id = ?`,
		postID, ownerID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return apperror.NotFound("blog", postID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: checking post %s: %w", postID, err)
	}
	return apperror.Conflict("blog is already published")
}

// GetPublished returns one published post with author and counts. A draft id
// behaves exactly like a missing id — drafts are never visible here, not even
// to their owner (the owner's own listing is ListByOwner).
func (db *DB) GetPublished(ctx context.Context, postID, viewerID string) (*model.PostFeedItem, error) {
	row := db.conn.QueryRowContext(ctx,
		feedSelect+` WHERE p.id = ? AND p.status = ?`,
		viewerID, postID, model.StatusPublished,
	)
	item, err := scanFeedItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", postID)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", postID, err)
	}
	return item, nil
}

// ListPublished returns published posts matching the filter. Every branch of
// this query keeps the status = 'published' predicate — there is no filter
// combination that can surface a draft.
func (db *DB) ListPublished(ctx context.Context, filter repository.PostFilter) ([]model.PostFeedItem, error) {
	query := feedSelect + ` WHERE p.status = ?`
	args := []any{filter.ViewerID, model.StatusPublished}

	if filter.Category != "" {
		query += ` AND p.category = ?`
		args = append(args, filter.Category)
	}
	if filter.AuthorID != "" {
		query += ` AND p.user_id = ?`
		args = append(args, filter.AuthorID)
	}

	switch filter.Order {
	case repository.OrderTrending:
		query += ` ORDER BY likes_count DESC, p.created_at DESC`
	default:
		query += ` ORDER BY p.created_at DESC`
	}

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	return db.queryFeed(ctx, query, args...)
}

// ListByOwner returns all of a user's posts, drafts included, newest-first.
// The owner's own dashboard is the single place drafts are listed.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.PostFeedItem, error) {
	return db.queryFeed(ctx,
		feedSelect+` WHERE p.user_id = ? ORDER BY p.created_at DESC`,
		ownerID, ownerID,
	)
}

func (db *DB) queryFeed(ctx context.Context, query string, args ...any) ([]model.PostFeedItem, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	items := []model.PostFeedItem{}
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return items, nil
}

func scanFeedItem(row rowScanner) (*model.PostFeedItem, error) {
	var item model.PostFeedItem
	err := row.Scan(
		&item.ID, &item.UserID, &item.Subject, &item.Text, &item.Category,
		&item.Image, &item.Status, &item.CreatedAt, &item.UpdatedAt,
		&item.AuthorName, &item.AuthorAvatar,
		&item.LikesCount, &item.CommentsCount, &item.UserLiked,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
