package model

import "time"

// Post lifecycle states. A post is created as a draft and can move to
// published exactly once; no operation moves it back or deletes it.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Categories is the fixed set of post categories. CreateDraft rejects
// anything outside this list.
var Categories = []string{"Tech", "Lifestyle", "Business", "Travel", "Food", "Health"}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Post is a blog post owned by exactly one user.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Image     string    `json:"image,omitempty"` // media host URL, may be empty
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostFeedItem is the read-side projection of a post as it appears in feeds:
// the post joined with its author plus live engagement counts.
//
// LikesCount and CommentsCount are computed by aggregation at read time —
// there are no denormalized counters to drift out of sync. UserLiked is only
// meaningful when the request carried a valid token; for anonymous requests
// it is always false.
type PostFeedItem struct {
	Post
	AuthorName    string `json:"authorName"`
	AuthorAvatar  string `json:"authorAvatar"`
	LikesCount    int    `json:"likesCount"`
	CommentsCount int    `json:"commentsCount"`
	UserLiked     bool   `json:"userLiked"`
}
