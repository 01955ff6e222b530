package model

import "time"

// Comment is an append-only remark on a post. There is no edit or delete
// operation anywhere in the API.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentView is a comment joined with its author for display.
type CommentView struct {
	Comment
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar"`
}

// LikeStatus is the result of a like toggle or a status query: the caller's
// current state plus the live aggregate count.
type LikeStatus struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
