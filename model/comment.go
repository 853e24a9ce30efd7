package model

import "time"

/*

Comment is a top-level comment on a blog

Id: primary key
BlogID: blog the comment belongs to
AuthorID:
Author: comment author, "belongs-to" relation
Text: plain text body

Replies: "has-many" relation, one level deep only
Reactions: per-user like/dislike rows, see CommentReaction

*/
type Comment struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	BlogID    string `gorm:"index"`
	AuthorID  string
	Author    User
	Text      string
	Replies   []Reply           `json:"replies" gorm:"constraint:OnDelete:CASCADE;"`
	Reactions []CommentReaction `json:"reactions" gorm:"constraint:OnDelete:CASCADE;"`
}

// Reply is a response to a Comment. Replies cannot be nested further and
// carry no reactions.
type Reply struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	CommentID string `gorm:"index"`
	AuthorID  string
	Author    User
	Text      string
}
