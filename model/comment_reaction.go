package model

import "time"

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

/*

CommentReaction is one user's reaction to one comment.

A single row per (comment, user) with a tagged reaction column replaces the
two parallel like/dislike sets of the original data model: a user switching
from like to dislike updates the row in place, so appearing in both states
at once is structurally impossible.

*/
type CommentReaction struct {
	CommentID string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey"`
	Reaction  ReactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}
