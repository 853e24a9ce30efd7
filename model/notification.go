package model

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

/*

Notification is an insert-on-event record for a user's activity feed

RecipientID: the user this notification is for
SenderID:
Sender: the user whose action produced it, optional
Type: like / comment / follow
BlogID:
Blog: the blog involved, set for like and comment
IsRead: flipped by the recipient

Never created when recipient == sender. For like and follow, creation also
requires the recipient's ShowFollowerActivity setting.

*/
type Notification struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	RecipientID string `gorm:"index"`
	SenderID    *string
	Sender      *User
	Type        NotificationType
	BlogID      *string
	Blog        *Blog
	IsRead      bool `gorm:"default:false"`
}
