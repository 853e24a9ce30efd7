package model

import "time"

/*

BlogBookmark is a "many-to-many" relation of user bookmarks a blog.
Bookmarking is ungated and produces no notification.

*/
type BlogBookmark struct {
	UserID    string `gorm:"primaryKey"`
	BlogID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}
