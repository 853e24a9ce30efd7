package model

import "time"

/*

BlogLike is a "many-to-many" relation of user likes a blog

UserID: user id
BlogID: blog id
CreatedAt: time when relation is created

*/
type BlogLike struct {
	UserID    string `gorm:"primaryKey"`
	BlogID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}
