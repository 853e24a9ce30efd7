package model

import "time"

/*

BlogView records that a user has been counted in a blog's view counter.
The counter increments only when no row exists yet for (user, blog), which
keeps the count at most once per distinct viewer.

*/
type BlogView struct {
	UserID    string `gorm:"primaryKey"`
	BlogID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}
