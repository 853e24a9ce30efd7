package model

import "time"

/*

UserFollow is a "many-to-many" relation of one user following another

FollowerID: the user who follows
FolloweeID: the user being followed
CreatedAt: time when relation is created

Rows are hard-deleted on unfollow so that a later re-follow can recreate
the same composite key.

*/
type UserFollow struct {
	FollowerID string `gorm:"primaryKey"`
	FolloweeID string `gorm:"primaryKey"`
	CreatedAt  time.Time
}
