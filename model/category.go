package model

import "time"

// Category is a curated blog category with a popularity score used for
// ordering in discovery surfaces.
type Category struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	Name       string `gorm:"uniqueIndex"`
	Popularity int64
}

/*

SuggestedCategory is a user-proposed category pending admin review.
Approval copies the name into Category and flips Approved.

*/
type SuggestedCategory struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	Name          string
	SuggestedByID string
	SuggestedBy   User `gorm:"foreignKey:SuggestedByID"`
	Approved      bool `gorm:"default:false"`
}
