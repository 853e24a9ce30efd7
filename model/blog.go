package model

import (
	"time"

	"gorm.io/datatypes"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

/*

Blog is an authored article

Id: primary key
AuthorID:
Author: the user who wrote the blog, "belongs-to" relation. Only the author
        may mutate or delete the blog.

Title, Content: screened by the gibberish heuristic before create/update
Category: denormalized category name
Status: draft / published. Drafts are visible to the author only.

Views: distinct-viewer counter, incremented at most once per non-author
       viewer (BlogView rows record who already counted)
PreviewImage: public URL of the preview image
ImageGallery: JSON array of public image URLs

Tags: "has-many" BlogTag rows, kept relational so tag aggregation is a
      plain GROUP BY
Comments: "has-many" relation
LikedBy / BookmarkedBy / ViewedBy: "many-to-many" relations through
      BlogLike / BlogBookmark / BlogView

*/
type Blog struct {
	Id           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	AuthorID     string `gorm:"index"`
	Author       User
	Title        string
	Content      string
	Category     string
	Status       BlogStatus `gorm:"default:draft"`
	Views        int64
	PreviewImage string
	ImageGallery datatypes.JSON
	Tags         []BlogTag `json:"tags" gorm:"constraint:OnDelete:CASCADE;"`
	Comments     []Comment `json:"comments" gorm:"constraint:OnDelete:CASCADE;"`
	LikedBy      []*User   `json:"liked_by" gorm:"many2many:blog_likes;"`
	BookmarkedBy []*User   `json:"bookmarked_by" gorm:"many2many:blog_bookmarks;"`
	ViewedBy     []*User   `json:"viewed_by" gorm:"many2many:blog_views;"`
}
