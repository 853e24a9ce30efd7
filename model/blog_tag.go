package model

import "time"

/*

BlogTag is one tag attached to one blog

BlogID: blog id
Tag: normalized (lowercased, trimmed) tag text

One row per (blog, tag) pair instead of an embedded array so trending tags
is a single GROUP BY over this table.

*/
type BlogTag struct {
	BlogID    string `gorm:"primaryKey"`
	Tag       string `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
