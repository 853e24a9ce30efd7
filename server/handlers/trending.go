package handlers

import (
	"net/http"

	"github.com/blogsphere/blogsphere/model"
	"github.com/gin-gonic/gin"
)

// trendingBlog carries a blog row plus the interaction count the ranking
// query computed for it.
type trendingBlog struct {
	model.Blog
	InteractionCount int64 `json:"interactionCount"`
}

// TrendingBlogs ranks published blogs by how many users actually liked
// them, or bookmarked them with by=bookmarks. Counts come straight from
// the join tables, so a blog with no interactions ranks with zero instead
// of disappearing.
func (h *Handler) TrendingBlogs(c *gin.Context) {
	joinTable := "blog_likes"
	if c.Query("by") == "bookmarks" {
		joinTable = "blog_bookmarks"
	}

	var blogs []trendingBlog
	err := h.DB.Model(&model.Blog{}).
		Select("blogs.*, COUNT("+joinTable+".user_id) AS interaction_count").
		Joins("LEFT JOIN "+joinTable+" ON "+joinTable+".blog_id = blogs.id").
		Where("blogs.status = ?", model.BlogStatusPublished).
		Group("blogs.id").
		Order("interaction_count DESC, blogs.created_at DESC").
		Scan(&blogs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot rank blogs"})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

type tagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TrendingTags returns the most used tags across published blogs.
func (h *Handler) TrendingTags(c *gin.Context) {
	var tags []tagCount
	err := h.DB.Model(&model.BlogTag{}).
		Select("blog_tags.tag, COUNT(*) AS count").
		Joins("JOIN blogs ON blogs.id = blog_tags.blog_id").
		Where("blogs.status = ?", model.BlogStatusPublished).
		Group("blog_tags.tag").
		Order("count DESC, blog_tags.tag ASC").
		Limit(10).
		Scan(&tags).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot rank tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

// BlogsByTag lists published blogs carrying a tag, newest first.
func (h *Handler) BlogsByTag(c *gin.Context) {
	tag := c.Param("tag")

	var blogs []model.Blog
	err := h.DB.Preload("Author").Preload("Tags").
		Joins("JOIN blog_tags ON blog_tags.blog_id = blogs.id AND blog_tags.tag = ?", tag).
		Where("blogs.status = ?", model.BlogStatusPublished).
		Order("blogs.created_at DESC").
		Find(&blogs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list blogs"})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// TopBlogByTag returns the single most-liked published blog carrying a
// tag.
func (h *Handler) TopBlogByTag(c *gin.Context) {
	tag := c.Param("tag")

	var blogs []trendingBlog
	err := h.DB.Model(&model.Blog{}).
		Select("blogs.*, COUNT(blog_likes.user_id) AS interaction_count").
		Joins("JOIN blog_tags ON blog_tags.blog_id = blogs.id AND blog_tags.tag = ?", tag).
		Joins("LEFT JOIN blog_likes ON blog_likes.blog_id = blogs.id").
		Where("blogs.status = ?", model.BlogStatusPublished).
		Group("blogs.id").
		Order("interaction_count DESC, blogs.created_at DESC").
		Limit(1).
		Scan(&blogs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot rank blogs"})
		return
	}
	if len(blogs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no blogs for this tag"})
		return
	}
	c.JSON(http.StatusOK, blogs[0])
}
