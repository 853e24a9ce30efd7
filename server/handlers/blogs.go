package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/blogsphere/blogsphere/utils"
	Logger "github.com/blogsphere/blogsphere/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type blogRequest struct {
	Title        string   `json:"title" binding:"required"`
	Content      string   `json:"content" binding:"required"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	PreviewImage string   `json:"previewImage"`
	ImageGallery []string `json:"imageGallery"`
}

func (r *blogRequest) status() (model.BlogStatus, bool) {
	switch r.Status {
	case "", string(model.BlogStatusDraft):
		return model.BlogStatusDraft, true
	case string(model.BlogStatusPublished):
		return model.BlogStatusPublished, true
	}
	return "", false
}

// CreateBlog creates a draft or published blog for the caller. Title and
// content go through the gibberish screen first; failing it rejects the
// request with a content-quality error and no side effect.
func (h *Handler) CreateBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := req.status()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
		return
	}
	if utils.IsGibberish(req.Title) || utils.IsGibberish(req.Content) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "content looks like gibberish"})
		return
	}

	gallery, _ := json.Marshal(req.ImageGallery)
	blog := model.Blog{
		Id:           uuid.New().String(),
		AuthorID:     caller.Id,
		Title:        req.Title,
		Content:      req.Content,
		Category:     req.Category,
		Status:       status,
		PreviewImage: req.PreviewImage,
		ImageGallery: datatypes.JSON(gallery),
	}
	for _, tag := range utils.NormalizeTags(req.Tags) {
		blog.Tags = append(blog.Tags, model.BlogTag{BlogID: blog.Id, Tag: tag})
	}

	if err := h.DB.Create(&blog).Error; err != nil {
		Logger.Log.Errorf("fail to create blog: %s", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create blog"})
		return
	}
	adjustCategoryPopularity(h.DB, blog.Category, 1)
	c.JSON(http.StatusOK, blog)
}

// adjustCategoryPopularity keeps a curated category's popularity counter in
// step with the number of blogs referencing it. Names without a curated row
// are ignored, and the counter never goes below zero.
func adjustCategoryPopularity(tx *gorm.DB, name string, delta int) {
	if name == "" {
		return
	}
	query := tx.Model(&model.Category{}).Where("name = ?", name)
	if delta < 0 {
		query = query.Where("popularity > 0")
	}
	query.UpdateColumn("popularity", gorm.Expr("popularity + ?", delta))
}

// ListBlogs returns published blogs, optionally filtered by tag, category
// or author. With mine=true the caller gets their own blogs in any status.
func (h *Handler) ListBlogs(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	query := h.DB.Model(&model.Blog{}).Preload("Author").Preload("Tags")
	if c.Query("mine") == "true" {
		query = query.Where("blogs.author_id = ?", caller.Id)
	} else {
		query = query.Where("blogs.status = ?", model.BlogStatusPublished)
		if author := c.Query("author"); author != "" {
			query = query.Where("blogs.author_id = ?", author)
		}
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("blogs.category = ?", category)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Joins("JOIN blog_tags ON blog_tags.blog_id = blogs.id AND blog_tags.tag = ?", tag)
	}

	var blogs []model.Blog
	if err := query.Order("blogs.created_at DESC").Find(&blogs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list blogs"})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// GetBlog returns one blog with author, tags and the full comment tree.
// Drafts exist only for their author; everyone else sees not-found.
func (h *Handler) GetBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	id := c.Param("id")

	var blog model.Blog
	res := h.DB.Preload("Author").Preload("Tags").
		Preload("Comments").Preload("Comments.Author").
		Preload("Comments.Replies").Preload("Comments.Replies.Author").
		Preload("Comments.Reactions").
		Where("id = ?", id).First(&blog)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	if blog.Status == model.BlogStatusDraft && blog.AuthorID != caller.Id {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}

	var likeCount, bookmarkCount int64
	h.DB.Model(&model.BlogLike{}).Where("blog_id = ?", blog.Id).Count(&likeCount)
	h.DB.Model(&model.BlogBookmark{}).Where("blog_id = ?", blog.Id).Count(&bookmarkCount)

	c.JSON(http.StatusOK, gin.H{
		"blog":           blog,
		"likeCount":      likeCount,
		"bookmarkCount":  bookmarkCount,
		"likedByMe":      h.hasJoinRow(&model.BlogLike{}, caller.Id, blog.Id),
		"bookmarkedByMe": h.hasJoinRow(&model.BlogBookmark{}, caller.Id, blog.Id),
	})
}

func (h *Handler) hasJoinRow(joinModel interface{}, userID, blogID string) bool {
	var count int64
	h.DB.Model(joinModel).Where("user_id = ? AND blog_id = ?", userID, blogID).Count(&count)
	return count > 0
}

// ownedBlog loads a blog and enforces that the caller is its author.
// Writes to somebody else's blog are forbidden, not silently ignored.
func (h *Handler) ownedBlog(c *gin.Context, id string) (*model.Blog, bool) {
	caller := middlewares.CurrentUser(c)

	var blog model.Blog
	if res := h.DB.Where("id = ?", id).First(&blog); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return nil, false
	}
	if blog.AuthorID != caller.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify this blog"})
		return nil, false
	}
	return &blog, true
}

// UpdateBlog replaces the mutable fields of the caller's own blog,
// re-running the gibberish screen and rebuilding the tag rows.
func (h *Handler) UpdateBlog(c *gin.Context) {
	blog, ok := h.ownedBlog(c, c.Param("id"))
	if !ok {
		return
	}

	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, okStatus := req.status()
	if !okStatus {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
		return
	}
	if utils.IsGibberish(req.Title) || utils.IsGibberish(req.Content) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "content looks like gibberish"})
		return
	}

	gallery, _ := json.Marshal(req.ImageGallery)
	// Updates assigns the new values onto blog, so remember the category.
	oldCategory := blog.Category
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":         req.Title,
			"content":       req.Content,
			"category":      req.Category,
			"status":        status,
			"preview_image": req.PreviewImage,
			"image_gallery": datatypes.JSON(gallery),
		}
		if err := tx.Model(blog).Updates(updates).Error; err != nil {
			return err
		}
		if req.Category != oldCategory {
			adjustCategoryPopularity(tx, oldCategory, -1)
			adjustCategoryPopularity(tx, req.Category, 1)
		}
		if err := tx.Where("blog_id = ?", blog.Id).Delete(&model.BlogTag{}).Error; err != nil {
			return err
		}
		for _, tag := range utils.NormalizeTags(req.Tags) {
			if err := tx.Create(&model.BlogTag{BlogID: blog.Id, Tag: tag}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update blog"})
		return
	}

	var updated model.Blog
	h.DB.Preload("Author").Preload("Tags").Where("id = ?", blog.Id).First(&updated)
	c.JSON(http.StatusOK, updated)
}

// DeleteBlog removes the caller's own blog and everything embedded in it.
func (h *Handler) DeleteBlog(c *gin.Context) {
	blog, ok := h.ownedBlog(c, c.Param("id"))
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteBlogResidue(tx, []string{blog.Id}); err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blog.Id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		adjustCategoryPopularity(tx, blog.Category, -1)
		return tx.Where("id = ?", blog.Id).Delete(&model.Blog{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete blog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// visibleBlog loads a blog for an interaction: it must exist and drafts
// are reachable by their author only.
func (h *Handler) visibleBlog(c *gin.Context, id string) (*model.Blog, bool) {
	caller := middlewares.CurrentUser(c)

	var blog model.Blog
	if res := h.DB.Where("id = ?", id).First(&blog); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return nil, false
	}
	if blog.Status == model.BlogStatusDraft && blog.AuthorID != caller.Id {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return nil, false
	}
	return &blog, true
}

// LikeBlog is an idempotent like. The author's AllowLikes setting is
// consulted at the moment of the action; a new like notifies the author,
// subject to their settings.
func (h *Handler) LikeBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	blog, ok := h.visibleBlog(c, c.Param("id"))
	if !ok {
		return
	}

	if blog.AuthorID != caller.Id && !h.userSettings(blog.AuthorID).AllowLikes {
		c.JSON(http.StatusForbidden, gin.H{"error": "the author has disabled likes"})
		return
	}

	var existing model.BlogLike
	res := h.DB.Where("user_id = ? AND blog_id = ?", caller.Id, blog.Id).First(&existing)
	if res.RowsAffected == 1 {
		c.JSON(http.StatusOK, gin.H{"liked": true})
		return
	}

	if err := h.DB.Create(&model.BlogLike{UserID: caller.Id, BlogID: blog.Id}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot like blog"})
		return
	}
	h.notify(blog.AuthorID, caller.Id, model.NotificationLike, &blog.Id)
	c.JSON(http.StatusOK, gin.H{"liked": true})
}

// UnlikeBlog removes the caller's like. Idempotent.
func (h *Handler) UnlikeBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	if err := h.DB.Where("user_id = ? AND blog_id = ?", caller.Id, c.Param("id")).
		Delete(&model.BlogLike{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot unlike blog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": false})
}

// BookmarkBlog is an idempotent bookmark: no gate, no notification.
func (h *Handler) BookmarkBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	blog, ok := h.visibleBlog(c, c.Param("id"))
	if !ok {
		return
	}

	var existing model.BlogBookmark
	res := h.DB.Where("user_id = ? AND blog_id = ?", caller.Id, blog.Id).First(&existing)
	if res.RowsAffected == 0 {
		if err := h.DB.Create(&model.BlogBookmark{UserID: caller.Id, BlogID: blog.Id}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot bookmark blog"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": true})
}

func (h *Handler) UnbookmarkBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	if err := h.DB.Where("user_id = ? AND blog_id = ?", caller.Id, c.Param("id")).
		Delete(&model.BlogBookmark{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot remove bookmark"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": false})
}

// ViewBlog counts a view: at most once per distinct viewer, never for the
// author reading their own blog.
func (h *Handler) ViewBlog(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	blog, ok := h.visibleBlog(c, c.Param("id"))
	if !ok {
		return
	}

	if blog.AuthorID == caller.Id {
		c.JSON(http.StatusOK, gin.H{"views": blog.Views})
		return
	}

	var existing model.BlogView
	res := h.DB.Where("user_id = ? AND blog_id = ?", caller.Id, blog.Id).First(&existing)
	if res.RowsAffected == 0 {
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&model.BlogView{UserID: caller.Id, BlogID: blog.Id}).Error; err != nil {
				return err
			}
			return tx.Model(&model.Blog{}).Where("id = ?", blog.Id).
				UpdateColumn("views", gorm.Expr("views + 1")).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot record view"})
			return
		}
		blog.Views++
	}
	c.JSON(http.StatusOK, gin.H{"views": blog.Views})
}
