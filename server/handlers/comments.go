package handlers

import (
	"net/http"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateComment adds a top-level comment on a blog. The blog author can
// always comment; everyone else is gated on the author's AllowComments
// setting. A new comment notifies the author regardless of their follower
// activity toggle.
func (h *Handler) CreateComment(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	blog, ok := h.visibleBlog(c, c.Param("id"))
	if !ok {
		return
	}

	if blog.AuthorID != caller.Id && !h.userSettings(blog.AuthorID).AllowComments {
		c.JSON(http.StatusForbidden, gin.H{"error": "the author has disabled comments"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := model.Comment{
		Id:       uuid.New().String(),
		BlogID:   blog.Id,
		AuthorID: caller.Id,
		Text:     req.Text,
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create comment"})
		return
	}
	h.notify(blog.AuthorID, caller.Id, model.NotificationComment, &blog.Id)

	h.DB.Preload("Author").Where("id = ?", comment.Id).First(&comment)
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment with its replies and reactions. Allowed
// for the comment's author and for the author of the blog it sits on.
func (h *Handler) DeleteComment(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	id := c.Param("id")

	var comment model.Comment
	if res := h.DB.Where("id = ?", id).First(&comment); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}

	var blog model.Blog
	h.DB.Where("id = ?", comment.BlogID).First(&blog)
	if comment.AuthorID != caller.Id && blog.AuthorID != caller.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this comment"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.Id).Delete(&model.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", comment.Id).Delete(&model.CommentReaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", comment.Id).Delete(&model.Comment{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CreateReply adds a reply under an existing comment. Replies are not
// gated on the blog author's settings and produce no notification.
func (h *Handler) CreateReply(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	id := c.Param("id")

	var comment model.Comment
	if res := h.DB.Where("id = ?", id).First(&comment); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := model.Reply{
		Id:        uuid.New().String(),
		CommentID: comment.Id,
		AuthorID:  caller.Id,
		Text:      req.Text,
	}
	if err := h.DB.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create reply"})
		return
	}

	h.DB.Preload("Author").Where("id = ?", reply.Id).First(&reply)
	c.JSON(http.StatusOK, reply)
}

// LikeComment records a like reaction; see reactToComment for the toggle
// semantics shared with dislikes.
func (h *Handler) LikeComment(c *gin.Context) {
	h.reactToComment(c, model.ReactionLike)
}

func (h *Handler) DislikeComment(c *gin.Context) {
	h.reactToComment(c, model.ReactionDislike)
}

// reactToComment keeps at most one reaction row per (comment, user).
// Repeating the current reaction removes it; sending the opposite one
// replaces it in place, so like and dislike can never coexist.
func (h *Handler) reactToComment(c *gin.Context, reaction model.ReactionType) {
	caller := middlewares.CurrentUser(c)
	id := c.Param("id")

	var comment model.Comment
	if res := h.DB.Where("id = ?", id).First(&comment); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}

	var existing model.CommentReaction
	res := h.DB.Where("comment_id = ? AND user_id = ?", comment.Id, caller.Id).First(&existing)

	var err error
	current := string(reaction)
	switch {
	case res.RowsAffected == 0:
		err = h.DB.Create(&model.CommentReaction{
			CommentID: comment.Id,
			UserID:    caller.Id,
			Reaction:  reaction,
		}).Error
	case existing.Reaction == reaction:
		err = h.DB.Where("comment_id = ? AND user_id = ?", comment.Id, caller.Id).
			Delete(&model.CommentReaction{}).Error
		current = ""
	default:
		err = h.DB.Model(&model.CommentReaction{}).
			Where("comment_id = ? AND user_id = ?", comment.Id, caller.Id).
			Update("reaction", reaction).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update reaction"})
		return
	}

	var likes, dislikes int64
	h.DB.Model(&model.CommentReaction{}).
		Where("comment_id = ? AND reaction = ?", comment.Id, model.ReactionLike).Count(&likes)
	h.DB.Model(&model.CommentReaction{}).
		Where("comment_id = ? AND reaction = ?", comment.Id, model.ReactionDislike).Count(&dislikes)

	c.JSON(http.StatusOK, gin.H{
		"reaction": current,
		"likes":    likes,
		"dislikes": dislikes,
	})
}
