package handlers

import (
	"net/http"
	"strings"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCategories returns the curated categories, most popular first.
func (h *Handler) ListCategories(c *gin.Context) {
	var categories []model.Category
	if err := h.DB.Order("popularity DESC, name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type suggestCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// SuggestCategory records a user-proposed category for admin review.
// Names already curated or already pending are rejected up front.
func (h *Handler) SuggestCategory(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	var req suggestCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
		return
	}

	var count int64
	h.DB.Model(&model.Category{}).Where("LOWER(name) = LOWER(?)", name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
		return
	}
	h.DB.Model(&model.SuggestedCategory{}).
		Where("LOWER(name) = LOWER(?) AND approved = ?", name, false).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "category already suggested"})
		return
	}

	suggestion := model.SuggestedCategory{
		Id:            uuid.New().String(),
		Name:          name,
		SuggestedByID: caller.Id,
	}
	if err := h.DB.Create(&suggestion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot record suggestion"})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// ListSuggestedCategories returns pending suggestions for the admin
// console.
func (h *Handler) ListSuggestedCategories(c *gin.Context) {
	var suggestions []model.SuggestedCategory
	err := h.DB.Preload("SuggestedBy").
		Where("approved = ?", false).
		Order("created_at ASC").
		Find(&suggestions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list suggestions"})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// ApproveSuggestedCategory promotes a pending suggestion into the curated
// list. The category insert and the approval flag commit together.
func (h *Handler) ApproveSuggestedCategory(c *gin.Context) {
	id := c.Param("id")

	var suggestion model.SuggestedCategory
	if res := h.DB.Where("id = ?", id).First(&suggestion); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
		return
	}
	if suggestion.Approved {
		c.JSON(http.StatusOK, gin.H{"approved": true})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Category{
			Id:   uuid.New().String(),
			Name: suggestion.Name,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&suggestion).Update("approved", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot approve suggestion"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}
