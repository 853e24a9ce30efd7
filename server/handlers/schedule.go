package handlers

import (
	"net/http"
	"time"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/blogsphere/blogsphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const scheduleDateLayout = "2006-01-02"

type scheduleRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Date        string   `json:"date" binding:"required"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	BlogID      *string  `json:"blogId"`
	Status      string   `json:"status"`
	Location    string   `json:"location"`
	Assignees   []string `json:"assignees"`
}

var scheduleTypes = []string{
	string(model.ScheduleTypeMeeting),
	string(model.ScheduleTypeAssignment),
	string(model.ScheduleTypeDeadline),
	string(model.ScheduleTypeEvent),
}

var scheduleStatuses = []string{
	string(model.ScheduleStatusPending),
	string(model.ScheduleStatusInProgress),
	string(model.ScheduleStatusCompleted),
	string(model.ScheduleStatusCancelled),
}

func (r *scheduleRequest) validate() (time.Time, string) {
	date, err := time.Parse(scheduleDateLayout, r.Date)
	if err != nil {
		return time.Time{}, "date must be YYYY-MM-DD"
	}
	if r.Type == "" {
		r.Type = string(model.ScheduleTypeEvent)
	}
	if !utils.ContainsString(scheduleTypes, r.Type) {
		return time.Time{}, "unknown schedule type"
	}
	if r.Status == "" {
		r.Status = string(model.ScheduleStatusPending)
	}
	if !utils.ContainsString(scheduleStatuses, r.Status) {
		return time.Time{}, "unknown schedule status"
	}
	return date, ""
}

// syncAssignees replaces the item's assignee rows with the given user ids.
// Unknown ids are skipped rather than failing the whole request.
func syncAssignees(tx *gorm.DB, itemID string, userIDs []string) error {
	if err := tx.Where("schedule_item_id = ?", itemID).Delete(&model.ScheduleAssignee{}).Error; err != nil {
		return err
	}
	for _, userID := range userIDs {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			continue
		}
		if err := tx.Create(&model.ScheduleAssignee{ScheduleItemID: itemID, UserID: userID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateScheduleItem creates a calendar entry owned by the caller,
// optionally linked to a blog and assigned to other users.
func (h *Handler) CreateScheduleItem(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, problem := req.validate()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	item := model.ScheduleItem{
		Id:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Type:        model.ScheduleType(req.Type),
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatorID:   caller.Id,
		BlogID:      req.BlogID,
		Status:      model.ScheduleStatus(req.Status),
		Location:    req.Location,
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return syncAssignees(tx, item.Id, req.Assignees)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create schedule item"})
		return
	}

	h.DB.Preload("Creator").Preload("Assignees").Where("id = ?", item.Id).First(&item)
	c.JSON(http.StatusOK, item)
}

// ListScheduleItems returns items the caller created or is assigned to,
// ordered by date. An optional date=YYYY-MM-DD query narrows to one day.
func (h *Handler) ListScheduleItems(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	assigned := h.DB.Model(&model.ScheduleAssignee{}).
		Select("schedule_item_id").
		Where("user_id = ?", caller.Id)

	query := h.DB.Preload("Creator").Preload("Assignees").Preload("Blog").
		Where("creator_id = ? OR id IN (?)", caller.Id, assigned)

	if day := c.Query("date"); day != "" {
		date, err := time.Parse(scheduleDateLayout, day)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		query = query.Where("date >= ? AND date < ?", date, date.AddDate(0, 0, 1))
	}

	var items []model.ScheduleItem
	if err := query.Order("date ASC, start_time ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list schedule items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// readableScheduleItem loads an item the caller can see: its creator or
// one of its assignees.
func (h *Handler) readableScheduleItem(c *gin.Context, id string) (*model.ScheduleItem, bool) {
	caller := middlewares.CurrentUser(c)

	var item model.ScheduleItem
	res := h.DB.Preload("Creator").Preload("Assignees").Preload("Blog").
		Where("id = ?", id).First(&item)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule item not found"})
		return nil, false
	}

	if item.CreatorID != caller.Id {
		var count int64
		h.DB.Model(&model.ScheduleAssignee{}).
			Where("schedule_item_id = ? AND user_id = ?", item.Id, caller.Id).
			Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule item not found"})
			return nil, false
		}
	}
	return &item, true
}

func (h *Handler) GetScheduleItem(c *gin.Context) {
	item, ok := h.readableScheduleItem(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateScheduleItem replaces an item's fields. Only the creator may
// write; assignees get a forbidden error rather than not-found since they
// can already read the item.
func (h *Handler) UpdateScheduleItem(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	item, ok := h.readableScheduleItem(c, c.Param("id"))
	if !ok {
		return
	}
	if item.CreatorID != caller.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may modify this item"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, problem := req.validate()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       req.Title,
			"description": req.Description,
			"type":        req.Type,
			"date":        date,
			"start_time":  req.StartTime,
			"end_time":    req.EndTime,
			"blog_id":     req.BlogID,
			"status":      req.Status,
			"location":    req.Location,
		}
		if err := tx.Model(&model.ScheduleItem{}).Where("id = ?", item.Id).Updates(updates).Error; err != nil {
			return err
		}
		return syncAssignees(tx, item.Id, req.Assignees)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update schedule item"})
		return
	}

	var updated model.ScheduleItem
	h.DB.Preload("Creator").Preload("Assignees").Preload("Blog").Where("id = ?", item.Id).First(&updated)
	c.JSON(http.StatusOK, updated)
}

// DeleteScheduleItem removes an item and its assignee rows. Creator only.
func (h *Handler) DeleteScheduleItem(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	item, ok := h.readableScheduleItem(c, c.Param("id"))
	if !ok {
		return
	}
	if item.CreatorID != caller.Id {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may delete this item"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_item_id = ?", item.Id).Delete(&model.ScheduleAssignee{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", item.Id).Delete(&model.ScheduleItem{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete schedule item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
