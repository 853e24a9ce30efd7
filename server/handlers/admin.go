package handlers

import (
	"net/http"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	Logger "github.com/blogsphere/blogsphere/utils/log"
	"github.com/gin-gonic/gin"
)

// AdminListUsers returns every user with their follower and blog counts.
func (h *Handler) AdminListUsers(c *gin.Context) {
	var users []model.User
	if err := h.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list users"})
		return
	}

	caller := middlewares.CurrentUser(c)
	profiles := make([]ProfileResponse, 0, len(users))
	for i := range users {
		profiles = append(profiles, h.profileOf(&users[i], caller.Id))
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *Handler) adminTargetUser(c *gin.Context) (*model.User, bool) {
	var target model.User
	if res := h.DB.Where("id = ?", c.Param("id")).First(&target); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return nil, false
	}
	return &target, true
}

// AdminGetUser returns one user's full record, email included.
func (h *Handler) AdminGetUser(c *gin.Context) {
	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, target)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateUserStatus blocks or unblocks an account. Admins cannot
// block themselves or a superadmin.
func (h *Handler) AdminUpdateUserStatus(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := model.UserStatus(req.Status)
	if status != model.UserStatusActive && status != model.UserStatusBlocked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or blocked"})
		return
	}
	if target.Id == caller.Id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change your own status"})
		return
	}
	if target.Role == model.UserRoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change a superadmin's status"})
		return
	}

	if err := h.DB.Model(target).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update status"})
		return
	}
	c.JSON(http.StatusOK, target)
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AdminUpdateUserRole changes a user's role. Granting or revoking admin
// level roles is restricted to superadmins.
func (h *Handler) AdminUpdateUserRole(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := model.UserRole(req.Role)
	switch role {
	case model.UserRoleUser, model.UserRoleAdmin, model.UserRoleSuperadmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	touchesAdmin := role != model.UserRoleUser || target.Role != model.UserRoleUser
	if touchesAdmin && caller.Role != model.UserRoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "superadmin access required"})
		return
	}
	if target.Id == caller.Id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change your own role"})
		return
	}

	if err := h.DB.Model(target).Update("role", role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update role"})
		return
	}
	c.JSON(http.StatusOK, target)
}

// AdminDeleteUser cascade-deletes an account and all its residue. Admins
// cannot delete themselves here or remove a superadmin.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}
	if target.Id == caller.Id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account here"})
		return
	}
	if target.Role == model.UserRoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete a superadmin"})
		return
	}

	if err := h.cascadeDeleteUser(target.Id); err != nil {
		Logger.Log.Errorf("fail to cascade delete user %s: %s", target.Id, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AdminStats summarizes the platform: user counts by status and role,
// blog counts by publication status.
func (h *Handler) AdminStats(c *gin.Context) {
	var totalUsers, activeUsers, blockedUsers, adminUsers int64
	h.DB.Model(&model.User{}).Count(&totalUsers)
	h.DB.Model(&model.User{}).Where("status = ?", model.UserStatusActive).Count(&activeUsers)
	h.DB.Model(&model.User{}).Where("status = ?", model.UserStatusBlocked).Count(&blockedUsers)
	h.DB.Model(&model.User{}).
		Where("role IN ?", []model.UserRole{model.UserRoleAdmin, model.UserRoleSuperadmin}).
		Count(&adminUsers)

	var totalBlogs, publishedBlogs, draftBlogs, totalComments int64
	h.DB.Model(&model.Blog{}).Count(&totalBlogs)
	h.DB.Model(&model.Blog{}).Where("status = ?", model.BlogStatusPublished).Count(&publishedBlogs)
	h.DB.Model(&model.Blog{}).Where("status = ?", model.BlogStatusDraft).Count(&draftBlogs)
	h.DB.Model(&model.Comment{}).Count(&totalComments)

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":   totalUsers,
			"active":  activeUsers,
			"blocked": blockedUsers,
			"admins":  adminUsers,
		},
		"blogs": gin.H{
			"total":     totalBlogs,
			"published": publishedBlogs,
			"drafts":    draftBlogs,
		},
		"comments": totalComments,
	})
}

// AdminListUploads returns every blog in any status with its author, the
// moderation view over all uploaded content.
func (h *Handler) AdminListUploads(c *gin.Context) {
	var blogs []model.Blog
	err := h.DB.Preload("Author").Preload("Tags").
		Order("created_at DESC").
		Find(&blogs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list uploads"})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

type broadcastRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience"`
}

// AdminBroadcast sends one email to the selected audience. Recipients go
// on the envelope only, so users never see each other's addresses.
func (h *Handler) AdminBroadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := h.DB.Model(&model.User{}).Where("status = ?", model.UserStatusActive)
	switch req.Audience {
	case "", "all":
	case "users":
		query = query.Where("role = ?", model.UserRoleUser)
	case "admins":
		query = query.Where("role IN ?", []model.UserRole{model.UserRoleAdmin, model.UserRoleSuperadmin})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "audience must be all, users or admins"})
		return
	}

	var recipients []string
	if err := query.Pluck("email", &recipients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot resolve recipients"})
		return
	}
	if len(recipients) == 0 {
		c.JSON(http.StatusOK, gin.H{"sent": 0})
		return
	}

	if err := h.Mailer.Broadcast(req.Subject, req.Body, recipients); err != nil {
		Logger.Log.Errorf("fail to send broadcast: %s", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "cannot send broadcast"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": len(recipients)})
}

// AdminGetMaintenance reports the global maintenance flag.
func (h *Handler) AdminGetMaintenance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maintenanceMode": model.GetBoolSetting(h.DB, model.SettingKeyMaintenanceMode),
	})
}

type maintenanceRequest struct {
	MaintenanceMode *bool `json:"maintenanceMode" binding:"required"`
}

// AdminSetMaintenance flips the global maintenance flag. The change takes
// effect on the next request through the maintenance gate.
func (h *Handler) AdminSetMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := model.SetBoolSetting(h.DB, model.SettingKeyMaintenanceMode, *req.MaintenanceMode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenanceMode": *req.MaintenanceMode})
}
