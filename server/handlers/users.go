package handlers

import (
	"net/http"
	"time"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	Logger "github.com/blogsphere/blogsphere/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

// ProfileResponse is the public view of a user. Email and the identity
// provider uid stay internal.
type ProfileResponse struct {
	Id              string         `json:"id"`
	Name            string         `json:"name"`
	AvatarUrl       string         `json:"avatarUrl"`
	ProfileImageUrl string         `json:"profileImageUrl"`
	CoverImageUrl   string         `json:"coverImageUrl"`
	Bio             string         `json:"bio"`
	Role            model.UserRole `json:"role"`
	CreatedAt       time.Time      `json:"createdAt"`
	FollowerCount   int64          `json:"followerCount"`
	FollowingCount  int64          `json:"followingCount"`
	BlogCount       int64          `json:"blogCount"`
	FollowedByMe    bool           `json:"followedByMe"`
}

func (h *Handler) profileOf(user *model.User, viewerID string) ProfileResponse {
	var resp ProfileResponse
	if err := copier.Copy(&resp, user); err != nil {
		Logger.Log.Errorf("fail to copy profile for %s: %s", user.Id, err.Error())
	}
	h.DB.Model(&model.UserFollow{}).Where("followee_id = ?", user.Id).Count(&resp.FollowerCount)
	h.DB.Model(&model.UserFollow{}).Where("follower_id = ?", user.Id).Count(&resp.FollowingCount)
	h.DB.Model(&model.Blog{}).Where("author_id = ? AND status = ?", user.Id, model.BlogStatusPublished).Count(&resp.BlogCount)
	resp.FollowedByMe = h.isFollowing(viewerID, user.Id)
	return resp
}

func (h *Handler) isFollowing(followerID, followeeID string) bool {
	var count int64
	h.DB.Model(&model.UserFollow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count)
	return count > 0
}

// Me returns the caller's own record, already synced by the auth
// middleware.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middlewares.CurrentUser(c))
}

type updateMeRequest struct {
	Bio             *string `json:"bio"`
	ProfileImageUrl *string `json:"profileImageUrl"`
	CoverImageUrl   *string `json:"coverImageUrl"`
}

// UpdateMe edits the user-owned profile fields. Name, email and avatar are
// owned by the identity provider and cannot be changed here.
func (h *Handler) UpdateMe(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImageUrl != nil {
		updates["profile_image_url"] = *req.ProfileImageUrl
	}
	if req.CoverImageUrl != nil {
		updates["cover_image_url"] = *req.CoverImageUrl
	}
	if len(updates) > 0 {
		if err := h.DB.Model(caller).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update profile"})
			return
		}
	}
	c.JSON(http.StatusOK, caller)
}

// DeleteMe is the account-deletion flow: the caller and all their residue
// are removed in one cascade.
func (h *Handler) DeleteMe(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	if err := h.cascadeDeleteUser(caller.Id); err != nil {
		Logger.Log.Errorf("fail to cascade delete user %s: %s", caller.Id, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetUser returns a user's profile. Private profiles are visible only to
// their owner and the owner's followers; everyone else receives a distinct
// private-account signal rather than a generic error.
func (h *Handler) GetUser(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	id := c.Param("id")

	var target model.User
	if res := h.DB.Where("id = ?", id).First(&target); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if target.Id != caller.Id && h.userSettings(target.Id).IsPrivate && !h.isFollowing(caller.Id, target.Id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "private account", "private": true})
		return
	}

	c.JSON(http.StatusOK, h.profileOf(&target, caller.Id))
}

func (h *Handler) Followers(c *gin.Context) {
	h.listFollowEdge(c, "Followers")
}

func (h *Handler) Following(c *gin.Context) {
	h.listFollowEdge(c, "Following")
}

func (h *Handler) listFollowEdge(c *gin.Context, association string) {
	caller := middlewares.CurrentUser(c)
	id := c.Param("id")

	var target model.User
	if res := h.DB.Preload(association).Where("id = ?", id).First(&target); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	users := target.Followers
	if association == "Following" {
		users = target.Following
	}

	profiles := make([]ProfileResponse, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, h.profileOf(user, caller.Id))
	}
	c.JSON(http.StatusOK, profiles)
}

// Follow adds the caller to the target's followers. Self-follow is
// rejected; re-following is a no-op. A successful new edge produces a
// follow notification, subject to the target's settings.
func (h *Handler) Follow(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	targetID := c.Param("id")

	if targetID == caller.Id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}

	var target model.User
	if res := h.DB.Where("id = ?", targetID).First(&target); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var existing model.UserFollow
	res := h.DB.Where("follower_id = ? AND followee_id = ?", caller.Id, targetID).First(&existing)
	if res.RowsAffected == 1 {
		c.JSON(http.StatusOK, gin.H{"following": true})
		return
	}

	if err := h.DB.Create(&model.UserFollow{FollowerID: caller.Id, FolloweeID: targetID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot follow"})
		return
	}
	h.notify(targetID, caller.Id, model.NotificationFollow, nil)
	c.JSON(http.StatusOK, gin.H{"following": true})
}

// Unfollow removes the edge in both views. Idempotent; no notification.
func (h *Handler) Unfollow(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	targetID := c.Param("id")

	if err := h.DB.Where("follower_id = ? AND followee_id = ?", caller.Id, targetID).
		Delete(&model.UserFollow{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot unfollow"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": false})
}

// SuggestedUsers returns up to 10 users the caller does not follow yet,
// excluding the caller. No ranking beyond database order.
func (h *Handler) SuggestedUsers(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	followed := h.DB.Model(&model.UserFollow{}).
		Select("followee_id").
		Where("follower_id = ?", caller.Id)

	var users []model.User
	if err := h.DB.Where("id != ?", caller.Id).
		Where("id NOT IN (?)", followed).
		Limit(10).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load suggestions"})
		return
	}

	profiles := make([]ProfileResponse, 0, len(users))
	for i := range users {
		profiles = append(profiles, h.profileOf(&users[i], caller.Id))
	}
	c.JSON(http.StatusOK, profiles)
}

// GetMySettings returns the caller's privacy and interaction toggles.
func (h *Handler) GetMySettings(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	c.JSON(http.StatusOK, h.userSettings(caller.Id))
}

type updateSettingsRequest struct {
	IsPrivate            *bool `json:"isPrivate"`
	AllowLikes           *bool `json:"allowLikes"`
	AllowComments        *bool `json:"allowComments"`
	ShowFollowerActivity *bool `json:"showFollowerActivity"`
}

func (h *Handler) UpdateMySettings(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := h.userSettings(caller.Id)
	if req.IsPrivate != nil {
		settings.IsPrivate = *req.IsPrivate
	}
	if req.AllowLikes != nil {
		settings.AllowLikes = *req.AllowLikes
	}
	if req.AllowComments != nil {
		settings.AllowComments = *req.AllowComments
	}
	if req.ShowFollowerActivity != nil {
		settings.ShowFollowerActivity = *req.ShowFollowerActivity
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
