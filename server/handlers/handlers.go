package handlers

import (
	"github.com/blogsphere/blogsphere/filestore"
	"github.com/blogsphere/blogsphere/mailer"
	"github.com/blogsphere/blogsphere/model"
	Logger "github.com/blogsphere/blogsphere/utils/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Handler carries the shared collaborators every route handler needs. All
// business logic runs directly against DB; there is no service layer in
// between.
type Handler struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
	Images filestore.Store
}

func New(db *gorm.DB, m mailer.Mailer, images filestore.Store) *Handler {
	return &Handler{DB: db, Mailer: m, Images: images}
}

// userSettings loads a user's settings row. A missing row reads as the
// defaults (everything allowed, profile public).
func (h *Handler) userSettings(userID string) model.UserSettings {
	var settings model.UserSettings
	res := h.DB.Where("user_id = ?", userID).First(&settings)
	if res.RowsAffected == 0 {
		return model.UserSettings{
			UserID:               userID,
			AllowLikes:           true,
			AllowComments:        true,
			ShowFollowerActivity: true,
		}
	}
	return settings
}

// notify inserts a notification for recipient about sender's action.
// Self-notifications are never created; like and follow notifications also
// require the recipient's ShowFollowerActivity setting. A failed insert is
// logged and swallowed: the triggering action has already succeeded.
func (h *Handler) notify(recipientID, senderID string, typ model.NotificationType, blogID *string) {
	if recipientID == senderID {
		return
	}
	if typ == model.NotificationLike || typ == model.NotificationFollow {
		if !h.userSettings(recipientID).ShowFollowerActivity {
			return
		}
	}
	notification := model.Notification{
		Id:          uuid.New().String(),
		RecipientID: recipientID,
		SenderID:    &senderID,
		Type:        typ,
		BlogID:      blogID,
	}
	if err := h.DB.Create(&notification).Error; err != nil {
		Logger.Log.Errorf("fail to insert %s notification for %s: %s", typ, recipientID, err.Error())
	}
}

// cascadeDeleteUser removes a user and every piece of their residue in one
// transaction: authored blogs with everything embedded in them, the user's
// comments/replies/reactions elsewhere, likes, bookmarks, view records,
// both directions of follow edges, notifications sent or received,
// schedule items and assignments, and the settings row.
func (h *Handler) cascadeDeleteUser(userID string) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		var blogIDs []string
		if err := tx.Model(&model.Blog{}).Where("author_id = ?", userID).Pluck("id", &blogIDs).Error; err != nil {
			return err
		}
		if len(blogIDs) > 0 {
			var categories []string
			if err := tx.Model(&model.Blog{}).Where("author_id = ? AND category <> ''", userID).
				Pluck("category", &categories).Error; err != nil {
				return err
			}
			for _, name := range categories {
				adjustCategoryPopularity(tx, name, -1)
			}
			if err := deleteBlogResidue(tx, blogIDs); err != nil {
				return err
			}
			if err := tx.Where("blog_id IN ?", blogIDs).Delete(&model.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", blogIDs).Delete(&model.Blog{}).Error; err != nil {
				return err
			}
		}

		// comments the user left on other blogs, with their replies and
		// reactions
		var commentIDs []string
		if err := tx.Model(&model.Comment{}).Where("author_id = ?", userID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.Reply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.CommentReaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", commentIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&model.Reply{}).Error; err != nil {
			return err
		}

		for _, residue := range []interface{}{
			&model.CommentReaction{}, &model.BlogLike{}, &model.BlogBookmark{}, &model.BlogView{},
			&model.ScheduleAssignee{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(residue).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).Delete(&model.UserFollow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipient_id = ? OR sender_id = ?", userID, userID).Delete(&model.Notification{}).Error; err != nil {
			return err
		}

		var scheduleIDs []string
		if err := tx.Model(&model.ScheduleItem{}).Where("creator_id = ?", userID).Pluck("id", &scheduleIDs).Error; err != nil {
			return err
		}
		if len(scheduleIDs) > 0 {
			if err := tx.Where("schedule_item_id IN ?", scheduleIDs).Delete(&model.ScheduleAssignee{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", scheduleIDs).Delete(&model.ScheduleItem{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.UserSettings{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&model.User{}).Error
	})
}

// deleteBlogResidue removes everything hanging off the given blogs:
// comments (with replies and reactions), tags, likes, bookmarks and view
// records. The blog rows themselves are left to the caller.
func deleteBlogResidue(tx *gorm.DB, blogIDs []string) error {
	var commentIDs []string
	if err := tx.Model(&model.Comment{}).Where("blog_id IN ?", blogIDs).Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.CommentReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", commentIDs).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
	}
	for _, residue := range []interface{}{
		&model.BlogTag{}, &model.BlogLike{}, &model.BlogBookmark{}, &model.BlogView{},
	} {
		if err := tx.Where("blog_id IN ?", blogIDs).Delete(residue).Error; err != nil {
			return err
		}
	}
	return nil
}
