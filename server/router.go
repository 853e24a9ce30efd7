package server

import (
	"github.com/blogsphere/blogsphere/filestore"
	"github.com/blogsphere/blogsphere/mailer"
	"github.com/blogsphere/blogsphere/server/handlers"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires every route. Everything under /api runs behind the auth
// and maintenance gates; /api/admin additionally requires an admin role.
func NewRouter(db *gorm.DB, m mailer.Mailer, images filestore.Store) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowHeaders:    []string{"*"},
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	h := handlers.New(db, m, images)

	api := router.Group("/api")
	api.Use(middlewares.Auth(db), middlewares.Maintenance(db))
	{
		users := api.Group("/users")
		{
			users.GET("/me", h.Me)
			users.PUT("/me", h.UpdateMe)
			users.DELETE("/me", h.DeleteMe)
			users.GET("/me/settings", h.GetMySettings)
			users.PUT("/me/settings", h.UpdateMySettings)
			users.GET("/suggested", h.SuggestedUsers)
			users.GET("/:id", h.GetUser)
			users.GET("/:id/followers", h.Followers)
			users.GET("/:id/following", h.Following)
			users.POST("/:id/follow", h.Follow)
			users.DELETE("/:id/follow", h.Unfollow)
		}

		blogs := api.Group("/blogs")
		{
			blogs.GET("", h.ListBlogs)
			blogs.POST("", h.CreateBlog)
			blogs.GET("/:id", h.GetBlog)
			blogs.PUT("/:id", h.UpdateBlog)
			blogs.DELETE("/:id", h.DeleteBlog)
			blogs.POST("/:id/view", h.ViewBlog)
			blogs.POST("/:id/like", h.LikeBlog)
			blogs.DELETE("/:id/like", h.UnlikeBlog)
			blogs.POST("/:id/bookmark", h.BookmarkBlog)
			blogs.DELETE("/:id/bookmark", h.UnbookmarkBlog)
			blogs.POST("/:id/comments", h.CreateComment)
		}

		comments := api.Group("/comments")
		{
			comments.DELETE("/:id", h.DeleteComment)
			comments.POST("/:id/replies", h.CreateReply)
			comments.POST("/:id/like", h.LikeComment)
			comments.POST("/:id/dislike", h.DislikeComment)
		}

		trending := api.Group("/trending")
		{
			trending.GET("/blogs", h.TrendingBlogs)
			trending.GET("/tags", h.TrendingTags)
		}

		tags := api.Group("/tags")
		{
			tags.GET("/:tag", h.BlogsByTag)
			tags.GET("/:tag/top", h.TopBlogByTag)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.ListCategories)
			categories.POST("/suggest", h.SuggestCategory)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.PUT("/read-all", h.MarkAllNotificationsRead)
			notifications.PUT("/:id/read", h.MarkNotificationRead)
			notifications.DELETE("/:id", h.DeleteNotification)
		}

		schedule := api.Group("/schedule")
		{
			schedule.GET("", h.ListScheduleItems)
			schedule.POST("", h.CreateScheduleItem)
			schedule.GET("/:id", h.GetScheduleItem)
			schedule.PUT("/:id", h.UpdateScheduleItem)
			schedule.DELETE("/:id", h.DeleteScheduleItem)
		}

		api.POST("/upload", h.UploadImage)

		admin := api.Group("/admin")
		admin.Use(middlewares.RequireAdmin())
		{
			admin.GET("/users", h.AdminListUsers)
			admin.GET("/users/:id", h.AdminGetUser)
			admin.PUT("/users/:id/status", h.AdminUpdateUserStatus)
			admin.PUT("/users/:id/role", h.AdminUpdateUserRole)
			admin.DELETE("/users/:id", h.AdminDeleteUser)
			admin.GET("/stats", h.AdminStats)
			admin.GET("/uploads", h.AdminListUploads)
			admin.POST("/broadcast", h.AdminBroadcast)
			admin.GET("/maintenance", h.AdminGetMaintenance)
			admin.PUT("/maintenance", h.AdminSetMaintenance)
			admin.GET("/categories/suggestions", h.ListSuggestedCategories)
			admin.PUT("/categories/suggestions/:id/approve", h.ApproveSuggestedCategory)
		}
	}

	return router
}
