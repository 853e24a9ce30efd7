// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"testing"

	"github.com/blogsphere/blogsphere/model"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// NewTestDB opens a fresh in-memory sqlite database with the full schema
// migrated. Every test gets its own database, closed by t.Cleanup, so tests
// never share state and no database server is needed.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("cannot open test DB: %v", err)
	}
	DatabaseSetupAndMigration(db)
	t.Cleanup(func() {
		conn, _ := db.DB()
		conn.Close()
	})
	return db
}

func DatabaseSetupAndMigration(db *gorm.DB) {
	var err error

	err = db.SetupJoinTable(&model.User{}, "Followers", &model.UserFollow{})
	if err != nil {
		panic("failed to set up user_follows join table")
	}

	err = db.SetupJoinTable(&model.User{}, "Following", &model.UserFollow{})
	if err != nil {
		panic("failed to set up user_follows join table")
	}

	err = db.SetupJoinTable(&model.Blog{}, "LikedBy", &model.BlogLike{})
	if err != nil {
		panic("failed to set up blog_likes join table")
	}

	err = db.SetupJoinTable(&model.Blog{}, "BookmarkedBy", &model.BlogBookmark{})
	if err != nil {
		panic("failed to set up blog_bookmarks join table")
	}

	err = db.SetupJoinTable(&model.Blog{}, "ViewedBy", &model.BlogView{})
	if err != nil {
		panic("failed to set up blog_views join table")
	}

	err = db.SetupJoinTable(&model.ScheduleItem{}, "Assignees", &model.ScheduleAssignee{})
	if err != nil {
		panic("failed to set up schedule_assignees join table")
	}

	db.AutoMigrate(
		&model.User{}, &model.UserSettings{},
		&model.Blog{}, &model.BlogTag{},
		&model.Comment{}, &model.Reply{}, &model.CommentReaction{},
		&model.Notification{},
		&model.ScheduleItem{},
		&model.Category{}, &model.SuggestedCategory{},
		&model.Setting{},
	)
}
