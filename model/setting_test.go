package model

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func settingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Setting{}))
	return db
}

func TestBoolSettingRoundTrip(t *testing.T) {
	db := settingTestDB(t)

	// Missing rows read as false.
	require.False(t, GetBoolSetting(db, SettingKeyMaintenanceMode))

	require.NoError(t, SetBoolSetting(db, SettingKeyMaintenanceMode, true))
	require.True(t, GetBoolSetting(db, SettingKeyMaintenanceMode))

	// The second write updates in place instead of inserting.
	require.NoError(t, SetBoolSetting(db, SettingKeyMaintenanceMode, false))
	require.False(t, GetBoolSetting(db, SettingKeyMaintenanceMode))

	var rows int64
	db.Model(&Setting{}).Count(&rows)
	require.EqualValues(t, 1, rows)
}
