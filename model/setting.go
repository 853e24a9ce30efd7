package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingKeyMaintenanceMode gates all non-admin API access when true.
const SettingKeyMaintenanceMode = "maintenanceMode"

/*

Setting is a generic key -> JSON value store for global flags.

*/
type Setting struct {
	Key       string `gorm:"primaryKey"`
	UpdatedAt time.Time
	Value     datatypes.JSON
}

// GetBoolSetting reads a boolean setting. A missing row or an unparsable
// value reads as false.
func GetBoolSetting(db *gorm.DB, key string) bool {
	var setting Setting
	if res := db.Where("key = ?", key).First(&setting); res.RowsAffected == 0 {
		return false
	}
	var v bool
	if err := json.Unmarshal(setting.Value, &v); err != nil {
		return false
	}
	return v
}

// SetBoolSetting upserts a boolean setting.
func SetBoolSetting(db *gorm.DB, key string, v bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	setting := Setting{Key: key, Value: raw}
	if res := db.Model(&Setting{}).Where("key = ?", key).Update("value", datatypes.JSON(raw)); res.Error != nil {
		return res.Error
	} else if res.RowsAffected == 1 {
		return nil
	}
	return db.Create(&setting).Error
}
