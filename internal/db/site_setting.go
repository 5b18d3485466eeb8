package db

import "gorm.io/gorm"

// SiteSetting stores admin-editable site content as key/value pairs.
type SiteSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName keeps the table name explicit.
func (SiteSetting) TableName() string {
	return "site_settings"
}

const (
	// SettingKeyBrideName is the bride's display name.
	SettingKeyBrideName = "bride_name"
	// SettingKeyGroomName is the groom's display name.
	SettingKeyGroomName = "groom_name"
	// SettingKeyWeddingDate is the white wedding date/time in RFC 3339.
	SettingKeyWeddingDate = "wedding_date"
	// SettingKeyStoryMarkdown is the couple's story in markdown.
	SettingKeyStoryMarkdown = "story_markdown"
	// SettingKeyEventsJSON holds the event schedule as a JSON array.
	SettingKeyEventsJSON = "events_json"
)
