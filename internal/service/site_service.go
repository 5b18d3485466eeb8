package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/myeventng/somarv26/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	storyMarkdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
	storySanitizer = bluemonday.UGCPolicy()
)

// SiteEvent is one entry on the wedding schedule.
type SiteEvent struct {
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
	Time  string `json:"time"`
	Venue string `json:"venue"`
}

// SiteContent is the public payload backing the landing page.
type SiteContent struct {
	BrideName   string      `json:"brideName"`
	GroomName   string      `json:"groomName"`
	WeddingDate string      `json:"weddingDate"`
	StoryHTML   string      `json:"storyHtml"`
	Events      []SiteEvent `json:"events"`
}

// SiteContentInput updates the editable site content. Empty fields fall
// back to the defaults.
type SiteContentInput struct {
	BrideName     string
	GroomName     string
	WeddingDate   string
	StoryMarkdown string
	Events        []SiteEvent
}

var defaultEvents = []SiteEvent{
	{
		Title: "Traditional Marriage",
		Date:  "9th January, 2026",
		Time:  "12:00 PM",
		Venue: "29, Dumex Road, Off Sapele Road, Benin City",
	},
	{
		Title: "White Wedding",
		Date:  "Sunday, 11th January, 2026",
		Time:  "9:00 AM",
		Venue: "Christ Anointing Prayer Ministry Inc.\n1, Christ Anointing Close, Off P/Z Road, Off Sapele Road, Evbuoriaria, Benin City, Edo State",
	},
	{
		Title: "Reception",
		Time:  "12:00 PM",
		Venue: "Crown Heights Pavilion.\n81/83, Country Home Road, Benin City",
	},
}

const (
	defaultBrideName    = "Iyesogie Omobude"
	defaultGroomName    = "Marvin Uwa Edogun"
	defaultWeddingDate  = "2026-01-11T09:00:00Z"
	defaultStoryContent = "Two hearts, one story. Join us as we celebrate the beginning of our forever."
)

// SiteService reads and updates the admin-editable site content stored as
// key/value settings.
type SiteService struct {
	db *gorm.DB
}

// NewSiteService constructs a SiteService.
func NewSiteService(gdb *gorm.DB) *SiteService {
	return &SiteService{db: gdb}
}

var siteSettingKeys = []string{
	db.SettingKeyBrideName,
	db.SettingKeyGroomName,
	db.SettingKeyWeddingDate,
	db.SettingKeyStoryMarkdown,
	db.SettingKeyEventsJSON,
}

// GetContent loads the site content, substituting defaults for anything
// unset, with the story rendered to sanitized HTML.
func (s *SiteService) GetContent() (SiteContent, error) {
	content := SiteContent{
		BrideName:   defaultBrideName,
		GroomName:   defaultGroomName,
		WeddingDate: defaultWeddingDate,
		Events:      defaultEvents,
	}
	story := defaultStoryContent

	var records []db.SiteSetting
	if err := s.db.Where("key IN ?", siteSettingKeys).Find(&records).Error; err != nil {
		return content, fmt.Errorf("load site settings: %w", err)
	}

	for _, record := range records {
		value := strings.TrimSpace(record.Value)
		if value == "" {
			continue
		}
		switch record.Key {
		case db.SettingKeyBrideName:
			content.BrideName = value
		case db.SettingKeyGroomName:
			content.GroomName = value
		case db.SettingKeyWeddingDate:
			content.WeddingDate = value
		case db.SettingKeyStoryMarkdown:
			story = value
		case db.SettingKeyEventsJSON:
			var events []SiteEvent
			if err := json.Unmarshal([]byte(value), &events); err == nil && len(events) > 0 {
				content.Events = events
			}
		}
	}

	content.StoryHTML = renderStory(story)
	return content, nil
}

// UpdateContent saves the editable fields, falling back to defaults for
// blanks, and returns the resulting public payload.
func (s *SiteService) UpdateContent(input SiteContentInput) (SiteContent, error) {
	events := input.Events
	if len(events) == 0 {
		events = defaultEvents
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return SiteContent{}, fmt.Errorf("encode events: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		pairs := map[string]string{
			db.SettingKeyBrideName:     strings.TrimSpace(input.BrideName),
			db.SettingKeyGroomName:     strings.TrimSpace(input.GroomName),
			db.SettingKeyWeddingDate:   strings.TrimSpace(input.WeddingDate),
			db.SettingKeyStoryMarkdown: strings.TrimSpace(input.StoryMarkdown),
			db.SettingKeyEventsJSON:    string(eventsJSON),
		}
		for key, value := range pairs {
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SiteContent{}, fmt.Errorf("update site settings: %w", err)
	}

	return s.GetContent()
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SiteSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func renderStory(markdown string) string {
	var buf bytes.Buffer
	if err := storyMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return ""
	}
	return storySanitizer.Sanitize(buf.String())
}
