package db

import "time"

// GalleryImage is one guest-submitted photo in the wedding gallery.
// URL and Caption are always non-empty once a record exists; guests never
// update a record after creation, only admins do (approval flag, caption
// fixes, deletion).
type GalleryImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	URL        string    `gorm:"not null" json:"url"`
	Caption    string    `gorm:"not null" json:"caption"`
	GuestName  *string   `json:"guestName"`
	GuestEmail *string   `json:"guestEmail"`
	GuestPhone *string   `json:"guestPhone"`
	Approved   bool      `gorm:"default:false" json:"approved"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploadedAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
