package db

import "time"

// RSVP is one guest's attendance reply. Records are created once per
// submission and never updated or deleted; the admin side only lists and
// exports them.
type RSVP struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"not null" json:"email"`
	Attending  bool      `json:"attending"`
	GuestCount int       `json:"guestCount"`
	Message    *string   `json:"message"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}
