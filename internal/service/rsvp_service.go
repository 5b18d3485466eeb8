package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/myeventng/somarv26/internal/db"
	"gorm.io/gorm"
)

var (
	ErrRSVPNameMissing  = errors.New("name is required")
	ErrRSVPEmailMissing = errors.New("email is required")
)

// RSVPInput represents one attendance reply as submitted by a guest.
type RSVPInput struct {
	Name       string
	Email      string
	Attending  bool
	GuestCount int
	Message    *string
}

// RSVPStats aggregates the dashboard numbers.
type RSVPStats struct {
	Total       int64 `json:"total"`
	Attending   int64 `json:"attending"`
	TotalGuests int64 `json:"totalGuests"`
}

// RSVPService persists and exports attendance replies. Records are create
// and read only; there is no update or delete path.
type RSVPService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// NewRSVPService creates an RSVPService instance.
func NewRSVPService(gdb *gorm.DB) *RSVPService {
	return &RSVPService{db: gdb, sanitizer: bluemonday.StrictPolicy()}
}

// Create persists one reply. When the guest is not attending the guest
// count is forced to 0 regardless of what was submitted.
func (s *RSVPService) Create(input RSVPInput) (*db.RSVP, error) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, ErrRSVPNameMissing
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrRSVPEmailMissing
	}

	guestCount := input.GuestCount
	if !input.Attending || guestCount < 0 {
		guestCount = 0
	}

	var message *string
	if input.Message != nil {
		cleaned := strings.TrimSpace(s.sanitizer.Sanitize(*input.Message))
		if cleaned != "" {
			message = &cleaned
		}
	}

	record := db.RSVP{
		Name:       name,
		Email:      email,
		Attending:  input.Attending,
		GuestCount: guestCount,
		Message:    message,
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns every reply, most recent first.
func (s *RSVPService) List() ([]db.RSVP, error) {
	var records []db.RSVP
	if err := s.db.Order("created_at desc").Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Stats returns the totals shown on the admin dashboard.
func (s *RSVPService) Stats() (RSVPStats, error) {
	var stats RSVPStats
	if err := s.db.Model(&db.RSVP{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&db.RSVP{}).Where("attending = ?", true).Count(&stats.Attending).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&db.RSVP{}).
		Where("attending = ?", true).
		Select("COALESCE(SUM(guest_count), 0)").
		Scan(&stats.TotalGuests).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// ExportCSV serializes replies for the admin download. String cells are
// quoted, the guest count stays bare while attending and blank otherwise.
func ExportCSV(records []db.RSVP) string {
	var b strings.Builder
	b.WriteString(`"Name","Email","Attending","Guest Count","Message","Date"`)

	for _, r := range records {
		attending := "No"
		guestCount := `""`
		if r.Attending {
			attending = "Yes"
			guestCount = strconv.Itoa(r.GuestCount)
		}
		message := ""
		if r.Message != nil {
			message = *r.Message
		}

		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(`%s,%s,%s,%s,%s,%s`,
			csvCell(r.Name),
			csvCell(r.Email),
			csvCell(attending),
			guestCount,
			csvCell(message),
			csvCell(r.CreatedAt.Format("1/2/2006")),
		))
	}

	return b.String()
}

func csvCell(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
