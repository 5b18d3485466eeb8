package service

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/myeventng/somarv26/internal/db"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound     = errors.New("gallery image not found")
	ErrImageURLMissing   = errors.New("image url is required")
	ErrImageCaptionEmpty = errors.New("caption is required")
	ErrImageUpdateEmpty  = errors.New("nothing to update")
	ErrImageCaptionBlank = errors.New("caption cannot be emptied")
)

// GalleryService handles guest photo records: creation from the submission
// stage, paginated reads for the gallery, and admin moderation.
type GalleryService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB) *GalleryService {
	return &GalleryService{
		db: gdb,
		// Guest captions and names are untrusted free text shown on the
		// public gallery; strip all markup before persisting.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// CreateImage persists one gallery record. URL and caption are required
// and remain non-empty for the record's lifetime.
func (s *GalleryService) CreateImage(url, caption string, guestName, guestEmail, guestPhone *string) (*db.GalleryImage, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrImageURLMissing
	}
	caption = strings.TrimSpace(s.sanitizer.Sanitize(caption))
	if caption == "" {
		return nil, ErrImageCaptionEmpty
	}

	item := db.GalleryImage{
		URL:        url,
		Caption:    caption,
		GuestName:  s.cleanOptional(guestName),
		GuestEmail: s.cleanOptional(guestEmail),
		GuestPhone: s.cleanOptional(guestPhone),
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListImages returns one page ordered by upload time descending, ties
// broken by insertion order. take <= 0 falls back to the gallery default.
func (s *GalleryService) ListImages(skip, take int) ([]db.GalleryImage, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = 12
	}

	var items []db.GalleryImage
	if err := s.db.Order("uploaded_at desc").Order("id desc").
		Offset(skip).
		Limit(take).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountImages returns the number of persisted gallery records.
func (s *GalleryService) CountImages() (int64, error) {
	var count int64
	if err := s.db.Model(&db.GalleryImage{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateImage applies a partial update of caption and/or approved. Nil
// fields are left untouched.
func (s *GalleryService) UpdateImage(id uint, caption *string, approved *bool) (*db.GalleryImage, error) {
	if caption == nil && approved == nil {
		return nil, ErrImageUpdateEmpty
	}

	var item db.GalleryImage
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	if caption != nil {
		cleaned := strings.TrimSpace(s.sanitizer.Sanitize(*caption))
		if cleaned == "" {
			return nil, ErrImageCaptionBlank
		}
		item.Caption = cleaned
	}
	if approved != nil {
		item.Approved = *approved
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteImage removes a gallery record. Deleting an id that does not exist
// reports ErrImageNotFound instead of failing silently.
func (s *GalleryService) DeleteImage(id uint) error {
	var item db.GalleryImage
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	return s.db.Delete(&item).Error
}

func (s *GalleryService) cleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(*value))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
