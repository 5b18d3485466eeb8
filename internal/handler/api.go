package handler

import (
	"github.com/myeventng/somarv26/internal/service"
	"github.com/myeventng/somarv26/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	galleries    *service.GalleryService
	rsvps        *service.RSVPService
	site         *service.SiteService
	emails       *service.EmailService
	store        storage.Storage
	maxBatch     int
	placeholders []string
}

// DefaultPlaceholders is the fixed set of pre-seeded photos shown after
// every guest upload in the gallery. It is never paginated.
var DefaultPlaceholders = []string{
	"/assets/images/couple-image.png",
	"/assets/images/couple-image-portait.png",
	"/assets/images/couple-in-wedding-cloth-and-drinking-wine.png",
	"/assets/images/couple-in-wedding-cloth-another-position.png",
	"/assets/images/couple-in-wedding-clothes.png",
	"/assets/images/couple-in-wedding-clothe-sitting.png",
	"/assets/images/couple-in-wedding-gown3.png",
	"/assets/images/couple-in-wedding-gown-looking-eye-to-eye.png",
	"/assets/images/couple-pouring-dring.png",
	"/assets/images/tennis-cloth.png",
	"/assets/images/tennis-clothing2.png",
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store storage.Storage, emails *service.EmailService, maxBatch int, placeholders []string) *API {
	if placeholders == nil {
		placeholders = DefaultPlaceholders
	}
	return &API{
		db:           gdb,
		galleries:    service.NewGalleryService(gdb),
		rsvps:        service.NewRSVPService(gdb),
		site:         service.NewSiteService(gdb),
		emails:       emails,
		store:        store,
		maxBatch:     maxBatch,
		placeholders: placeholders,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
