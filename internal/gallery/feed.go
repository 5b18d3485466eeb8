// Package gallery holds the paginated read model the public gallery is
// built on: persisted photos in reverse-chronological pages, followed by a
// fixed set of placeholder images that is never paginated.
package gallery

import (
	"sync"

	"github.com/myeventng/somarv26/internal/db"
)

// DefaultPageSize matches the gallery grid.
const DefaultPageSize = 12

// Lister fetches one page of persisted photos.
type Lister interface {
	ListImages(skip, take int) ([]db.GalleryImage, error)
}

// Entry is one gallery cell: either a persisted photo or a placeholder URL.
type Entry struct {
	Image       *db.GalleryImage
	Placeholder string
}

// Feed accumulates pages of photos as the viewer scrolls. A fetch already
// in flight suppresses further triggers, and a short page marks the end of
// the persisted data for the rest of the session.
type Feed struct {
	mu           sync.Mutex
	lister       Lister
	pageSize     int
	images       []db.GalleryImage
	placeholders []string
	hasMore      bool
	loading      bool
}

// NewFeed creates an empty feed; call LoadMore to fetch the first page.
func NewFeed(lister Lister, pageSize int, placeholders []string) *Feed {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Feed{
		lister:       lister,
		pageSize:     pageSize,
		placeholders: placeholders,
		hasMore:      true,
	}
}

// LoadMore fetches the next page and returns how many photos were added.
// It returns 0 without fetching when the feed is exhausted or a fetch is
// already in flight.
func (f *Feed) LoadMore() (int, error) {
	f.mu.Lock()
	if f.loading || !f.hasMore {
		f.mu.Unlock()
		return 0, nil
	}
	f.loading = true
	skip := len(f.images)
	take := f.pageSize
	f.mu.Unlock()

	page, err := f.lister.ListImages(skip, take)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return 0, err
	}

	f.images = append(f.images, page...)
	f.hasMore = len(page) >= take
	return len(page), nil
}

// HasMore reports whether another page may exist.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Entries returns the rendered list: every loaded photo in order, then the
// full placeholder set. Placeholders do not participate in pagination.
func (f *Feed) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Entry, 0, len(f.images)+len(f.placeholders))
	for i := range f.images {
		img := f.images[i]
		out = append(out, Entry{Image: &img})
	}
	for _, url := range f.placeholders {
		out = append(out, Entry{Placeholder: url})
	}
	return out
}
