// Package upload implements the guest photo submission pipeline: per-file
// compression, single-flight batch transfer to object storage, and the final
// association of uploaded URLs with guest metadata.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/myeventng/somarv26/internal/db"
	"github.com/myeventng/somarv26/internal/imaging"
	"github.com/myeventng/somarv26/internal/storage"
)

// Status tracks a file through the pipeline.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusUploading  Status = "uploading"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var (
	ErrUploadInFlight  = errors.New("an upload is already in flight")
	ErrTooManyFiles    = errors.New("too many files in batch")
	ErrNoFiles         = errors.New("no files selected")
	ErrStillProcessing = errors.New("a file is still being processed")
	ErrBatchUnresolved = errors.New("batch has errored files that must be removed first")
	ErrFileBusy        = errors.New("file cannot be removed right now")
	ErrNotUploaded     = errors.New("files have not been uploaded")
	ErrPartialSubmit   = errors.New("some photos failed to submit")
)

// DefaultMaxFiles is the batch size limit when none is configured.
const DefaultMaxFiles = 5

// File is one entry in an upload session. Lifecycle: pending → processing →
// pending (compression done, or compression failed and fell back to the
// original bytes) → uploading → completed | error. Removal destroys the
// entry; there is no transition back to pending.
type File struct {
	id          int
	Name        string
	Size        int64
	ContentType string
	Data        []byte
	Status      Status
	Progress    int
	URL         string
	Err         string
	Compressed  bool
}

// Input is a freshly selected file before it enters the session.
type Input struct {
	Name        string
	ContentType string
	Data        []byte
}

// RecordCreator persists one gallery record per uploaded URL.
type RecordCreator interface {
	CreateImage(url, caption string, guestName, guestEmail, guestPhone *string) (*db.GalleryImage, error)
}

// Session owns the file list for one submission. All state changes replace
// the whole slice under the mutex so concurrently finishing compressions
// never observe each other's stale snapshots.
type Session struct {
	mu         sync.Mutex
	files      []File
	uploading  bool
	maxFiles   int
	nextID     int
	store      storage.Storage
	processing sync.WaitGroup
}

// NewSession creates a session bound to a storage backend. maxFiles <= 0
// falls back to DefaultMaxFiles.
func NewSession(store storage.Storage, maxFiles int) *Session {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	return &Session{store: store, maxFiles: maxFiles}
}

// Add validates and admits files into the session, then compresses each one
// concurrently. Oversized files reject the whole call before anything is
// admitted, leaving the list unchanged. Compression failures are silent:
// the file keeps its original bytes and returns to pending.
func (s *Session) Add(inputs ...Input) error {
	if len(inputs) == 0 {
		return nil
	}

	for _, in := range inputs {
		if int64(len(in.Data)) > imaging.MaxFileSize {
			return fmt.Errorf("%s: %w", in.Name, imaging.ErrTooLarge)
		}
	}

	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return ErrUploadInFlight
	}
	if len(s.files)+len(inputs) > s.maxFiles {
		s.mu.Unlock()
		return fmt.Errorf("%w: maximum %d files allowed", ErrTooManyFiles, s.maxFiles)
	}

	next := snapshot(s.files)
	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		s.nextID++
		ids = append(ids, s.nextID)
		next = append(next, File{
			id:          s.nextID,
			Name:        in.Name,
			Size:        int64(len(in.Data)),
			ContentType: in.ContentType,
			Data:        in.Data,
			Status:      StatusProcessing,
		})
	}
	s.files = next
	s.mu.Unlock()

	for _, id := range ids {
		s.processing.Add(1)
		go func() {
			defer s.processing.Done()
			s.compress(id)
		}()
	}

	return nil
}

// compress runs the compression stage for a single file and publishes the
// result. Results for different files may land out of order; the file is
// looked up by id so removals elsewhere in the list cannot redirect the
// update.
func (s *Session) compress(id int) {
	s.mu.Lock()
	index := s.indexOf(id)
	if index < 0 {
		s.mu.Unlock()
		return
	}
	data := s.files[index].Data
	contentType := s.files[index].ContentType
	s.mu.Unlock()

	result := imaging.Compress(data, contentType)

	s.mu.Lock()
	defer s.mu.Unlock()
	index = s.indexOf(id)
	if index < 0 {
		return
	}
	next := snapshot(s.files)
	next[index].Data = result.Data
	next[index].Size = int64(len(result.Data))
	next[index].ContentType = result.ContentType
	next[index].Compressed = result.Compressed
	next[index].Status = StatusPending
	s.files = next
}

// indexOf resolves a file id to its current position. Callers must hold mu.
func (s *Session) indexOf(id int) int {
	for i := range s.files {
		if s.files[i].id == id {
			return i
		}
	}
	return -1
}

// WaitProcessed blocks until every admitted file has left the processing
// state.
func (s *Session) WaitProcessed() {
	s.processing.Wait()
}

// Remove drops a file that has not started uploading. Processing and
// uploading files cannot be removed.
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploading {
		return ErrUploadInFlight
	}
	if index < 0 || index >= len(s.files) {
		return fmt.Errorf("no file at index %d", index)
	}
	switch s.files[index].Status {
	case StatusProcessing, StatusUploading:
		return ErrFileBusy
	}

	next := snapshot(s.files)
	s.files = append(next[:index], next[index+1:]...)
	return nil
}

// Files returns a copy of the current file list.
func (s *Session) Files() []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.files)
}

// Upload transfers the batch to object storage and returns one public URL
// per file, in input order. Only one upload may be in flight per session.
// Progress is reported uniformly for the whole batch through onProgress.
// On any failure every file is marked errored and the batch must be fully
// resolved before another attempt.
func (s *Session) Upload(ctx context.Context, onProgress func(percent int)) ([]string, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	if len(s.files) == 0 {
		s.mu.Unlock()
		return nil, ErrNoFiles
	}
	var total int64
	for _, f := range s.files {
		switch f.Status {
		case StatusProcessing:
			s.mu.Unlock()
			return nil, ErrStillProcessing
		case StatusError:
			s.mu.Unlock()
			return nil, ErrBatchUnresolved
		}
		total += f.Size
	}

	s.uploading = true
	batch := snapshot(s.files)
	for i := range batch {
		batch[i].Status = StatusUploading
		batch[i].Progress = 0
	}
	s.files = batch
	s.mu.Unlock()

	urls := make([]string, len(batch))
	var done int64
	for i, f := range batch {
		key := storage.ObjectKey(objectName(f))
		if err := s.store.Save(ctx, key, bytes.NewReader(f.Data), f.ContentType); err != nil {
			s.failBatch(err)
			return nil, err
		}
		urls[i] = s.store.URL(key)

		done += f.Size
		percent := 100
		if total > 0 {
			percent = int(done * 100 / total)
		}
		s.setProgress(percent)
		if onProgress != nil {
			onProgress(percent)
		}
	}

	s.mu.Lock()
	next := snapshot(s.files)
	for i := range next {
		next[i].Status = StatusCompleted
		next[i].Progress = 100
		next[i].URL = urls[i]
	}
	s.files = next
	s.uploading = false
	s.mu.Unlock()

	return urls, nil
}

// Submit creates one gallery record per uploaded URL, all carrying the same
// caption and guest metadata. Success is all-or-nothing from the guest's
// point of view, but records created before a failure stay persisted; the
// caller only learns the aggregate outcome.
func (s *Session) Submit(caption string, guestName, guestEmail, guestPhone *string, creator RecordCreator) (int, error) {
	s.mu.Lock()
	urls := make([]string, 0, len(s.files))
	for _, f := range s.files {
		if f.Status != StatusCompleted {
			s.mu.Unlock()
			return 0, ErrNotUploaded
		}
		urls = append(urls, f.URL)
	}
	s.mu.Unlock()

	if len(urls) == 0 {
		return 0, ErrNoFiles
	}

	errs := make([]error, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = creator.CreateImage(url, caption, guestName, guestEmail, guestPhone)
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		}
	}
	if created != len(urls) {
		return created, fmt.Errorf("%w: %d of %d created", ErrPartialSubmit, created, len(urls))
	}
	return created, nil
}

func (s *Session) failBatch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := snapshot(s.files)
	for i := range next {
		next[i].Status = StatusError
		next[i].Err = err.Error()
	}
	s.files = next
	s.uploading = false
}

func (s *Session) setProgress(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := snapshot(s.files)
	for i := range next {
		if next[i].Status == StatusUploading {
			next[i].Progress = percent
		}
	}
	s.files = next
}

// objectName forces a .jpg extension on re-encoded files so the stored key
// matches the actual payload.
func objectName(f File) string {
	if !f.Compressed {
		return f.Name
	}
	name := f.Name
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name + ".jpg"
}

func snapshot(files []File) []File {
	out := make([]File, len(files))
	copy(out, files)
	return out
}
