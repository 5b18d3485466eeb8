package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/myeventng/somarv26/internal/db"
	"github.com/myeventng/somarv26/internal/imaging"
)

type stubStorage struct {
	mu      sync.Mutex
	saved   []string
	failOn  int // 1-based save index that fails; 0 never fails
	release chan struct{}
}

func (s *stubStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	if s.failOn > 0 && len(s.saved)+1 == s.failOn {
		return errors.New("storage unavailable")
	}
	s.saved = append(s.saved, key)
	return nil
}

func (s *stubStorage) Delete(context.Context, string) error { return nil }

func (s *stubStorage) URL(key string) string { return "https://cdn.test/" + key }

type stubCreator struct {
	mu      sync.Mutex
	created []string
	failFor string
}

func (c *stubCreator) CreateImage(url, caption string, _, _, _ *string) (*db.GalleryImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failFor != "" && strings.Contains(url, c.failFor) {
		return nil, errors.New("create failed")
	}
	c.created = append(c.created, url)
	return &db.GalleryImage{URL: url, Caption: caption}, nil
}

func smallInput(name string) Input {
	return Input{Name: name, ContentType: "image/png", Data: []byte("png-bytes-" + name)}
}

func TestAddRejectsOversizedFileWithoutAdmitting(t *testing.T) {
	session := NewSession(&stubStorage{}, 5)

	huge := Input{Name: "huge.jpg", ContentType: "image/jpeg", Data: make([]byte, imaging.MaxFileSize+1)}
	err := session.Add(smallInput("a.png"), huge)
	if !errors.Is(err, imaging.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if got := len(session.Files()); got != 0 {
		t.Fatalf("expected file list unchanged, got %d entries", got)
	}
}

func TestAddEnforcesBatchLimit(t *testing.T) {
	session := NewSession(&stubStorage{}, 2)

	if err := session.Add(smallInput("a.png"), smallInput("b.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := session.Add(smallInput("c.png")); !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("expected ErrTooManyFiles, got %v", err)
	}
}

func TestFilesReturnToPendingAfterProcessing(t *testing.T) {
	session := NewSession(&stubStorage{}, 5)

	if err := session.Add(smallInput("a.png"), smallInput("b.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()

	for _, f := range session.Files() {
		if f.Status != StatusPending {
			t.Fatalf("expected pending after processing, got %s", f.Status)
		}
		// Not decodable images, so compression must have fallen back.
		if f.Compressed {
			t.Fatal("expected fallback to original bytes")
		}
	}
}

func TestUploadReturnsURLsInInputOrder(t *testing.T) {
	store := &stubStorage{}
	session := NewSession(store, 5)

	if err := session.Add(smallInput("first.png"), smallInput("second.png"), smallInput("third.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()

	var progress []int
	urls, err := session.Upload(context.Background(), func(pct int) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(urls))
	}

	files := session.Files()
	for i, f := range files {
		if f.Status != StatusCompleted {
			t.Fatalf("file %d not completed: %s", i, f.Status)
		}
		if f.Progress != 100 {
			t.Fatalf("file %d progress %d", i, f.Progress)
		}
		if f.URL != urls[i] {
			t.Fatalf("url order mismatch at %d: %s vs %s", i, f.URL, urls[i])
		}
	}

	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Fatalf("expected final progress 100, got %v", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("progress went backwards: %v", progress)
		}
	}
}

func TestUploadRefusedWhileInFlight(t *testing.T) {
	store := &stubStorage{release: make(chan struct{})}
	session := NewSession(store, 5)

	if err := session.Add(smallInput("a.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()

	done := make(chan error, 1)
	go func() {
		_, err := session.Upload(context.Background(), nil)
		done <- err
	}()

	waitForStatus(t, session, StatusUploading)

	if _, err := session.Upload(context.Background(), nil); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("expected ErrUploadInFlight, got %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
}

func TestUploadFailureMarksWholeBatch(t *testing.T) {
	store := &stubStorage{failOn: 2}
	session := NewSession(store, 5)

	if err := session.Add(smallInput("a.png"), smallInput("b.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()

	if _, err := session.Upload(context.Background(), nil); err == nil {
		t.Fatal("expected upload error")
	}

	for _, f := range session.Files() {
		if f.Status != StatusError {
			t.Fatalf("expected all files errored, got %s", f.Status)
		}
	}

	// The batch must be resolved before another attempt.
	if _, err := session.Upload(context.Background(), nil); !errors.Is(err, ErrBatchUnresolved) {
		t.Fatalf("expected ErrBatchUnresolved, got %v", err)
	}

	// Removing the errored files resolves it.
	if err := session.Remove(1); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := session.Remove(0); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := session.Upload(context.Background(), nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles after resolving batch, got %v", err)
	}
}

func TestSubmitCreatesOneRecordPerURL(t *testing.T) {
	store := &stubStorage{}
	session := NewSession(store, 5)

	if err := session.Add(smallInput("a.png"), smallInput("b.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()
	if _, err := session.Upload(context.Background(), nil); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	creator := &stubCreator{}
	created, err := session.Submit("Our day", nil, nil, nil, creator)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if created != 2 || len(creator.created) != 2 {
		t.Fatalf("expected 2 records, got %d", created)
	}
}

func TestSubmitReportsPartialFailureButKeepsCreated(t *testing.T) {
	store := &stubStorage{}
	session := NewSession(store, 5)

	if err := session.Add(smallInput("good.png"), smallInput("bad.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()
	urls, err := session.Upload(context.Background(), nil)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	creator := &stubCreator{failFor: lastSegment(urls[1])}
	created, err := session.Submit("Our day", nil, nil, nil, creator)
	if !errors.Is(err, ErrPartialSubmit) {
		t.Fatalf("expected ErrPartialSubmit, got %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 created, got %d", created)
	}
	// The record that made it in stays persisted.
	if len(creator.created) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(creator.created))
	}
}

func TestSubmitRequiresCompletedUpload(t *testing.T) {
	session := NewSession(&stubStorage{}, 5)
	if err := session.Add(smallInput("a.png")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	session.WaitProcessed()

	if _, err := session.Submit("caption", nil, nil, nil, &stubCreator{}); !errors.Is(err, ErrNotUploaded) {
		t.Fatalf("expected ErrNotUploaded, got %v", err)
	}
}

func waitForStatus(t *testing.T, session *Session, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, f := range session.Files() {
			if f.Status == want {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %s", want)
}

func lastSegment(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}
