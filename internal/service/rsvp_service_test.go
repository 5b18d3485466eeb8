package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/myeventng/somarv26/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRSVPServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:rsvp-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.RSVP{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestRSVPServiceCreateValidates(t *testing.T) {
	gdb, cleanup := setupRSVPServiceTestDB(t)
	defer cleanup()

	svc := NewRSVPService(gdb)

	if _, err := svc.Create(RSVPInput{Name: "  ", Email: "a@x.com"}); !errors.Is(err, ErrRSVPNameMissing) {
		t.Fatalf("expected ErrRSVPNameMissing, got %v", err)
	}
	if _, err := svc.Create(RSVPInput{Name: "Ann", Email: ""}); !errors.Is(err, ErrRSVPEmailMissing) {
		t.Fatalf("expected ErrRSVPEmailMissing, got %v", err)
	}
}

func TestRSVPServiceCreateForcesZeroGuestsWhenNotAttending(t *testing.T) {
	gdb, cleanup := setupRSVPServiceTestDB(t)
	defer cleanup()

	svc := NewRSVPService(gdb)

	record, err := svc.Create(RSVPInput{Name: "Ann", Email: "a@x.com", Attending: false, GuestCount: 4})
	if err != nil {
		t.Fatalf("create rsvp: %v", err)
	}
	if record.GuestCount != 0 {
		t.Fatalf("expected guest count forced to 0, got %d", record.GuestCount)
	}

	record, err = svc.Create(RSVPInput{Name: "Ben", Email: "b@x.com", Attending: true, GuestCount: -2})
	if err != nil {
		t.Fatalf("create rsvp: %v", err)
	}
	if record.GuestCount != 0 {
		t.Fatalf("expected negative guest count clamped to 0, got %d", record.GuestCount)
	}

	record, err = svc.Create(RSVPInput{Name: "Cara", Email: "c@x.com", Attending: true, GuestCount: 3})
	if err != nil {
		t.Fatalf("create rsvp: %v", err)
	}
	if record.GuestCount != 3 {
		t.Fatalf("expected guest count kept, got %d", record.GuestCount)
	}
}

func TestRSVPServiceStats(t *testing.T) {
	gdb, cleanup := setupRSVPServiceTestDB(t)
	defer cleanup()

	svc := NewRSVPService(gdb)
	seed := []RSVPInput{
		{Name: "Ann", Email: "a@x.com", Attending: true, GuestCount: 2},
		{Name: "Ben", Email: "b@x.com", Attending: true, GuestCount: 1},
		{Name: "Cara", Email: "c@x.com", Attending: false, GuestCount: 5},
	}
	for _, input := range seed {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("seed rsvp: %v", err)
		}
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Attending != 2 || stats.TotalGuests != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	if list[0].Name != "Cara" {
		t.Fatalf("expected most recent first, got %s", list[0].Name)
	}
}

func TestExportCSV(t *testing.T) {
	message := `She said "yes"`
	records := []db.RSVP{
		{
			Name:       "Ann",
			Email:      "a@x.com",
			Attending:  true,
			GuestCount: 2,
			Message:    &message,
			CreatedAt:  time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			Name:      "Ben",
			Email:     "b@x.com",
			Attending: false,
			CreatedAt: time.Date(2025, 12, 3, 18, 30, 0, 0, time.UTC),
		},
	}

	got := ExportCSV(records)
	want := `"Name","Email","Attending","Guest Count","Message","Date"` + "\n" +
		`"Ann","a@x.com","Yes",2,"She said ""yes""","1/11/2026"` + "\n" +
		`"Ben","b@x.com","No","","","12/3/2025"`
	if got != want {
		t.Fatalf("csv mismatch:\n got: %s\nwant: %s", got, want)
	}
}
