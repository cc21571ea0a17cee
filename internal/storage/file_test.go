package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

func testEvents() []*event.Event {
	end := time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC)
	return []*event.Event{
		{
			ID:          "event-123",
			SourceURL:   "https://luma.com/spring",
			Title:       "Spring Summit",
			Description: "Keynotes, demos",
			StartAt:     time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
			EndAt:       &end,
			Timezone:    "America/Los_Angeles",
			Location:    "Amazon Spheres, 2111 7th Ave",
			ImageURL:    "https://img.example.com/spring.png",
			Type:        event.TypeSummit,
			AddedAt:     time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:       "event-456",
			Title:    "Builders Roundtable",
			StartAt:  time.Date(2026, 6, 20, 17, 0, 0, 0, time.UTC),
			Timezone: "America/Los_Angeles",
			Type:     event.TypeRoundtable,
			AddedAt:  time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

// eventsEqual compares two events field by field, timestamps by instant
func eventsEqual(a, b *event.Event) bool {
	if a == nil || b == nil {
		return a == b
	}
	if (a.EndAt == nil) != (b.EndAt == nil) {
		return false
	}
	if a.EndAt != nil && !a.EndAt.Equal(*b.EndAt) {
		return false
	}
	return a.ID == b.ID &&
		a.SourceURL == b.SourceURL &&
		a.Title == b.Title &&
		a.Description == b.Description &&
		a.StartAt.Equal(b.StartAt) &&
		a.Timezone == b.Timezone &&
		a.Location == b.Location &&
		a.ImageURL == b.ImageURL &&
		a.Type == b.Type &&
		a.AddedAt.Equal(b.AddedAt)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "data", "events.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	ctx := context.Background()

	want := testEvents()
	if err := store.WriteAll(ctx, &event.Collection{Events: want}); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}

	got, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(got.Events) != len(want) {
		t.Fatalf("ReadAll() returned %d events, want %d", len(got.Events), len(want))
	}
	for i := range want {
		if !eventsEqual(got.Events[i], want[i]) {
			t.Errorf("event %d = %+v, want %+v", i, got.Events[i], want[i])
		}
	}
	if got.UpdatedAt == "" {
		t.Error("UpdatedAt should be set by WriteAll")
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	store, _ := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	c, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if c.Events == nil || len(c.Events) != 0 {
		t.Errorf("ReadAll() = %+v, want empty collection", c)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewFileStore(path)

	_, err := store.ReadAll(context.Background())
	if KindOf(err) != KindCorrupt {
		t.Errorf("ReadAll() error = %v, want KindCorrupt", err)
	}
}

func TestFileStore_LegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	legacy := `{"events":[{"id":"a","lumaUrl":"https://lu.ma/a","title":"Legacy","startAt":"2025-11-05T18:00:00.000-08:00","timezone":"America/Los_Angeles","type":"Meetup","addedAt":"2025-10-01T00:00:00.000Z"}]}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewFileStore(path)

	c, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(c.Events) != 1 || c.Events[0].SourceURL != "https://lu.ma/a" {
		t.Errorf("ReadAll() = %+v, want lumaUrl mapped to SourceURL", c.Events)
	}
}

func TestFileStore_ReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0755)

	store, _ := NewFileStore(filepath.Join(dir, "events.json"))
	err := store.WriteAll(context.Background(), event.NewCollection())
	if KindOf(err) != KindReadOnly {
		t.Errorf("WriteAll() error = %v, want KindReadOnly", err)
	}
}

func TestWriteErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"permission", &fs.PathError{Op: "open", Path: "/var/task/data/events.json", Err: syscall.EACCES}, KindReadOnly},
		{"read-only filesystem", &fs.PathError{Op: "open", Path: "/var/task/data/events.json", Err: syscall.EROFS}, KindReadOnly},
		{"wrapped permission", fmt.Errorf("writing: %w", fs.ErrPermission), KindReadOnly},
		{"disk full", &fs.PathError{Op: "write", Path: "x", Err: syscall.ENOSPC}, KindUnavailable},
		{"other", errors.New("boom"), KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := writeErrorKind(tt.err); got != tt.want {
				t.Errorf("writeErrorKind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewFileStore(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") expected error")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	store, err := NewFileStore("~/events.json")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if store.Path() != filepath.Join(home, "events.json") {
		t.Errorf("Path() = %q, want expanded home", store.Path())
	}
}

func TestIsWritable(t *testing.T) {
	file, _ := NewFileStore("events.json")
	if !IsWritable(file) {
		t.Error("file store should be writable")
	}
	sheet, _ := NewSheetStore("https://docs.google.com/x.csv", "", time.Second)
	if IsWritable(sheet) {
		t.Error("sheet store should not be writable")
	}
	if IsWritable(Observe(sheet, "sheet", &recordingRecorder{})) {
		t.Error("observed sheet store should not be writable")
	}
}

type recordingRecorder struct {
	ops []string
}

func (r *recordingRecorder) StoreOp(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ops = append(r.ops, backend+":"+op+":"+result)
}

func TestObserve(t *testing.T) {
	rec := &recordingRecorder{}
	file, _ := NewFileStore(filepath.Join(t.TempDir(), "events.json"))
	store := Observe(file, "file", rec)
	ctx := context.Background()

	if _, err := store.ReadAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteAll(ctx, event.NewCollection()); err != nil {
		t.Fatal(err)
	}

	want := []string{"file:read:ok", "file:write:ok"}
	if len(rec.ops) != len(want) {
		t.Fatalf("recorded %v, want %v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Errorf("op %d = %s, want %s", i, rec.ops[i], want[i])
		}
	}

	if Observe(file, "file", nil) != Store(file) {
		t.Error("Observe with nil recorder should return the store unchanged")
	}
}
