package ingest

import (
	"context"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
	"github.com/pfrederiksen/chapter-events/internal/scraper"
)

// EventServicer defines the operations the HTTP and CLI layers call
type EventServicer interface {
	AddFromURL(ctx context.Context, in URLInput) (*event.Event, error)
	AddManual(ctx context.Context, in ManualInput) (*event.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]ListedEvent, error)
	Preview(ctx context.Context, rawURL string) (*scraper.EventData, error)
}

// Fetcher retrieves and parses an event page
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*scraper.EventData, error)
}

// Recorder receives ingestion metrics
type Recorder interface {
	Ingested(path string)
	IngestFailed(kind string)
	ObserveFetch(d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) Ingested(string)            {}
func (noopRecorder) IngestFailed(string)        {}
func (noopRecorder) ObserveFetch(time.Duration) {}
