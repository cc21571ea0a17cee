package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pfrederiksen/chapter-events/internal/event"
	"github.com/pfrederiksen/chapter-events/internal/scraper"
	"github.com/pfrederiksen/chapter-events/internal/storage"
)

const (
	pathScrape = "scrape"
	pathManual = "manual"
)

// URLInput is a scrape-path submission
type URLInput struct {
	SourceURL string
	Type      string
}

// ManualInput is a manual-path submission. Timestamps are ISO 8601; values
// without an offset are read in Timezone.
type ManualInput struct {
	Title       string
	StartAt     string
	EndAt       string
	Timezone    string
	Location    string
	ImageURL    string
	Description string
	ExternalURL string
	Type        string
}

// ListedEvent is a stored event with its classification at read time
type ListedEvent struct {
	*event.Event
	IsUpcoming bool `json:"isUpcoming"`
}

// Options configures a Service
type Options struct {
	// AllowedHosts are the event page hosts accepted on the scrape path.
	AllowedHosts    []string
	DefaultTimezone string
	Now             func() time.Time
	Metrics         Recorder
}

// Service validates, builds, de-duplicates and persists events
type Service struct {
	store           storage.Store
	fetcher         Fetcher
	log             *zap.Logger
	allowedHosts    map[string]bool
	hostNames       []string
	defaultTimezone string
	now             func() time.Time
	metrics         Recorder
}

// NewService creates an ingestion service over store and fetcher
func NewService(store storage.Store, fetcher Fetcher, log *zap.Logger, opts Options) *Service {
	s := &Service{
		store:           store,
		fetcher:         fetcher,
		log:             log,
		allowedHosts:    make(map[string]bool),
		defaultTimezone: opts.DefaultTimezone,
		now:             opts.Now,
		metrics:         opts.Metrics,
	}
	for _, host := range opts.AllowedHosts {
		canonical := event.CanonicalHost(strings.TrimSpace(host))
		if canonical != "" && !s.allowedHosts[canonical] {
			s.allowedHosts[canonical] = true
			s.hostNames = append(s.hostNames, canonical)
		}
	}
	if s.defaultTimezone == "" {
		s.defaultTimezone = event.DefaultTimezone
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.metrics == nil {
		s.metrics = noopRecorder{}
	}
	return s
}

// AddFromURL fetches the page at in.SourceURL and stores the event it
// describes.
func (s *Service) AddFromURL(ctx context.Context, in URLInput) (*event.Event, error) {
	sourceURL, err := s.validateSourceURL(in.SourceURL)
	if err != nil {
		return nil, s.fail(err)
	}
	eventType, err := parseType(in.Type, event.TypeOther)
	if err != nil {
		return nil, s.fail(err)
	}
	if !storage.IsWritable(s.store) {
		return nil, s.fail(readOnlySourceError())
	}

	data, err := s.fetch(ctx, sourceURL)
	if err != nil {
		return nil, s.fail(err)
	}

	evt := s.buildScraped(data, sourceURL, eventType)
	if err := s.insert(ctx, evt); err != nil {
		return nil, s.fail(err)
	}

	s.metrics.Ingested(pathScrape)
	s.log.Info("Event added from URL",
		zap.String("event_id", evt.ID),
		zap.String("source_url", evt.SourceURL),
		zap.String("title", evt.Title))
	return evt, nil
}

// Preview fetches and parses an event page without storing anything
func (s *Service) Preview(ctx context.Context, rawURL string) (*scraper.EventData, error) {
	sourceURL, err := s.validateSourceURL(rawURL)
	if err != nil {
		return nil, s.fail(err)
	}
	data, err := s.fetch(ctx, sourceURL)
	if err != nil {
		return nil, s.fail(err)
	}
	return data, nil
}

// AddManual stores an event entered by hand
func (s *Service) AddManual(ctx context.Context, in ManualInput) (*event.Event, error) {
	evt, err := s.buildManual(in)
	if err != nil {
		return nil, s.fail(err)
	}
	if !storage.IsWritable(s.store) {
		return nil, s.fail(readOnlySourceError())
	}
	if err := s.insert(ctx, evt); err != nil {
		return nil, s.fail(err)
	}

	s.metrics.Ingested(pathManual)
	s.log.Info("Event added manually",
		zap.String("event_id", evt.ID),
		zap.String("title", evt.Title))
	return evt, nil
}

// Delete removes the event with the given id
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.fail(validationError("id is required"))
	}
	if !storage.IsWritable(s.store) {
		return s.fail(readOnlySourceError())
	}

	c, err := storage.ReadForUpdate(ctx, s.store)
	if err != nil {
		return s.fail(storeError("read", err))
	}
	if !c.Remove(id) {
		return s.fail(&Error{Kind: KindNotFound, Detail: "event not found"})
	}
	if err := s.store.WriteAll(ctx, c); err != nil {
		return s.fail(storeError("save", err))
	}

	s.log.Info("Event deleted", zap.String("event_id", id))
	return nil
}

// List returns every stored event, classified against the current time
func (s *Service) List(ctx context.Context) ([]ListedEvent, error) {
	c, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, storeError("read", err)
	}

	now := s.now()
	listed := make([]ListedEvent, 0, len(c.Events))
	for _, evt := range c.Events {
		listed = append(listed, ListedEvent{Event: evt, IsUpcoming: evt.IsUpcoming(now)})
	}
	return listed, nil
}

func (s *Service) fetch(ctx context.Context, sourceURL string) (*scraper.EventData, error) {
	start := time.Now()
	data, err := s.fetcher.Fetch(ctx, sourceURL)
	s.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		s.log.Warn("Event page fetch failed",
			zap.String("source_url", sourceURL),
			zap.Error(err))
		return nil, &Error{Kind: KindFetchFailed, Detail: "failed to fetch event page: " + err.Error(), Err: err}
	}
	return data, nil
}

// insert runs the read, duplicate check and write of one submission
func (s *Service) insert(ctx context.Context, evt *event.Event) error {
	c, err := storage.ReadForUpdate(ctx, s.store)
	if err != nil {
		return storeError("read", err)
	}

	if dup := c.FindDuplicate(evt); dup != nil {
		s.log.Info("Duplicate event rejected",
			zap.String("event_id", dup.ID),
			zap.String("source_url", evt.SourceURL),
			zap.String("title", evt.Title))
		if dup.Title == evt.Title {
			return &Error{Kind: KindDuplicate, Detail: "an event titled \"" + evt.Title + "\" already exists"}
		}
		return &Error{Kind: KindDuplicate, Detail: "this event has already been added as \"" + dup.Title + "\""}
	}

	c.Add(evt)
	if err := s.store.WriteAll(ctx, c); err != nil {
		return storeError("save", err)
	}
	return nil
}

// buildScraped normalizes fetched page data. A zone the page names but the
// zone database does not know is replaced by the default; an unparseable
// start becomes now and an end before the start is dropped.
func (s *Service) buildScraped(data *scraper.EventData, sourceURL string, eventType event.Type) *event.Event {
	now := s.now()

	timezone := strings.TrimSpace(data.Timezone)
	if !event.ValidTimezone(timezone) {
		timezone = s.defaultTimezone
	}
	loc := event.LoadLocation(timezone)

	startAt, err := event.ParseTimestamp(data.StartAt, loc)
	if err != nil {
		s.log.Debug("No parseable start time on page, using now",
			zap.String("source_url", sourceURL),
			zap.String("start_at", data.StartAt))
		startAt = now
	}

	evt := event.New(strings.TrimSpace(data.Title), startAt, now)
	evt.SourceURL = sourceURL
	if data.SourceURL != "" {
		evt.SourceURL = data.SourceURL
	}
	evt.Description = strings.TrimSpace(data.Description)
	evt.Timezone = timezone
	evt.Location = strings.TrimSpace(data.Location)
	evt.ImageURL = strings.TrimSpace(data.ImageURL)
	evt.Type = eventType

	if endAt, err := event.ParseTimestamp(data.EndAt, loc); err == nil && !endAt.Before(startAt) {
		evt.EndAt = &endAt
	}
	return evt
}

func (s *Service) buildManual(in ManualInput) (*event.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if strings.TrimSpace(in.StartAt) == "" {
		return nil, validationError("startAt is required")
	}

	timezone := strings.TrimSpace(in.Timezone)
	if timezone == "" {
		timezone = s.defaultTimezone
	}
	if !event.ValidTimezone(timezone) {
		return nil, validationError("unknown timezone %q", timezone)
	}
	loc := event.LoadLocation(timezone)

	startAt, err := event.ParseTimestamp(in.StartAt, loc)
	if err != nil {
		return nil, validationError("startAt is not a valid timestamp")
	}

	var endAt *time.Time
	if strings.TrimSpace(in.EndAt) != "" {
		end, err := event.ParseTimestamp(in.EndAt, loc)
		if err != nil {
			return nil, validationError("endAt is not a valid timestamp")
		}
		if end.Before(startAt) {
			return nil, validationError("endAt must not be before startAt")
		}
		endAt = &end
	}

	externalURL, err := optionalHTTPURL("externalUrl", in.ExternalURL)
	if err != nil {
		return nil, err
	}
	imageURL, err := optionalHTTPURL("imageUrl", in.ImageURL)
	if err != nil {
		return nil, err
	}
	eventType, err := parseType(in.Type, event.TypeOther)
	if err != nil {
		return nil, err
	}

	evt := event.New(title, startAt, s.now())
	evt.SourceURL = externalURL
	evt.Description = strings.TrimSpace(in.Description)
	evt.EndAt = endAt
	evt.Timezone = timezone
	evt.Location = strings.TrimSpace(in.Location)
	evt.ImageURL = imageURL
	evt.Type = eventType
	return evt, nil
}

// fail counts err by kind and returns it
func (s *Service) fail(err error) error {
	kind := KindOf(err)
	if kind == "" {
		kind = KindStore
	}
	s.metrics.IngestFailed(string(kind))

	var ie *Error
	if errors.As(err, &ie) && (ie.Kind == KindReadOnly || ie.Kind == KindReadOnlySource || ie.Kind == KindStore) {
		s.log.Error("Event store rejected operation",
			zap.String("kind", string(ie.Kind)),
			zap.Error(err))
	}
	return err
}
