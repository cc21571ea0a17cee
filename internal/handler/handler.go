// Package handler exposes the event API over HTTP with gin.
package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pfrederiksen/chapter-events/internal/calendar"
	"github.com/pfrederiksen/chapter-events/internal/event"
	"github.com/pfrederiksen/chapter-events/internal/filter"
	"github.com/pfrederiksen/chapter-events/internal/ingest"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	eventService  ingest.EventServicer
	adminPassword string
	router        *gin.Engine
	log           *zap.Logger
	now           func() time.Time
}

// NewHandler wires the routes. metricsHandler is mounted at /metrics when
// non-nil. An empty adminPassword makes the auth check answer 500.
func NewHandler(eventService ingest.EventServicer, adminPassword string, metricsHandler http.Handler, log *zap.Logger) *Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	h := &Handler{
		eventService:  eventService,
		adminPassword: adminPassword,
		router:        router,
		log:           log,
		now:           time.Now,
	}

	h.registerRoutes(metricsHandler)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes(metricsHandler http.Handler) {
	h.router.GET("/health", h.healthCheck)
	if metricsHandler != nil {
		h.router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := h.router.Group("/api")
	api.GET("/events", h.listEvents)
	api.POST("/events", h.addEvent)
	api.DELETE("/events", h.deleteEvent)
	api.POST("/events/fetch", h.fetchEvent)
	api.GET("/calendar.ics", h.calendarFeed)
	api.POST("/admin/auth", h.adminAuth)
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// listEvents handles GET /api/events
func (h *Handler) listEvents(c *gin.Context) {
	flt, ok := h.queryFilter(c)
	if !ok {
		return
	}

	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !flt.IsEmpty() {
		kept := make([]ingest.ListedEvent, 0, len(events))
		for _, evt := range events {
			if flt.Matches(evt.Event) {
				kept = append(kept, evt)
			}
		}
		events = kept
	}
	c.JSON(http.StatusOK, ListEventsResponse{Events: events})
}

// addEvent handles POST /api/events for both the scrape and manual paths
func (h *Handler) addEvent(c *gin.Context) {
	var req AddEventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var (
		evt *event.Event
		err error
	)
	if req.Manual {
		evt, err = h.eventService.AddManual(c.Request.Context(), req.manualInput())
	} else {
		evt, err = h.eventService.AddFromURL(c.Request.Context(), req.urlInput())
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AddEventResponse{Success: true, Event: evt})
}

// deleteEvent handles DELETE /api/events?id=
func (h *Handler) deleteEvent(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id is required"})
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteEventResponse{Success: true})
}

// fetchEvent handles POST /api/events/fetch, a preview that stores nothing
func (h *Handler) fetchEvent(c *gin.Context) {
	var req FetchEventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sourceURL := req.SourceURL
	if sourceURL == "" {
		sourceURL = req.LumaURL
	}

	data, err := h.eventService.Preview(c.Request.Context(), sourceURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FetchEventResponse{Event: data})
}

// calendarFeed handles GET /api/calendar.ics
func (h *Handler) calendarFeed(c *gin.Context) {
	flt, ok := h.queryFilter(c)
	if !ok {
		return
	}

	listed, err := h.eventService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	events := make([]*event.Event, 0, len(listed))
	for _, l := range listed {
		events = append(events, l.Event)
	}
	events = flt.Apply(events)

	c.Header("Content-Disposition", `inline; filename="events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8",
		[]byte(calendar.GenerateBulkICS(events, calendar.DefaultCalendarName, h.now())))
}

// queryFilter reads type, range, q, location and weekends from the query string.
// It writes a 400 and returns false when a value cannot be parsed.
func (h *Handler) queryFilter(c *gin.Context) (*filter.Filter, bool) {
	types, err := filter.ParseTypes(c.QueryArray("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil, false
	}

	flt := filter.NewFilter()
	flt.Types = types
	flt.Keywords = c.QueryArray("q")
	flt.Locations = c.QueryArray("location")

	if raw := c.Query("weekends"); raw != "" {
		weekends, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "weekends must be true or false"})
			return nil, false
		}
		flt.WeekendsOnly = weekends
	}

	if raw := c.Query("range"); raw != "" {
		flt.DateFrom, flt.DateTo, err = filter.ParseDateRange(raw, h.now())
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return nil, false
		}
	}

	return flt, true
}

// adminAuth handles POST /api/admin/auth
func (h *Handler) adminAuth(c *gin.Context) {
	if h.adminPassword == "" {
		h.log.Error("Admin password is not configured")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "admin password not configured"})
		return
	}

	var req AuthRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid password"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{OK: true})
}

// bindJSON decodes a size-limited JSON body, answering 400 on failure
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Warn("Invalid request body",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeError maps an ingestion error to its status code
func (h *Handler) writeError(c *gin.Context, err error) {
	var ie *ingest.Error
	if !errors.As(err, &ie) {
		h.log.Error("Unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	status := statusFor(ie.Kind)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("kind", string(ie.Kind)),
			zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: ie.Detail, Guidance: ie.Guidance})
}

func statusFor(kind ingest.Kind) int {
	switch kind {
	case ingest.KindValidation, ingest.KindFetchFailed, ingest.KindDuplicate:
		return http.StatusBadRequest
	case ingest.KindNotFound:
		return http.StatusNotFound
	case ingest.KindReadOnlySource:
		return http.StatusMethodNotAllowed
	case ingest.KindReadOnly:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
