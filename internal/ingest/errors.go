package ingest

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/chapter-events/internal/storage"
)

// Kind classifies ingestion failures
type Kind string

const (
	KindValidation  Kind = "validation"
	KindFetchFailed Kind = "fetch_failed"
	KindDuplicate   Kind = "duplicate"
	KindNotFound    Kind = "not_found"
	// KindReadOnly: the store medium refused the write.
	KindReadOnly Kind = "read_only"
	// KindReadOnlySource: the configured backend never accepts writes.
	KindReadOnlySource Kind = "read_only_source"
	KindStore          Kind = "store"
)

const (
	readOnlyGuidance = "The event store is read-only in this deployment. " +
		"Edit data/events.json in the repository and redeploy, or run the admin page locally."
	readOnlySourceGuidance = "Events are managed in the Google Sheet. " +
		"Add or remove rows there; the site picks them up on the next page load."
)

// Error is a classified ingestion failure. Detail is safe to show to users.
type Error struct {
	Kind     Kind
	Detail   string
	Guidance string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of an ingestion error, or "" for other errors.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

// storeError translates a storage failure for the caller
func storeError(op string, err error) *Error {
	switch storage.KindOf(err) {
	case storage.KindReadOnly:
		return &Error{Kind: KindReadOnly, Detail: "event store is read-only", Guidance: readOnlyGuidance, Err: err}
	case storage.KindReadOnlySource:
		return &Error{Kind: KindReadOnlySource, Detail: "events cannot be changed through this site", Guidance: readOnlySourceGuidance, Err: err}
	default:
		return &Error{Kind: KindStore, Detail: fmt.Sprintf("failed to %s events", op), Err: err}
	}
}

func readOnlySourceError() *Error {
	return &Error{
		Kind:     KindReadOnlySource,
		Detail:   "events cannot be changed through this site",
		Guidance: readOnlySourceGuidance,
	}
}
