// Package ingest turns submitted event URLs and manual entries into stored
// events.
//
// Each submission runs one read-modify-write cycle against the event store:
// validate the input, fetch and parse the page (scrape path only), build the
// record, reject duplicates by source URL or exact title, then write the whole
// collection back. Nothing is cached between calls, and concurrent writers
// race with the last write winning.
//
// Failures are returned as *Error values whose Kind tells the HTTP layer which
// status to answer with. Store write rejections carry guidance text telling
// the admin how to make the change instead.
package ingest
