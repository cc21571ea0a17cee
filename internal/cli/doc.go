// Package cli implements the chapter-events command line.
//
// The root command loads configuration, builds the logger, metrics, event
// store, page fetcher and ingestion service, then hands them to one of the
// subcommands: serve runs the HTTP API, while fetch, add, add-manual, list,
// delete and export-ics run a single operation against the configured store
// and print the result as text or JSON.
package cli
