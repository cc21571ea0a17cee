// Package storage provides persistence for the event collection.
//
// Every backend exposes whole-collection ReadAll/WriteAll semantics: a local JSON
// file, an Upstash-compatible Redis REST key, a GitHub Gist file, and a published
// Google Sheets CSV (read-only). Remote backends are wrapped in a SeededStore that
// seeds them once from the local file and falls back to it when a read fails.
// There is no locking: concurrent writers race and the last write wins.
package storage
