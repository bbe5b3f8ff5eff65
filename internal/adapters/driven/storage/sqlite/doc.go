// Package sqlite provides SQLite-backed persistence for source records
// and chunk artifacts.
//
// A single database file holds both stores so that ingestion bookkeeping
// survives restarts. The vector index lives elsewhere; this package only
// keeps the metadata side of the dual-store layout.
//
// Can Import: domain, ports/driven
package sqlite
