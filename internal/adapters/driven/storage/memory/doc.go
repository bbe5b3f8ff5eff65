// Package memory provides in-memory implementations of the metadata
// store ports. They enforce the same lifecycle rules as the SQLite
// store and back the service-level tests.
//
// Can Import: domain, ports/driven
package memory
