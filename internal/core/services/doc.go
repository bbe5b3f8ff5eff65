// Package services implements the core business logic of the pipeline:
// ingestion, retrieval and grounding, source management, health probing
// and settings resolution.
//
// Services depend on driven ports only; every external collaborator
// (stores, the vector index, providers, extractors) is injected at
// construction. Nothing in this package owns ambient global state.
//
// Can Import: domain, ports/driven, ports/driving, logger.
package services
