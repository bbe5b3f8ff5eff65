package driving

import "context"

// ComponentStatus is one dependency's health probe result.
type ComponentStatus struct {
	// Name identifies the component (embedding, generation, vector_index,
	// metadata_store).
	Name string

	// OK is true when the probe succeeded.
	OK bool

	// Detail explains a failed probe.
	Detail string
}

// HealthReport aggregates the dependency probes.
type HealthReport struct {
	// OK is true only when every component probe succeeded.
	OK bool

	// Components lists the individual probe results in a stable order.
	Components []ComponentStatus
}

// HealthChecker probes the pipeline's external dependencies.
type HealthChecker interface {
	// Check probes every dependency and reports ok or degraded.
	Check(ctx context.Context) *HealthReport
}
