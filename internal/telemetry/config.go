// Package telemetry provides OpenTelemetry instrumentation for the sync server.
// It supports configurable metrics with an OTLP exporter and a Prometheus
// scrape endpoint. Telemetry failures never affect job correctness: when the
// exporter cannot be configured the provider degrades to a no-op.
package telemetry

const (
	// DefaultServiceName is the default service name for telemetry
	DefaultServiceName = "snpsap-sync"

	// DefaultEndpoint is the default OTLP endpoint for telemetry
	DefaultEndpoint = "localhost:4318"
)

// Config represents the telemetry configuration
type Config struct {
	// Enabled controls whether the OTLP exporter is enabled.
	// When false, metrics are still served on the Prometheus endpoint.
	Enabled bool

	// ServiceName is the name of the service for telemetry identification
	// Defaults to "snpsap-sync" if not specified
	ServiceName string

	// ServiceVersion is the version of the service for telemetry identification
	ServiceVersion string

	// Endpoint is the OTLP collector endpoint, "host:port" form
	// Defaults to "localhost:4318" if not specified
	Endpoint string

	// Token is the ingestion token sent as a bearer header to the collector.
	// An absent token disables the OTLP exporter; metrics degrade to the
	// local Prometheus endpoint only.
	Token string

	// Insecure allows HTTP connections instead of HTTPS
	// Should only be true for development/testing environments
	Insecure bool
}

// GetServiceName returns the service name, using the default if not specified
func (c *Config) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the service version, using "unknown" if not specified
func (c *Config) GetServiceVersion() string {
	if c == nil || c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the OTLP endpoint, using the default if not specified
func (c *Config) GetEndpoint() string {
	if c == nil || c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// ExporterEnabled reports whether the OTLP exporter should be configured
func (c *Config) ExporterEnabled() bool {
	return c != nil && c.Enabled && c.Token != ""
}
