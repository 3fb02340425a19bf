// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Workspace WorkspaceConfig `koanf:"workspace"`
	Remote    RemoteConfig    `koanf:"remote"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RequestTimeout bounds each request's context. It stays below
	// WriteTimeout so a rolled back mutation can still write its response.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// WorkspaceConfig describes where projects live and how they are generated.
type WorkspaceConfig struct {
	// Root is the directory that holds one subdirectory per project.
	Root string `koanf:"root"`

	// TemplateDir is copied to create a new project.
	TemplateDir string `koanf:"template_dir"`

	// Exclude holds base-name patterns skipped when copying the template.
	Exclude []string `koanf:"exclude"`

	// ConfigFile is the site config inside a project, containing Placeholder
	// in the template.
	ConfigFile string `koanf:"config_file"`

	// ManifestFile is the JSON package manifest whose "name" field tracks
	// the project name.
	ManifestFile string `koanf:"manifest_file"`

	Placeholder string `koanf:"placeholder"`

	// ReferenceFiles are project-relative files whose occurrences of the old
	// name are rewritten on rename, in addition to ConfigFile.
	ReferenceFiles []string `koanf:"reference_files"`

	// MaxConcurrentReads bounds parallel manifest reads when listing.
	MaxConcurrentReads int `koanf:"max_concurrent_reads"`

	Setup SetupConfig `koanf:"setup"`
}

// SetupConfig is the optional command run inside a freshly created project,
// such as a dependency install. Empty Command disables the step.
type SetupConfig struct {
	Command string        `koanf:"command"`
	Args    []string      `koanf:"args"`
	Timeout time.Duration `koanf:"timeout"`

	// Artifacts are project-relative paths the command may create. They are
	// removed if a later step fails.
	Artifacts []string `koanf:"artifacts"`
}

// Enabled reports whether a setup command is configured.
func (s SetupConfig) Enabled() bool {
	return s.Command != ""
}

// RemoteConfig points the CLI at a running server instead of the local
// workspace. An empty BaseURL means local mode.
type RemoteConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// Enabled reports whether remote mode is configured.
func (r RemoteConfig) Enabled() bool {
	return r.BaseURL != ""
}

// RetryConfig holds retry policy settings with exponential backoff. Only
// idempotent requests are retried.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig bounds outbound request rate. Zero RequestsPerSecond
// disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}
