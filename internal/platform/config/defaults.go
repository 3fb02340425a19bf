package config

const (
	defaultServerPort         = 8080
	defaultMaxConcurrentReads = 8
	defaultRetryAttempts      = 3
	defaultBreakerFailures    = 5
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "10m",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "9m",

		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "sitesmith",

		"workspace.root":                 "workspace",
		"workspace.template_dir":         "templates/site",
		"workspace.exclude":              []string{".git", "node_modules", ".DS_Store"},
		"workspace.config_file":          "site.yaml",
		"workspace.manifest_file":        "package.json",
		"workspace.placeholder":          "{{PROJECT_NAME}}",
		"workspace.reference_files":      []string{"README.md"},
		"workspace.max_concurrent_reads": defaultMaxConcurrentReads,
		"workspace.setup.command":        "",
		"workspace.setup.timeout":        "5m",

		"remote.base_url":                        "",
		"remote.timeout":                         "15m",
		"remote.retry.max_attempts":              defaultRetryAttempts,
		"remote.retry.initial_interval":          "200ms",
		"remote.retry.max_interval":              "5s",
		"remote.retry.multiplier":                2.0,
		"remote.circuit_breaker.max_failures":    defaultBreakerFailures,
		"remote.circuit_breaker.timeout":         "30s",
		"remote.circuit_breaker.half_open_limit": 1,
		"remote.rate_limit.requests_per_second":  0,
		"remote.rate_limit.burst_size":           1,
	}
}
