package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Workspace.validate(),
		c.Remote.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	} else if s.WriteTimeout > 0 && s.RequestTimeout >= s.WriteTimeout {
		errs = append(errs, fmt.Errorf("server.request_timeout (%s) must be less than server.write_timeout (%s)",
			s.RequestTimeout, s.WriteTimeout))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (w *WorkspaceConfig) validate() error {
	var errs []error

	if w.Root == "" {
		errs = append(errs, errors.New("workspace.root must not be empty"))
	}
	if w.TemplateDir == "" {
		errs = append(errs, errors.New("workspace.template_dir must not be empty"))
	}
	if w.Placeholder == "" {
		errs = append(errs, errors.New("workspace.placeholder must not be empty"))
	}
	if w.MaxConcurrentReads < 1 {
		errs = append(errs, fmt.Errorf("workspace.max_concurrent_reads must be >= 1, got %d", w.MaxConcurrentReads))
	}

	for key, name := range map[string]string{
		"workspace.config_file":   w.ConfigFile,
		"workspace.manifest_file": w.ManifestFile,
	} {
		if name == "" || filepath.Base(name) != name {
			errs = append(errs, fmt.Errorf("%s must be a plain file name, got %q", key, name))
		}
	}
	for _, ref := range w.ReferenceFiles {
		if !filepath.IsLocal(ref) {
			errs = append(errs, fmt.Errorf("workspace.reference_files entry %q must be a project-relative path", ref))
		}
	}

	if w.Setup.Enabled() && w.Setup.Timeout <= 0 {
		errs = append(errs, errors.New("workspace.setup.timeout must be positive when a setup command is set"))
	}
	for _, a := range w.Setup.Artifacts {
		if !filepath.IsLocal(a) {
			errs = append(errs, fmt.Errorf("workspace.setup.artifacts entry %q must be a project-relative path", a))
		}
	}

	return errors.Join(errs...)
}

func (r *RemoteConfig) validate() error {
	if !r.Enabled() {
		return nil
	}

	var errs []error

	if u, err := url.Parse(r.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("remote.base_url must be an absolute URL, got %q", r.BaseURL))
	}
	if r.Timeout <= 0 {
		errs = append(errs, errors.New("remote.timeout must be positive"))
	}
	if r.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("remote.retry.max_attempts must be >= 1, got %d", r.Retry.MaxAttempts))
	}
	if r.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("remote.retry.multiplier must be positive, got %f", r.Retry.Multiplier))
	}
	if r.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("remote.circuit_breaker.max_failures must be >= 1, got %d",
			r.CircuitBreaker.MaxFailures))
	}
	if r.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("remote.rate_limit.requests_per_second must not be negative"))
	}
	if r.RateLimit.RequestsPerSecond > 0 && r.RateLimit.BurstSize < 1 {
		errs = append(errs, errors.New("remote.rate_limit.burst_size must be >= 1 when rate limiting is enabled"))
	}

	return errors.Join(errs...)
}
