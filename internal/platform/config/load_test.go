package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want \"json\"", cfg.Log.Format)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.Endpoint == "" {
		t.Error("Telemetry.Endpoint is empty, want non-empty for prod")
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Workspace.ManifestFile != "package.json" {
		t.Errorf("Workspace.ManifestFile = %q, want \"package.json\" (from base)", cfg.Workspace.ManifestFile)
	}
	if cfg.Workspace.Placeholder != "{{PROJECT_NAME}}" {
		t.Errorf("Workspace.Placeholder = %q, want \"{{PROJECT_NAME}}\" (from base)", cfg.Workspace.Placeholder)
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Not present in any YAML file.
	if cfg.Workspace.MaxConcurrentReads != 8 {
		t.Errorf("Workspace.MaxConcurrentReads = %d, want 8 (default)", cfg.Workspace.MaxConcurrentReads)
	}
	if cfg.Workspace.Setup.Timeout != 5*time.Minute {
		t.Errorf("Workspace.Setup.Timeout = %v, want 5m (default)", cfg.Workspace.Setup.Timeout)
	}
	if cfg.Server.RequestTimeout >= cfg.Server.WriteTimeout {
		t.Errorf("Server.RequestTimeout = %v, want below WriteTimeout %v", cfg.Server.RequestTimeout, cfg.Server.WriteTimeout)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "15s")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := 15 * time.Second
	if cfg.Server.ReadTimeout != want {
		t.Errorf("Server.ReadTimeout = %v, want %v (env override)", cfg.Server.ReadTimeout, want)
	}
}

func TestLoad_EnvOverrideDeeplyNestedKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_WORKSPACE_SETUP_TIMEOUT", "90s")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Workspace.Setup.Timeout != 90*time.Second {
		t.Errorf("Workspace.Setup.Timeout = %v, want 90s (env override)", cfg.Workspace.Setup.Timeout)
	}
}

func TestLoad_EnvOverrideWorkspaceRoot(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_WORKSPACE_ROOT", "/srv/sites")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Workspace.Root != "/srv/sites" {
		t.Errorf("Workspace.Root = %q, want /srv/sites (env override)", cfg.Workspace.Root)
	}
}

func TestLoad_EnvOverrideRemoteBaseURL(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_REMOTE_BASE_URL", "http://sites.internal:8080")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !cfg.Remote.Enabled() {
		t.Fatal("Remote.Enabled() = false, want true")
	}
	if cfg.Remote.Retry.MaxAttempts != 3 {
		t.Errorf("Remote.Retry.MaxAttempts = %d, want 3", cfg.Remote.Retry.MaxAttempts)
	}
}

func TestLoad_InvalidProfileName(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", "a/b"} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Server.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for port=0")
	}
}

func TestValidate_RequestTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		want    string
	}{
		{name: "zero", timeout: 0, want: "server.request_timeout must be positive"},
		{name: "equal to write timeout", timeout: 10 * time.Second, want: "must be less than server.write_timeout"},
		{name: "above write timeout", timeout: time.Minute, want: "must be less than server.write_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBaseConfig()
			cfg.Server.RequestTimeout = tt.timeout

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for invalid log level")
	}
}

func TestValidate_OtlpWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for otlp without endpoint")
	}
}

func TestValidate_WorkspaceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.WorkspaceConfig)
	}{
		{"empty root", func(w *config.WorkspaceConfig) { w.Root = "" }},
		{"empty template", func(w *config.WorkspaceConfig) { w.TemplateDir = "" }},
		{"config file with dir", func(w *config.WorkspaceConfig) { w.ConfigFile = "conf/site.yaml" }},
		{"empty manifest", func(w *config.WorkspaceConfig) { w.ManifestFile = "" }},
		{"empty placeholder", func(w *config.WorkspaceConfig) { w.Placeholder = "" }},
		{"zero reads", func(w *config.WorkspaceConfig) { w.MaxConcurrentReads = 0 }},
		{"escaping reference", func(w *config.WorkspaceConfig) { w.ReferenceFiles = []string{"../x"} }},
		{"setup without timeout", func(w *config.WorkspaceConfig) {
			w.Setup.Command = "npm"
			w.Setup.Timeout = 0
		}},
		{"absolute artifact", func(w *config.WorkspaceConfig) { w.Setup.Artifacts = []string{"/tmp"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validBaseConfig()
			tt.mutate(&cfg.Workspace)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
		})
	}
}

func TestValidate_RemoteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.RemoteConfig)
	}{
		{"relative url", func(r *config.RemoteConfig) { r.BaseURL = "localhost:8080" }},
		{"zero timeout", func(r *config.RemoteConfig) { r.Timeout = 0 }},
		{"zero attempts", func(r *config.RemoteConfig) { r.Retry.MaxAttempts = 0 }},
		{"zero multiplier", func(r *config.RemoteConfig) { r.Retry.Multiplier = 0 }},
		{"zero breaker failures", func(r *config.RemoteConfig) { r.CircuitBreaker.MaxFailures = 0 }},
		{"negative rate", func(r *config.RemoteConfig) { r.RateLimit.RequestsPerSecond = -1 }},
		{"rate without burst", func(r *config.RemoteConfig) {
			r.RateLimit.RequestsPerSecond = 5
			r.RateLimit.BurstSize = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validBaseConfig()
			cfg.Remote = validRemoteConfig()
			tt.mutate(&cfg.Remote)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
		})
	}
}

func TestValidate_RemoteDisabledSkipsChecks(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Remote = config.RemoteConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error with remote disabled: %v", err)
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 8 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: config.TelemetryConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
		Workspace: config.WorkspaceConfig{
			Root:               "workspace",
			TemplateDir:        "templates/site",
			Exclude:            []string{"node_modules"},
			ConfigFile:         "site.yaml",
			ManifestFile:       "package.json",
			Placeholder:        "{{PROJECT_NAME}}",
			ReferenceFiles:     []string{"README.md"},
			MaxConcurrentReads: 8,
			Setup: config.SetupConfig{
				Timeout: 5 * time.Minute,
			},
		},
	}
}

func validRemoteConfig() config.RemoteConfig {
	return config.RemoteConfig{
		BaseURL: "http://localhost:8080",
		Timeout: 15 * time.Minute,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
		RateLimit: config.RateLimitConfig{BurstSize: 1},
	}
}

func TestLoad_EnvOverrideListKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_WORKSPACE_EXCLUDE", ".git, dist,,node_modules")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := []string{".git", "dist", "node_modules"}
	if strings.Join(cfg.Workspace.Exclude, "|") != strings.Join(want, "|") {
		t.Errorf("Workspace.Exclude = %q, want %q", cfg.Workspace.Exclude, want)
	}
}

func TestLoad_OverridesWinOverEnv(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_REMOTE_BASE_URL", "http://from-env:8080")

	cfg, err := config.Load("local", config.WithOverrides(map[string]any{
		"remote.base_url": "http://from-flag:8080",
	}))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Remote.BaseURL != "http://from-flag:8080" {
		t.Errorf("Remote.BaseURL = %q, want the override", cfg.Remote.BaseURL)
	}
}

func TestLoad_InvalidOverrideIsValidated(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("local", config.WithOverrides(map[string]any{"remote.base_url": "not a url"}))
	if err == nil || !strings.Contains(err.Error(), "remote.base_url") {
		t.Errorf("Load error = %v, want a remote.base_url validation error", err)
	}
}
