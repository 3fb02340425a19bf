package ports

import "context"

// HealthChecker reports whether one thing sitesmith depends on is usable,
// such as the workspace root or the site template.
type HealthChecker interface {
	// Name labels the check in readiness output.
	Name() string
	// HealthCheck returns nil when healthy. It must give up when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry is what the readiness endpoint consults.
type HealthRegistry interface {
	Register(checker HealthChecker)
	// CheckAll returns every checker's result by name; nil means healthy.
	CheckAll(ctx context.Context) map[string]error
}
