package acl

import "context"

// Name returns the identifier used when this component is registered with a
// [ports.HealthRegistry]. It matches the service name given to the
// underlying [httpclient.Client].
func (c *ProjectClient) Name() string {
	return "sitesmith-api"
}

// HealthCheck reports the server's availability from the circuit breaker
// state. No network call is made.
func (c *ProjectClient) HealthCheck(ctx context.Context) error {
	return c.req.HealthCheck(ctx)
}
