// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by inbound
// adapters (HTTP handlers, CLI commands).
// Client ports (FileSystem, ProcessRunner) are implemented by outbound adapters
// and called by the application layer and the atomic primitives.
package ports
