package dto

import (
	"maps"
	"slices"
)

// Health states reported by the liveness and readiness endpoints.
const (
	HealthOK       = "ok"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
	HealthFailing  = "failing"
)

// HealthResponse is the body of GET /health/live and GET /health/ready.
type HealthResponse struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckResult is one readiness check.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ToReadinessResponse converts registry results into a response sorted by
// check name. ready is false when any check failed.
func ToReadinessResponse(results map[string]error) (resp HealthResponse, ready bool) {
	resp = HealthResponse{
		Status: HealthReady,
		Checks: make([]CheckResult, 0, len(results)),
	}
	ready = true
	for _, name := range slices.Sorted(maps.Keys(results)) {
		check := CheckResult{Name: name, Status: HealthOK}
		if err := results[name]; err != nil {
			check.Status = HealthFailing
			check.Error = err.Error()
			ready = false
		}
		resp.Checks = append(resp.Checks, check)
	}
	if !ready {
		resp.Status = HealthNotReady
	}
	return resp, ready
}
