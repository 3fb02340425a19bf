// Package project defines the on-disk project entity and the rules a project
// name must satisfy before any filesystem mutation is attempted.
package project

import "time"

// Project is a directory under the workspace root created from the site
// template. ManifestName is the "name" field of the project's manifest, which
// normally equals Name.
type Project struct {
	Name         string
	Path         string
	ManifestName string
	UpdatedAt    time.Time
}
