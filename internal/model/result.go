package model

// StatusLabel is the closed set of lifecycle labels a bill can carry in the
// CMS. The classifier only ever produces one of these four values.
type StatusLabel string

const (
	StatusActive StatusLabel = "Active"
	StatusTabled StatusLabel = "Tabled"
	StatusFailed StatusLabel = "Failed"
	StatusPassed StatusLabel = "Passed"
)

// AllStatusLabels lists every label, used to resolve Webflow option IDs
// against the collection schema.
var AllStatusLabels = []StatusLabel{StatusActive, StatusTabled, StatusFailed, StatusPassed}
