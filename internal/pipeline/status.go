package pipeline

import (
	"regexp"
	"strconv"
	"time"

	"github.com/mkowalski/billsync/internal/model"
)

// LegiScan numeric status codes.
const (
	statusIntroduced = 1
	statusEngrossed  = 2
	statusEnrolled   = 3
	statusPassed     = 4
	statusVetoed     = 5
	statusFailed     = 6
)

// Action-log phrases that mean a bill is effectively dead for the session
// even though LegiScan still reports it as in-progress.
var tabledActionPattern = regexp.MustCompile(`(?i)tabled|laid on (the )?table|postponed|indefinitely|sine die|died|withdrawn|stricken`)

// StatusClassifier maps a source bill onto the closed StatusLabel set.
// Now is injectable so the session-end heuristic stays testable; the zero
// value uses time.Now.
type StatusClassifier struct {
	Now func() time.Time
}

// Classify applies the classification rules in priority order, first match
// wins:
//
//  1. status 4 -> Passed
//  2. status 5 or 6 -> Failed
//  3. last action reads as tabled/postponed/died/etc -> Tabled
//  4. state bill still in progress after June 1 of its session year -> Tabled
//  5. otherwise -> Active
//
// Rule 4 is the heuristic for the implicit end-of-session death LegiScan
// never reports: the Minnesota legislature adjourns in May, so an
// introduced/engrossed/enrolled bill after June 1 is dead. An unparseable
// year disables the rule.
func (c StatusClassifier) Classify(bill *model.SourceBill, jurisdiction, year string) model.StatusLabel {
	switch bill.Status {
	case statusPassed:
		return model.StatusPassed
	case statusVetoed, statusFailed:
		return model.StatusFailed
	}

	if tabledActionPattern.MatchString(bill.LastAction) {
		return model.StatusTabled
	}

	if jurisdiction == model.JurisdictionState && bill.Status >= statusIntroduced && bill.Status <= statusEnrolled {
		if y, err := strconv.Atoi(year); err == nil && y > 0 {
			sessionEnd := time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC)
			if !c.now().Before(sessionEnd) {
				return model.StatusTabled
			}
		}
	}

	return model.StatusActive
}

func (c StatusClassifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}
