package service

import (
	"fmt"
	"math"
	"time"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// SLAState is the query-time compliance state of a live issue.
type SLAState string

const (
	SLACompliant      SLAState = "SLA Compliant"
	SLABreachImminent SLAState = "SLA Breach Imminent"
	SLABreached       SLAState = "SLA Breached"
	// SLANotApplicable marks issues already resolved or closed.
	SLANotApplicable SLAState = ""
)

// breachWarningRatio is the fraction of the target budget after which an
// issue counts as imminent (and becomes an escalation candidate).
const breachWarningRatio = 0.75

// EvaluateSLA derives the compliance state of an issue at a point in time.
// It is a pure function of its inputs and is never stored.
func EvaluateSLA(now, createdAt time.Time, targetHours int, status domain.IssueStatus) SLAState {
	if status == domain.IssueStatusResolved || status == domain.IssueStatusClosed {
		return SLANotApplicable
	}
	elapsed := now.Sub(createdAt).Hours()
	target := float64(targetHours)
	switch {
	case elapsed > target:
		return SLABreached
	case elapsed > target*breachWarningRatio:
		return SLABreachImminent
	default:
		return SLACompliant
	}
}

// ResolutionOutcome captures the derived SLA fields written on resolution.
type ResolutionOutcome struct {
	ActualHours  int
	Compliant    bool
	BreachReason string
}

// EvaluateResolution computes the stored SLA outcome when an issue resolves.
func EvaluateResolution(createdAt, resolvedAt time.Time, targetHours int) ResolutionOutcome {
	actual := int(math.Round(resolvedAt.Sub(createdAt).Hours()))
	outcome := ResolutionOutcome{ActualHours: actual, Compliant: true}
	if actual > targetHours {
		outcome.Compliant = false
		outcome.BreachReason = fmt.Sprintf("Exceeded target resolution time by %d hours", actual-targetHours)
	}
	return outcome
}
