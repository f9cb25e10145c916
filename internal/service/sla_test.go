package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

func TestEvaluateSLA(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	const target = 48

	cases := []struct {
		name    string
		elapsed time.Duration
		status  domain.IssueStatus
		want    SLAState
	}{
		{"well within budget", 10 * time.Hour, domain.IssueStatusReported, SLACompliant},
		{"exactly at warning threshold", 36 * time.Hour, domain.IssueStatusInProgress, SLACompliant},
		{"past warning threshold", 40 * time.Hour, domain.IssueStatusInProgress, SLABreachImminent},
		{"exactly at target", 48 * time.Hour, domain.IssueStatusAssigned, SLABreachImminent},
		{"past target", 50 * time.Hour, domain.IssueStatusReported, SLABreached},
		{"resolved issues are out of scope", 500 * time.Hour, domain.IssueStatusResolved, SLANotApplicable},
		{"closed issues are out of scope", 500 * time.Hour, domain.IssueStatusClosed, SLANotApplicable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateSLA(createdAt.Add(tc.elapsed), createdAt, target, tc.status)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateResolution_WithinTarget(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	resolvedAt := createdAt.Add(30 * time.Hour)

	outcome := EvaluateResolution(createdAt, resolvedAt, 48)
	require.True(t, outcome.Compliant)
	assert.Equal(t, 30, outcome.ActualHours)
	assert.Empty(t, outcome.BreachReason)
}

func TestEvaluateResolution_PastTarget(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	resolvedAt := createdAt.Add(53 * time.Hour)

	outcome := EvaluateResolution(createdAt, resolvedAt, 48)
	require.False(t, outcome.Compliant)
	assert.Equal(t, 53, outcome.ActualHours)
	assert.Equal(t, "Exceeded target resolution time by 5 hours", outcome.BreachReason)
}

func TestEvaluateResolution_RoundsToNearestHour(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	outcome := EvaluateResolution(createdAt, createdAt.Add(29*time.Hour+40*time.Minute), 48)
	assert.Equal(t, 30, outcome.ActualHours)

	outcome = EvaluateResolution(createdAt, createdAt.Add(29*time.Hour+20*time.Minute), 48)
	assert.Equal(t, 29, outcome.ActualHours)
}
