package a11y_test

import (
	"testing"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/a11y"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() domain.ScanResult {
	return domain.ScanResult{Violations: []domain.Violation{
		{
			ID:          "region",
			Impact:      domain.ImpactMinor,
			Description: "Ensures all page content is contained by landmarks",
			Nodes:       []domain.Node{{Target: []string{"div.promo"}}},
		},
		{
			ID:          "color-contrast",
			Impact:      domain.ImpactSerious,
			Description: "Ensures the contrast between foreground and background colors meets WCAG 2 AA",
			Nodes:       []domain.Node{{Target: []string{"a.skip"}}, {Target: []string{"p.hint"}}},
		},
	}}
}

func TestEvaluate_FailsOnSerious(t *testing.T) {
	ev, err := a11y.Evaluate(sampleResult(), a11y.NewPolicy(domain.ImpactSerious, domain.ImpactCritical))
	require.Error(t, err)
	assert.ErrorIs(t, err, a11y.ErrPolicyViolation)

	var pv *a11y.PolicyViolationError
	require.ErrorAs(t, err, &pv)
	require.Len(t, pv.Violations, 1)
	assert.Equal(t, "color-contrast", pv.Violations[0].ID)

	assert.Len(t, ev.Fatal, 1)
	require.Len(t, ev.Findings, 1)
	assert.Equal(t, "region", ev.Findings[0].ID)

	want := "accessibility policy violated: 1 violation(s) at fail-on levels [serious, critical]\n" +
		"  - color-contrast [serious] Ensures the contrast between foreground and background colors meets WCAG 2 AA (2 node(s))"
	assert.Equal(t, want, err.Error())
}

func TestEvaluate_PassesOnCriticalOnly(t *testing.T) {
	ev, err := a11y.Evaluate(sampleResult(), a11y.NewPolicy(domain.ImpactCritical))
	require.NoError(t, err)
	assert.Empty(t, ev.Fatal)
	assert.Len(t, ev.Findings, 2)
}

func TestEvaluate_AggregatesAll(t *testing.T) {
	result := sampleResult()
	result.Violations = append(result.Violations, domain.Violation{
		ID: "label", Impact: domain.ImpactCritical, Description: "Ensures every form element has a label",
		Nodes: []domain.Node{{Target: []string{"#email"}}},
	})

	_, err := a11y.Evaluate(result, a11y.NewPolicy(domain.ImpactSerious, domain.ImpactCritical))
	var pv *a11y.PolicyViolationError
	require.ErrorAs(t, err, &pv)
	require.Len(t, pv.Violations, 2)
	assert.Equal(t, "color-contrast", pv.Violations[0].ID)
	assert.Equal(t, "label", pv.Violations[1].ID)
	assert.Contains(t, err.Error(), "label [critical] Ensures every form element has a label (1 node(s))")
}

func TestEvaluate_Deterministic(t *testing.T) {
	policy := a11y.NewPolicy(domain.ImpactCritical, domain.ImpactSerious)
	_, first := a11y.Evaluate(sampleResult(), policy)
	for i := 0; i < 10; i++ {
		_, again := a11y.Evaluate(sampleResult(), policy)
		assert.Equal(t, first.Error(), again.Error())
	}
}

func TestEvaluate_EmptyPolicy(t *testing.T) {
	ev, err := a11y.Evaluate(sampleResult(), a11y.NewPolicy())
	require.NoError(t, err)
	assert.Len(t, ev.Findings, 2)
}

func TestParsePolicy(t *testing.T) {
	p, err := a11y.ParsePolicy("critical, serious")
	require.NoError(t, err)
	assert.True(t, p.Fails(domain.ImpactSerious))
	assert.True(t, p.Fails(domain.ImpactCritical))
	assert.False(t, p.Fails(domain.ImpactModerate))
	assert.Equal(t, []domain.Impact{domain.ImpactSerious, domain.ImpactCritical}, p.Levels())

	_, err = a11y.ParsePolicy("severe")
	assert.Error(t, err)
}
