package a11y

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openkraft/uiharness/internal/domain"
)

// ErrPolicyViolation marks a scan whose violations hit a fail-on level.
var ErrPolicyViolation = errors.New("accessibility policy violated")

// Policy is the set of impact levels that fail a scan.
type Policy struct {
	FailOn map[domain.Impact]bool
}

// NewPolicy builds a Policy failing on the given impacts.
func NewPolicy(impacts ...domain.Impact) Policy {
	p := Policy{FailOn: make(map[domain.Impact]bool, len(impacts))}
	for _, i := range impacts {
		p.FailOn[i] = true
	}
	return p
}

// ParsePolicy builds a Policy from a list such as "serious,critical".
func ParsePolicy(csv string) (Policy, error) {
	impacts, err := domain.ParseImpacts(csv)
	if err != nil {
		return Policy{}, err
	}
	return NewPolicy(impacts...), nil
}

// Fails reports whether impact is a fail-on level.
func (p Policy) Fails(impact domain.Impact) bool { return p.FailOn[impact] }

// Levels returns the fail-on levels from least to most severe.
func (p Policy) Levels() []domain.Impact {
	var out []domain.Impact
	for _, i := range domain.AllImpacts {
		if p.FailOn[i] {
			out = append(out, i)
		}
	}
	return out
}

// Evaluation splits a scan result by the policy.
type Evaluation struct {
	Fatal    []domain.Violation
	Findings []domain.Violation
}

// PolicyViolationError lists every violation that hit a fail-on level.
type PolicyViolationError struct {
	FailOn     []domain.Impact
	Violations []domain.Violation
}

func (e *PolicyViolationError) Error() string {
	levels := make([]string, len(e.FailOn))
	for i, l := range e.FailOn {
		levels[i] = l.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v: %d violation(s) at fail-on levels [%s]",
		ErrPolicyViolation, len(e.Violations), strings.Join(levels, ", "))
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "\n  - %s [%s] %s (%d node(s))", v.ID, v.Impact, v.Description, len(v.Nodes))
	}
	return b.String()
}

func (e *PolicyViolationError) Unwrap() error { return ErrPolicyViolation }

// Evaluate checks every violation against the policy. Violations at a
// fail-on level are aggregated into a *PolicyViolationError in scan order;
// the rest are returned as non-fatal findings.
func Evaluate(result domain.ScanResult, policy Policy) (Evaluation, error) {
	var ev Evaluation
	for _, v := range result.Violations {
		if policy.Fails(v.Impact) {
			ev.Fatal = append(ev.Fatal, v)
		} else {
			ev.Findings = append(ev.Findings, v)
		}
	}
	if len(ev.Fatal) == 0 {
		return ev, nil
	}
	return ev, &PolicyViolationError{FailOn: policy.Levels(), Violations: ev.Fatal}
}
