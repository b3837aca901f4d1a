package domain

import (
	"fmt"
	"strings"
	"time"
)

// Impact is the severity axe-core assigns to a violated rule.
// Values are ordered: a higher Impact is more severe.
type Impact int

const (
	ImpactMinor Impact = iota + 1
	ImpactModerate
	ImpactSerious
	ImpactCritical
)

// AllImpacts lists every impact level from least to most severe.
var AllImpacts = []Impact{ImpactMinor, ImpactModerate, ImpactSerious, ImpactCritical}

var impactNames = map[Impact]string{
	ImpactMinor:    "minor",
	ImpactModerate: "moderate",
	ImpactSerious:  "serious",
	ImpactCritical: "critical",
}

func (i Impact) String() string {
	if name, ok := impactNames[i]; ok {
		return name
	}
	return fmt.Sprintf("impact(%d)", int(i))
}

// ParseImpact resolves an impact name, ignoring case and surrounding space.
func ParseImpact(s string) (Impact, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, i := range AllImpacts {
		if impactNames[i] == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown impact %q (valid: minor, moderate, serious, critical)", s)
}

// ParseImpacts parses a comma-separated impact list such as "serious,critical".
// Blank entries are ignored and duplicates collapse.
func ParseImpacts(csv string) ([]Impact, error) {
	seen := make(map[Impact]bool)
	var out []Impact
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		i, err := ParseImpact(part)
		if err != nil {
			return nil, err
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out, nil
}

func (i Impact) MarshalText() ([]byte, error) {
	if _, ok := impactNames[i]; !ok {
		return nil, fmt.Errorf("cannot marshal %s", i)
	}
	return []byte(i.String()), nil
}

func (i *Impact) UnmarshalText(text []byte) error {
	parsed, err := ParseImpact(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Node is one DOM element affected by a violation.
type Node struct {
	Target []string `json:"target"`
	HTML   string   `json:"html"`
}

// Violation is a single failed accessibility rule and the nodes it affects.
type Violation struct {
	ID          string `json:"id"`
	Impact      Impact `json:"impact"`
	Description string `json:"description"`
	Help        string `json:"help"`
	Nodes       []Node `json:"nodes"`
}

// ScanResult is an immutable snapshot of one accessibility audit.
type ScanResult struct {
	Violations []Violation `json:"violations"`
}

// CountByImpact tallies violations per impact level.
func (r ScanResult) CountByImpact() map[Impact]int {
	counts := make(map[Impact]int, len(AllImpacts))
	for _, v := range r.Violations {
		counts[v.Impact]++
	}
	return counts
}

// AccessibilityReport is the persisted record of a scan and its policy verdict.
type AccessibilityReport struct {
	Scenario   string     `json:"scenario"`
	URL        string     `json:"url,omitempty"`
	Selector   string     `json:"selector,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	CommitHash string     `json:"commit_hash,omitempty"`
	FailOn     []Impact   `json:"fail_on"`
	Fatal      int        `json:"fatal"`
	Result     ScanResult `json:"result"`
}

// Passed reports whether no violation matched the fail-on levels.
func (r AccessibilityReport) Passed() bool { return r.Fatal == 0 }
