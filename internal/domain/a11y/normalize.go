// Package a11y turns raw axe-core output into typed scan results and decides
// whether a result breaks the configured severity policy.
package a11y

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openkraft/uiharness/internal/domain"
)

// ErrMalformedResult marks scanner output that does not have the expected shape.
var ErrMalformedResult = errors.New("malformed scan result")

// StructuralError names the missing or mistyped field in a raw result.
type StructuralError struct {
	Path   string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrMalformedResult, e.Path, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrMalformedResult }

// shadowSeparator joins selector fragments that cross shadow roots.
const shadowSeparator = " >>> "

// NormalizeJSON decodes a serialized axe result and normalizes it.
func NormalizeJSON(data []byte) (domain.ScanResult, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ScanResult{}, &StructuralError{Path: "$", Reason: err.Error()}
	}
	return Normalize(raw)
}

// Normalize converts the untyped result tree returned by axe.run into a
// ScanResult. An empty violations array is a clean scan. Every field the
// model needs is required; any drift in the tree is reported as a
// *StructuralError instead of producing a partial model.
func Normalize(raw any) (domain.ScanResult, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return domain.ScanResult{}, &StructuralError{Path: "$", Reason: fmt.Sprintf("expected object, got %s", kindOf(raw))}
	}
	entries, err := array(root, "violations", "$.violations")
	if err != nil {
		return domain.ScanResult{}, err
	}

	result := domain.ScanResult{Violations: make([]domain.Violation, 0, len(entries))}
	for i, entry := range entries {
		v, err := violation(entry, fmt.Sprintf("$.violations[%d]", i))
		if err != nil {
			return domain.ScanResult{}, err
		}
		result.Violations = append(result.Violations, v)
	}
	return result, nil
}

func violation(raw any, path string) (domain.Violation, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Violation{}, &StructuralError{Path: path, Reason: fmt.Sprintf("expected object, got %s", kindOf(raw))}
	}

	var v domain.Violation
	var err error
	if v.ID, err = str(obj, "id", path+".id"); err != nil {
		return v, err
	}
	impact, err := str(obj, "impact", path+".impact")
	if err != nil {
		return v, err
	}
	if v.Impact, err = domain.ParseImpact(impact); err != nil {
		return v, &StructuralError{Path: path + ".impact", Reason: err.Error()}
	}
	if v.Description, err = str(obj, "description", path+".description"); err != nil {
		return v, err
	}
	if v.Help, err = str(obj, "help", path+".help"); err != nil {
		return v, err
	}

	nodes, err := array(obj, "nodes", path+".nodes")
	if err != nil {
		return v, err
	}
	v.Nodes = make([]domain.Node, 0, len(nodes))
	for j, n := range nodes {
		nd, err := node(n, fmt.Sprintf("%s.nodes[%d]", path, j))
		if err != nil {
			return v, err
		}
		v.Nodes = append(v.Nodes, nd)
	}
	return v, nil
}

func node(raw any, path string) (domain.Node, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Node{}, &StructuralError{Path: path, Reason: fmt.Sprintf("expected object, got %s", kindOf(raw))}
	}

	var n domain.Node
	var err error
	if n.HTML, err = str(obj, "html", path+".html"); err != nil {
		return n, err
	}
	targets, err := array(obj, "target", path+".target")
	if err != nil {
		return n, err
	}
	n.Target = make([]string, 0, len(targets))
	for k, t := range targets {
		sel, err := selector(t, fmt.Sprintf("%s.target[%d]", path, k))
		if err != nil {
			return n, err
		}
		n.Target = append(n.Target, sel)
	}
	return n, nil
}

// selector flattens one target entry. axe reports elements inside shadow
// roots as a nested array of selectors, outermost host first.
func selector(raw any, path string) (string, error) {
	switch t := raw.(type) {
	case string:
		return t, nil
	case []any:
		parts := make([]string, 0, len(t))
		for i, p := range t {
			s, ok := p.(string)
			if !ok {
				return "", &StructuralError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected string, got %s", kindOf(p))}
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, shadowSeparator), nil
	default:
		return "", &StructuralError{Path: path, Reason: fmt.Sprintf("expected string, got %s", kindOf(raw))}
	}
}

func str(obj map[string]any, key, path string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", &StructuralError{Path: path, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &StructuralError{Path: path, Reason: fmt.Sprintf("expected string, got %s", kindOf(raw))}
	}
	return s, nil
}

func array(obj map[string]any, key, path string) ([]any, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, &StructuralError{Path: path, Reason: "missing"}
	}
	a, ok := raw.([]any)
	if !ok {
		return nil, &StructuralError{Path: path, Reason: fmt.Sprintf("expected array, got %s", kindOf(raw))}
	}
	return a, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
