// Package parser extracts scored items from loosely formatted generator output.
//
// Generated text is not trusted: it may wrap the JSON array in prose or
// markdown fences, carry trailing bracketed noise, or be malformed. Parse
// never panics on any input; every failure is returned as a coded error
// from internal/errors.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
)

// maxCandidates bounds how many '[' positions are scanned for a balanced
// span before falling back to the greedy span.
const maxCandidates = 32

// Result is a successfully parsed response.
type Result struct {
	Items   matrix.ItemSet
	Dropped int    // invalid items removed under PolicyLenient
	Clamped int    // scores pulled back into [0,100]
	Span    string // the JSON text that was decoded
}

// Parse locates the JSON array in raw, decodes it and validates every item
// according to policy.
func Parse(raw string, policy matrix.Policy) (*Result, error) {
	span, values, err := locate(raw)
	if err != nil {
		return nil, err
	}

	result := &Result{Span: span}
	items := make([]matrix.ScoredItem, 0, len(values))

	for i, v := range values {
		item, clamped, reason := validateItem(v)
		if reason != "" {
			if policy == matrix.PolicyStrict {
				return nil, perrors.New(perrors.ErrCodeSchemaViolation, "item %d: %s", i, reason)
			}
			result.Dropped++
			continue
		}
		result.Clamped += clamped
		items = append(items, item)
	}

	result.Items = matrix.NewItemSet(items)
	return result, nil
}

// locate returns the first balanced array span that decodes and holds an
// object. Failing that it returns the first balanced span that decodes at
// all, then the greedy first-'[' to last-']' span.
func locate(raw string) (string, []any, error) {
	var (
		firstSpan   string
		firstValues []any
		found       bool
	)
	tried := 0
	for i := 0; i < len(raw) && tried < maxCandidates; i++ {
		if raw[i] != '[' {
			continue
		}
		tried++
		end, ok := matchBracket(raw, i)
		if !ok {
			continue
		}
		values, err := decodeArray(raw[i : end+1])
		if err != nil {
			continue
		}
		if hasObject(values) {
			return raw[i : end+1], values, nil
		}
		if !found {
			firstSpan, firstValues, found = raw[i:end+1], values, true
		}
	}
	if found {
		return firstSpan, firstValues, nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return "", nil, perrors.New(perrors.ErrCodeNoJSONFound, "no JSON array found in generator output")
	}

	span := raw[start : end+1]
	values, err := decodeArray(span)
	if err != nil {
		return "", nil, perrors.Wrap(perrors.ErrCodeInvalidJSON, err, "generator output is not valid JSON")
	}
	return span, values, nil
}

func hasObject(values []any) bool {
	for _, v := range values {
		if _, ok := v.(map[string]any); ok {
			return true
		}
	}
	return false
}

// matchBracket returns the index of the ']' closing the '[' at start.
// Brackets inside JSON string literals are ignored.
func matchBracket(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// decodeArray decodes span as a single JSON array, keeping numbers as
// json.Number so non-numeric values can be told apart.
func decodeArray(span string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	var values []any
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON array")
	}
	return values, nil
}

// validateItem converts one decoded element into a ScoredItem. A non-empty
// reason means the element is invalid.
func validateItem(v any) (matrix.ScoredItem, int, string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return matrix.ScoredItem{}, 0, "not an object"
	}

	rawName, ok := obj["name"]
	if !ok {
		return matrix.ScoredItem{}, 0, "missing name"
	}
	name, ok := rawName.(string)
	if !ok {
		return matrix.ScoredItem{}, 0, "name is not a string"
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return matrix.ScoredItem{}, 0, "name is empty"
	}

	x, reason := score(obj, "x")
	if reason != "" {
		return matrix.ScoredItem{}, 0, reason
	}
	y, reason := score(obj, "y")
	if reason != "" {
		return matrix.ScoredItem{}, 0, reason
	}

	clamped := 0
	if c, changed := clamp(x); changed {
		x = c
		clamped++
	}
	if c, changed := clamp(y); changed {
		y = c
		clamped++
	}

	return matrix.ScoredItem{Name: name, X: x, Y: y}, clamped, ""
}

// score reads a numeric field from obj.
func score(obj map[string]any, field string) (float64, string) {
	raw, ok := obj[field]
	if !ok {
		return 0, "missing " + field
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, field + " is not a number"
	}
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, field + " is out of numeric range"
	}
	return f, ""
}

// clamp pulls v into [MinScore, MaxScore].
func clamp(v float64) (float64, bool) {
	switch {
	case v < matrix.MinScore:
		return matrix.MinScore, true
	case v > matrix.MaxScore:
		return matrix.MaxScore, true
	default:
		return v, false
	}
}
