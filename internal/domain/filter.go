package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Placeholder is a value in a match filter that is bound at evaluation
// time instead of being fixed when the condition is authored.
type Placeholder string

const (
	PlaceholderUserID    Placeholder = "{{userId}}"
	PlaceholderStartDate Placeholder = "{{startDate}}"
	PlaceholderEndDate   Placeholder = "{{endDate}}"
)

// knownPlaceholders maps the wire form of a placeholder to its typed value.
var knownPlaceholders = map[string]Placeholder{
	string(PlaceholderUserID):    PlaceholderUserID,
	string(PlaceholderStartDate): PlaceholderStartDate,
	string(PlaceholderEndDate):   PlaceholderEndDate,
}

// FilterTerm is one value in a match filter: either a literal constant
// or a placeholder. The tagged representation makes substitution
// explicit; a string that merely looks like an unknown placeholder
// stays a literal and matches nothing special.
type FilterTerm struct {
	placeholder Placeholder
	literal     interface{}
}

// LiteralTerm builds a term that compares against a fixed value.
func LiteralTerm(v interface{}) FilterTerm {
	return FilterTerm{literal: v}
}

// PlaceholderTerm builds a term resolved from bindings at evaluation time.
func PlaceholderTerm(p Placeholder) FilterTerm {
	return FilterTerm{placeholder: p}
}

// IsPlaceholder reports whether the term is bound at evaluation time.
func (t FilterTerm) IsPlaceholder() bool {
	return t.placeholder != ""
}

// Placeholder returns the placeholder of a term, or "" for literals.
func (t FilterTerm) Placeholder() Placeholder {
	return t.placeholder
}

// Literal returns the literal value of a non-placeholder term.
func (t FilterTerm) Literal() interface{} {
	return t.literal
}

// MarshalJSON writes placeholders in their {{name}} wire form and
// literals as-is.
func (t FilterTerm) MarshalJSON() ([]byte, error) {
	if t.IsPlaceholder() {
		return json.Marshal(string(t.placeholder))
	}
	return json.Marshal(t.literal)
}

// UnmarshalJSON recognizes the known placeholder strings; any other
// value, including unrecognized {{...}} text, is kept as a literal.
func (t *FilterTerm) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		if p, known := knownPlaceholders[s]; known {
			*t = FilterTerm{placeholder: p}
			return nil
		}
	}
	*t = FilterTerm{literal: v}
	return nil
}

// Filterable ActionRecord field paths.
const (
	FieldUserID       = "userId"
	FieldActionType   = "actionType"
	FieldTargetType   = "target.targetType"
	FieldTargetID     = "target.targetId"
	FieldCustomPrefix = "custom."
)

// IsFilterableField reports whether a field path may appear in a match
// filter. Open-ended custom fields are addressed with the custom. prefix.
func IsFilterableField(path string) bool {
	switch path {
	case FieldUserID, FieldActionType, FieldTargetType, FieldTargetID:
		return true
	}
	return strings.HasPrefix(path, FieldCustomPrefix) && len(path) > len(FieldCustomPrefix)
}

// MatchFilter is a set of field-equality constraints against
// ActionRecord, keyed by field path.
type MatchFilter map[string]FilterTerm

// FilterBindings carries the evaluation-time values placeholders
// resolve to.
type FilterBindings struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// Resolve substitutes placeholders and returns the concrete
// field-path -> value constraints to query with.
func (f MatchFilter) Resolve(b FilterBindings) map[string]interface{} {
	resolved := make(map[string]interface{}, len(f))
	for field, term := range f {
		if !term.IsPlaceholder() {
			resolved[field] = term.literal
			continue
		}
		switch term.placeholder {
		case PlaceholderUserID:
			resolved[field] = b.UserID
		case PlaceholderStartDate:
			resolved[field] = b.StartDate
		case PlaceholderEndDate:
			resolved[field] = b.EndDate
		}
	}
	return resolved
}

// Validate checks that every constrained field path is filterable.
func (f MatchFilter) Validate() error {
	for field := range f {
		if !IsFilterableField(field) {
			return fmt.Errorf("%w: filter field %q is not filterable", ErrInvalidInput, field)
		}
	}
	return nil
}

// FieldValue resolves a filterable field path against a record.
// Returns false when the path does not resolve to a value.
func (r ActionRecord) FieldValue(path string) (interface{}, bool) {
	switch path {
	case FieldUserID:
		return r.UserID, true
	case FieldActionType:
		return r.ActionType, true
	case FieldTargetType:
		return r.Target.TargetType, true
	case FieldTargetID:
		return r.Target.TargetID, true
	}
	if strings.HasPrefix(path, FieldCustomPrefix) {
		return lookupPath(r.Custom, strings.TrimPrefix(path, FieldCustomPrefix))
	}
	return nil, false
}

// Matches reports whether the record satisfies every constraint of a
// resolved filter.
func (r ActionRecord) Matches(resolved map[string]interface{}) bool {
	for field, want := range resolved {
		got, ok := r.FieldValue(field)
		if !ok || !looselyEqual(got, want) {
			return false
		}
	}
	return true
}

// LookupNumber reads a numeric value at a dotted path inside an open
// map. Missing paths and non-numeric values report false; SUM
// aggregation treats those as a zero contribution rather than an error.
func LookupNumber(m map[string]interface{}, path string) (float64, bool) {
	v, ok := lookupPath(m, path)
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

func lookupPath(m map[string]interface{}, path string) (interface{}, bool) {
	if m == nil || path == "" {
		return nil, false
	}
	var cur interface{} = m
	for _, part := range strings.Split(path, ".") {
		node, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// looselyEqual compares a record field against a filter value. JSON
// round-trips turn numbers into float64, so numeric values compare by
// magnitude; everything else falls back to string form.
func looselyEqual(got, want interface{}) bool {
	if gn, ok := asNumber(got); ok {
		if wn, ok := asNumber(want); ok {
			return gn == wn
		}
	}
	if gs, ok := got.(string); ok {
		if ws, ok := want.(string); ok {
			return gs == ws
		}
	}
	return fmt.Sprintf("%v", got) == fmt.Sprintf("%v", want)
}
