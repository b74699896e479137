package translator

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/spektr-org/aadhaar-pulse/engine"
)

// ============================================================================
// PARSERS — expression, query string and JSON forms
// ============================================================================
// When a key repeats, the last occurrence wins.
// ============================================================================

// ParseExpr parses a comma-separated list of key=value pairs.
// An empty expression is the empty FilterSpec.
func (t *Translator) ParseExpr(expr string) (engine.FilterSpec, error) {
	var spec engine.FilterSpec
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return spec, nil
	}

	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return engine.FilterSpec{}, fmt.Errorf("filter %q: expected key=value", part)
		}
		if err := t.set(&spec, key, value); err != nil {
			return engine.FilterSpec{}, err
		}
	}
	return spec, nil
}

// FromValues reads a FilterSpec from URL query values. Parameters named in
// reserved (format, limit, ...) are skipped; any other unknown parameter is
// an invalid key.
func (t *Translator) FromValues(values url.Values, reserved ...string) (engine.FilterSpec, error) {
	skip := make(map[string]bool, len(reserved))
	for _, r := range reserved {
		skip[r] = true
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var spec engine.FilterSpec
	for _, k := range keys {
		if skip[k] {
			continue
		}
		vs := values[k]
		if len(vs) == 0 {
			continue
		}
		if err := t.set(&spec, k, vs[len(vs)-1]); err != nil {
			return engine.FilterSpec{}, err
		}
	}
	return spec, nil
}

// ParseJSON reads a FilterSpec from a JSON object. Values may be strings,
// numbers (months are often written unquoted) or null. Markdown code fences
// around the object are tolerated.
func (t *Translator) ParseJSON(data []byte) (engine.FilterSpec, error) {
	text := strings.TrimSpace(string(data))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var spec engine.FilterSpec
	if text == "" || text == "null" {
		return spec, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return engine.FilterSpec{}, fmt.Errorf("parsing filter JSON: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		value, err := jsonScalar(raw[k])
		if err != nil {
			return engine.FilterSpec{}, fmt.Errorf("filter %q: %w", k, err)
		}
		if err := t.set(&spec, k, value); err != nil {
			return engine.FilterSpec{}, err
		}
	}
	return spec, nil
}

// Format renders spec back into expression form; ParseExpr(Format(s)) == s.
func (t *Translator) Format(spec engine.FilterSpec) string {
	var parts []string
	for _, p := range [][2]string{
		{engine.FieldState, spec.State},
		{engine.FieldDistrict, spec.District},
		{engine.FieldMonth, spec.Month},
		{engine.FieldWeekday, spec.Weekday},
	} {
		if p[1] != "" {
			parts = append(parts, p[0]+"="+p[1])
		}
	}
	return strings.Join(parts, ",")
}

func jsonScalar(msg json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		return n.String(), nil
	}
	return "", fmt.Errorf("expected a string or number, got %s", msg)
}

func normalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, AllChoice) {
		return ""
	}
	return v
}
