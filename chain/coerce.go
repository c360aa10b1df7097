package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// applyToken coerces a raw token for the given spec, enforces enum and
// validator constraints, and merges the value into the partial result.
func applyToken(ctx context.Context, spec *FlagSpec, raw string, partial Result) error {
	value, err := coerceToken(spec, raw)
	if err != nil {
		return err
	}
	return applyValue(ctx, spec, value, partial)
}

// applyPresence records a flag-only or bare boolean occurrence as true,
// running the same constraint checks a real token would.
func applyPresence(ctx context.Context, spec *FlagSpec, partial Result) error {
	return applyValue(ctx, spec, true, partial)
}

func applyValue(ctx context.Context, spec *FlagSpec, value any, partial Result) error {
	if len(spec.Enum) > 0 && !enumMember(spec.Enum, value) {
		return &ParseError{
			Type: ErrorTypeInvalidEnum,
			Message: fmt.Sprintf("invalid value %v for flag %s, allowed: %s",
				value, spec.Name, enumList(spec.Enum)),
			Flag: spec.Name,
		}
	}
	if spec.Validator != nil {
		if err := spec.Validator(ctx, value, partial); err != nil {
			return &ParseError{
				Type:    ErrorTypeValidationFailed,
				Message: "validation failed for flag " + spec.Name + ": " + err.Error(),
				Flag:    spec.Name,
			}
		}
	}
	merge(spec, value, partial)
	return nil
}

// merge writes the coerced value into the partial result, overwriting for
// single-value flags and appending for multi-value ones.
func merge(spec *FlagSpec, value any, partial Result) {
	if !spec.AllowMultiple {
		partial[spec.Name] = value
		return
	}
	seq, _ := partial[spec.Name].([]any)
	partial[spec.Name] = append(seq, value)
}

// coerceToken converts a raw textual token into the spec's semantic type.
func coerceToken(spec *FlagSpec, raw string) (any, error) {
	switch spec.Kind {
	case KindString:
		return raw, nil
	case KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ParseError{
				Type:    ErrorTypeInvalidValue,
				Message: "invalid number value for flag " + spec.Name + ": " + raw,
				Flag:    spec.Name,
			}
		}
		return n, nil
	case KindBool:
		return coerceBool(raw), nil
	case KindArray:
		return splitList(raw), nil
	case KindObject:
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, &ParseError{
				Type:    ErrorTypeInvalidValue,
				Message: "invalid object value for flag " + spec.Name + ": " + raw,
				Flag:    spec.Name,
			}
		}
		return obj, nil
	case KindCustom:
		value, err := spec.Parse(raw)
		if err != nil {
			return nil, &ParseError{
				Type:    ErrorTypeInvalidValue,
				Message: "invalid value for flag " + spec.Name + ": " + err.Error(),
				Flag:    spec.Name,
			}
		}
		return value, nil
	default:
		return nil, &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "unsupported value kind for flag " + spec.Name,
			Flag:    spec.Name,
		}
	}
}

// coerceBool treats literal true/false specially and falls back to a
// truthy-string heuristic for everything else.
func coerceBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false", "", "0", "no", "off":
		return false
	default:
		return true
	}
}

// splitList parses comma-separated list syntax: "a,b,c" -> [a b c].
func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// enumMember checks membership by value equality. DeepEqual covers slice and
// map values a custom parser may produce.
func enumMember(enum []any, value any) bool {
	for _, allowed := range enum {
		if reflect.DeepEqual(allowed, value) {
			return true
		}
	}
	return false
}

func enumList(enum []any) string {
	var b strings.Builder
	for i, v := range enum {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
	}
	return b.String()
}
