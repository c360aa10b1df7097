package chain

import (
	"context"
	"fmt"
	"os"
	"regexp"
)

// ValueKind is the coercion type of a flag, resolved once at registration.
// The matcher never re-inspects declarations at parse time.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindArray
	KindObject
	KindCustom
)

// String returns the declaration token for the kind ("string", "number", ...).
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseKind resolves a declaration token into a ValueKind. An empty token
// defaults to KindString. KindCustom has no token; custom flags carry their
// parse function directly.
func ParseKind(token string) (ValueKind, error) {
	switch token {
	case "", "string":
		return KindString, nil
	case "number":
		return KindNumber, nil
	case "bool", "boolean":
		return KindBool, nil
	case "array":
		return KindArray, nil
	case "object":
		return KindObject, nil
	default:
		return 0, &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "unrecognized value kind: " + token,
		}
	}
}

// ParseFunc converts a raw token into a value for KindCustom flags.
type ParseFunc func(raw string) (any, error)

// ValidatorFunc checks a coerced value against the partially resolved result.
// A non-nil return aborts the parse with ErrorTypeValidationFailed carrying
// the returned message. Long-running validators should honor ctx.
type ValidatorFunc func(ctx context.Context, value any, partial Result) error

// MandatoryFunc decides requiredness of a flag from the final merged result,
// letting one flag be required only in combination with others.
type MandatoryFunc func(r Result) bool

// HandlerFunc is the action bound to a terminal parser node. It runs only
// after the whole chain resolved and every mandatory flag was satisfied.
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// FlagSpec is the declared, post-normalization shape of one flag. Specs are
// immutable once a parse has started; builders mutate them only during setup.
type FlagSpec struct {
	// Name is the output key in the parse result, unique per registry.
	Name string

	// Options are the recognized spellings, e.g. "--env" and "-e".
	Options []string

	// Kind selects coercion. Parse is consulted only for KindCustom.
	Kind  ValueKind
	Parse ParseFunc

	// AllowLigature accepts the fused "option=value" form. Defaults to true.
	AllowLigature bool

	// AllowMultiple accumulates repeated occurrences into a sequence.
	AllowMultiple bool

	// FlagOnly records bare presence as true and never consumes a value token.
	FlagOnly bool

	// Default is written during result assembly when the flag went unmatched.
	Default any

	// Mandatory and MandatoryWhen drive cross-chain enforcement.
	// MandatoryWhen wins when both are set.
	Mandatory     bool
	MandatoryWhen MandatoryFunc

	// Enum restricts coerced values to a closed set.
	Enum []any

	Validator ValidatorFunc

	// Help is read by external presentation layers; the engine ignores it.
	Help string
}

// FlagDecl is the declarative registration form, mirroring how flags arrive
// from schema-like sources. Kind is a string token resolved by ParseKind;
// NoLigature inverts the allow-ligature default.
type FlagDecl struct {
	Name          string
	Options       []string
	Kind          string
	Parse         ParseFunc
	NoLigature    bool
	Multiple      bool
	FlagOnly      bool
	Default       any
	Mandatory     bool
	MandatoryWhen MandatoryFunc
	Enum          []any
	Validator     ValidatorFunc
	Help          string
}

// normalize turns a declaration into a registered-shape spec, applying the
// documented defaults. Declarations without a name or options are rejected.
func (d FlagDecl) normalize() (*FlagSpec, error) {
	if d.Name == "" {
		return nil, &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "flag declaration has no name",
		}
	}
	if len(d.Options) == 0 {
		return nil, &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "flag " + d.Name + " declares no option spellings",
			Flag:    d.Name,
		}
	}
	kind := KindCustom
	if d.Parse == nil {
		var err error
		kind, err = ParseKind(d.Kind)
		if err != nil {
			return nil, err
		}
	}
	return &FlagSpec{
		Name:          d.Name,
		Options:       d.Options,
		Kind:          kind,
		Parse:         d.Parse,
		AllowLigature: !d.NoLigature,
		AllowMultiple: d.Multiple,
		FlagOnly:      d.FlagOnly,
		Default:       d.Default,
		Mandatory:     d.Mandatory,
		MandatoryWhen: d.MandatoryWhen,
		Enum:          d.Enum,
		Validator:     d.Validator,
		Help:          d.Help,
	}, nil
}

// mandatoryIn reports whether the flag is required given the final result.
func (f *FlagSpec) mandatoryIn(r Result) bool {
	if f.MandatoryWhen != nil {
		return f.MandatoryWhen(r)
	}
	return f.Mandatory
}

// Validation helpers for common constraints.

// ValidateFile builds a validator for file path flags.
func ValidateFile(mustExist bool) ValidatorFunc {
	return func(_ context.Context, value any, _ Result) error {
		path, _ := value.(string)
		if path == "" {
			return fmt.Errorf("file path cannot be empty")
		}
		if mustExist {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", path)
			} else if err != nil {
				return fmt.Errorf("cannot access file %s: %v", path, err)
			}
		}
		return nil
	}
}

// ValidateRegex builds a validator that matches string values against a
// pattern. The pattern compiles once; a bad pattern fails every value.
func ValidateRegex(pattern string) ValidatorFunc {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return func(context.Context, any, Result) error {
			return fmt.Errorf("invalid regex pattern '%s': %v", pattern, err)
		}
	}
	return func(_ context.Context, value any, _ Result) error {
		s, ok := value.(string)
		if !ok || !regex.MatchString(s) {
			return fmt.Errorf("value '%v' does not match pattern '%s'", value, pattern)
		}
		return nil
	}
}
