package chain

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"testing"
)

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"TRUE", true},
		{"", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"1", true},
		{"yes", true},
		{"anything", true},
	}
	spec := &FlagSpec{Name: "b", Kind: KindBool}
	for _, tt := range tests {
		got, err := coerceToken(spec, tt.raw)
		if err != nil {
			t.Errorf("coerce %q: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("coerce %q = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCoerceNumber(t *testing.T) {
	spec := &FlagSpec{Name: "n", Kind: KindNumber}
	got, err := coerceToken(spec, "42")
	if err != nil {
		t.Fatal(err)
	}
	if got != 42.0 {
		t.Errorf("got %v", got)
	}
	if _, err = coerceToken(spec, "3.5"); err != nil {
		t.Errorf("fractional values should coerce: %v", err)
	}
	_, err = coerceToken(spec, "forty-two")
	perr, ok := err.(*ParseError)
	if !ok || perr.Type != ErrorTypeInvalidValue {
		t.Errorf("expected invalid_value, got %v", err)
	}
}

func TestCoerceArray(t *testing.T) {
	spec := &FlagSpec{Name: "a", Kind: KindArray}
	got, err := coerceToken(spec, "one, two,three")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("got %v", got)
	}
}

func TestCoerceObject(t *testing.T) {
	spec := &FlagSpec{Name: "o", Kind: KindObject}
	got, err := coerceToken(spec, `{"retries": 3}`)
	if err != nil {
		t.Fatal(err)
	}
	obj := got.(map[string]any)
	if obj["retries"] != 3.0 {
		t.Errorf("got %v", obj)
	}
	if _, err = coerceToken(spec, "not-json"); err == nil {
		t.Error("expected error for malformed object")
	}
}

func TestCoerceCustom(t *testing.T) {
	spec := &FlagSpec{
		Name: "port",
		Kind: KindCustom,
		Parse: func(raw string) (any, error) {
			return strconv.Atoi(raw)
		},
	}
	got, err := coerceToken(spec, "8080")
	if err != nil {
		t.Fatal(err)
	}
	if got != 8080 {
		t.Errorf("got %v", got)
	}
	if _, err = coerceToken(spec, "nope"); err == nil {
		t.Error("expected custom parser error to propagate")
	}
}

func TestApplyEnumMembership(t *testing.T) {
	spec := &FlagSpec{
		Name:    "table",
		Kind:    KindString,
		Options: []string{"-t"},
		Enum:    []any{"metadata", "chunks"},
	}
	partial := Result{}
	if err := applyToken(context.Background(), spec, "chunks", partial); err != nil {
		t.Fatal(err)
	}
	err := applyToken(context.Background(), spec, "rows", partial)
	perr, ok := err.(*ParseError)
	if !ok || perr.Type != ErrorTypeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
	if partial.MustGetString("table", "") != "chunks" {
		t.Error("rejected value must not overwrite the prior one")
	}
}

func TestApplyValidatorOutcomes(t *testing.T) {
	partial := Result{}
	reject := &FlagSpec{
		Name: "w", Kind: KindNumber, Options: []string{"-w"},
		Validator: func(_ context.Context, v any, _ Result) error {
			if v.(float64) < 1 {
				return fmt.Errorf("must be positive")
			}
			return nil
		},
	}
	if err := applyToken(context.Background(), reject, "4", partial); err != nil {
		t.Fatal(err)
	}
	err := applyToken(context.Background(), reject, "0", partial)
	perr, ok := err.(*ParseError)
	if !ok || perr.Type != ErrorTypeValidationFailed {
		t.Fatalf("expected validation_failed, got %v", err)
	}
}

func TestMergeMultiValueInitializes(t *testing.T) {
	spec := &FlagSpec{Name: "f", Kind: KindString, Options: []string{"-f"}, AllowMultiple: true}
	partial := Result{}
	if err := applyToken(context.Background(), spec, "a", partial); err != nil {
		t.Fatal(err)
	}
	if err := applyToken(context.Background(), spec, "b", partial); err != nil {
		t.Fatal(err)
	}
	seq, ok := partial.GetSlice("f")
	if !ok || !reflect.DeepEqual(seq, []any{"a", "b"}) {
		t.Errorf("got %v", seq)
	}
}

func TestApplyPresenceRunsConstraints(t *testing.T) {
	called := false
	spec := &FlagSpec{
		Name: "force", Kind: KindBool, Options: []string{"--force"}, FlagOnly: true,
		Validator: func(_ context.Context, v any, _ Result) error {
			called = true
			if v != true {
				return fmt.Errorf("presence must coerce to true")
			}
			return nil
		},
	}
	partial := Result{}
	if err := applyPresence(context.Background(), spec, partial); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("validator should run for flag-only presence")
	}
}
