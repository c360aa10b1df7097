package chain

import (
	"testing"
)

func TestRegisterNormalizationDefaults(t *testing.T) {
	spec, err := FlagDecl{Name: "env", Options: []string{"-e"}}.normalize()
	if err != nil {
		t.Fatal(err)
	}
	if !spec.AllowLigature {
		t.Error("AllowLigature should default to true")
	}
	if spec.AllowMultiple || spec.FlagOnly {
		t.Error("AllowMultiple and FlagOnly should default to false")
	}
	if spec.Kind != KindString {
		t.Errorf("Kind should default to KindString, got %v", spec.Kind)
	}
}

func TestRegisterRejectsMalformedDeclarations(t *testing.T) {
	tests := []struct {
		name string
		decl FlagDecl
	}{
		{"no name", FlagDecl{Options: []string{"-e"}}},
		{"no options", FlagDecl{Name: "env"}},
		{"unknown kind", FlagDecl{Name: "env", Options: []string{"-e"}, Kind: "tensor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.decl.normalize()
			if err == nil {
				t.Fatal("expected error")
			}
			perr, ok := err.(*ParseError)
			if !ok || perr.Type != ErrorTypeConfiguration {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestParseKindTokens(t *testing.T) {
	tests := []struct {
		token string
		want  ValueKind
	}{
		{"", KindString},
		{"string", KindString},
		{"number", KindNumber},
		{"bool", KindBool},
		{"boolean", KindBool},
		{"array", KindArray},
		{"object", KindObject},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.token)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
	if _, err := ParseKind("custom"); err == nil {
		t.Error("custom has no declaration token and should be rejected")
	}
}

func TestRegisterDuplicateStrict(t *testing.T) {
	reg := newRegistry(modeStrict, nil)
	if err := reg.Register(&FlagSpec{Name: "env", Options: []string{"-e"}}); err != nil {
		t.Fatal(err)
	}
	err := reg.Register(&FlagSpec{Name: "env", Options: []string{"--env"}})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if perr := err.(*ParseError); perr.Type != ErrorTypeDuplicateFlag {
		t.Errorf("expected duplicate_flag, got %v", perr.Type)
	}
	if reg.Len() != 1 {
		t.Errorf("prior entry should be retained, len = %d", reg.Len())
	}
}

func TestRegisterDuplicateLenient(t *testing.T) {
	var warnings []string
	reg := newRegistry(modeLenient, func(msg string) { warnings = append(warnings, msg) })

	if err := reg.Register(&FlagSpec{Name: "env", Options: []string{"-e"}}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&FlagSpec{Name: "env", Options: []string{"--env"}}); err != nil {
		t.Fatalf("lenient mode should not error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	spec, _ := reg.Lookup("env")
	if spec.Options[0] != "-e" {
		t.Error("prior entry should be retained")
	}
}

func TestRegisterOptionCollision(t *testing.T) {
	reg := newRegistry(modeStrict, nil)
	if err := reg.Register(&FlagSpec{Name: "env", Options: []string{"-e"}}); err != nil {
		t.Fatal(err)
	}
	err := reg.Register(&FlagSpec{Name: "endpoint", Options: []string{"-e"}})
	if err == nil {
		t.Fatal("expected option collision error")
	}
}

func TestRegisterInheritedPrecedence(t *testing.T) {
	reg := newRegistry(modeLenient, nil)
	own := &FlagSpec{Name: "verbose", Options: []string{"-V"}, Kind: KindString}
	if err := reg.Register(own); err != nil {
		t.Fatal(err)
	}

	inherited := &FlagSpec{Name: "verbose", Options: []string{"--verbose"}, Kind: KindBool}
	reg.registerInherited(inherited)

	spec, _ := reg.Lookup("verbose")
	if spec != own {
		t.Error("own flag must not be overwritten by an inherited one")
	}
	if reg.Len() != 1 {
		t.Errorf("len = %d", reg.Len())
	}
}

func TestRegisterInheritedOptionShadowing(t *testing.T) {
	reg := newRegistry(modeLenient, nil)
	own := &FlagSpec{Name: "quiet", Options: []string{"-q"}}
	if err := reg.Register(own); err != nil {
		t.Fatal(err)
	}

	// An inherited flag whose spelling the node already claims is dropped
	// entirely rather than stealing the spelling.
	reg.registerInherited(&FlagSpec{Name: "queue", Options: []string{"-q"}})
	if _, ok := reg.Lookup("queue"); ok {
		t.Error("inherited flag with a shadowed spelling should be skipped")
	}
}

func TestRegistryEnumerationOrder(t *testing.T) {
	reg := newRegistry(modeStrict, nil)
	names := []string{"alpha", "beta", "gamma"}
	for _, name := range names {
		if err := reg.Register(&FlagSpec{Name: name, Options: []string{"--" + name}}); err != nil {
			t.Fatal(err)
		}
	}
	got := reg.Names()
	for i, name := range names {
		if got[i] != name {
			t.Fatalf("enumeration order not preserved: %v", got)
		}
	}
}

func TestRegisterReservedName(t *testing.T) {
	reg := newRegistry(modeStrict, nil)
	if err := reg.Register(&FlagSpec{Name: ChainKey, Options: []string{"-c"}}); err == nil {
		t.Error("reserved chain key must be rejected")
	}
}
