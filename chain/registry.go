package chain

import (
	"github.com/flagdev/go-chain/internal/intern"
)

// registryMode controls the duplicate-declaration policy.
type registryMode int

const (
	// modeLenient discards duplicate declarations with a warning (default).
	modeLenient registryMode = iota
	// modeStrict raises ErrorTypeDuplicateFlag instead.
	modeStrict
)

// Registry owns the declared flags of one parser node. Lookup by name and by
// option spelling is O(1); enumeration preserves insertion order. Registries
// are read-only once a parse has started.
type Registry struct {
	mode     registryMode
	byName   map[string]*FlagSpec
	byOption map[string]*FlagSpec
	order    []*FlagSpec
	warn     func(string)
}

func newRegistry(mode registryMode, warn func(string)) *Registry {
	return &Registry{
		mode:     mode,
		byName:   make(map[string]*FlagSpec),
		byOption: make(map[string]*FlagSpec),
		warn:     warn,
	}
}

// Register validates a normalized spec and inserts it. A name or option
// spelling already taken either raises ErrorTypeDuplicateFlag (strict mode)
// or is discarded with a warning (lenient mode); the prior entry is retained
// either way.
func (r *Registry) Register(spec *FlagSpec) error {
	if err := r.check(spec); err != nil {
		return err
	}
	if _, exists := r.byName[spec.Name]; exists {
		return r.reject("duplicate flag name: " + spec.Name)
	}
	for _, opt := range spec.Options {
		if owner, taken := r.byOption[opt]; taken && owner.Name != spec.Name {
			return r.reject("option " + opt + " already registered by flag " + owner.Name)
		}
	}
	r.insert(spec)
	return nil
}

// registerInherited inserts an already-processed spec only when no flag of
// that name exists yet. Option spellings taken by the node's own flags win
// as well, which is how a child's flags shadow identically-spelled inherited
// ones.
func (r *Registry) registerInherited(spec *FlagSpec) {
	if _, exists := r.byName[spec.Name]; exists {
		return
	}
	for _, opt := range spec.Options {
		if _, taken := r.byOption[opt]; taken {
			return
		}
	}
	r.insert(spec)
}

func (r *Registry) insert(spec *FlagSpec) {
	spec.Name = intern.Intern(spec.Name)
	for i, opt := range spec.Options {
		spec.Options[i] = intern.Intern(opt)
		r.byOption[spec.Options[i]] = spec
	}
	r.byName[spec.Name] = spec
	r.order = append(r.order, spec)
}

// check rejects malformed specs at registration time.
func (r *Registry) check(spec *FlagSpec) error {
	switch {
	case spec == nil || spec.Name == "":
		return NewParseError(ErrorTypeConfiguration, "flag declaration has no name")
	case spec.Name == ChainKey:
		return NewParseError(ErrorTypeConfiguration, "flag name "+ChainKey+" is reserved")
	case len(spec.Options) == 0:
		return &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "flag " + spec.Name + " declares no option spellings",
			Flag:    spec.Name,
		}
	case spec.Kind == KindCustom && spec.Parse == nil:
		return &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "custom flag " + spec.Name + " has no parse function",
			Flag:    spec.Name,
		}
	case spec.Kind < KindString || spec.Kind > KindCustom:
		return &ParseError{
			Type:    ErrorTypeConfiguration,
			Message: "unrecognized value kind for flag " + spec.Name,
			Flag:    spec.Name,
		}
	}
	return nil
}

func (r *Registry) reject(msg string) error {
	if r.mode == modeStrict {
		return NewParseError(ErrorTypeDuplicateFlag, msg)
	}
	if r.warn != nil {
		r.warn(msg)
	}
	return nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (*FlagSpec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// LookupOption returns the spec owning an option spelling.
func (r *Registry) LookupOption(option string) (*FlagSpec, bool) {
	spec, ok := r.byOption[option]
	return spec, ok
}

// Specs enumerates all registered specs in insertion order. Callers must
// treat the slice and the specs as read-only.
func (r *Registry) Specs() []*FlagSpec {
	return r.order
}

// Names returns the registered flag names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, spec := range r.order {
		names[i] = spec.Name
	}
	return names
}

// Len returns the number of registered flags.
func (r *Registry) Len() int {
	return len(r.order)
}
