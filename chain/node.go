package chain

import (
	"sync"

	"github.com/flagdev/go-chain/internal/intern"
)

// NodeID is a stable handle into the tree's node arena. Parent and child
// links are IDs rather than pointers, so the tree has no ownership cycles.
type NodeID int

const noParent NodeID = -1

// parserNode is one level of the command tree.
type parserNode struct {
	name     string
	parent   NodeID
	children []NodeID
	childIdx map[string]NodeID
	registry *Registry
	handler  HandlerFunc
	inherit  bool
}

// Tree owns the node arena and all setup-time state. Construct and wire the
// tree once at program start; it is read-only during parses, so concurrent
// parses against one tree are safe.
type Tree struct {
	name     string
	nodes    []*parserNode
	mode     registryMode
	warnings []string
	warnFn   func(string)

	errorHandler *ErrorHandler
	configErr    error
	compileOnce  sync.Once
}

// Option configures a Tree at construction.
type Option func(*Tree)

// Strict makes duplicate flag declarations raise ErrorTypeDuplicateFlag
// instead of being discarded with a warning.
func Strict() Option {
	return func(t *Tree) { t.mode = modeStrict }
}

// WithWarnFunc redirects lenient-mode duplicate warnings. By default they
// accumulate on Tree.Warnings.
func WithWarnFunc(fn func(string)) Option {
	return func(t *Tree) { t.warnFn = fn }
}

// New creates a tree with an empty root node.
func New(name string, opts ...Option) *Tree {
	t := &Tree{
		name:         name,
		errorHandler: newErrorHandler(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.newNode(name)
	return t
}

func (t *Tree) newNode(name string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, &parserNode{
		name:     intern.Intern(name),
		parent:   noParent,
		childIdx: make(map[string]NodeID),
		registry: newRegistry(t.mode, t.recordWarning),
	})
	return id
}

func (t *Tree) recordWarning(msg string) {
	if t.warnFn != nil {
		t.warnFn(msg)
		return
	}
	t.warnings = append(t.warnings, msg)
}

// Warnings returns lenient-mode diagnostics accumulated during setup.
func (t *Tree) Warnings() []string {
	return t.warnings
}

// ErrorHandler returns the tree's error handler for suggestion tuning.
func (t *Tree) ErrorHandler() *ErrorHandler {
	return t.errorHandler
}

// Root returns the root node handle.
func (t *Tree) Root() Node {
	return Node{t: t, id: 0}
}

// NewNode creates a detached node that can later be attached under a parent
// with Attach. Most callers use Node.Command instead.
func (t *Tree) NewNode(name string) Node {
	return Node{t: t, id: t.newNode(name)}
}

// Err returns the first configuration error recorded during setup. Parse
// refuses to run while it is non-nil.
func (t *Tree) Err() error {
	return t.configErr
}

func (t *Tree) fail(err error) {
	if t.configErr == nil && err != nil {
		t.configErr = err
	}
}

// compile finalizes inheritance before the first parse. The walk descends
// from the root over the attached children, so every parent's effective flag
// set (own plus inherited) is final before its children copy from it, no
// matter what order the nodes were created in. The sync.Once makes a first
// parse from several goroutines safe.
func (t *Tree) compile() {
	t.compileOnce.Do(func() {
		queue := []NodeID{0}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			n := t.nodes[id]
			if n.inherit && n.parent != noParent {
				for _, spec := range t.nodes[n.parent].registry.Specs() {
					n.registry.registerInherited(spec)
				}
			}
			queue = append(queue, n.children...)
		}
	})
}

// Node is a handle to one parser node. Handles are values; copying one is
// cheap and aliases the same arena entry.
type Node struct {
	t  *Tree
	id NodeID
}

// Name returns the node's command name.
func (n Node) Name() string {
	return n.node().name
}

// Registry exposes the node's flag registry. External layers (help, schema
// export) read it; they must never mutate it.
func (n Node) Registry() *Registry {
	return n.node().registry
}

// Flags returns the node's specs in registration order.
func (n Node) Flags() []*FlagSpec {
	return n.node().registry.Specs()
}

// FlagNames returns the node's flag names in registration order.
func (n Node) FlagNames() []string {
	return n.node().registry.Names()
}

// Commands returns the names of the node's sub-commands in attach order.
func (n Node) Commands() []string {
	nd := n.node()
	names := make([]string, len(nd.children))
	for i, id := range nd.children {
		names[i] = n.t.nodes[id].name
	}
	return names
}

// CommandChain returns the command names from the root down to this node,
// excluding the root itself.
func (n Node) CommandChain() []string {
	var rev []string
	for id := n.id; id != 0; id = n.t.nodes[id].parent {
		if n.t.nodes[id].parent == noParent {
			break
		}
		rev = append(rev, n.t.nodes[id].name)
	}
	chain := make([]string, len(rev))
	for i, name := range rev {
		chain[len(rev)-1-i] = name
	}
	return chain
}

func (n Node) node() *parserNode {
	return n.t.nodes[n.id]
}

// Command creates a sub-command under this node and returns its handle.
func (n Node) Command(name string) Node {
	child := n.t.NewNode(name)
	n.Attach(child)
	return child
}

// Attach mounts a detached node as a sub-command of this node. A node may be
// attached to at most one parent; violations and duplicate names are
// recorded as configuration errors surfaced by Parse.
func (n Node) Attach(child Node) Node {
	nd := n.node()
	cn := child.node()
	_, dup := nd.childIdx[cn.name]
	switch {
	case child.id == 0:
		n.t.fail(NewParseError(ErrorTypeConfiguration, "cannot attach the root node"))
	case cn.parent != noParent:
		n.t.fail(NewParseError(ErrorTypeConfiguration,
			"command "+cn.name+" is already attached"))
	case dup:
		n.t.fail(NewParseError(ErrorTypeConfiguration,
			"duplicate sub-command name: "+cn.name))
	default:
		cn.parent = n.id
		nd.children = append(nd.children, child.id)
		nd.childIdx[cn.name] = child.id
	}
	return n
}

// InheritParentFlags makes this node inherit its parent's flags. A flag the
// node declares itself always shadows an identically named inherited one.
func (n Node) InheritParentFlags() Node {
	n.node().inherit = true
	return n
}

// Handle binds the handler invoked when this node terminates a resolved
// chain.
func (n Node) Handle(fn HandlerFunc) Node {
	n.node().handler = fn
	return n
}

// AddFlag registers a declarative flag, normalizing it with the documented
// defaults. This is the path schema-driven callers use; fluent callers use
// the typed builders below.
func (n Node) AddFlag(decl FlagDecl) error {
	spec, err := decl.normalize()
	if err != nil {
		return err
	}
	return n.node().registry.Register(spec)
}

// Typed flag builders.

// StringFlag declares a string flag with the given option spellings.
func (n Node) StringFlag(name string, options ...string) *FlagBuilder {
	return n.addBuilderFlag(name, KindString, nil, options)
}

// NumberFlag declares a numeric flag.
func (n Node) NumberFlag(name string, options ...string) *FlagBuilder {
	return n.addBuilderFlag(name, KindNumber, nil, options)
}

// BoolFlag declares a boolean flag.
func (n Node) BoolFlag(name string, options ...string) *FlagBuilder {
	return n.addBuilderFlag(name, KindBool, nil, options)
}

// ArrayFlag declares a comma-list flag.
func (n Node) ArrayFlag(name string, options ...string) *FlagBuilder {
	return n.addBuilderFlag(name, KindArray, nil, options)
}

// ObjectFlag declares a JSON-object flag.
func (n Node) ObjectFlag(name string, options ...string) *FlagBuilder {
	return n.addBuilderFlag(name, KindObject, nil, options)
}

// CustomFlag declares a flag coerced by a caller-supplied parse function.
func (n Node) CustomFlag(name string, parse ParseFunc, options ...string) *FlagBuilder {
	return n.addBuilderFlag(name, KindCustom, parse, options)
}

func (n Node) addBuilderFlag(name string, kind ValueKind, parse ParseFunc, options []string) *FlagBuilder {
	spec := &FlagSpec{
		Name:          name,
		Options:       options,
		Kind:          kind,
		Parse:         parse,
		AllowLigature: true,
	}
	if err := n.node().registry.Register(spec); err != nil {
		n.t.fail(err)
	}
	return &FlagBuilder{node: n, spec: spec}
}

// FlagBuilder provides fluent configuration for a just-declared flag.
// Modifiers run during setup only; once a parse starts the spec is frozen.
type FlagBuilder struct {
	node Node
	spec *FlagSpec
}

// Default sets the value materialized when the flag goes unmatched.
func (b *FlagBuilder) Default(value any) *FlagBuilder {
	b.spec.Default = value
	return b
}

// Mandatory marks the flag as unconditionally required.
func (b *FlagBuilder) Mandatory() *FlagBuilder {
	b.spec.Mandatory = true
	return b
}

// MandatoryWhen makes requiredness conditional on the final merged result.
func (b *FlagBuilder) MandatoryWhen(fn MandatoryFunc) *FlagBuilder {
	b.spec.MandatoryWhen = fn
	return b
}

// Enum restricts the flag to a closed set of coerced values.
func (b *FlagBuilder) Enum(values ...any) *FlagBuilder {
	b.spec.Enum = values
	return b
}

// Validate attaches a validator run against each coerced value.
func (b *FlagBuilder) Validate(fn ValidatorFunc) *FlagBuilder {
	b.spec.Validator = fn
	return b
}

// Multiple lets repeated occurrences accumulate in input order.
func (b *FlagBuilder) Multiple() *FlagBuilder {
	b.spec.AllowMultiple = true
	return b
}

// FlagOnly makes bare presence record true; the flag never consumes a value.
func (b *FlagBuilder) FlagOnly() *FlagBuilder {
	b.spec.FlagOnly = true
	return b
}

// NoLigature rejects the fused "option=value" form for this flag.
func (b *FlagBuilder) NoLigature() *FlagBuilder {
	b.spec.AllowLigature = false
	return b
}

// Help sets the description read by external presentation layers.
func (b *FlagBuilder) Help(text string) *FlagBuilder {
	b.spec.Help = text
	return b
}

// Back returns the owning node for continued chaining.
func (b *FlagBuilder) Back() Node {
	return b.node
}
