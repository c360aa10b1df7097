package chain

import (
	"context"
)

// Outcome is the fully assembled product of one parse: the terminal node,
// the merged result, the chain walked to reach it, and the deferred handler
// invocation if the terminal node declares one.
type Outcome struct {
	Node   Node
	Args   Result
	Parent Result
	Chain  []string

	handler HandlerFunc
}

// Invocation is the context object handed to a terminal handler.
type Invocation struct {
	// Args is the merged multi-level result, defaults applied.
	Args Result
	// Parent is the originating parent's pre-merge result.
	Parent Result
	// Chain is the ordered list of sub-command names traversed.
	Chain []string
	// Node is the terminal parser node the handler belongs to.
	Node Node
}

// Execute runs the terminal handler, if any. It is a no-op for chains whose
// terminal node declares no handler.
func (o *Outcome) Execute(ctx context.Context) error {
	if o.handler == nil {
		return nil
	}
	return o.handler(ctx, &Invocation{
		Args:   o.Args,
		Parent: o.Parent,
		Chain:  o.Chain,
		Node:   o.Node,
	})
}

// Parse routes the raw argument vector through the command tree and returns
// the assembled outcome without executing the terminal handler. The tree
// must not be mutated while parses are in flight; multiple parses may run
// concurrently against one tree.
func (t *Tree) Parse(ctx context.Context, args []string) (*Outcome, error) {
	if t.configErr != nil {
		return nil, t.configErr
	}
	t.compile()

	outcome, perr := t.resolve(ctx, 0, args, Result{}, []string{})
	if perr != nil {
		return nil, perr
	}

	nodes := t.chainNodes(outcome.Chain)
	applyDefaults(nodes, outcome.Args)
	if merr := checkMandatory(nodes, outcome.Args, outcome.Chain); merr != nil {
		return nil, merr
	}

	outcome.Args[ChainKey] = outcome.Chain
	return outcome, nil
}

// Run parses and then executes the terminal handler.
func (t *Tree) Run(ctx context.Context, args []string) error {
	outcome, err := t.Parse(ctx, args)
	if err != nil {
		return err
	}
	return outcome.Execute(ctx)
}

// resolve is the recursive descent over the remaining token list. At each
// level it scans forward for the first token naming a sub-command, feeds the
// tokens before it to the matcher, and recursively hands the rest to the
// child. There is no backtracking: once a sub-command is chosen the choice
// is final even if a later error occurs validating its flags.
func (t *Tree) resolve(ctx context.Context, id NodeID, tokens []string, inherited Result, chain []string) (*Outcome, *ParseError) {
	node := t.nodes[id]

	splitAt := -1
	var childID NodeID
	for i, tok := range tokens {
		if cid, ok := node.childIdx[tok]; ok {
			splitAt, childID = i, cid
			break
		}
	}

	own := tokens
	if splitAt >= 0 {
		own = tokens[:splitAt]
	}

	partial := inherited.clone()
	firstUnconsumed, err := matchTokens(ctx, own, node.registry, partial)
	if err != nil {
		perr, ok := err.(*ParseError)
		if !ok {
			perr = NewParseError(ErrorTypeInvalidValue, err.Error())
		}
		return nil, perr.withChain(chain)
	}

	// A leading leftover in the node's own slice is a token that matched
	// neither a flag nor a sub-command.
	if firstUnconsumed < len(own) {
		leftover := own[firstUnconsumed]
		perr := &ParseError{
			Type:    ErrorTypeUnknownCommand,
			Message: "unknown command or flag: " + leftover,
			Command: leftover,
		}
		commands, options := t.candidates(node)
		return nil, t.errorHandler.decorate(perr, commands, options).withChain(chain)
	}

	if splitAt < 0 {
		return &Outcome{
			Node:    Node{t: t, id: id},
			Args:    partial,
			Parent:  inherited,
			Chain:   append(make([]string, 0, len(chain)), chain...),
			handler: node.handler,
		}, nil
	}

	childChain := append(append([]string(nil), chain...), t.nodes[childID].name)
	return t.resolve(ctx, childID, tokens[splitAt+1:], partial, childChain)
}

// candidates lists what could legally appear at a node: its sub-command
// names and its option spellings. Used for unknown-command suggestions.
func (t *Tree) candidates(node *parserNode) (commands, options []string) {
	commands = make([]string, 0, len(node.children))
	for _, id := range node.children {
		commands = append(commands, t.nodes[id].name)
	}
	options = make([]string, 0, node.registry.Len()*2)
	for _, spec := range node.registry.Specs() {
		options = append(options, spec.Options...)
	}
	return commands, options
}

// chainNodes maps a resolved chain back onto the arena nodes it visited,
// root first.
func (t *Tree) chainNodes(chain []string) []*parserNode {
	nodes := make([]*parserNode, 0, len(chain)+1)
	id := NodeID(0)
	nodes = append(nodes, t.nodes[id])
	for _, name := range chain {
		id = t.nodes[id].childIdx[name]
		nodes = append(nodes, t.nodes[id])
	}
	return nodes
}
