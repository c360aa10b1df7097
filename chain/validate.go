package chain

import (
	"strings"
)

// helpFlagName is exempt from mandatory enforcement so "--help" can always
// short-circuit a command that otherwise requires flags.
const helpFlagName = "help"

// applyDefaults materializes declared defaults for every flag on every node
// of the resolved chain. A key already holding a value (or a non-empty
// sequence for multi-value flags) is left alone. Nodes are visited leaf
// first so when several levels declare a same-named flag the deepest
// default wins, matching the child-wins rule for parsed values. Non-sequence
// defaults for multi-value flags wrap into a single-element sequence.
func applyDefaults(nodes []*parserNode, merged Result) {
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		for _, spec := range node.registry.Specs() {
			if spec.Default == nil || merged.Has(spec.Name) {
				continue
			}
			if spec.AllowMultiple {
				if seq, ok := spec.Default.([]any); ok {
					merged[spec.Name] = seq
				} else {
					merged[spec.Name] = []any{spec.Default}
				}
				continue
			}
			merged[spec.Name] = spec.Default
		}
	}
}

// checkMandatory enforces every mandatory flag across the whole chain
// against the final merged result. All offenders are collected into a single
// error rather than failing on the first, deduplicated by name; a flag
// satisfied at any level counts as satisfied everywhere.
func checkMandatory(nodes []*parserNode, merged Result, chain []string) *ParseError {
	var missing []MissingFlag
	seen := make(map[string]bool)

	for _, node := range nodes {
		for _, spec := range node.registry.Specs() {
			if spec.Name == helpFlagName || seen[spec.Name] {
				continue
			}
			if !spec.mandatoryIn(merged) || merged.Has(spec.Name) {
				continue
			}
			seen[spec.Name] = true
			missing = append(missing, MissingFlag{Name: spec.Name, Node: node.name})
		}
	}

	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, m := range missing {
		names[i] = m.Name + " (" + m.Node + ")"
	}
	return &ParseError{
		Type:    ErrorTypeMissingMandatory,
		Message: "missing mandatory flags: " + strings.Join(names, ", "),
		Chain:   append([]string(nil), chain...),
		Missing: missing,
	}
}
