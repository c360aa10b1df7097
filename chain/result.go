package chain

// ChainKey is the reserved result key holding the resolved sub-command chain.
// No flag may register under this name.
const ChainKey = "__chain__"

// Result is the accumulated mapping from flag name to coerced value. Child
// nodes start from a copy of the parent's already-resolved values, so on key
// collision the child wins. Multi-value flags accumulate []any in input order.
type Result map[string]any

// Chain returns the resolved sub-command chain stored under ChainKey, or nil
// before assembly completes.
func (r Result) Chain() []string {
	chain, _ := r[ChainKey].([]string)
	return chain
}

// Has reports whether the key holds a usable value. A multi-value entry with
// no elements counts as absent, matching mandatory enforcement.
func (r Result) Has(name string) bool {
	v, ok := r[name]
	if !ok {
		return false
	}
	if seq, isSeq := v.([]any); isSeq {
		return len(seq) > 0
	}
	return true
}

// GetString returns the value as a string.
func (r Result) GetString(name string) (string, bool) {
	s, ok := r[name].(string)
	return s, ok
}

// GetNumber returns the value as a float64.
func (r Result) GetNumber(name string) (float64, bool) {
	n, ok := r[name].(float64)
	return n, ok
}

// GetBool returns the value as a bool.
func (r Result) GetBool(name string) (bool, bool) {
	b, ok := r[name].(bool)
	return b, ok
}

// GetSlice returns the accumulated values of a multi-value flag.
func (r Result) GetSlice(name string) ([]any, bool) {
	seq, ok := r[name].([]any)
	return seq, ok
}

// GetStrings returns a multi-value flag's entries as strings. A repeated
// array flag accumulates []string elements; those flatten into the result.
// Entries of other types are skipped.
func (r Result) GetStrings(name string) ([]string, bool) {
	seq, ok := r[name].([]any)
	if !ok {
		// A KindArray flag matched once holds []string directly.
		if ss, isStrings := r[name].([]string); isStrings {
			return ss, true
		}
		return nil, false
	}
	out := make([]string, 0, len(seq))
	for _, v := range seq {
		switch s := v.(type) {
		case string:
			out = append(out, s)
		case []string:
			out = append(out, s...)
		}
	}
	return out, true
}

// MustGetString returns the value or the given default.
func (r Result) MustGetString(name, defaultValue string) string {
	if s, ok := r.GetString(name); ok {
		return s
	}
	return defaultValue
}

// MustGetNumber returns the value or the given default.
func (r Result) MustGetNumber(name string, defaultValue float64) float64 {
	if n, ok := r.GetNumber(name); ok {
		return n
	}
	return defaultValue
}

// MustGetBool returns the value or the given default.
func (r Result) MustGetBool(name string, defaultValue bool) bool {
	if b, ok := r.GetBool(name); ok {
		return b
	}
	return defaultValue
}

// clone copies the result so a child level can override keys without
// mutating the parent's pre-merge view.
func (r Result) clone() Result {
	out := make(Result, len(r)+4)
	for k, v := range r {
		out[k] = v
	}
	return out
}
