package chain

import (
	"context"
	"strings"

	"github.com/flagdev/go-chain/internal/pool"
)

// flagMarker prefixes tokens that look like flags rather than values.
const flagMarker = "-"

// matchTokens consumes one node's slice of arguments against its flag set
// and merges coerced values into partial. It returns the index of the first
// token, in original order, left unclaimed after both passes.
//
// Matching runs in two ordered passes so the fused "option=value" form takes
// priority over the positional form when both could apply to a token:
//
//  1. ligature pass: flags with AllowLigature scan left to right for
//     "<option>=<value>" tokens;
//  2. positional pass: flags scan for a bare option spelling, consuming the
//     following token as the value unless the flag is FlagOnly.
//
// A token claimed by the ligature pass is never reconsidered. An unclaimed
// token interior to the slice (a stray value between two recognized flags)
// is tolerated; only the leading unconsumed position is reported, so
// upstream unknown-command detection sees exactly the original behavior.
func matchTokens(ctx context.Context, tokens []string, reg *Registry, partial Result) (int, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	claimed := pool.GetClaimed(len(tokens))
	defer pool.PutClaimed(claimed)

	if err := ligaturePass(ctx, tokens, *claimed, reg, partial); err != nil {
		return 0, err
	}
	if err := positionalPass(ctx, tokens, *claimed, reg, partial); err != nil {
		return 0, err
	}

	for i, taken := range *claimed {
		if !taken {
			return i, nil
		}
	}
	return len(tokens), nil
}

func ligaturePass(ctx context.Context, tokens []string, claimed []bool, reg *Registry, partial Result) error {
	for _, spec := range reg.Specs() {
		if !spec.AllowLigature || spec.FlagOnly {
			continue
		}
	scan:
		for i, tok := range tokens {
			if claimed[i] {
				continue
			}
			for _, opt := range spec.Options {
				if len(tok) <= len(opt) || tok[len(opt)] != '=' || !strings.HasPrefix(tok, opt) {
					continue
				}
				if err := applyToken(ctx, spec, tok[len(opt)+1:], partial); err != nil {
					return err
				}
				claimed[i] = true
				if !spec.AllowMultiple {
					break scan
				}
				break
			}
		}
	}
	return nil
}

func positionalPass(ctx context.Context, tokens []string, claimed []bool, reg *Registry, partial Result) error {
	for _, spec := range reg.Specs() {
	scan:
		for i, tok := range tokens {
			if claimed[i] || !spellsFlag(spec, tok) {
				continue
			}
			claimed[i] = true

			switch {
			case spec.FlagOnly:
				if err := applyPresence(ctx, spec, partial); err != nil {
					return err
				}
			case valueUsable(tokens, claimed, i+1):
				claimed[i+1] = true
				if err := applyToken(ctx, spec, tokens[i+1], partial); err != nil {
					return err
				}
			case spec.Kind == KindBool:
				// Bare boolean presence with no usable value token.
				if err := applyPresence(ctx, spec, partial); err != nil {
					return err
				}
			default:
				// Option named but no value available; mandatory
				// enforcement reports it after the chain resolves.
			}

			if !spec.AllowMultiple {
				break scan
			}
		}
	}
	return nil
}

func spellsFlag(spec *FlagSpec, tok string) bool {
	for _, opt := range spec.Options {
		if tok == opt {
			return true
		}
	}
	return false
}

// valueUsable reports whether tokens[i] can serve as a flag value: it must
// exist, be unclaimed, and not itself look like a flag.
func valueUsable(tokens []string, claimed []bool, i int) bool {
	return i < len(tokens) && !claimed[i] && !strings.HasPrefix(tokens[i], flagMarker)
}
