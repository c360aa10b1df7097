package chain

import (
	"strings"

	"github.com/flagdev/go-chain/internal/fuzzy"
)

// ErrorType categorizes engine errors. Categories drive suggestion logic and
// let callers branch without string matching.
type ErrorType string

const (
	ErrorTypeConfiguration    ErrorType = "configuration"
	ErrorTypeDuplicateFlag    ErrorType = "duplicate_flag"
	ErrorTypeInvalidValue     ErrorType = "invalid_value"
	ErrorTypeInvalidEnum      ErrorType = "invalid_enum"
	ErrorTypeValidationFailed ErrorType = "validation_failed"
	ErrorTypeUnknownCommand   ErrorType = "unknown_command"
	ErrorTypeMissingMandatory ErrorType = "missing_mandatory"
)

// MissingFlag names one unsatisfied mandatory flag and the node that
// declared it.
type MissingFlag struct {
	Name string
	Node string
}

// ParseError is the single error kind surfaced by the engine. Every instance
// raised during resolution carries the sub-command chain resolved so far;
// presentation (print-and-exit vs rethrow) is the caller's policy.
type ParseError struct {
	Type       ErrorType
	Message    string
	Flag       string
	Command    string
	Chain      []string
	Suggestion string

	// Missing is populated only for ErrorTypeMissingMandatory and lists
	// every offender across the whole chain, deduplicated by name.
	Missing []MissingFlag
}

func (e *ParseError) Error() string {
	if len(e.Chain) == 0 {
		return e.Message
	}
	return e.Message + " (at " + strings.Join(e.Chain, " ") + ")"
}

// NewParseError creates a ParseError with the given type and message.
func NewParseError(errType ErrorType, message string) *ParseError {
	return &ParseError{Type: errType, Message: message}
}

// withChain tags the error with the chain resolved so far. The first tag
// wins; nested resolver levels must not overwrite the deepest context.
func (e *ParseError) withChain(chain []string) *ParseError {
	if e.Chain == nil {
		e.Chain = append([]string(nil), chain...)
	}
	return e
}

// ErrorHandler decorates unknown-command errors with fuzzy-matched
// suggestions. Suggestions are opt-in.
type ErrorHandler struct {
	suggestCommands bool
	maxDistance     int
}

func newErrorHandler() *ErrorHandler {
	return &ErrorHandler{maxDistance: 2}
}

// SuggestCommands enables "did you mean" suggestions on unknown commands.
func (eh *ErrorHandler) SuggestCommands(enabled bool) *ErrorHandler {
	eh.suggestCommands = enabled
	return eh
}

// MaxDistance sets the maximum edit distance considered for suggestions.
func (eh *ErrorHandler) MaxDistance(distance int) *ErrorHandler {
	eh.maxDistance = distance
	return eh
}

// decorate attaches the best candidate suggestion to an unknown-command
// error. A leftover token that looks like a flag is matched against the
// node's option spellings, anything else against its sub-command names.
func (eh *ErrorHandler) decorate(err *ParseError, commands, options []string) *ParseError {
	if !eh.suggestCommands || err.Type != ErrorTypeUnknownCommand {
		return err
	}
	var best string
	if strings.HasPrefix(err.Command, flagMarker) {
		best = fuzzy.FindBestFlag(err.Command, options, eh.maxDistance)
	} else {
		best = fuzzy.FindBestCommand(err.Command, commands, eh.maxDistance)
	}
	if best != "" {
		err.Suggestion = "did you mean '" + best + "'?"
	}
	return err
}
