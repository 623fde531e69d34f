package parsers

import (
	"fmt"
	"sync"

	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/cwbudde/go-latexnodes/pkg/walker"
)

// MathMode is the tri-state math-mode override a StandardArgumentParser
// may carry: leave the incoming state alone, or force the argument to
// parse in or out of math mode.
type MathMode int

const (
	// MathModeUnset leaves the incoming state's math-mode flag alone.
	MathModeUnset MathMode = iota
	// MathModeOff parses the argument out of math mode.
	MathModeOff
	// MathModeOn parses the argument in math mode. The delimiter must
	// come from the surrounding state or from the state-override bag;
	// the parsing state asserts a math-mode state always carries one.
	MathModeOn
)

// stdArgConfig is the full comparable constructor-argument tuple of a
// StandardArgumentParser; it doubles as the interner key.
type stdArgConfig struct {
	argSpec                        string
	includeSkippedComments         bool
	singleTokenRequiringArgIsError bool
	isMathMode                     MathMode
	allowPreSpace                  bool
}

// StdArgOption overrides one constructor field of a
// StandardArgumentParser.
type StdArgOption func(*StandardArgumentParser)

// WithIncludeSkippedComments controls whether comments skipped before an
// expression argument are kept as sibling nodes. Defaults to true.
func WithIncludeSkippedComments(include bool) StdArgOption {
	return func(sp *StandardArgumentParser) { sp.cfg.includeSkippedComments = include }
}

// WithSingleTokenRequiringArgIsError controls whether an expression
// argument consisting of a lone macro that is known to require
// arguments is an error. Defaults to true.
func WithSingleTokenRequiringArgIsError(isError bool) StdArgOption {
	return func(sp *StandardArgumentParser) { sp.cfg.singleTokenRequiringArgIsError = isError }
}

// WithIsMathMode forces the argument to parse in or out of math mode.
// Left unset, the argument inherits the incoming state's flag.
func WithIsMathMode(inMath bool) StdArgOption {
	return func(sp *StandardArgumentParser) {
		if inMath {
			sp.cfg.isMathMode = MathModeOn
		} else {
			sp.cfg.isMathMode = MathModeOff
		}
	}
}

// WithAllowPreSpace controls whether whitespace may precede the
// argument's opening delimiter or marker. Defaults to true.
func WithAllowPreSpace(allow bool) StdArgOption {
	return func(sp *StandardArgumentParser) { sp.cfg.allowPreSpace = allow }
}

// WithArgParsingStateOverrides supplies extra parsing-state overrides
// applied, after any math-mode override, to derive the sub-state this
// argument parses in. A parser carrying such a bag is not interned
// (function values have no identity to key on).
func WithArgParsingStateOverrides(opts ...parsingstate.Option) StdArgOption {
	return func(sp *StandardArgumentParser) { sp.stateOverrides = opts }
}

// StandardArgumentParser wraps one of the four primitive parsers,
// selected by a single argument-spec character (plus, for a few specs,
// one or two following delimiter characters):
//
//	m or {    mandatory expression argument        -> ExpressionParser
//	o or [    optional bracket-delimited argument   -> DelimitedGroupParser
//	s or *    optional '*' marker                   -> OptionalCharsMarkerParser
//	t<c>      optional single-character marker <c>  -> OptionalCharsMarkerParser
//	r<a><b>   mandatory argument delimited by <a><b> -> DelimitedGroupParser
//	d<a><b>   optional argument delimited by <a><b>  -> DelimitedGroupParser
//	v         verbatim argument, delimiter autodetected -> DelimitedVerbatimParser
//	v<a><b>   verbatim argument delimited by <a><b>  -> DelimitedVerbatimParser
//
// The delegate and the sub-state overrides are derived exactly once, on
// first use, via sync.Once; a malformed spec therefore reports its
// error from the first Parse call rather than from the constructor.
type StandardArgumentParser struct {
	cfg            stdArgConfig
	stateOverrides []parsingstate.Option

	once         sync.Once
	delegate     walker.Parser
	subStateOpts []parsingstate.Option
	initErr      error
}

var _ walker.Parser = (*StandardArgumentParser)(nil)

var (
	internerMu sync.Mutex
	interner   = map[stdArgConfig]*StandardArgumentParser{}
)

// NewStandardArgumentParser constructs a StandardArgumentParser for
// argSpec with the default field values (skipped comments kept,
// lone-macro-requiring-args is an error, math mode inherited, pre-space
// allowed), then applies opts.
func NewStandardArgumentParser(argSpec string, opts ...StdArgOption) *StandardArgumentParser {
	sp := &StandardArgumentParser{
		cfg: stdArgConfig{
			argSpec:                        argSpec,
			includeSkippedComments:         true,
			singleTokenRequiringArgIsError: true,
			allowPreSpace:                  true,
		},
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp
}

// GetStandardArgumentParser returns the process-wide interned
// StandardArgumentParser for the given constructor arguments,
// constructing and registering one on first request. Two calls with
// equal arguments return the same instance. A request carrying a
// state-override bag bypasses the interner and returns a fresh
// instance.
func GetStandardArgumentParser(argSpec string, opts ...StdArgOption) *StandardArgumentParser {
	sp := NewStandardArgumentParser(argSpec, opts...)
	if sp.stateOverrides != nil {
		return sp
	}

	internerMu.Lock()
	defer internerMu.Unlock()

	if cached, ok := interner[sp.cfg]; ok {
		return cached
	}
	interner[sp.cfg] = sp
	return sp
}

func (sp *StandardArgumentParser) ensure() error {
	sp.once.Do(func() {
		sp.subStateOpts = sp.deriveSubStateOpts()
		sp.delegate, sp.initErr = buildStandardDelegate(sp.cfg)
	})
	return sp.initErr
}

// deriveSubStateOpts is the one-time derivation of the parsing-state
// overrides this argument parses under: the math-mode override if set,
// followed by the caller's override bag.
func (sp *StandardArgumentParser) deriveSubStateOpts() []parsingstate.Option {
	var opts []parsingstate.Option
	switch sp.cfg.isMathMode {
	case MathModeOn:
		opts = append(opts, parsingstate.WithMathModeFlag(true))
	case MathModeOff:
		opts = append(opts, parsingstate.WithMathModeFlag(false))
	}
	return append(opts, sp.stateOverrides...)
}

func (sp *StandardArgumentParser) Parse(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	if err := sp.ensure(); err != nil {
		return nil, walker.CarryoverInfo{}, err
	}

	sub := state
	if len(sp.subStateOpts) > 0 {
		sub = state.SubContext(sp.subStateOpts...)
	}
	return sp.delegate.Parse(w, reader, sub, kwargs)
}

// buildStandardDelegate is the one-time dispatch logic: given the
// constructor-argument tuple, decide which of the four primitives
// handles the argument spec and with what configuration.
//
// TODO: a leading comment before any of these argument forms is not
// skipped; only a plain expression argument benefits from
// ExpressionParser's comment-skipping loop.
func buildStandardDelegate(cfg stdArgConfig) (walker.Parser, error) {
	if cfg.argSpec == "" {
		return nil, fmt.Errorf("empty standard argument spec")
	}

	switch cfg.argSpec[0] {
	case 'm', '{':
		return &ExpressionParser{
			IncludeSkippedComments:         cfg.includeSkippedComments,
			SingleTokenRequiringArgIsError: cfg.singleTokenRequiringArgIsError,
		}, nil

	case 'o', '[':
		return &DelimitedGroupParser{Delimiters: [2]string{"[", "]"}, Optional: true, AllowPreSpace: cfg.allowPreSpace}, nil

	case 's', '*':
		return &OptionalCharsMarkerParser{Chars: "*", AllowPreSpace: cfg.allowPreSpace}, nil

	case 't':
		if len(cfg.argSpec) != 2 {
			return nil, fmt.Errorf("argument spec %q: 't' requires exactly one marker character", cfg.argSpec)
		}
		return &OptionalCharsMarkerParser{Chars: string(cfg.argSpec[1]), AllowPreSpace: cfg.allowPreSpace}, nil

	case 'r':
		if len(cfg.argSpec) != 3 {
			return nil, fmt.Errorf("argument spec %q: 'r' requires two delimiter characters", cfg.argSpec)
		}
		return &DelimitedGroupParser{
			Delimiters:    [2]string{string(cfg.argSpec[1]), string(cfg.argSpec[2])},
			Optional:      false,
			AllowPreSpace: cfg.allowPreSpace,
		}, nil

	case 'd':
		if len(cfg.argSpec) != 3 {
			return nil, fmt.Errorf("argument spec %q: 'd' requires two delimiter characters", cfg.argSpec)
		}
		return &DelimitedGroupParser{
			Delimiters:    [2]string{string(cfg.argSpec[1]), string(cfg.argSpec[2])},
			Optional:      true,
			AllowPreSpace: cfg.allowPreSpace,
		}, nil

	case 'v':
		switch len(cfg.argSpec) {
		case 1:
			return &DelimitedVerbatimParser{}, nil
		case 3:
			return &DelimitedVerbatimParser{DelimiterChars: [2]rune{rune(cfg.argSpec[1]), rune(cfg.argSpec[2])}}, nil
		default:
			return nil, fmt.Errorf("argument spec %q: 'v' takes either no delimiters or exactly two", cfg.argSpec)
		}

	default:
		return nil, fmt.Errorf("unknown standard argument spec %q", cfg.argSpec)
	}
}

// ParseArgSpecs splits a macro signature (a concatenation of argument
// specs, e.g. "mom" for mandatory/optional/mandatory, or "mr()" for a
// mandatory expression followed by a parenthesis-delimited mandatory
// group) into its individual StandardArgumentParsers, in order.
//
// Most spec characters consume exactly one rune; 't', 'r', and 'd'
// additionally consume one or two following delimiter characters, and
// 'v' optionally consumes two.
func ParseArgSpecs(signature string) ([]*StandardArgumentParser, error) {
	if signature == "" {
		return nil, nil
	}

	runes := []rune(signature)
	var out []*StandardArgumentParser

	for i := 0; i < len(runes); {
		c := runes[i]
		switch c {
		case 'm', '{', 'o', '[', 's', '*':
			out = append(out, GetStandardArgumentParser(string(c)))
			i++
		case 't':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("argument signature %q: 't' at end with no marker character", signature)
			}
			out = append(out, GetStandardArgumentParser(string(runes[i:i+2])))
			i += 2
		case 'r', 'd':
			if i+2 >= len(runes) {
				return nil, fmt.Errorf("argument signature %q: %q requires two delimiter characters", signature, c)
			}
			out = append(out, GetStandardArgumentParser(string(runes[i:i+3])))
			i += 3
		case 'v':
			if i+2 < len(runes) && !isArgSpecLetter(runes[i+1]) && !isArgSpecLetter(runes[i+2]) {
				out = append(out, GetStandardArgumentParser(string(runes[i:i+3])))
				i += 3
			} else {
				out = append(out, GetStandardArgumentParser("v"))
				i++
			}
		default:
			return nil, fmt.Errorf("argument signature %q: unknown spec character %q", signature, c)
		}
	}

	return out, nil
}

func isArgSpecLetter(r rune) bool {
	switch r {
	case 'm', 'o', 's', 't', 'r', 'd', 'v':
		return true
	default:
		return false
	}
}
