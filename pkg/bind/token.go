package bind

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies one raw argument.
type TokenKind int

const (
	// TokenPositional is any argument that is not an option.
	TokenPositional TokenKind = iota
	// TokenLong is a --name argument, optionally carrying an =value suffix.
	TokenLong
	// TokenShort is a single-letter -x argument, same =value rule.
	TokenShort
)

// Token is one classified argument. Tokens are transient: they exist for
// the duration of a single parse and are never persisted.
type Token struct {
	// Kind classifies the token.
	Kind TokenKind

	// Raw is the argument exactly as typed.
	Raw string

	// Name is the long option name without the -- prefix.
	Name string

	// Letter is the short option letter.
	Letter rune

	// Value is the inline value, the text after the first = in the token.
	Value string

	// HasValue records whether an inline = was present, distinguishing
	// --name= (empty inline value) from --name (no inline value).
	HasValue bool
}

// Display returns the option as typed without its inline value, or the
// raw text for positionals.
func (t Token) Display() string {
	switch t.Kind {
	case TokenLong:
		return "--" + t.Name
	case TokenShort:
		return "-" + string(t.Letter)
	default:
		return t.Raw
	}
}

// Tokenize classifies the raw arguments following the command name, in
// order. It is purely syntactic: unknown option names and type mismatches
// are the binder's job.
//
// A token starting with -- is a long option and text after the first =
// is its inline value. A token of a single - followed by exactly one
// letter is a short option, with the same inline rule. Everything else
// is positional: -ab and -9 and a bare - all classify as positionals,
// since combined short flags are not supported.
func Tokenize(args []string) []Token {
	tokens := make([]Token, 0, len(args))
	for _, arg := range args {
		tokens = append(tokens, classify(arg))
	}
	return tokens
}

func classify(arg string) Token {
	if strings.HasPrefix(arg, "--") {
		name, value, hasValue := strings.Cut(arg[2:], "=")
		return Token{Kind: TokenLong, Raw: arg, Name: name, Value: value, HasValue: hasValue}
	}
	if strings.HasPrefix(arg, "-") && len(arg) > 1 {
		body, value, hasValue := strings.Cut(arg[1:], "=")
		if r, size := utf8.DecodeRuneInString(body); size == len(body) && unicode.IsLetter(r) {
			return Token{Kind: TokenShort, Raw: arg, Letter: r, Value: value, HasValue: hasValue}
		}
	}
	return Token{Kind: TokenPositional, Raw: arg}
}
