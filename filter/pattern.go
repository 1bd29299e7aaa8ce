package filter

import (
	"errors"
	"unicode"
)

// ErrBadPattern indicates a malformed shell pattern
var ErrBadPattern = errors.New("syntax error in pattern")

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAny
	tokenStar
	tokenSet
)

type runeRange struct {
	lo, hi rune
}

type token struct {
	kind    tokenKind
	literal rune
	negated bool
	ranges  []runeRange
	classes []func(rune) bool
}

func (t token) matches(r rune) bool {
	switch t.kind {
	case tokenLiteral:
		return t.literal == r
	case tokenAny:
		return true
	case tokenSet:
		return t.inSet(r) != t.negated
	default:
		return false
	}
}

func (t token) inSet(r rune) bool {
	for _, rr := range t.ranges {
		if rr.lo <= r && r <= rr.hi {
			return true
		}
	}
	for _, class := range t.classes {
		if class(r) {
			return true
		}
	}
	return false
}

var charClasses = map[string]func(rune) bool{
	"alpha":  unicode.IsLetter,
	"digit":  func(r rune) bool { return '0' <= r && r <= '9' },
	"alnum":  func(r rune) bool { return unicode.IsLetter(r) || ('0' <= r && r <= '9') },
	"space":  unicode.IsSpace,
	"blank":  func(r rune) bool { return r == ' ' || r == '\t' },
	"upper":  unicode.IsUpper,
	"lower":  unicode.IsLower,
	"punct":  func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) },
	"xdigit": func(r rune) bool { return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F') },
	"cntrl":  unicode.IsControl,
	"print":  func(r rune) bool { return unicode.IsPrint(r) },
	"graph":  func(r rune) bool { return unicode.IsGraphic(r) && !unicode.IsSpace(r) },
}

// Pattern is a compiled shell pattern.
//
// Pattern syntax is that of POSIX fnmatch without flags:
//
//	'*'         matches any sequence of characters, including none
//	'?'         matches any single character
//	'[' ... ']' matches one character of a bracket expression: single
//	            characters, ranges like a-z and classes like [:digit:];
//	            a leading '!' (or '^') negates it, a ']' right after the
//	            opening bracket (or its negation) and a '-' at either end
//	            are literal
//	'\\' c      matches character c
//
// Leading dots get no special treatment and matching is case-sensitive.
type Pattern struct {
	tokens []token
}

// Compile parses a shell pattern, returning ErrBadPattern if it is malformed
func Compile(pattern string) (*Pattern, error) {
	p := []rune(pattern)
	tokens := make([]token, 0, len(p))
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '*':
			// consecutive stars are the same as one
			if len(tokens) == 0 || tokens[len(tokens)-1].kind != tokenStar {
				tokens = append(tokens, token{kind: tokenStar})
			}
		case '?':
			tokens = append(tokens, token{kind: tokenAny})
		case '\\':
			i++
			if i == len(p) {
				return nil, ErrBadPattern
			}
			tokens = append(tokens, token{kind: tokenLiteral, literal: p[i]})
		case '[':
			set, next, err := parseBracket(p, i+1)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, set)
			i = next
		default:
			tokens = append(tokens, token{kind: tokenLiteral, literal: p[i]})
		}
	}
	return &Pattern{tokens: tokens}, nil
}

// parseBracket parses a bracket expression starting right after its '['
// and returns the index of the closing ']'
func parseBracket(p []rune, i int) (token, int, error) {
	set := token{kind: tokenSet}
	if i < len(p) && (p[i] == '!' || p[i] == '^') {
		set.negated = true
		i++
	}
	first := true
	for ; i < len(p); i++ {
		c := p[i]
		if c == ']' && !first {
			return set, i, nil
		}
		first = false
		if c == '[' && i+1 < len(p) && p[i+1] == ':' {
			class, end, err := parseClass(p, i+2)
			if err != nil {
				return token{}, 0, err
			}
			set.classes = append(set.classes, class)
			i = end
			continue
		}
		lo, next, err := bracketChar(p, i)
		if err != nil {
			return token{}, 0, err
		}
		i = next
		hi := lo
		if i+2 < len(p) && p[i+1] == '-' && p[i+2] != ']' {
			hi, i, err = bracketChar(p, i+2)
			if err != nil {
				return token{}, 0, err
			}
			if hi < lo {
				return token{}, 0, ErrBadPattern
			}
		}
		set.ranges = append(set.ranges, runeRange{lo: lo, hi: hi})
	}
	return token{}, 0, ErrBadPattern
}

// bracketChar reads one possibly escaped character of a bracket expression
func bracketChar(p []rune, i int) (rune, int, error) {
	if p[i] != '\\' {
		return p[i], i, nil
	}
	if i+1 == len(p) {
		return 0, 0, ErrBadPattern
	}
	return p[i+1], i + 1, nil
}

// parseClass reads a class name up to ":]" and returns the index of the ']'
func parseClass(p []rune, i int) (func(rune) bool, int, error) {
	for j := i; j+1 < len(p); j++ {
		if p[j] == ':' && p[j+1] == ']' {
			class, ok := charClasses[string(p[i:j])]
			if !ok {
				return nil, 0, ErrBadPattern
			}
			return class, j + 1, nil
		}
	}
	return nil, 0, ErrBadPattern
}

// Match reports whether name matches the pattern as a whole
func (pt *Pattern) Match(name string) bool {
	n := []rune(name)
	pi, ni := 0, 0
	starPi, starNi := -1, 0
	for ni < len(n) {
		if pi < len(pt.tokens) {
			t := pt.tokens[pi]
			if t.kind == tokenStar {
				starPi, starNi = pi, ni
				pi++
				continue
			}
			if t.matches(n[ni]) {
				pi++
				ni++
				continue
			}
		}
		// let the last star swallow one more character and retry
		if starPi < 0 {
			return false
		}
		starNi++
		pi, ni = starPi+1, starNi
	}
	for pi < len(pt.tokens) && pt.tokens[pi].kind == tokenStar {
		pi++
	}
	return pi == len(pt.tokens)
}

// Match reports whether name matches the shell pattern as a whole; see Pattern for the syntax
func Match(pattern, name string) (bool, error) {
	pt, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return pt.Match(name), nil
}

// ValidatePattern returns ErrBadPattern if the pattern is malformed
func ValidatePattern(pattern string) error {
	_, err := Compile(pattern)
	return err
}
