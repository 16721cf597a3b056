// Package matcher matches browser origins against configured patterns.
//
// A pattern is one of:
//
//	*                          any origin
//	https://app.example.com    exact origin
//	https://*.example.com      glob; * and ? never cross a '/'
//	re:^https://[a-z]+\.dev$   regular expression
//
// Matching ignores case and a trailing slash.
package matcher

import (
	"regexp"
	"strings"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// PatternType is the kind of an origin pattern.
type PatternType int

const (
	// Exact compares whole origins.
	Exact PatternType = iota
	// Glob uses shell-style wildcards.
	Glob
	// Regex uses a regular expression.
	Regex
	// Any matches every origin.
	Any
)

// RegexPrefix marks a pattern as a regular expression.
const RegexPrefix = "re:"

// String returns the name of the pattern type.
func (pt PatternType) String() string {
	switch pt {
	case Exact:
		return "exact"
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// Matcher matches a single pattern.
type Matcher interface {
	Match(origin string) bool
	Pattern() string
	Type() PatternType
}

type matcher struct {
	pattern     string
	patternType PatternType
	exact       string
	compiled    *regexp.Regexp
}

// New compiles pattern.
func New(pattern string) (Matcher, error) {
	p := strings.TrimSpace(pattern)
	m := &matcher{pattern: pattern, patternType: DetectType(p)}

	switch m.patternType {
	case Any:
	case Exact:
		if p == "" {
			return nil, errors.NewValidationError("origin", pattern, "pattern is empty")
		}
		m.exact = canonical(p)
	case Glob, Regex:
		expr := GlobToRegex(canonical(p))
		if m.patternType == Regex {
			expr = strings.TrimPrefix(p, RegexPrefix)
		}
		compiled, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, errors.NewValidationError("origin", pattern, "invalid "+m.patternType.String()+": "+err.Error())
		}
		m.compiled = compiled
	}
	return m, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(pattern string) Matcher {
	m, err := New(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *matcher) Match(origin string) bool {
	switch m.patternType {
	case Any:
		return true
	case Exact:
		return canonical(origin) == m.exact
	default:
		return m.compiled.MatchString(canonical(origin))
	}
}

func (m *matcher) Pattern() string   { return m.pattern }
func (m *matcher) Type() PatternType { return m.patternType }

// DetectType classifies pattern.
func DetectType(pattern string) PatternType {
	switch {
	case pattern == "*":
		return Any
	case strings.HasPrefix(pattern, RegexPrefix):
		return Regex
	case strings.ContainsAny(pattern, "*?["):
		return Glob
	default:
		return Exact
	}
}

// GlobToRegex converts a glob to an anchored regular expression. '*'
// and '?' stop at '/', so a wildcard host label cannot swallow a path.
func GlobToRegex(glob string) string {
	var b strings.Builder
	b.WriteByte('^')
	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '[':
			end := strings.IndexByte(glob[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := glob[i+1 : i+1+end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + strings.ReplaceAll(class, `\`, `\\`) + "]")
			i += end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteByte('$')
	return b.String()
}

func canonical(origin string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(origin), "/"))
}

// Set matches an origin against several patterns.
type Set struct {
	matchers []Matcher
	any      bool
}

// NewSet compiles patterns. Empty entries are skipped.
func NewSet(patterns []string) (*Set, error) {
	s := &Set{}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		m, err := New(p)
		if err != nil {
			return nil, err
		}
		if m.Type() == Any {
			s.any = true
		}
		s.matchers = append(s.matchers, m)
	}
	return s, nil
}

// MustNewSet is like NewSet but panics on an invalid pattern. Use it for
// patterns that were already validated.
func MustNewSet(patterns []string) *Set {
	s, err := NewSet(patterns)
	if err != nil {
		panic(err)
	}
	return s
}

// Match reports whether origin matches any pattern. An empty origin never
// matches.
func (s *Set) Match(origin string) bool {
	if s == nil || origin == "" {
		return false
	}
	for _, m := range s.matchers {
		if m.Match(origin) {
			return true
		}
	}
	return false
}

// AllowsAll reports whether the set contains "*".
func (s *Set) AllowsAll() bool {
	return s != nil && s.any
}

// Len returns the number of patterns.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.matchers)
}
