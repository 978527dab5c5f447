package transpile

import (
	"regexp"
	"strings"
)

// Rule is one global find-and-replace over the accumulated text.
// Exactly one of template or expand is used.
type Rule struct {
	pattern  *regexp.Regexp
	template string
	expand   func(groups []string) string
}

// Replace builds a rule that substitutes every match of pattern with template.
// Templates use regexp.Expand syntax, so groups are written ${1}.
func Replace(pattern, template string) Rule {
	return Rule{pattern: regexp.MustCompile(jsSpace(pattern)), template: template}
}

// Literal builds a rule that replaces every occurrence of old with repl.
func Literal(old, repl string) Rule {
	return Rule{
		pattern:  regexp.MustCompile(regexp.QuoteMeta(old)),
		template: strings.ReplaceAll(repl, "$", "$$"),
	}
}

// ReplaceFunc builds a rule whose replacement is computed from the submatches.
// groups[0] is the whole match; groups that did not participate are "".
func ReplaceFunc(pattern string, expand func(groups []string) string) Rule {
	return Rule{pattern: regexp.MustCompile(jsSpace(pattern)), expand: expand}
}

// spaceSet is the JavaScript \s set minus the ASCII part RE2 already covers.
const spaceSet = `\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// jsSpace widens every \s in pattern to the JavaScript whitespace set.
// RE2 matches only ASCII spaces for \s.
func jsSpace(pattern string) string {
	if !strings.Contains(pattern, `\s`) {
		return pattern
	}
	var sb strings.Builder
	sb.Grow(len(pattern) + 32)
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			next := pattern[i+1]
			i++
			if next != 's' {
				sb.WriteByte(c)
				sb.WriteByte(next)
				continue
			}
			if inClass {
				sb.WriteString(`\s` + spaceSet)
			} else {
				sb.WriteString(`[\s` + spaceSet + `]`)
			}
		case c == '[' && !inClass:
			inClass = true
			sb.WriteByte(c)
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				sb.WriteByte('^')
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				sb.WriteByte(']')
				i++
			}
		case c == ']' && inClass:
			inClass = false
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Pattern returns the source of the rule's regular expression.
func (r Rule) Pattern() string {
	return r.pattern.String()
}

// Apply runs the rule over text.
func (r Rule) Apply(text string) string {
	if r.expand == nil {
		return r.pattern.ReplaceAllString(text, r.template)
	}
	return replaceSubmatches(r.pattern, text, r.expand)
}

// replaceSubmatches is ReplaceAllStringFunc with access to capture groups.
func replaceSubmatches(re *regexp.Regexp, text string, expand func([]string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, loc := range matches {
		sb.WriteString(text[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if start := loc[2*i]; start >= 0 {
				groups[i] = text[start:loc[2*i+1]]
			}
		}
		sb.WriteString(expand(groups))
		last = loc[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}
