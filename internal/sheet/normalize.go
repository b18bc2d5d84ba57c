package sheet

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// currencySymbols is applied in order. ¥ is read as JPY.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₩", "KRW"},
	{"₽", "RUB"},
	{"₹", "INR"},
	{"₿", "BTC"},
}

type currencyRule struct {
	prefix *regexp.Regexp // $50, $ 50
	suffix *regexp.Regexp // 50$, 50 $
	bare   *regexp.Regexp // in $
	code   string
}

var currencyRules = func() []currencyRule {
	rules := make([]currencyRule, 0, len(currencySymbols))
	for _, c := range currencySymbols {
		sym := regexp.QuoteMeta(c.symbol)
		rules = append(rules, currencyRule{
			prefix: regexp.MustCompile(sym + `\s*([\d.]+)`),
			suffix: regexp.MustCompile(`([\d.]+)\s*` + sym),
			bare:   regexp.MustCompile(sym),
			code:   c.code,
		})
	}
	return rules
}()

var (
	wordOf = regexp.MustCompile(`(?i)\bof\b`)
	wordAs = regexp.MustCompile(`(?i)\bas\b`)
)

// Normalize rewrites the surface syntax of an expression into the form the
// evaluator understands. known holds the variable names registered by
// earlier lines, longest display name first.
//
// The rewrites run in a fixed order, each on the output of the previous:
// display names to canonical names, currency glyphs to codes, then the
// words "of" (multiplication) and "as" (conversion). Unrecognized text is
// passed through unchanged.
func Normalize(expression string, known []Name) string {
	s := substituteNames(expression, known)
	s = substituteCurrencies(s)
	return substituteWords(s)
}

func substituteNames(s string, known []Name) string {
	for _, n := range known {
		s = replaceWord(s, n.Display, n.Canonical)
	}
	return s
}

func substituteCurrencies(s string) string {
	for _, r := range currencyRules {
		s = r.prefix.ReplaceAllString(s, "${1} "+r.code)
		s = r.suffix.ReplaceAllString(s, "${1} "+r.code)
		s = r.bare.ReplaceAllLiteralString(s, r.code)
	}
	return s
}

func substituteWords(s string) string {
	s = wordOf.ReplaceAllLiteralString(s, "*")
	return wordAs.ReplaceAllLiteralString(s, "to")
}

// replaceWord replaces every whole-word occurrence of word in s. An
// occurrence is whole when it is not preceded or followed by a letter,
// digit or underscore.
func replaceWord(s, word, repl string) string {
	if word == "" || word == repl {
		return s
	}
	var sb strings.Builder
	last, from := 0, 0
	for {
		j := strings.Index(s[from:], word)
		if j < 0 {
			break
		}
		i := from + j
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (i > 0 && isWordRune(before)) || (end < len(s) && isWordRune(after)) {
			_, size := utf8.DecodeRuneInString(s[i:])
			from = i + size
			continue
		}
		sb.WriteString(s[last:i])
		sb.WriteString(repl)
		last, from = end, end
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
