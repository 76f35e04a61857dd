// Package script rewrites pre-request and test scripts between the scripting
// dialects of API testing tools.
//
// Translation is textual: a fixed table of regular expressions recognizes the
// common accessor idioms of each dialect (pm.test, pm.environment.get, ...) and
// rewrites them to the target tool's equivalent. Anything not covered by the
// table is passed through unchanged. Scripts are never parsed or executed, so a
// translated script may still need manual review; TranslateWithReport points at
// the lines that kept source-dialect accessors.
package script

import (
	"regexp"
	"strings"
)

// Dialect identifies a tool's scripting API surface.
type Dialect string

// Supported dialects.
const (
	DialectNone          Dialect = ""
	DialectPostman       Dialect = "postman"
	DialectInsomnia      Dialect = "insomnia"
	DialectThunderClient Dialect = "thunderclient"
)

// ParseDialect parses a dialect name. Unknown names map to DialectNone.
func ParseDialect(s string) Dialect {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postman", "pm":
		return DialectPostman
	case "insomnia":
		return DialectInsomnia
	case "thunderclient", "thunder-client", "tc":
		return DialectThunderClient
	default:
		return DialectNone
	}
}

// Result describes a translation.
type Result struct {
	// Script is the translated text.
	Script string
	// Rewrites is the number of pattern substitutions applied.
	Rewrites int
	// Unresolved holds 1-based line numbers that still reference source-dialect
	// accessors after translation.
	Unresolved []int
}

type rule struct {
	re   *regexp.Regexp
	repl string
}

func newRule(pattern, repl string) rule {
	return rule{re: regexp.MustCompile(pattern), repl: repl}
}

type pair struct {
	from, to Dialect
}

// Rules are applied in order; more specific idioms come before the generic
// namespace rewrite.
var rules = map[pair][]rule{
	{DialectPostman, DialectInsomnia}: {
		newRule(`\bpm\.response\.to\.have\.status\(\s*(\d+)\s*\)`, `insomnia.expect(insomnia.response.code).to.equal(${1})`),
		newRule(`\bpm\.(?:globals|collectionVariables)\.`, `insomnia.baseEnvironment.`),
		newRule(`\bpm\.request\.headers\.add\(`, `insomnia.request.addHeader(`),
		newRule(`\bpostman\.setEnvironmentVariable\(`, `insomnia.environment.set(`),
		newRule(`\bpostman\.getEnvironmentVariable\(`, `insomnia.environment.get(`),
		newRule(`\bpm\.(test|expect|response|environment|variables|request|sendRequest|info)\b`, `insomnia.${1}`),
	},
	{DialectInsomnia, DialectPostman}: {
		newRule(`\binsomnia\.expect\(\s*insomnia\.response\.code\s*\)\.to\.equal\(\s*(\d+)\s*\)`, `pm.response.to.have.status(${1})`),
		newRule(`\binsomnia\.baseEnvironment\.`, `pm.collectionVariables.`),
		newRule(`\binsomnia\.request\.addHeader\(`, `pm.request.headers.add(`),
		newRule(`\binsomnia\.(test|expect|response|environment|variables|collectionVariables|globals|request|sendRequest|info)\b`, `pm.${1}`),
	},
	{DialectPostman, DialectThunderClient}: {
		newRule(`\bpm\.response\.to\.have\.status\(\s*(\d+)\s*\)`, `expect(tc.response.status).to.equal(${1})`),
		newRule(`\bpm\.expect\(`, `expect(`),
		newRule(`\bpm\.test\(`, `tc.test(`),
		newRule(`\bpm\.response\.code\b`, `tc.response.status`),
		newRule(`\bpm\.response\.json\(\s*\)`, `tc.response.json`),
		newRule(`\bpm\.response\.text\(\s*\)`, `tc.response.text`),
		newRule(`\bpm\.response\.headers\.get\(([^()]*)\)`, `tc.response.headers[${1}]`),
		newRule(`\bpm\.response\.responseTime\b`, `tc.response.time`),
		newRule(`\bpm\.(?:environment|globals|collectionVariables|variables)\.set\(`, `tc.setVar(`),
		newRule(`\bpm\.(?:environment|globals|collectionVariables|variables)\.get\(`, `tc.getVar(`),
		newRule(`\bpostman\.setEnvironmentVariable\(`, `tc.setVar(`),
		newRule(`\bpostman\.getEnvironmentVariable\(`, `tc.getVar(`),
		newRule(`\bpm\.request\.url\b`, `tc.request.url`),
	},
}

// leftovers detect accessors of a dialect that survived translation.
var leftovers = map[Dialect]*regexp.Regexp{
	DialectPostman:  regexp.MustCompile(`\b(?:pm|postman)\.`),
	DialectInsomnia: regexp.MustCompile(`\binsomnia\.`),
}

// Supported reports whether a translation table exists for the pair.
// Identical dialects are always supported.
func Supported(from, to Dialect) bool {
	if from == to {
		return true
	}
	_, ok := rules[pair{from, to}]
	return ok
}

// Translate rewrites script from one dialect to another. Same-dialect and
// unsupported pairs return the script unchanged.
func Translate(script string, from, to Dialect) string {
	return TranslateWithReport(script, from, to).Script
}

// TranslateWithReport is Translate plus a summary of what changed and which
// lines still need attention.
func TranslateWithReport(script string, from, to Dialect) Result {
	if script == "" || from == to || from == DialectNone || to == DialectNone {
		return Result{Script: script}
	}
	table, ok := rules[pair{from, to}]
	if !ok {
		return Result{Script: script}
	}

	leftover := leftovers[from]
	lines := strings.Split(script, "\n")
	res := Result{}
	for i, line := range lines {
		for _, r := range table {
			if n := len(r.re.FindAllStringIndex(line, -1)); n > 0 {
				line = r.re.ReplaceAllString(line, r.repl)
				res.Rewrites += n
			}
		}
		if leftover != nil && leftover.MatchString(stripLineComment(line)) {
			res.Unresolved = append(res.Unresolved, i+1)
		}
		lines[i] = line
	}
	res.Script = strings.Join(lines, "\n")
	return res
}

// ToInternal is applied by importers to every script they read. Scripts are kept
// in their source dialect, so this is the identity; it exists so the import
// direction is explicit at the call site.
func ToInternal(script string, _ Dialect) string {
	return script
}

// stripLineComment drops // comments from a line before the leftover check.
// A " //" inside a string literal is treated as a comment too.
func stripLineComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") {
		return ""
	}
	if idx := strings.Index(line, " //"); idx >= 0 {
		return line[:idx]
	}
	return line
}
