package portability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// importScript normalizes a script read from a vendor document in dialect d.
func importScript(text string, d script.Dialect) string {
	return collection.NormalizeScript(script.ToInternal(text, d))
}

// joinScript joins vendor script lines.
func joinScript(lines []string) string {
	return strings.Join(lines, "\n")
}

// splitScript splits a script into the line array form Postman and Thunder
// Client store.
func splitScript(text string) []string {
	return strings.Split(text, "\n")
}

// scriptPass translates every hook of one export and collects warnings for
// lines the translator could not rewrite.
type scriptPass struct {
	from, to   script.Dialect
	warnings   []string
	warnedCopy bool
}

func newScriptPass(c *collection.Collection, target Format) *scriptPass {
	return &scriptPass{from: dialectOf(c.SourceFormat), to: target.Dialect()}
}

// run translates text. where names the owning item and hook names the hook,
// both only used in warnings. Empty scripts stay empty.
func (p *scriptPass) run(text, where, hook string) string {
	text = collection.NormalizeScript(text)
	if text == "" {
		return ""
	}
	if p.from != script.DialectNone && !script.Supported(p.from, p.to) && !p.warnedCopy {
		p.warnedCopy = true
		p.warn("no script translation from %s to %s; scripts are copied unchanged", p.from, p.to)
	}
	res := script.TranslateWithReport(text, p.from, p.to)
	if len(res.Unresolved) > 0 {
		lines := make([]string, len(res.Unresolved))
		for i, n := range res.Unresolved {
			lines[i] = strconv.Itoa(n)
		}
		p.warnings = append(p.warnings, fmt.Sprintf(
			"%s: %s script line(s) %s may need manual review for %s",
			where, hook, strings.Join(lines, ", "), p.to))
	}
	return res.Script
}

func (p *scriptPass) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// itemPath renders a folder path plus an item name for warnings.
func itemPath(path []string, name string) string {
	if name == "" {
		name = "(unnamed)"
	}
	if len(path) == 0 {
		return name
	}
	return strings.Join(path, collection.PathSeparator) + collection.PathSeparator + name
}

// collectionLabel names the collection itself in warnings.
const collectionLabel = "collection"
