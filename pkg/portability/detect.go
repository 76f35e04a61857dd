package portability

import (
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Structural fingerprints, one set of JSONPath checks per format.
var (
	pathPostmanSchema     = jp.MustParseString("$.info.schema")
	pathInsomniaType      = jp.MustParseString("$._type")
	pathInsomniaResources = jp.MustParseString("$.resources")
	pathInsomniaV5Type    = jp.MustParseString("$.type")
	pathThunderColName    = jp.MustParseString("$.colName")
	pathThunderCollName   = jp.MustParseString("$.collectionName")
	pathThunderRequests   = jp.MustParseString("$.requests")
)

// insomniaV5Prefix starts the type tag of Insomnia v5 YAML exports.
const insomniaV5Prefix = "collection.insomnia.rest/5"

type fingerprint struct {
	format Format
	match  func(tree any) bool
}

var fingerprints = []fingerprint{
	{format: FormatPostman, match: isPostman},
	{format: FormatInsomnia, match: func(tree any) bool { return isInsomniaV4(tree) || isInsomniaV5(tree) }},
	{format: FormatThunderClient, match: isThunderClient},
}

// DetectFormat identifies the vendor format of a document by structure. doc may
// be raw JSON/YAML bytes, a string, a *Document, or any JSON-encodable value.
func DetectFormat(doc any) (Format, error) {
	d, err := NewDocument(doc)
	if err != nil {
		return FormatUnknown, err
	}
	return detect(d.Tree)
}

func detect(tree any) (Format, error) {
	if _, ok := tree.(map[string]any); !ok {
		return FormatUnknown, &FormatDetectionError{Message: "document is not an object"}
	}

	var matched []Format
	for _, fp := range fingerprints {
		if fp.match(tree) {
			matched = append(matched, fp.format)
		}
	}
	switch len(matched) {
	case 0:
		return FormatUnknown, &FormatDetectionError{Message: "document matches no known collection format"}
	case 1:
		return matched[0], nil
	default:
		return FormatUnknown, &FormatDetectionError{
			Candidates: matched,
			Message:    "document matches more than one collection format",
		}
	}
}

// isPostman: info.schema names a Postman schema URL. The item array is left to
// schema validation so a broken Postman export reports as malformed.
func isPostman(tree any) bool {
	s, ok := firstString(pathPostmanSchema, tree)
	return ok && strings.Contains(strings.ToLower(s), "postman")
}

func isInsomniaV4(tree any) bool {
	t, ok := firstString(pathInsomniaType, tree)
	return ok && t == "export" && isArray(pathInsomniaResources, tree)
}

func isInsomniaV5(tree any) bool {
	t, ok := firstString(pathInsomniaV5Type, tree)
	return ok && strings.HasPrefix(t, insomniaV5Prefix)
}

func isThunderClient(tree any) bool {
	_, named := firstString(pathThunderColName, tree)
	if !named {
		_, named = firstString(pathThunderCollName, tree)
	}
	return named && isArray(pathThunderRequests, tree)
}

// isInsomniaV5Document reports whether an Insomnia document uses the v5 layout.
func isInsomniaV5Document(d *Document) bool {
	return isInsomniaV5(d.Tree)
}

func firstString(x jp.Expr, tree any) (string, bool) {
	results := x.Get(tree)
	if len(results) == 0 {
		return "", false
	}
	s, ok := results[0].(string)
	return s, ok
}

func isArray(x jp.Expr, tree any) bool {
	results := x.Get(tree)
	if len(results) == 0 {
		return false
	}
	_, ok := results[0].([]any)
	return ok
}
