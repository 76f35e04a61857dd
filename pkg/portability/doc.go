// Package portability converts API test collections between vendor formats.
//
// Documents are parsed into the unified model of package collection and
// rendered back out in any supported format:
//   - Postman Collection v2.x
//   - Insomnia export v4 (JSON), and v5 (YAML) on import
//   - Thunder Client collections
//   - .env, CSV and flat JSON variable files (export only)
//
// # Detection and validation
//
// The source format is found from structural fingerprints evaluated with
// JSONPath. A document that matches none, or more than one, yields a
// *FormatDetectionError. Each format has an embedded JSON Schema; a recognized
// document missing required structure yields a *MalformedCollectionError
// carrying the JSON pointer of the problem.
//
// # Scripts
//
// Hook scripts are stored in the dialect of the source format and translated
// with package script when exported to another vendor. Lines the translator
// could not fully rewrite are reported in ExportResult.Warnings.
//
// # Usage
//
//	data, _ := os.ReadFile("collection.json")
//	c, err := portability.Parse(data)
//	if err != nil {
//		return err
//	}
//	out, err := portability.Convert(c, portability.FormatInsomnia)
//
// When warnings or counts are needed, use Import and Export instead.
package portability
