// Package collection defines the unified in-memory model of an API test collection.
//
// Every importer in package portability produces a *Collection and every exporter
// consumes one. The model is pure data: requests, folders, variables and the
// pre-request/test scripts attached at collection, folder and request level.
//
// # Scripts
//
// Scripts are stored in the scripting dialect of the tool the collection was
// imported from (see Collection.SourceFormat). They are never rewritten into a
// neutral dialect; translation happens only when a collection is exported to a
// tool with a different dialect. An empty string means "no hook"; parsers pass
// every script through NormalizeScript so whitespace-only hooks disappear.
//
// # Ownership
//
// Folders and requests form a tree owned by value: a folder or request belongs to
// exactly one parent slice. There are no back-pointers. Use Walk to visit the
// tree with folder paths, and Clone to obtain an independent deep copy before
// mutating.
package collection
