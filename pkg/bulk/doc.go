// Package bulk implements collection-wide edits: find, find-and-replace,
// variable editing and variable export/import.
//
// Every operation that changes a collection works on a deep clone and returns
// it; the caller's collection is never modified. Find and Replace share one
// matcher: the term is a literal unless regex mode is requested, and matching
// is case-insensitive unless CaseSensitive is set.
//
// Request matches can be narrowed with a doublestar pattern over the
// slash-joined folder path of each request, for example "Auth/**" or
// "**/Get *".
package bulk
