// Package id provides unique identifier generation utilities.
//
// This is the canonical source for ID generation across the apiconv codebase.
// It provides the identifier shapes the supported tools expect:
//
//   - UUID: standard UUID v4, used for unified-model ids and for Postman and
//     Thunder Client exports
//   - Prefixed: Insomnia resource ids such as req_<32 hex> and wrk_<32 hex>
//   - Short: 16-character hex ids
//
// Allocator keeps ids unique within a single collection while importers reuse
// vendor ids where possible.
package id
