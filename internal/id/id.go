// Package id provides identifier generation for collections and vendor exports.
// This is the canonical source for ID generation across the codebase.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// Insomnia resource id prefixes.
const (
	PrefixWorkspace    = "wrk"
	PrefixEnvironment  = "env"
	PrefixRequestGroup = "fld"
	PrefixRequest      = "req"
	PrefixPair         = "pair"
)

// UUID generates a random UUID v4.
// Returns a string in the format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func UUID() string {
	return uuid.NewString()
}

// Prefixed generates an Insomnia-style id: prefix, underscore, 32 hex chars.
func Prefixed(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Allocator hands out ids that are unique within one collection. Importers use
// it to keep vendor ids when they can and to replace missing or duplicate ones
// with fresh UUIDs. The zero value is ready to use. Not safe for concurrent use.
type Allocator struct {
	used map[string]struct{}
}

// Take returns candidate if it is non-empty and unused, otherwise a fresh UUID.
// The returned id is marked as used.
func (a *Allocator) Take(candidate string) string {
	if a.used == nil {
		a.used = make(map[string]struct{})
	}
	candidate = strings.TrimSpace(candidate)
	if candidate != "" {
		if _, dup := a.used[candidate]; !dup {
			a.used[candidate] = struct{}{}
			return candidate
		}
	}
	for {
		fresh := UUID()
		if _, dup := a.used[fresh]; !dup {
			a.used[fresh] = struct{}{}
			return fresh
		}
	}
}
