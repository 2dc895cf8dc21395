// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph provides read-only access to the precomputed link corpus.
//
// The corpus is a directed graph of topic pages. Each page has a stable
// integer identifier, a display title, and a redirect flag; link rows carry
// the page's outgoing and incoming neighbor identifier lists. Redirect pages
// stand in for a canonical page and are resolved one level deep.
//
// # Ownership Model
//
// Pages and link sets returned by a Store are fresh values owned by the
// caller. The backing corpus is never mutated after load.
//
// # Thread Safety
//
// All Store implementations are safe for unsynchronized concurrent reads.
// The corpus is opened once at startup; open failure is fatal to the caller.
package graph

import "errors"

// Sentinel errors for corpus lookups.
var (
	// ErrPageNotFound is returned when a title does not resolve to any page.
	// Callers surface this as a named failure, never a crash.
	ErrPageNotFound = errors.New("page not found")

	// ErrStoreClosed is returned when querying a store after Close.
	ErrStoreClosed = errors.New("graph store is closed")
)
