// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import "context"

// Page is a vertex in the link graph, one per topic.
//
// Pages are immutable once loaded. A redirect page stands in for another
// canonical page; its links are usually empty and resolution goes through
// the redirects table.
type Page struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	IsRedirect bool   `json:"is_redirect"`
}

// LinkSet holds a page's outgoing and incoming neighbor identifiers.
//
// Identifiers may reference pages missing from the corpus (external noise
// from the extraction pipeline); lookups tolerate this rather than validate.
type LinkSet struct {
	ID       int64   `json:"id"`
	Outgoing []int64 `json:"outgoing_links"`
	Incoming []int64 `json:"incoming_links"`
}

// Stats summarizes the loaded corpus.
type Stats struct {
	Pages     int64 `json:"total_pages"`
	LinkRows  int64 `json:"total_links"`
	Redirects int64 `json:"total_redirects"`
}

// Store is read-only access to the link corpus.
//
// Implementations: SQLiteStore (production corpus file) and MemoryStore
// (tests and small synthetic graphs). All operations are pure reads; there
// is no mutation contract.
type Store interface {
	// PageByTitle looks a page up by title, case-insensitively.
	// Returns ErrPageNotFound when the title does not exist.
	PageByTitle(ctx context.Context, title string) (*Page, error)

	// PagesByIDs returns the pages for the given identifiers. Unknown
	// identifiers are silently skipped; order follows the corpus, not ids.
	PagesByIDs(ctx context.Context, ids []int64) ([]*Page, error)

	// Links returns the link set for a page. A page with no recorded link
	// row yields an empty LinkSet, never an error.
	Links(ctx context.Context, id int64) (*LinkSet, error)

	// ResolveRedirect follows exactly one level of redirect indirection.
	// Non-redirect pages are returned unchanged, as is a redirect whose
	// target row is missing. Double redirects are not chased.
	ResolveRedirect(ctx context.Context, p *Page) (*Page, error)

	// SearchByPrefix returns up to limit non-redirect pages whose title
	// starts with query, case-insensitively.
	SearchByPrefix(ctx context.Context, query string, limit int) ([]*Page, error)

	// RandomPage returns a uniformly chosen non-redirect page.
	RandomPage(ctx context.Context) (*Page, error)

	// Stats reports corpus row counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the underlying corpus handle.
	Close() error
}
