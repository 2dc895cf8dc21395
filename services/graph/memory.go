// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// MemoryStore is an in-memory Store for tests and small synthetic corpora.
//
// Build it single-threaded with AddPage/AddLink/AddRedirect, then treat it
// as read-only. It follows the same contract as SQLiteStore, including
// single-hop redirect resolution and empty link sets for unknown pages.
type MemoryStore struct {
	pages     map[int64]*Page
	byTitle   map[string]int64 // lowercase title -> id
	links     map[int64]*LinkSet
	redirects map[int64]int64 // source -> target
}

// NewMemoryStore returns an empty store ready for building.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages:     make(map[int64]*Page),
		byTitle:   make(map[string]int64),
		links:     make(map[int64]*LinkSet),
		redirects: make(map[int64]int64),
	}
}

// AddPage registers a page. Last write wins on title collisions.
func (m *MemoryStore) AddPage(id int64, title string, isRedirect bool) {
	m.pages[id] = &Page{ID: id, Title: title, IsRedirect: isRedirect}
	m.byTitle[strings.ToLower(title)] = id
}

// AddLink records a directed edge from -> to on both link sets.
func (m *MemoryStore) AddLink(from, to int64) {
	src := m.linkSet(from)
	src.Outgoing = append(src.Outgoing, to)
	dst := m.linkSet(to)
	dst.Incoming = append(dst.Incoming, from)
}

// AddRedirect records a redirect edge. The source page should also be
// registered with isRedirect=true for title lookups to behave like the
// real corpus.
func (m *MemoryStore) AddRedirect(source, target int64) {
	m.redirects[source] = target
}

func (m *MemoryStore) linkSet(id int64) *LinkSet {
	ls, ok := m.links[id]
	if !ok {
		ls = &LinkSet{ID: id}
		m.links[id] = ls
	}
	return ls
}

// PageByTitle implements Store.
func (m *MemoryStore) PageByTitle(_ context.Context, title string) (*Page, error) {
	id, ok := m.byTitle[strings.ToLower(title)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", title, ErrPageNotFound)
	}
	p := *m.pages[id]
	return &p, nil
}

// PagesByIDs implements Store.
func (m *MemoryStore) PagesByIDs(_ context.Context, ids []int64) ([]*Page, error) {
	var pages []*Page
	for _, id := range ids {
		if p, ok := m.pages[id]; ok {
			cp := *p
			pages = append(pages, &cp)
		}
	}
	return pages, nil
}

// Links implements Store.
func (m *MemoryStore) Links(_ context.Context, id int64) (*LinkSet, error) {
	ls, ok := m.links[id]
	if !ok {
		return &LinkSet{ID: id}, nil
	}
	cp := LinkSet{
		ID:       ls.ID,
		Outgoing: append([]int64(nil), ls.Outgoing...),
		Incoming: append([]int64(nil), ls.Incoming...),
	}
	return &cp, nil
}

// ResolveRedirect implements Store: exactly one hop.
func (m *MemoryStore) ResolveRedirect(_ context.Context, p *Page) (*Page, error) {
	if p == nil || !p.IsRedirect {
		return p, nil
	}
	targetID, ok := m.redirects[p.ID]
	if !ok {
		return p, nil
	}
	target, ok := m.pages[targetID]
	if !ok {
		return p, nil
	}
	cp := *target
	return &cp, nil
}

// SearchByPrefix implements Store. Results are sorted by title for
// deterministic tests.
func (m *MemoryStore) SearchByPrefix(_ context.Context, query string, limit int) ([]*Page, error) {
	if limit <= 0 {
		limit = 10
	}
	prefix := strings.ToLower(query)

	var pages []*Page
	for _, p := range m.pages {
		if p.IsRedirect {
			continue
		}
		if strings.HasPrefix(strings.ToLower(p.Title), prefix) {
			cp := *p
			pages = append(pages, &cp)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages, nil
}

// RandomPage implements Store.
func (m *MemoryStore) RandomPage(_ context.Context) (*Page, error) {
	var candidates []*Page
	for _, p := range m.pages {
		if !p.IsRedirect {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrPageNotFound
	}
	cp := *candidates[rand.IntN(len(candidates))]
	return &cp, nil
}

// Stats implements Store.
func (m *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	return &Stats{
		Pages:     int64(len(m.pages)),
		LinkRows:  int64(len(m.links)),
		Redirects: int64(len(m.redirects)),
	}, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
