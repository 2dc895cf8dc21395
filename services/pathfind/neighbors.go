// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pathfind

import (
	"context"
)

// Neighbors returns a topic and up to MaxNeighbors of its outgoing-linked
// pages. A non-positive WithMaxNeighbors (or none) returns the whole
// outgoing set; "no limit" is a supported mode, not an error.
//
// The node's title is one redirect hop resolved. Pages with no link row
// yield an empty neighbor list.
func (f *Finder) Neighbors(ctx context.Context, title string, opts ...Option) (*NeighborsResult, error) {
	ctx, span := tracer.Start(ctx, "pathfind.Neighbors")
	defer span.End()

	options := neighborOptions(opts)

	page, err := f.store.PageByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	page, err = f.store.ResolveRedirect(ctx, page)
	if err != nil {
		return nil, err
	}

	result := &NeighborsResult{
		Node:      NeighborRef{ID: page.ID, Title: page.Title},
		Neighbors: []NeighborRef{},
		Links:     []GraphLink{},
	}

	linkData, err := f.store.Links(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	neighborIDs := linkData.Outgoing
	if options.MaxNeighbors > 0 && len(neighborIDs) > options.MaxNeighbors {
		neighborIDs = neighborIDs[:options.MaxNeighbors]
	}

	pages, err := f.store.PagesByIDs(ctx, neighborIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range pages {
		result.Neighbors = append(result.Neighbors, NeighborRef{ID: p.ID, Title: p.Title})
		result.Links = append(result.Links, GraphLink{Source: page.ID, Target: p.ID})
	}

	return result, nil
}
