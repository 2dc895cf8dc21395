// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pathfind

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// BuildNeighborhoodGraph expands breadth-first from a root topic and
// returns the discovered subgraph for visualization.
//
// Description:
//
//	Expansion stops per-node once its depth reaches the radius, and
//	globally once MaxNodes pages have been discovered. Each expanded
//	node contributes only its first MaxNeighbors outgoing links -- an
//	arbitrary but deterministic truncation, not an importance ranking.
//	Edges between two included nodes are always recorded, even after the
//	node cap is hit; edges are never recorded toward an excluded endpoint.
//
// Inputs:
//   - ctx: cancels the expansion between nodes.
//   - rootTitle: topic title, case-insensitive, one redirect hop resolved.
//   - opts: WithMaxDepth (default 2), WithMaxNodes (default 50, max 500),
//     WithMaxNeighbors (default 20).
//
// Outputs:
//   - *GraphResult: nodes tagged with discovery depth, plus the edge list.
//   - error: unresolvable root (wrapping graph.ErrPageNotFound) or store
//     failure.
func (f *Finder) BuildNeighborhoodGraph(ctx context.Context, rootTitle string, opts ...Option) (*GraphResult, error) {
	ctx, span := tracer.Start(ctx, "pathfind.BuildNeighborhoodGraph")
	defer span.End()

	options := graphOptions(opts)
	span.SetAttributes(
		attribute.String("root", rootTitle),
		attribute.Int("max_depth", options.MaxDepth),
		attribute.Int("max_nodes", options.MaxNodes),
	)

	rootPage, err := f.store.PageByTitle(ctx, rootTitle)
	if err != nil {
		return nil, err
	}
	rootPage, err = f.store.ResolveRedirect(ctx, rootPage)
	if err != nil {
		return nil, err
	}

	type queued struct {
		id    int64
		depth int
	}

	nodes := make(map[int64]GraphNode)
	order := []int64{rootPage.ID}
	var links []GraphLink
	queue := []queued{{id: rootPage.ID, depth: 0}}

	nodes[rootPage.ID] = GraphNode{ID: rootPage.ID, Title: rootPage.Title, Depth: 0}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			break
		}

		item := queue[0]
		queue = queue[1:]

		if item.depth >= options.MaxDepth {
			continue
		}

		linkData, err := f.store.Links(ctx, item.id)
		if err != nil {
			return nil, err
		}

		neighbors := linkData.Outgoing
		if len(neighbors) > options.MaxNeighbors {
			neighbors = neighbors[:options.MaxNeighbors]
		}

		for _, neighborID := range neighbors {
			if _, included := nodes[neighborID]; included {
				links = append(links, GraphLink{Source: item.id, Target: neighborID})
				continue
			}
			if len(nodes) >= options.MaxNodes {
				continue
			}

			// Link-list ids can reference pages missing from the corpus;
			// those endpoints are excluded entirely, edge included.
			pages, err := f.store.PagesByIDs(ctx, []int64{neighborID})
			if err != nil {
				return nil, err
			}
			if len(pages) == 0 {
				continue
			}

			nodes[neighborID] = GraphNode{
				ID:    neighborID,
				Title: pages[0].Title,
				Depth: item.depth + 1,
			}
			order = append(order, neighborID)
			links = append(links, GraphLink{Source: item.id, Target: neighborID})
			queue = append(queue, queued{id: neighborID, depth: item.depth + 1})
		}
	}

	result := &GraphResult{
		Nodes: make([]GraphNode, 0, len(order)),
		Links: links,
	}
	for _, id := range order {
		result.Nodes = append(result.Nodes, nodes[id])
	}
	result.NodeCount = len(result.Nodes)
	result.LinkCount = len(result.Links)
	return result, nil
}
