// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pathfind

// Query configuration limits.
const (
	// DefaultMaxDepth is the default shortest-path depth budget.
	DefaultMaxDepth = 6

	// MaxSearchDepth is the maximum allowed shortest-path depth budget.
	MaxSearchDepth = 10

	// DefaultGraphDepth is the default neighborhood expansion radius.
	DefaultGraphDepth = 2

	// DefaultGraphNodes is the default neighborhood node cap.
	DefaultGraphNodes = 50

	// MaxGraphNodes is the maximum allowed neighborhood node cap.
	MaxGraphNodes = 500

	// DefaultNeighborsPerNode is the default per-node outgoing truncation.
	DefaultNeighborsPerNode = 20
)

// Options configures a pathfinding query.
type Options struct {
	// MaxDepth is the shared depth budget for ShortestPath and the
	// expansion radius for BuildNeighborhoodGraph.
	MaxDepth int

	// MaxNodes caps total discovered nodes in BuildNeighborhoodGraph.
	MaxNodes int

	// MaxNeighbors truncates each expanded node's outgoing list.
	// For Neighbors, a non-positive value means no limit.
	MaxNeighbors int
}

// Option is a functional option for configuring queries.
type Option func(*Options)

// WithMaxDepth sets the depth budget.
//
// If d <= 0, the query default applies. Values above MaxSearchDepth clamp.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d <= 0 {
			return
		}
		if d > MaxSearchDepth {
			d = MaxSearchDepth
		}
		o.MaxDepth = d
	}
}

// WithMaxNodes sets the neighborhood node cap.
//
// If n <= 0, the default (50) applies. Values above MaxGraphNodes clamp.
func WithMaxNodes(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			return
		}
		if n > MaxGraphNodes {
			n = MaxGraphNodes
		}
		o.MaxNodes = n
	}
}

// WithMaxNeighbors sets the per-node outgoing truncation. Zero or negative
// means "no limit" for Neighbors and the default (20) for neighborhood
// graphs.
func WithMaxNeighbors(n int) Option {
	return func(o *Options) {
		o.MaxNeighbors = n
	}
}

func pathOptions(opts []Option) Options {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func graphOptions(opts []Option) Options {
	o := Options{
		MaxDepth:     DefaultGraphDepth,
		MaxNodes:     DefaultGraphNodes,
		MaxNeighbors: DefaultNeighborsPerNode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxNeighbors <= 0 {
		o.MaxNeighbors = DefaultNeighborsPerNode
	}
	return o
}

func neighborOptions(opts []Option) Options {
	// MaxNeighbors 0 means unlimited here; that is a supported mode.
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
