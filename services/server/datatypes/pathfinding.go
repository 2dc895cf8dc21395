// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes holds the wire structures of the HTTP and WebSocket
// APIs. Everything here is validated at the boundary before it touches a
// service.
package datatypes

// PathRequest asks for a shortest hyperlink path between two page titles.
type PathRequest struct {
	Source   string `json:"source" binding:"required"`
	Target   string `json:"target" binding:"required"`
	MaxDepth int    `json:"max_depth" binding:"omitempty,min=1,max=10"`
}

// GraphRequest asks for the link neighborhood around a root page.
type GraphRequest struct {
	Root         string `json:"root" binding:"required"`
	MaxDepth     int    `json:"max_depth" binding:"omitempty,min=1,max=4"`
	MaxNodes     int    `json:"max_nodes" binding:"omitempty,min=1,max=500"`
	MaxNeighbors int    `json:"max_neighbors_per_node" binding:"omitempty,min=1,max=100"`
}

// PageResponse is one page row, with its alias target when the page is a
// redirect.
type PageResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	IsRedirect bool   `json:"is_redirect"`
	ResolvedID int64  `json:"resolved_id,omitempty"`
	ResolvedTo string `json:"resolved_to,omitempty"`
}
