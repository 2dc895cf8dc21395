package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/linkrace/services/pathfind"
	"github.com/AleutianAI/linkrace/services/server/datatypes"
	"github.com/AleutianAI/linkrace/services/server/metrics"
)

// HandleShortestPath runs a shortest-path search between two titles.
// A missing endpoint is 404; an existing pair with no connecting path is
// still 200, with degrees -1.
func HandleShortestPath(finder *pathfind.Finder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.PathRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts := []pathfind.Option{}
		if req.MaxDepth > 0 {
			opts = append(opts, pathfind.WithMaxDepth(req.MaxDepth))
		}

		start := time.Now()
		res, err := finder.ShortestPath(c.Request.Context(), req.Source, req.Target, opts...)
		metrics.PathSearchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			if errors.Is(err, pathfind.ErrSearchCancelled) {
				metrics.PathSearches.WithLabelValues("cancelled").Inc()
				c.JSON(http.StatusRequestTimeout, gin.H{"error": "search cancelled"})
				return
			}
			if isPageNotFound(err) {
				metrics.PathSearches.WithLabelValues("not_found").Inc()
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			metrics.PathSearches.WithLabelValues("error").Inc()
			slog.Error("shortest path failed", "source", req.Source, "target", req.Target, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "path search failed"})
			return
		}

		if res.Degrees < 0 {
			metrics.PathSearches.WithLabelValues("no_path").Inc()
		} else {
			metrics.PathSearches.WithLabelValues("found").Inc()
		}
		c.JSON(http.StatusOK, res)
	}
}

// HandleGraph builds the bounded link neighborhood around a root page.
func HandleGraph(finder *pathfind.Finder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.GraphRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts := []pathfind.Option{}
		if req.MaxDepth > 0 {
			opts = append(opts, pathfind.WithMaxDepth(req.MaxDepth))
		}
		if req.MaxNodes > 0 {
			opts = append(opts, pathfind.WithMaxNodes(req.MaxNodes))
		}
		if req.MaxNeighbors > 0 {
			opts = append(opts, pathfind.WithMaxNeighbors(req.MaxNeighbors))
		}

		res, err := finder.BuildNeighborhoodGraph(c.Request.Context(), req.Root, opts...)
		if err != nil {
			if isPageNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("neighborhood graph failed", "root", req.Root, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "graph build failed"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// HandleNeighbors returns the direct outgoing neighbors of one page.
func HandleNeighbors(finder *pathfind.Finder) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.Query("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
			return
		}

		opts := []pathfind.Option{}
		if raw := c.Query("max_neighbors"); raw != "" {
			n, err := parsePositiveInt(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "max_neighbors must be a positive integer"})
				return
			}
			opts = append(opts, pathfind.WithMaxNeighbors(n))
		}

		res, err := finder.Neighbors(c.Request.Context(), title, opts...)
		if err != nil {
			if isPageNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("neighbors lookup failed", "title", title, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "neighbors lookup failed"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
