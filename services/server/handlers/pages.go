package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/server/datatypes"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func isPageNotFound(err error) bool {
	return errors.Is(err, graph.ErrPageNotFound)
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

// GetPage looks a page up by exact (case-insensitive) title, resolving its
// alias target when the page is a redirect.
func GetPage(store graph.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.Query("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
			return
		}

		ctx := c.Request.Context()
		page, err := store.PageByTitle(ctx, title)
		if err != nil {
			if errors.Is(err, graph.ErrPageNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("page lookup failed", "title", title, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "page lookup failed"})
			return
		}

		resp := datatypes.PageResponse{ID: page.ID, Title: page.Title, IsRedirect: page.IsRedirect}
		if page.IsRedirect {
			resolved, err := store.ResolveRedirect(ctx, page)
			if err == nil && resolved.ID != page.ID {
				resp.ResolvedID = resolved.ID
				resp.ResolvedTo = resolved.Title
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SearchPages returns up to limit non-redirect pages whose titles start
// with the query, for typeahead in the room settings UI.
func SearchPages(store graph.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
			return
		}
		limit := defaultSearchLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxSearchLimit)
		}

		pages, err := store.SearchByPrefix(c.Request.Context(), q, limit)
		if err != nil {
			slog.Error("prefix search failed", "query", q, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		results := make([]datatypes.PageResponse, 0, len(pages))
		for _, p := range pages {
			results = append(results, datatypes.PageResponse{ID: p.ID, Title: p.Title})
		}
		c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
	}
}

// RandomPage returns a random non-redirect page, the "surprise me" button.
func RandomPage(store graph.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := store.RandomPage(c.Request.Context())
		if err != nil {
			slog.Error("random page failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "random page failed"})
			return
		}
		c.JSON(http.StatusOK, datatypes.PageResponse{ID: page.ID, Title: page.Title})
	}
}
