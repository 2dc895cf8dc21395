// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pathfind

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/linkrace/services/graph"
)

// chainCorpus builds A -> B -> C -> D -> E plus a redirect Alias -> A.
func chainCorpus() *graph.MemoryStore {
	s := graph.NewMemoryStore()
	titles := []string{"A", "B", "C", "D", "E"}
	for i, title := range titles {
		s.AddPage(int64(i+1), title, false)
	}
	for i := 1; i < len(titles); i++ {
		s.AddLink(int64(i), int64(i+1))
	}
	s.AddPage(100, "Alias", true)
	s.AddRedirect(100, 1)
	return s
}

// naiveBFS is the single-direction reference implementation used to verify
// path lengths. Returns -1 when no path exists within maxHops.
func naiveBFS(t *testing.T, s graph.Store, source, target int64, maxHops int) int {
	t.Helper()

	if source == target {
		return 0
	}
	visited := map[int64]bool{source: true}
	frontier := []int64{source}
	for hops := 1; hops <= maxHops; hops++ {
		var next []int64
		for _, id := range frontier {
			links, err := s.Links(context.Background(), id)
			require.NoError(t, err)
			for _, n := range links.Outgoing {
				if n == target {
					return hops
				}
				if !visited[n] {
					visited[n] = true
					next = append(next, n)
				}
			}
		}
		if len(next) == 0 {
			return -1
		}
		frontier = next
	}
	return -1
}

func TestShortestPath_Chain(t *testing.T) {
	f := NewFinder(chainCorpus(), nil)

	result, err := f.ShortestPath(context.Background(), "A", "E")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Degrees)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, result.Path)
	assert.Len(t, result.Pages, 5)
	assert.Equal(t, "C", result.Pages[3].Title)
}

func TestShortestPath_SameNode(t *testing.T) {
	f := NewFinder(chainCorpus(), nil)

	t.Run("plain", func(t *testing.T) {
		result, err := f.ShortestPath(context.Background(), "C", "c")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Degrees)
		assert.Equal(t, []int64{3}, result.Path)
	})

	t.Run("alias resolves before comparison", func(t *testing.T) {
		result, err := f.ShortestPath(context.Background(), "Alias", "A")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Degrees)
		assert.Equal(t, []int64{1}, result.Path)
	})
}

func TestShortestPath_NoPath(t *testing.T) {
	s := graph.NewMemoryStore()
	s.AddPage(1, "Island", false)
	s.AddPage(2, "Mainland", false)
	// No links at all between them.
	f := NewFinder(s, nil)

	result, err := f.ShortestPath(context.Background(), "Island", "Mainland")
	require.NoError(t, err)
	assert.Equal(t, -1, result.Degrees)
	assert.Nil(t, result.Path)
	assert.NotEmpty(t, result.Message)
}

func TestShortestPath_DepthBudget(t *testing.T) {
	// A 30-hop chain: with the shared budget, maxDepth levels per side can
	// bridge up to ~2*maxDepth hops; 30 is out of reach for maxDepth 3.
	s := graph.NewMemoryStore()
	for i := int64(1); i <= 31; i++ {
		s.AddPage(i, fmt.Sprintf("N%d", i), false)
	}
	for i := int64(1); i <= 30; i++ {
		s.AddLink(i, i+1)
	}
	f := NewFinder(s, nil)

	result, err := f.ShortestPath(context.Background(), "N1", "N31", WithMaxDepth(3))
	require.NoError(t, err)
	assert.Equal(t, -1, result.Degrees)

	// A 4-hop pair fits inside the same budget.
	result, err = f.ShortestPath(context.Background(), "N1", "N5", WithMaxDepth(3))
	require.NoError(t, err)
	assert.Equal(t, 4, result.Degrees)
}

func TestShortestPath_NotFoundNamesTitle(t *testing.T) {
	f := NewFinder(chainCorpus(), nil)

	_, err := f.ShortestPath(context.Background(), "Nope", "A")
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrPageNotFound))
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "Nope")

	_, err = f.ShortestPath(context.Background(), "A", "Gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
	assert.Contains(t, err.Error(), "Gone")
}

func TestShortestPath_RedirectEndpoints(t *testing.T) {
	f := NewFinder(chainCorpus(), nil)

	result, err := f.ShortestPath(context.Background(), "Alias", "C")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Degrees)
	assert.Equal(t, []int64{1, 2, 3}, result.Path)
}

func TestShortestPath_MatchesNaiveBFS(t *testing.T) {
	// Random sparse digraphs, fixed seed for reproducibility.
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := range 5 {
		s := graph.NewMemoryStore()
		const n = 40
		for i := int64(1); i <= n; i++ {
			s.AddPage(i, fmt.Sprintf("T%d-%d", trial, i), false)
		}
		for i := int64(1); i <= n; i++ {
			for range 3 {
				j := int64(rng.IntN(n)) + 1
				if j != i {
					s.AddLink(i, j)
				}
			}
		}

		f := NewFinder(s, nil)
		for pair := 0; pair < 20; pair++ {
			src := int64(rng.IntN(n)) + 1
			dst := int64(rng.IntN(n)) + 1
			// Each loop turn can advance both frontiers a level, so the
			// bidirectional search can bridge up to twice MaxSearchDepth.
			// The oracle must see at least that far or a long path would
			// be reported as -1 on one side only.
			want := naiveBFS(t, s, src, dst, 2*MaxSearchDepth)

			result, err := f.ShortestPath(context.Background(),
				fmt.Sprintf("T%d-%d", trial, src), fmt.Sprintf("T%d-%d", trial, dst),
				WithMaxDepth(MaxSearchDepth))
			require.NoError(t, err)

			if want >= 0 {
				assert.Equal(t, want, result.Degrees,
					"trial %d: %d -> %d", trial, src, dst)
				assert.Len(t, result.Path, want+1)
			} else {
				assert.Equal(t, -1, result.Degrees)
			}
		}
	}
}

func TestShortestPath_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFinder(chainCorpus(), nil)
	_, err := f.ShortestPath(ctx, "A", "E")
	require.Error(t, err)
}
