// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a corpus file with the production schema.
func writeFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corpus.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE pages (id INTEGER PRIMARY KEY, title TEXT, is_redirect INTEGER)`,
		`CREATE TABLE links (id INTEGER PRIMARY KEY, outgoing_links_count INTEGER,
			incoming_links_count INTEGER, outgoing_links TEXT, incoming_links TEXT)`,
		`CREATE TABLE redirects (source_id INTEGER, target_id INTEGER)`,
		`INSERT INTO pages VALUES (1, 'Dog', 0), (2, 'Mammal', 0), (3, 'Animal', 0), (4, 'Canine', 1)`,
		`INSERT INTO links VALUES (1, 1, 0, '2', ''), (2, 1, 1, '3', '1'), (3, 0, 1, '', '2')`,
		`INSERT INTO redirects VALUES (4, 1)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteStore_Queries(t *testing.T) {
	s, err := OpenSQLite(writeFixture(t), nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	t.Run("page by title case insensitive", func(t *testing.T) {
		p, err := s.PageByTitle(ctx, "dog")
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		assert.False(t, p.IsRedirect)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := s.PageByTitle(ctx, "Cat")
		assert.True(t, errors.Is(err, ErrPageNotFound))
	})

	t.Run("links parse pipe lists", func(t *testing.T) {
		ls, err := s.Links(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, ls.Outgoing)
		assert.Equal(t, []int64{1}, ls.Incoming)
	})

	t.Run("missing link row is empty not error", func(t *testing.T) {
		ls, err := s.Links(ctx, 4)
		require.NoError(t, err)
		assert.Empty(t, ls.Outgoing)
		assert.Empty(t, ls.Incoming)
	})

	t.Run("redirect resolves one hop", func(t *testing.T) {
		alias, err := s.PageByTitle(ctx, "Canine")
		require.NoError(t, err)
		resolved, err := s.ResolveRedirect(ctx, alias)
		require.NoError(t, err)
		assert.Equal(t, "Dog", resolved.Title)
	})

	t.Run("prefix search excludes redirects", func(t *testing.T) {
		pages, err := s.SearchByPrefix(ctx, "ca", 10)
		require.NoError(t, err)
		assert.Empty(t, pages) // Canine is a redirect

		pages, err = s.SearchByPrefix(ctx, "ma", 10)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "Mammal", pages[0].Title)
	})

	t.Run("random page is never a redirect", func(t *testing.T) {
		for range 10 {
			p, err := s.RandomPage(ctx)
			require.NoError(t, err)
			assert.False(t, p.IsRedirect)
		}
	})

	t.Run("stats", func(t *testing.T) {
		st, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), st.Pages)
		assert.Equal(t, int64(3), st.LinkRows)
		assert.Equal(t, int64(1), st.Redirects)
	})
}

func TestOpenSQLite_MissingFile(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope.sqlite"), nil)
	assert.Error(t, err)
}

func TestParseIDList(t *testing.T) {
	assert.Nil(t, parseIDList(""))
	assert.Equal(t, []int64{1, 2, 3}, parseIDList("1|2|3"))
	// Trailing separators and junk entries are dropped.
	assert.Equal(t, []int64{7}, parseIDList("7|"))
	assert.Equal(t, []int64{7, 9}, parseIDList("7|x|9"))
}
