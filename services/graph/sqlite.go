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
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads the corpus from a precomputed SQLite file.
//
// Schema (produced by the data pipeline):
//
//	pages(id, title, is_redirect)
//	links(id, outgoing_links_count, incoming_links_count,
//	      outgoing_links, incoming_links)   -- pipe-separated id lists
//	redirects(source_id, target_id)
//
// The file is opened read-only; database/sql handles concurrent readers.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLite opens the corpus file at path in read-only mode and verifies
// the pages table is reachable. Failure here is fatal to the process by
// contract; the caller decides how to exit.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}

	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("corpus %s unreadable: %w", path, err)
	}

	logger.Info("corpus opened", "path", path, "pages", n)

	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// PageByTitle implements Store. Lookup is case-insensitive (COLLATE NOCASE).
func (s *SQLiteStore) PageByTitle(ctx context.Context, title string) (*Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, is_redirect
		FROM pages
		WHERE title = ? COLLATE NOCASE`, title)

	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", title, ErrPageNotFound)
	}
	return p, err
}

// PagesByIDs implements Store.
func (s *SQLiteStore) PagesByIDs(ctx context.Context, ids []int64) ([]*Page, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, is_redirect
		FROM pages
		WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("pages by ids: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var p Page
		var redirect int64
		if err := rows.Scan(&p.ID, &p.Title, &redirect); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		p.IsRedirect = redirect != 0
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// Links implements Store. A page with no link row yields an empty LinkSet.
func (s *SQLiteStore) Links(ctx context.Context, id int64) (*LinkSet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, outgoing_links, incoming_links
		FROM links
		WHERE id = ?`, id)

	var rowID int64
	var outgoing, incoming sql.NullString
	err := row.Scan(&rowID, &outgoing, &incoming)
	if errors.Is(err, sql.ErrNoRows) {
		return &LinkSet{ID: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("links of %d: %w", id, err)
	}

	return &LinkSet{
		ID:       rowID,
		Outgoing: parseIDList(outgoing.String),
		Incoming: parseIDList(incoming.String),
	}, nil
}

// ResolveRedirect implements Store: exactly one hop, never chased further.
func (s *SQLiteStore) ResolveRedirect(ctx context.Context, p *Page) (*Page, error) {
	if p == nil || !p.IsRedirect {
		return p, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT pages.id, pages.title, pages.is_redirect
		FROM redirects
		INNER JOIN pages ON pages.id = redirects.target_id
		WHERE redirects.source_id = ?`, p.ID)

	target, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Dangling redirect rows happen in extracted corpora; keep the
		// original page rather than failing the whole query.
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve redirect %d: %w", p.ID, err)
	}
	return target, nil
}

// SearchByPrefix implements Store. Redirect pages are excluded.
func (s *SQLiteStore) SearchByPrefix(ctx context.Context, query string, limit int) ([]*Page, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, is_redirect
		FROM pages
		WHERE title LIKE ? COLLATE NOCASE
		AND is_redirect = 0
		LIMIT ?`, query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var p Page
		var redirect int64
		if err := rows.Scan(&p.ID, &p.Title, &redirect); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		p.IsRedirect = redirect != 0
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// RandomPage implements Store.
func (s *SQLiteStore) RandomPage(ctx context.Context) (*Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, is_redirect
		FROM pages
		WHERE is_redirect = 0
		ORDER BY RANDOM()
		LIMIT 1`)

	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	return p, err
}

// Stats implements Store.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&st.Pages); err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM links").Scan(&st.LinkRows); err != nil {
		return nil, fmt.Errorf("count links: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM redirects").Scan(&st.Redirects); err != nil {
		return nil, fmt.Errorf("count redirects: %w", err)
	}
	return &st, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.logger.Info("corpus closed", "path", s.path)
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*Page, error) {
	var p Page
	var redirect int64
	if err := row.Scan(&p.ID, &p.Title, &redirect); err != nil {
		return nil, err
	}
	p.IsRedirect = redirect != 0
	return &p, nil
}

// parseIDList splits a pipe-separated id list. Malformed entries are
// dropped; the pipeline occasionally emits trailing separators.
func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
