// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/linkrace/pkg/logging"
	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/pathfind"
)

var (
	queryMaxDepth     int
	queryMaxNodes     int
	queryMaxNeighbors int
	querySearchLimit  int
	queryJSONOutput   bool
)

// withFinder opens the corpus read-only, runs fn, and closes it again.
// Query commands are offline one-shots; nothing stays resident.
func withFinder(fn func(store graph.Store, finder *pathfind.Finder) error) error {
	logger := logging.New(logging.Config{Level: logging.LevelWarn})
	defer logger.Close()

	store, err := graph.OpenSQLite(dbPath, logger.Slog())
	if err != nil {
		return fmt.Errorf("open corpus database: %w", err)
	}
	defer store.Close()

	return fn(store, pathfind.NewFinder(store, logger.Slog()))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var pathCmd = &cobra.Command{
	Use:   "path SOURCE TARGET",
	Short: "Find a shortest hyperlink path between two pages",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFinder(func(_ graph.Store, finder *pathfind.Finder) error {
			opts := []pathfind.Option{}
			if queryMaxDepth > 0 {
				opts = append(opts, pathfind.WithMaxDepth(queryMaxDepth))
			}
			res, err := finder.ShortestPath(cmd.Context(), args[0], args[1], opts...)
			if err != nil {
				return err
			}
			if queryJSONOutput {
				return printJSON(res)
			}
			if res.Degrees < 0 {
				fmt.Println(res.Message)
				return nil
			}
			titles := make([]string, 0, len(res.Path))
			for _, id := range res.Path {
				if p, ok := res.Pages[id]; ok {
					titles = append(titles, p.Title)
				}
			}
			fmt.Printf("%s  (%d degrees, %dms)\n",
				strings.Join(titles, " -> "), res.Degrees, res.DurationMS)
			return nil
		})
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph ROOT",
	Short: "Build the link neighborhood around a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFinder(func(_ graph.Store, finder *pathfind.Finder) error {
			opts := []pathfind.Option{}
			if queryMaxDepth > 0 {
				opts = append(opts, pathfind.WithMaxDepth(queryMaxDepth))
			}
			if queryMaxNodes > 0 {
				opts = append(opts, pathfind.WithMaxNodes(queryMaxNodes))
			}
			if queryMaxNeighbors > 0 {
				opts = append(opts, pathfind.WithMaxNeighbors(queryMaxNeighbors))
			}
			res, err := finder.BuildNeighborhoodGraph(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var neighborsCmd = &cobra.Command{
	Use:   "neighbors TITLE",
	Short: "List the outgoing neighbors of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFinder(func(_ graph.Store, finder *pathfind.Finder) error {
			opts := []pathfind.Option{}
			if queryMaxNeighbors > 0 {
				opts = append(opts, pathfind.WithMaxNeighbors(queryMaxNeighbors))
			}
			res, err := finder.Neighbors(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if queryJSONOutput {
				return printJSON(res)
			}
			for _, n := range res.Neighbors {
				fmt.Println(n.Title)
			}
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search page titles by prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFinder(func(store graph.Store, _ *pathfind.Finder) error {
			pages, err := store.SearchByPrefix(cmd.Context(), args[0], querySearchLimit)
			if err != nil {
				return err
			}
			if queryJSONOutput {
				return printJSON(pages)
			}
			for _, p := range pages {
				fmt.Println(p.Title)
			}
			return nil
		})
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random page from the corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFinder(func(store graph.Store, _ *pathfind.Finder) error {
			page, err := store.RandomPage(cmd.Context())
			if err != nil {
				return err
			}
			if queryJSONOutput {
				return printJSON(page)
			}
			fmt.Println(page.Title)
			return nil
		})
	},
}

func init() {
	pathCmd.Flags().IntVar(&queryMaxDepth, "max-depth", 0,
		"depth budget per search direction (default 6)")
	graphCmd.Flags().IntVar(&queryMaxDepth, "max-depth", 0,
		"neighborhood radius (default 2)")
	graphCmd.Flags().IntVar(&queryMaxNodes, "max-nodes", 0,
		"node cap for the neighborhood (default 50)")
	graphCmd.Flags().IntVar(&queryMaxNeighbors, "max-neighbors", 0,
		"outgoing links kept per node (default 20)")
	neighborsCmd.Flags().IntVar(&queryMaxNeighbors, "max-neighbors", 0,
		"cap on returned neighbors (default all)")
	searchCmd.Flags().IntVar(&querySearchLimit, "limit", 10,
		"maximum results")

	for _, c := range []*cobra.Command{pathCmd, neighborsCmd, searchCmd, randomCmd} {
		c.Flags().BoolVar(&queryJSONOutput, "json", false, "output JSON")
	}

	rootCmd.AddCommand(pathCmd, graphCmd, neighborsCmd, searchCmd, randomCmd)
}
