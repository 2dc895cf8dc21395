// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// linkrace is the command line surface of the hyperlink racing stack: it
// runs the multiplayer server and answers one-off graph queries against a
// local corpus file without a server.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linkrace",
	Short: "Hyperlink graph racing: server and corpus query tools",
	Long: `linkrace runs the multiplayer hyperlink-race server and offers
offline queries (shortest paths, neighborhoods, page search) against a
local SQLite corpus file.`,
	SilenceUsage: true,
}

// dbPath is shared by every offline query command.
var dbPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "sdow.sqlite",
		"path to the SQLite corpus file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
