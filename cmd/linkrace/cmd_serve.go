// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/linkrace/services/server/app"
	"github.com/AleutianAI/linkrace/services/server/config"
)

var serveConfigPath string

// serveCmd runs the multiplayer server.
//
// # Examples
//
//	linkrace serve
//	linkrace serve --config /etc/linkrace/server.yaml
//	LINKRACE_PORT=9090 linkrace serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the multiplayer race server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.DatabasePath = dbPath
		}

		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "",
		"path to a YAML config file (optional)")
	rootCmd.AddCommand(serveCmd)
}
