// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package command builds the lrubench command line.
package command

import (
	"context"
	"os"
	"sort"

	"github.com/urfave/cli/v3"
)

const (
	// EnvConfig names the environment variable holding the YAML config path.
	EnvConfig = "LRUBENCH_CONFIG"

	defaultConfigPath = "lrubench.yaml"
)

// ConfigPath returns the YAML file flag values are read from when they are not
// given on the command line or in the environment.
func ConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return defaultConfigPath
}

// InitApp builds the root command. Flag values fall back to the YAML file at
// configPath.
func InitApp(_ context.Context, configPath string) *cli.Command {
	app := &cli.Command{
		Name:  "lrubench",
		Usage: "exercise a concurrent LRU cache",
		Commands: []*cli.Command{
			RunCommandBuilder(configPath),
		},
	}

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
