// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command autoref links backtick code spans in Markdown pages to the Go
// symbols they name.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-autoref/internal/config"
	"github.com/petar-djukic/go-autoref/internal/logging"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd(viper.GetViper(), os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Settings are read through v; command
// output goes to stdout and logs to stderr.
func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "autoref",
		Short:         "Link Go symbol references in Markdown docs",
		Long:          "autoref rewrites backtick code spans that name Go packages, types, functions, or methods into reference-style links to their API documentation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(v, configFile); err != nil {
				return err
			}
			logger, err := logging.New(v.GetString(config.KeyLogLevel), stderr)
			if err != nil {
				return err
			}
			logging.SetLogger(logger)
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Global flags.
	rootCmd.PersistentFlags().String(config.KeyWorkDir, ".", "Directory packages are resolved from")
	rootCmd.PersistentFlags().String(config.KeyLogLevel, "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default .autoref.yaml)")

	// Bind flags to viper.
	v.BindPFlag(config.KeyWorkDir, rootCmd.PersistentFlags().Lookup(config.KeyWorkDir))
	v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup(config.KeyLogLevel))

	rootCmd.AddCommand(newRewriteCmd(v))
	rootCmd.AddCommand(newResolveCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print autoref version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autoref %s\n", version)
		},
	}
}
