// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go gen-docs --path ../../docs

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	geotracecmd "github.com/telekom/geotrace/cmd"
)

func main() {
	execute()
}

func execute() {
	rootCmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates docs for geotrace",
	}
	rootCmd.AddCommand(NewCmdGenDocs())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCmdGenDocs creates a new gen-docs command
func NewCmdGenDocs() *cobra.Command {
	var (
		docPath string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate the CLI documentation",
		Long:  `Generate the markdown or man page documentation of the geotrace commands and flags`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return genDocs(docPath, format)
		},
	}

	cmd.PersistentFlags().StringVar(&docPath, "path", "docs", "directory path where the files will be created")
	cmd.PersistentFlags().StringVar(&format, "format", "markdown", "format of the documentation, markdown or man")

	return cmd
}

// genDocs generates the documentation files of the geotrace command tree
func genDocs(path, format string) error {
	c := geotracecmd.BuildCmd("")
	c.DisableAutoGenTag = true

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	var err error
	switch format {
	case "markdown":
		err = doc.GenMarkdownTree(c, path)
	case "man":
		err = doc.GenManTree(c, &doc.GenManHeader{Title: "GEOTRACE", Section: "8"}, path)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to generate docs: %w", err)
	}
	return nil
}
