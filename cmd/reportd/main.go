// Command reportd serves grouped, paginated report listings from an object store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "reportd",
	Short: "Grouped report listings over S3 or MinIO",
	Long: `reportd lists report objects under configured prefixes, groups them by
the year and month found in their keys, and serves the groups page by page.

Configuration is read from a YAML file (--config) and REPORTD_* environment
variables.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of grouped reports as JSON",
	Long: `Lists a scope (or a raw prefix) once and prints the page JSON.

Example:
  reportd list --scope daily --page 2 --months 3`,
	RunE: runList,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	listCmd.Flags().StringVar(&listScope, "scope", "", "Configured scope name")
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "Raw store prefix (instead of --scope)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number (1-based)")
	listCmd.Flags().IntVar(&listMonths, "months", 0, "Groups per page (default from configuration)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Print every group without paging")
	listCmd.Flags().StringSliceVar(&listFileTypes, "file-type", nil, "Restrict to MIME types (repeatable)")
	listCmd.MarkFlagsMutuallyExclusive("scope", "prefix")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
