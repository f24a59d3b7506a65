package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	reports "github.com/FPI-TW/report-sub000"
	"github.com/FPI-TW/report-sub000/internal/config"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

var (
	listScope     string
	listPrefix    string
	listPage      int
	listMonths    int
	listAll       bool
	listFileTypes []string
)

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Logging)

	prefix, fileTypes, err := resolveScope(cfg, listScope, listPrefix)
	if err != nil {
		return err
	}
	fileTypes = append(fileTypes, listFileTypes...)

	source, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	client, err := newClient(source, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	months := listMonths
	if months == 0 {
		months = cfg.Listing.DefaultMonths
	}

	var opts []reporttypes.ListOption
	if len(fileTypes) > 0 {
		opts = append(opts, reports.WithFileTypes(fileTypes...))
	}

	if listAll {
		groups, diag, err := client.ListGroups(cmd.Context(), prefix, opts...)
		if err != nil {
			return err
		}
		logger.Debug("listed groups", "prefix", prefix, "skipped", diag.SkippedCount)
		return printJSON(cmd.OutOrStdout(), groups)
	}

	page, err := client.ListGroupedReports(cmd.Context(), prefix, listPage, months, opts...)
	if err != nil {
		return err
	}
	if page.Diagnostics.BoundReached {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: listing stopped at the page fetch bound; results may be incomplete")
	}
	return printJSON(cmd.OutOrStdout(), page)
}

// resolveScope returns the prefix and file types for a scope name or raw prefix.
func resolveScope(cfg *config.Config, scope, prefix string) (string, []string, error) {
	if scope == "" {
		if prefix == "" {
			return "", nil, fmt.Errorf("one of --scope or --prefix is required")
		}
		return prefix, nil, nil
	}
	sc, ok := cfg.Scopes[scope]
	if !ok {
		return "", nil, fmt.Errorf("unknown scope %q", scope)
	}
	return sc.Prefix, append([]string(nil), sc.FileTypes...), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
