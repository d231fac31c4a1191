// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jeranaias/onexport/internal/history"
	"github.com/jeranaias/onexport/internal/util"
)

const (
	// DefaultHistoryLimit is the number of runs shown by "history".
	DefaultHistoryLimit = 20

	maxDestinationWidth = 48
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded export runs, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return NewUsageError("--limit must not be negative (got %d)", limit)
			}
			out := cmd.OutOrStdout()
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(out, TagInfo.Render("History is disabled (history.enabled = false)."))
				return nil
			}
			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRuns(out, runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "maximum number of runs to show (0 = all)")
	return cmd
}

// printRuns renders runs as a table.
func printRuns(out io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, TagInfo.Render("No export runs recorded yet."))
		return
	}

	table := newTable(out, "STARTED", "NOTEBOOK", "BACKUP", "STATUS", "SECTIONS", "SIZE", "DURATION", "DESTINATION")
	for _, r := range runs {
		table.Append([]string{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Notebook,
			r.Backup,
			string(r.Status),
			strconv.Itoa(r.Copied) + "/" + strconv.Itoa(r.Sections),
			humanize.Bytes(uint64(r.Bytes)),
			formatDuration(r.Duration()),
			util.TruncateRunes(r.Destination, maxDestinationWidth),
		})
	}
	table.Render()
}
