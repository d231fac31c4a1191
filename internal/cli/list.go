// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/onexport/internal/backup"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [notebook]",
		Short: "List backed up notebooks, or the backup versions of one notebook",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := a.scanner()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return listVersions(cmd.OutOrStdout(), cmd.ErrOrStderr(), scanner, args[0])
			}
			return listNotebooks(cmd.OutOrStdout(), scanner)
		},
	}
}

// listNotebooks prints one row per notebook with its version and section
// counts.
func listNotebooks(out io.Writer, scanner *backup.Scanner) error {
	notebooks, err := scanner.ListNotebooks()
	if errors.Is(err, backup.ErrEmpty) {
		fmt.Fprintln(out, TagInfo.Render(fmt.Sprintf("The backup directory %s has no backed up notebooks.", scanner.Root())))
		return nil
	}
	if err != nil {
		return err
	}

	table := newTable(out, "NOTEBOOK", "VERSIONS", "SECTIONS", "SKIPPED")
	for _, notebook := range notebooks {
		scan, err := scanner.Scan(notebook)
		if err != nil {
			return fmt.Errorf("failed to scan notebook %q: %w", notebook, err)
		}
		table.Append([]string{
			notebook,
			strconv.Itoa(len(backup.BackupVersions(scan.Sections))),
			strconv.Itoa(len(scan.Sections)),
			strconv.Itoa(len(scan.Malformed)),
		})
	}
	table.Render()
	return nil
}

// listVersions prints the backup versions of notebook in first-seen order.
func listVersions(out, errOut io.Writer, scanner *backup.Scanner, notebook string) error {
	scan, err := scanner.Scan(notebook)
	if err != nil {
		return fmt.Errorf("failed to scan notebook %q: %w", notebook, err)
	}
	for _, m := range scan.Malformed {
		fmt.Fprintln(errOut, TagNotice.Render(fmt.Sprintf("skipped %s: %s", m.Path, m.Reason)))
	}
	if len(scan.Sections) == 0 {
		fmt.Fprintln(out, TagInfo.Render(fmt.Sprintf("Notebook %q has no backed up sections.", notebook)))
		return nil
	}

	counts := backup.CountByVersion(scan.Sections)
	table := newTable(out, "#", "VERSION", "SECTIONS")
	for i, version := range backup.BackupVersions(scan.Sections) {
		table.Append([]string{strconv.Itoa(i + 1), version, strconv.Itoa(counts[version])})
	}
	table.Render()

	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("%d sections in %s", len(scan.Sections),
		filepath.Join(scanner.Root(), notebook))))
	return nil
}
