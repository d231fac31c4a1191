// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session.go - The interactive export workflow.
//
// A session walks the user from notebook to backup version to destination
// and then copies the chosen sections. It never deletes anything: a failed
// or interrupted export leaves the files copied so far in place.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/jeranaias/onexport/internal/backup"
	"github.com/jeranaias/onexport/internal/export"
	"github.com/jeranaias/onexport/internal/history"
)

// Title is printed at the top of every session.
const Title = "Microsoft OneNote Backup Export Tool"

// SessionOptions wires a Session to its collaborators.
type SessionOptions struct {
	Scanner  *backup.Scanner
	Executor *export.Executor
	// History is optional; nil disables run recording.
	History *history.Store
	// DefaultDestination is used when the destination prompt is left empty.
	DefaultDestination string
	Logger             *zap.Logger
}

// Session runs the interactive export workflow once.
type Session struct {
	scanner     *backup.Scanner
	executor    *export.Executor
	history     *history.Store
	defaultDest string
	logger      *zap.Logger

	prompter *Prompter
	out      io.Writer
	// mu serializes output from concurrent progress callbacks.
	mu sync.Mutex
}

// NewSession creates a session reading answers from in and writing to out.
func NewSession(opts SessionOptions, in LineReader, out io.Writer) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		scanner:     opts.Scanner,
		executor:    opts.Executor,
		history:     opts.History,
		defaultDest: opts.DefaultDestination,
		logger:      logger,
		prompter:    NewPrompter(in, out),
		out:         out,
	}
}

// Run executes the workflow. It returns nil when the user finishes,
// declines, or there is nothing to export; ErrCancelled when a prompt is
// aborted; any other error when the export cannot proceed or fails.
func (s *Session) Run(ctx context.Context) error {
	s.println(TitleStyle.Render(Title))
	s.println(RenderSeparator())

	// Notebook
	s.println(DimStyle.Render("Looking for notebooks to export ..."))
	notebooks, err := s.scanner.ListNotebooks()
	if errors.Is(err, backup.ErrEmpty) {
		s.println(TagInfo.Render(fmt.Sprintf("The backup directory %s has no backed up notebooks.", s.scanner.Root())))
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot locate OneNote backups: %w", err)
	}

	idx, err := s.prompter.Choose("Found the following backed up notebooks:", notebooks,
		"Choose the notebook to export")
	if err != nil {
		return err
	}
	notebook := notebooks[idx]

	// Backup version
	scan, err := s.scanner.Scan(notebook)
	if err != nil {
		return fmt.Errorf("failed to scan notebook %q: %w", notebook, err)
	}
	for _, m := range scan.Malformed {
		s.println(TagNotice.Render(fmt.Sprintf("skipped %s: %s", m.Path, m.Reason)))
	}
	if len(scan.Sections) == 0 {
		s.println(TagInfo.Render(fmt.Sprintf("Notebook %q has no backed up sections.", notebook)))
		return nil
	}

	versions := backup.BackupVersions(scan.Sections)
	idx, err = s.prompter.Choose(
		fmt.Sprintf("Preparing to export notebook %q. It has the following backup versions:", notebook),
		versions, "Choose the backup to export")
	if err != nil {
		return err
	}
	version := versions[idx]

	sections := backup.FilterByVersion(scan.Sections, version)
	s.println("The following sections will be exported:")
	for _, section := range sections {
		s.println("\t" + section.FullName())
	}

	// Destination
	dest, ok, err := s.askDestination()
	if err != nil || !ok {
		return err
	}

	s.println(fmt.Sprintf("Ready to export the %s backup of notebook %s into folder %s under %q.",
		HighlightStyle.Render(version), HighlightStyle.Render(notebook), notebook, dest))
	if err := s.prompter.WaitForEnter(WarningStyle.Render(
		"Press Enter to start. Stopping the program before the export finishes may leave an incomplete export.")); err != nil {
		return err
	}

	return s.export(ctx, notebook, version, sections, dest)
}

// askDestination loops until the user gives a usable absolute directory.
// The bool is false when the user declines to create a missing directory.
func (s *Session) askDestination() (string, bool, error) {
	question := "Enter the export directory (without the notebook name)"
	if s.defaultDest != "" {
		question += fmt.Sprintf(" [%s]", s.defaultDest)
	}

	for {
		answer, err := s.prompter.Ask(question)
		if err != nil {
			return "", false, err
		}
		if answer == "" {
			if s.defaultDest == "" {
				s.println(TagUserError.Render("An export directory is required."))
				continue
			}
			answer = s.defaultDest
		}
		if !filepath.IsAbs(answer) {
			s.println(TagUserError.Render(fmt.Sprintf("%q is not an absolute path. Please try again.", answer)))
			continue
		}

		info, statErr := os.Stat(answer)
		if statErr == nil {
			if !info.IsDir() {
				s.println(TagUserError.Render(fmt.Sprintf("%q exists and is not a directory.", answer)))
				continue
			}
			return answer, true, nil
		}

		create, err := s.prompter.Confirm(fmt.Sprintf("Could not find directory %q. Create it?", answer))
		if err != nil {
			return "", false, err
		}
		if !create {
			s.println(TagInfo.Render("Nothing was exported."))
			return "", false, nil
		}
		if err := os.MkdirAll(answer, 0755); err != nil {
			return "", false, fmt.Errorf("failed to create directory %q: %w", answer, err)
		}
		s.logger.Info("created export directory", zap.String("path", answer))
		return answer, true, nil
	}
}

// export copies sections, prints progress and the summary, and records
// the run.
func (s *Session) export(ctx context.Context, notebook, version string, sections []backup.Section, dest string) error {
	started := time.Now()
	result, err := s.executor.ExportAll(ctx, sections, dest, func(p export.Progress) {
		s.println(TagSuccess.Render(fmt.Sprintf("[%d/%d] %s (%s)",
			p.Completed, p.Total, p.Section.FullName(), humanize.Bytes(uint64(p.Bytes)))))
	})

	run := history.Run{
		Notebook:    notebook,
		Backup:      version,
		Destination: dest,
		Sections:    len(sections),
		Copied:      len(result.Copied),
		Bytes:       result.Bytes,
		Status:      history.StatusSucceeded,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}

	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
		s.println(WarningStyle.Render(fmt.Sprintf("%d of %d sections were exported before the failure; they remain in %s.",
			len(result.Copied), len(sections), filepath.Join(dest, notebook))))
		s.record(ctx, run)
		return err
	}

	s.println(TagSuccess.Render(fmt.Sprintf("All %d sections exported (%s in %s).",
		len(result.Copied), humanize.Bytes(uint64(result.Bytes)), formatDuration(result.Duration))))
	s.record(ctx, run)
	return nil
}

// record stores run in the history; failures are logged only.
func (s *Session) record(ctx context.Context, run history.Run) {
	if s.history == nil {
		return
	}
	id, err := s.history.Record(ctx, run)
	if err != nil {
		s.logger.Warn("failed to record export run", zap.Error(err))
		return
	}
	s.logger.Debug("recorded export run", zap.String("id", id))
}

func (s *Session) println(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}
