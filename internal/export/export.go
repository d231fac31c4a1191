// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/onexport/internal/backup"
	"github.com/jeranaias/onexport/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCopyFailed matches every *CopyError.
	ErrCopyFailed = errors.New("section copy failed")

	// ErrDuplicateDestination is returned when two sections map to the same
	// destination file.
	ErrDuplicateDestination = errors.New("duplicate destination path")
)

// CopyError reports the section whose copy failed.
type CopyError struct {
	Section     backup.Section
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to export section %s: %v", e.Section.FullName(), e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrCopyFailed) match.
func (e *CopyError) Is(target error) bool {
	return target == ErrCopyFailed
}

// =============================================================================
// OPTIONS
// =============================================================================

// DefaultConcurrency is used when Options.Concurrency is not positive.
const DefaultConcurrency = 8

// FilePerm is the mode of exported section files.
const FilePerm = 0644

// Options configures an Executor.
type Options struct {
	// Concurrency is the maximum number of copies in flight.
	Concurrency int
}

// DefaultOptions returns default executor options.
func DefaultOptions() Options {
	return Options{Concurrency: DefaultConcurrency}
}

// =============================================================================
// PROGRESS AND RESULT
// =============================================================================

// Progress is reported once per finished copy, in completion order.
type Progress struct {
	// Completed is k in "k of n"; unique per call and counting from 1.
	Completed int
	Total     int
	Section   backup.Section
	Bytes     int64
}

// ProgressFunc receives progress events. It may be called from several
// goroutines at once.
type ProgressFunc func(Progress)

// Result summarizes an export, complete or not.
type Result struct {
	// Copied lists the sections written, in completion order.
	Copied   []backup.Section
	Total    int
	Bytes    int64
	Duration time.Duration
}

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor copies backup sections into a destination tree.
type Executor struct {
	backupRoot string
	opts       Options
	logger     *zap.Logger
}

// New creates an executor reading from backupRoot.
func New(backupRoot string, opts Options, logger *zap.Logger) *Executor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		backupRoot: backupRoot,
		opts:       opts,
		logger:     logger,
	}
}

// ExportAll copies every section to destRoot/<notebook>/<hierarchy>/<name>.one.
//
// Copies run concurrently. The first failure cancels copies that have not
// started yet and is returned as a *CopyError; copies already in flight
// finish. Files written before the failure stay on disk. The returned
// Result is never nil.
func (e *Executor) ExportAll(ctx context.Context, sections []backup.Section, destRoot string, onProgress ProgressFunc) (*Result, error) {
	start := time.Now()
	result := &Result{Total: len(sections)}

	if err := checkDestinations(sections, destRoot); err != nil {
		return result, err
	}

	var (
		completed atomic.Int64
		bytes     atomic.Int64
		mu        sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for _, section := range sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src := section.SourcePath(e.backupRoot)
			dst := section.DestinationPath(destRoot)

			n, err := util.AtomicCopyFile(src, dst, FilePerm)
			if err != nil {
				e.logger.Error("section copy failed",
					zap.String("section", section.FullName()),
					zap.String("source", src),
					zap.String("destination", dst),
					zap.Error(err))
				return &CopyError{Section: section, Source: src, Destination: dst, Err: err}
			}

			bytes.Add(n)
			mu.Lock()
			result.Copied = append(result.Copied, section)
			mu.Unlock()

			k := int(completed.Add(1))
			e.logger.Debug("section exported",
				zap.String("section", section.FullName()),
				zap.Int("completed", k),
				zap.Int("total", len(sections)),
				zap.Int64("bytes", n))

			if onProgress != nil {
				onProgress(Progress{Completed: k, Total: len(sections), Section: section, Bytes: n})
			}
			return nil
		})
	}

	err := g.Wait()
	result.Bytes = bytes.Load()
	result.Duration = time.Since(start)

	if err != nil {
		// A cancelled parent context surfaces as ctx.Err(); a copy failure
		// surfaces as the *CopyError that triggered the cancellation.
		return result, err
	}

	e.logger.Info("export finished",
		zap.String("destination", destRoot),
		zap.Int("sections", len(result.Copied)),
		zap.Int64("bytes", result.Bytes),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// checkDestinations rejects inputs where two sections would write the same file.
func checkDestinations(sections []backup.Section, destRoot string) error {
	seen := make(map[string]string, len(sections))
	for _, s := range sections {
		dst := filepath.Clean(s.DestinationPath(destRoot))
		if other, ok := seen[dst]; ok {
			return fmt.Errorf("%w: %s and %s both map to %s", ErrDuplicateDestination, other, s.FullName(), dst)
		}
		seen[dst] = s.FullName()
	}
	return nil
}
