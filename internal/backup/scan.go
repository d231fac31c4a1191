// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// =============================================================================
// SCAN RESULT
// =============================================================================

// ScanResult holds everything one notebook scan found.
type ScanResult struct {
	Notebook string

	// Sections in depth-first order, entries in directory listing order.
	Sections []Section

	// Malformed lists backup-suffixed files that could not be parsed.
	// Always empty when the scanner is strict (the scan fails instead).
	Malformed []*MalformedNameError
}

// =============================================================================
// SCANNER
// =============================================================================

// Scanner walks the backup root of the note-taking application.
type Scanner struct {
	root   string
	parser *Parser
	logger *zap.Logger

	// Strict makes the first malformed file name abort Scan.
	Strict bool
}

// NewScanner creates a scanner for backupRoot.
// A nil parser uses NewParser(); a nil logger discards log output.
func NewScanner(backupRoot string, parser *Parser, logger *zap.Logger) *Scanner {
	if parser == nil {
		parser = NewParser()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		root:   backupRoot,
		parser: parser,
		logger: logger,
	}
}

// Root returns the backup root the scanner reads.
func (s *Scanner) Root() string {
	return s.root
}

// ListNotebooks returns the notebook directories directly under the backup
// root. Plain files at that level are ignored.
func (s *Scanner) ListNotebooks() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, s.root, err)
	}

	var notebooks []string
	for _, e := range entries {
		mode, err := entryType(filepath.Join(s.root, e.Name()), e)
		if err != nil {
			s.logger.Warn("skipping unreadable entry",
				zap.String("path", filepath.Join(s.root, e.Name())), zap.Error(err))
			continue
		}
		if mode.IsDir() {
			notebooks = append(notebooks, e.Name())
		}
	}

	if len(notebooks) == 0 {
		return nil, ErrEmpty
	}
	s.logger.Debug("listed notebooks", zap.String("root", s.root), zap.Int("count", len(notebooks)))
	return notebooks, nil
}

// Scan walks one notebook and returns its sections.
// A missing or unreadable notebook directory fails with ErrNotFound.
func (s *Scanner) Scan(notebook string) (*ScanResult, error) {
	if notebook == "" || strings.ContainsAny(notebook, `/\`) || notebook == "." || notebook == ".." {
		return nil, fmt.Errorf("%w: invalid notebook name %q", ErrNotFound, notebook)
	}

	dir := filepath.Join(s.root, notebook)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}

	result := &ScanResult{Notebook: notebook}
	if err := s.walk(result, nil); err != nil {
		return nil, err
	}

	s.logger.Debug("scanned notebook",
		zap.String("notebook", notebook),
		zap.Int("sections", len(result.Sections)),
		zap.Int("malformed", len(result.Malformed)))
	return result, nil
}

// walk appends the sections below hierarchy to result, depth first.
func (s *Scanner) walk(result *ScanResult, hierarchy []string) error {
	dir := filepath.Join(append([]string{s.root, result.Notebook}, hierarchy...)...)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if len(hierarchy) == 0 {
			return fmt.Errorf("%w: %s: %v", ErrNotFound, dir, err)
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(dir, name)

		mode, err := entryType(path, e)
		if err != nil {
			// Dangling shortcuts are common in synced folders
			s.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			continue
		}

		if mode.IsDir() {
			// Fresh slice per level so sibling sections never share backing arrays
			sub := make([]string, len(hierarchy), len(hierarchy)+1)
			copy(sub, hierarchy)
			if err := s.walk(result, append(sub, name)); err != nil {
				return err
			}
			continue
		}

		if !mode.IsRegular() || !strings.HasSuffix(name, FileSuffix) {
			continue
		}

		sectionName, label, marker, err := s.parser.Parse(name)
		if err != nil {
			var malformed *MalformedNameError
			if !errors.As(err, &malformed) {
				return err
			}
			malformed.Path = path
			if s.Strict {
				return malformed
			}
			s.logger.Warn("skipping malformed backup file", zap.String("path", path), zap.String("reason", malformed.Reason))
			result.Malformed = append(result.Malformed, malformed)
			continue
		}

		result.Sections = append(result.Sections, Section{
			Notebook:  result.Notebook,
			Hierarchy: hierarchy,
			Name:      sectionName,
			Backup:    label,
			Marker:    marker,
		})
	}
	return nil
}

// entryType returns the type bits of e, following symlinks.
func entryType(path string, e os.DirEntry) (os.FileMode, error) {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Type(), nil
}
