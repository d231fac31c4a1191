// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backup

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// FILE NAME FORMAT
// =============================================================================

const (
	// FileSuffix is the extension of every section file, live or backed up.
	FileSuffix = ".one"

	// DefaultMarker is the word the Chinese OneNote UI writes before the
	// backup label: "Intro.one (于 2023-01-01).one".
	DefaultMarker = "于"

	openMarker  = FileSuffix + " ("
	closeMarker = ")" + FileSuffix
)

// FormatFileName builds a backup file name from its parts.
func FormatFileName(name, marker, label string) string {
	return name + openMarker + marker + " " + label + closeMarker
}

// =============================================================================
// PARSER
// =============================================================================

// Parser extracts section names and backup labels from backup file names.
// It accepts one or more localized markers; the first that matches wins.
//
// Each marker is matched in both its composed (NFC) and decomposed (NFD)
// form, so accented markers match whichever form the filesystem stored.
// The form found in the file name is reported, keeping the reconstructed
// source path byte-identical to the file on disk.
type Parser struct {
	markers  []string
	variants []string
}

// NewParser creates a parser for the given markers.
// With no markers (or only empty ones) it uses DefaultMarker.
func NewParser(markers ...string) *Parser {
	p := &Parser{}
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m != "" {
			p.markers = append(p.markers, m)
		}
	}
	if len(p.markers) == 0 {
		p.markers = []string{DefaultMarker}
	}

	seen := make(map[string]bool)
	for _, m := range p.markers {
		for _, v := range []string{m, norm.NFC.String(m), norm.NFD.String(m)} {
			if !seen[v] {
				seen[v] = true
				p.variants = append(p.variants, v)
			}
		}
	}
	return p
}

// Markers returns the markers the parser accepts, in match order.
func (p *Parser) Markers() []string {
	out := make([]string, len(p.markers))
	copy(out, p.markers)
	return out
}

// Parse splits fileName into the section name, the backup label and the
// marker that matched. It returns a *MalformedNameError when the name does
// not follow the pattern exactly.
func (p *Parser) Parse(fileName string) (name, label, marker string, err error) {
	if !strings.HasSuffix(fileName, FileSuffix) {
		return "", "", "", &MalformedNameError{FileName: fileName, Reason: "missing " + FileSuffix + " suffix"}
	}

	reason := "no backup label delimiter"
	for _, m := range p.variants {
		head, rest, found := strings.Cut(fileName, openMarker+m+" ")
		if !found {
			continue
		}
		lbl, tail, found := strings.Cut(rest, closeMarker)
		switch {
		case !found:
			reason = "unterminated backup label"
		case tail != "":
			reason = "unexpected text after backup label"
		case head == "":
			reason = "empty section name"
		case strings.TrimSpace(lbl) == "":
			reason = "empty backup label"
		default:
			return head, lbl, m, nil
		}
	}
	return "", "", "", &MalformedNameError{FileName: fileName, Reason: reason}
}
