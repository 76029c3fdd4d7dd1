package entity

import (
	"fmt"
	"strings"

	"charfreq/pkg/charfreq"
)

// SourceKind selects how a source's text is obtained.
type SourceKind string

const (
	// KindFile reads a local file as-is.
	KindFile SourceKind = "file"
	// KindURL fetches a web page and extracts the article text.
	KindURL SourceKind = "url"
	// KindHTML fetches a web page and uses the text of its whole body.
	KindHTML SourceKind = "html"
	// KindFeed fetches an RSS/Atom/JSON feed and uses its item titles and contents.
	KindFeed SourceKind = "feed"
)

// Valid reports whether k is a known kind.
func (k SourceKind) Valid() bool {
	switch k {
	case KindFile, KindURL, KindHTML, KindFeed:
		return true
	}
	return false
}

// IsNetwork reports whether sources of this kind are fetched over HTTP.
func (k SourceKind) IsNetwork() bool {
	return k == KindURL || k == KindHTML || k == KindFeed
}

// Source is one named text to count, as listed in the sources file.
//
// CaseMode and Threads override the worker defaults for this source when set.
type Source struct {
	Name     string     `yaml:"name" json:"name"`
	Kind     SourceKind `yaml:"kind" json:"kind"`
	Location string     `yaml:"location" json:"location"`
	CaseMode string     `yaml:"case_mode,omitempty" json:"case_mode,omitempty"`
	Threads  int        `yaml:"threads,omitempty" json:"threads,omitempty"`
}

// Validate checks the source fields. URLs are checked for syntax only; the
// network safety check happens when the source is fetched.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !s.Kind.Valid() {
		return &ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q (expected file, url, html or feed)", s.Kind),
		}
	}
	if strings.TrimSpace(s.Location) == "" {
		return &ValidationError{Field: "location", Message: "location is required"}
	}
	if s.Kind.IsNetwork() {
		if err := ValidateURLSyntax(s.Location); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
	}
	if s.CaseMode != "" {
		if _, err := charfreq.ParseCaseMode(s.CaseMode); err != nil {
			return &ValidationError{Field: "case_mode", Message: err.Error()}
		}
	}
	if s.Threads < 0 {
		return &ValidationError{Field: "threads", Message: "threads must not be negative"}
	}
	return nil
}

// Mode returns the source's case mode, or fallback when none is set.
// Validate must have succeeded.
func (s *Source) Mode(fallback charfreq.CaseMode) charfreq.CaseMode {
	if s.CaseMode == "" {
		return fallback
	}
	mode, err := charfreq.ParseCaseMode(s.CaseMode)
	if err != nil {
		return fallback
	}
	return mode
}

// ThreadCount returns the source's thread count, or fallback when none is set.
func (s *Source) ThreadCount(fallback int) int {
	if s.Threads > 0 {
		return s.Threads
	}
	return fallback
}
