// Package normalize turns raw article bodies into prose fit for display.
package normalize

import (
	"regexp"
	"strings"

	"github.com/pders01/cyberx/internal/storage"
)

var (
	printArtifact    = regexp.MustCompile(`(?i)javascript:if\(window\.print\)window\.print\(\)`)
	emptyLink        = regexp.MustCompile(`\[\]\(\)`)
	emptyBrackets    = regexp.MustCompile(`\[\]`)
	excessNewlines   = regexp.MustCompile(`\n{3,}`)
	fontResizer      = regexp.MustCompile(`(?i)^font resizer$`)
	advertisement    = regexp.MustCompile(`(?i)^-*\s*advertisement\s*-*$`)
	shortBullet      = regexp.MustCompile(`^\*\s+\S+(\s+\S+){0,3}$`)
	punctuationOnly  = regexp.MustCompile(`^[\[\]{}()*\s]+$`)
	lineTerminators  = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	chromeSignatures = []func(string) bool{
		fontResizer.MatchString,
		advertisement.MatchString,
		isCategoryTag,
		punctuationOnly.MatchString,
	}
)

// Normalize cleans a raw article body. The empty string stands for an
// absent body and is returned unchanged. Normalize is pure and idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := stripArtifacts(raw)
	s = lineTerminators.Replace(s)

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isChrome(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	s = strings.Join(kept, "\n")

	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// stripArtifacts removes inline artifacts until none are left, since removing
// one can splice its neighbours into a new one ("[[]]()" -> "[]()").
func stripArtifacts(s string) string {
	for {
		next := printArtifact.ReplaceAllString(s, "")
		next = emptyLink.ReplaceAllString(next, "")
		next = emptyBrackets.ReplaceAllString(next, "")
		if next == s {
			return s
		}
		s = next
	}
}

// isChrome reports whether a trimmed line is site furniture rather than prose.
// Blank lines carry paragraph spacing and are never chrome.
func isChrome(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	for _, match := range chromeSignatures {
		if match(trimmed) {
			return true
		}
	}
	return false
}

// isCategoryTag matches short "* Tag words" bullets. This is lossy: short
// legitimate bullet points go too.
func isCategoryTag(trimmed string) bool {
	if strings.HasPrefix(trimmed, "**") {
		return false
	}
	return shortBullet.MatchString(trimmed)
}

// Body returns the text to show for an article: the normalized content,
// falling back to the summary and then the description.
func Body(a storage.Article) string {
	for _, candidate := range []string{a.Content, a.Summary, a.Description} {
		if body := Normalize(candidate); body != "" {
			return body
		}
	}
	return ""
}
