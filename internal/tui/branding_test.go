package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/cyberx/internal/config"
)

func TestShowBanner(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	ShowBanner("1.0.0-test")

	w.Close()
	os.Stdout = old
	out := <-outC

	if !strings.Contains(out, "Cybersecurity News") {
		t.Errorf("Expected banner to contain 'Cybersecurity News', got: %s", out)
	}
	// Check for border characters
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestBannerDevVersion(t *testing.T) {
	out := Banner("dev")
	if strings.Contains(out, "vdev") {
		t.Errorf("Expected dev build to omit the version tag, got: %s", out)
	}
	if !strings.Contains(Banner("v2.1.0"), "v2.1.0") || strings.Contains(Banner("v2.1.0"), "vv2.1.0") {
		t.Errorf("Expected an existing v prefix to be kept as is")
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, LogoLines[1]) {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) != 4 {
		t.Errorf("Expected 4 logo lines, got %d", len(LogoLines))
	}
	if len(BannerColors) != 4 {
		t.Errorf("Expected 4 banner colors, got %d", len(BannerColors))
	}
	if !strings.HasPrefix(CompactLogo, AppName) {
		t.Errorf("Expected compact logo to start with %q, got %q", AppName, CompactLogo)
	}
}

func TestApplyTheme(t *testing.T) {
	defaults := []lipgloss.Color{AccentColor, MutedColor, ErrorColor}
	t.Cleanup(func() {
		AccentColor, MutedColor, ErrorColor = defaults[0], defaults[1], defaults[2]
		buildStyles()
	})

	ApplyTheme(config.UIColors{Accent: "#123456", Error: ""})

	if AccentColor != lipgloss.Color("#123456") {
		t.Errorf("Expected accent to be overridden, got %v", AccentColor)
	}
	if MutedColor != defaults[1] || ErrorColor != defaults[2] {
		t.Errorf("Expected empty colours to keep the built-in palette")
	}
	if ChipKeyStyle.GetForeground() != lipgloss.Color("#123456") {
		t.Errorf("Expected styles to be rebuilt from the new palette")
	}
}
