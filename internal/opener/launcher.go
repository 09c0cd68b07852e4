// Package opener hands article links to the system browser.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/validation"
)

// ErrNoOpener is returned when no usable browser command was found.
var ErrNoOpener = errors.New("no application found to open URL")

var lookPath = exec.LookPath

type Launcher struct {
	command   []string
	validator *validation.URLValidator
}

// NewLauncher picks the configured browser command, or the first available
// candidate for this platform.
func NewLauncher(cfg *config.Config) *Launcher {
	l := &Launcher{validator: validation.NewPermissiveURLValidator()}

	if custom := strings.Fields(cfg.UI.Browser); len(custom) > 0 {
		l.command = custom
		return l
	}

	registry, err := NewRegistry()
	if err != nil {
		debuglog.Warnf("opener: %v", err)
		return l
	}
	l.command = findCommand(registry.Candidates(runtime.GOOS)...)
	return l
}

// Available reports whether Open can do anything.
func (l *Launcher) Available() bool {
	return len(l.command) > 0
}

// Open starts the browser detached. Only http(s) links are accepted.
func (l *Launcher) Open(url string) error {
	target, err := l.validator.ValidateAndNormalize(url)
	if err != nil {
		return fmt.Errorf("refusing to open %q: %w", url, err)
	}
	if !l.Available() {
		return ErrNoOpener
	}

	args := append(append([]string(nil), l.command[1:]...), target)
	cmd := exec.Command(l.command[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.command[0], err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func findCommand(candidates ...[]string) []string {
	for _, c := range candidates {
		if len(c) == 0 {
			continue
		}
		if _, err := lookPath(c[0]); err == nil {
			return c
		}
	}
	return nil
}
