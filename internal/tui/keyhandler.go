package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/cyberx/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) bindings() config.KeyBindings {
	return kh.config.Keys.Bindings
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		return kh.app, tea.Quit
	case kh.modifierKey + kh.bindings().Refresh:
		return kh.refresh()
	}

	if kh.app.view == ViewReader {
		return kh.handleReaderKeys(msg)
	}

	if n, ok := kh.recentShortcut(key); ok {
		return kh.selectRecent(n)
	}

	if kh.app.focus == FocusInput {
		return kh.handleInputKeys(msg)
	}
	return kh.handleListKeys(msg)
}

func (kh *KeyHandler) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		kh.app.clearStatus()
		return kh.app, kh.app.drive(kh.app.orch.Submit())
	case "tab", "down":
		kh.app.focusList()
		return kh.app, nil
	case "esc":
		if kh.app.input.Value() == "" {
			kh.app.focusList()
			return kh.app, nil
		}
		kh.app.input.Reset()
		kh.app.clearStatus()
		return kh.app, kh.app.drive(kh.app.orch.SetQuery(""))
	}

	return kh.delegateToTextInput(msg)
}

// delegateToTextInput passes the key to the search input and reports a
// changed value to the orchestrator, which debounces it.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.input.Value()
	var cmd tea.Cmd
	kh.app.input, cmd = kh.app.input.Update(msg)

	value := sanitizeSearchInput(kh.app.input.Value())
	if value == sanitizeSearchInput(prev) {
		return kh.app, cmd
	}
	kh.app.clearStatus()
	return kh.app, tea.Batch(cmd, kh.app.drive(kh.app.orch.SetQuery(value)))
}

func (kh *KeyHandler) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case kh.bindings().Quit:
		return kh.app, tea.Quit
	case "enter":
		return kh.openReader()
	case kh.bindings().Open:
		if article, ok := kh.app.selectedArticle(); ok {
			return kh.app, kh.app.openArticle(article)
		}
		return kh.app, nil
	case "tab", "shift+tab", "/", "i", kh.bindings().Back:
		kh.app.focusInput()
		return kh.app, nil
	case "up", "k":
		if kh.app.results.Index() == 0 {
			kh.app.focusInput()
			return kh.app, nil
		}
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		return kh.selectCategory(n - 1)
	}

	var cmd tea.Cmd
	kh.app.results, cmd = kh.app.results.Update(msg)
	return kh.app, cmd
}

func (kh *KeyHandler) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case kh.bindings().Back, kh.bindings().Quit, "backspace":
		kh.app.view = ViewSearch
		kh.app.currentArticle = nil
		kh.app.loadingArticle = false
		kh.app.clearStatus()
		return kh.app, nil
	case kh.bindings().Open:
		if kh.app.currentArticle != nil {
			return kh.app, kh.app.openArticle(*kh.app.currentArticle)
		}
		return kh.app, nil
	}

	var cmd tea.Cmd
	kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	return kh.app, cmd
}

func (kh *KeyHandler) openReader() (tea.Model, tea.Cmd) {
	article, ok := kh.app.selectedArticle()
	if !ok {
		return kh.app, nil
	}
	kh.app.currentArticle = &article
	kh.app.loadingArticle = true
	kh.app.view = ViewReader
	kh.app.clearStatus()
	return kh.app, tea.Batch(kh.app.renderArticle(article), kh.app.ensureSpinner())
}

func (kh *KeyHandler) refresh() (tea.Model, tea.Cmd) {
	if kh.app.view == ViewReader {
		return kh.app, nil
	}
	kh.app.clearStatus()
	return kh.app, kh.app.drive(kh.app.orch.Refresh())
}

func (kh *KeyHandler) selectCategory(i int) (tea.Model, tea.Cmd) {
	categories := kh.app.orch.Categories()
	if i < 0 || i >= len(categories) {
		return kh.app, nil
	}
	return kh.submitTerm(categories[i], kh.app.orch.SelectCategory)
}

// recentShortcut maps "alt+N" to the zero-based recent search index.
func (kh *KeyHandler) recentShortcut(key string) (int, bool) {
	digit, ok := strings.CutPrefix(key, "alt+")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n - 1, true
}

func (kh *KeyHandler) selectRecent(i int) (tea.Model, tea.Cmd) {
	recent := kh.app.orch.Recent()
	if i < 0 || i >= len(recent) {
		return kh.app, nil
	}
	return kh.submitTerm(recent[i], kh.app.orch.SelectCategory)
}

func (kh *KeyHandler) submitTerm(term string, submit func(string) tea.Cmd) (tea.Model, tea.Cmd) {
	kh.app.input.SetValue(term)
	kh.app.input.CursorEnd()
	kh.app.clearStatus()
	kh.app.results.Select(0)
	return kh.app, kh.app.drive(submit(term))
}

// sanitizeSearchInput collapses whitespace and caps the query length.
func sanitizeSearchInput(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if r := []rune(input); len(r) > 256 {
		input = strings.TrimSpace(string(r[:256]))
	}
	return input
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.bindings()
	refresh := kh.modifierKey + b.Refresh + ": refresh"

	if kh.app.view == ViewReader {
		return []string{b.Open + ": open", b.Back + ": back"}
	}
	if kh.app.focus == FocusList {
		return []string{"enter: read", b.Open + ": open", "1-9: topic", refresh, b.Quit + ": quit"}
	}
	return []string{"enter: search", "tab: results", refresh}
}
