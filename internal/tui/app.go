package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/offline"
	"github.com/pders01/cyberx/internal/opener"
	"github.com/pders01/cyberx/internal/search"
	"github.com/pders01/cyberx/internal/storage"
)

// DocCounter reports the size of the local archive for the status line.
type DocCounter interface {
	DocCount() (int, error)
}

// Deps are the collaborators the UI drives. Only Orchestrator is required.
type Deps struct {
	Orchestrator *search.Orchestrator
	Cache        *offline.Cache
	Archive      DocCounter
	Launcher     *opener.Launcher
}

type App struct {
	config     *config.Config
	orch       *search.Orchestrator
	cache      *offline.Cache
	archive    DocCounter
	launcher   *opener.Launcher
	keyHandler *KeyHandler

	input    textinput.Model
	results  list.Model
	viewport viewport.Model
	spinner  spinner.Model

	view           View
	focus          Focus
	currentArticle *storage.Article
	width          int
	height         int

	status     string
	statusKind StatusKind

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	loadingArticle  bool

	// animate is off in tests so commands never wait on spinner ticks
	animate  bool
	spinning bool
	now      func() time.Time
}

func NewApp(cfg *config.Config, deps Deps) *App {
	ApplyTheme(cfg.UI.Colors)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(AccentColor).BorderLeftForeground(AccentColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderLeftForeground(AccentColor)

	results := list.New([]list.Item{}, delegate, 0, 0)
	results.SetShowTitle(false)
	results.SetShowStatusBar(false)
	results.SetFilteringEnabled(false)
	results.SetShowHelp(false)
	results.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "Search cybersecurity news..."
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:   cfg,
		orch:     deps.Orchestrator,
		cache:    deps.Cache,
		archive:  deps.Archive,
		launcher: deps.Launcher,
		input:    ti,
		results:  results,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		view:     ViewSearch,
		focus:    FocusInput,
		animate:  true,
		now:      time.Now,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Article.WordWrapMaxWidth
	if maxWidth <= 0 {
		maxWidth = 120
	}
	minWidth := a.config.UI.Article.WordWrapMinWidth
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return a.drive(a.orch.Init())
}

// drive wraps a command returned by an orchestrator intent: it refreshes
// the list from the new state and makes sure the spinner runs while the
// orchestrator is busy.
func (a *App) drive(cmd tea.Cmd) tea.Cmd {
	a.syncResults()
	return tea.Batch(cmd, a.ensureSpinner())
}

func (a *App) busy() bool {
	return a.orch.Status() != search.StatusIdle || a.loadingArticle
}

func (a *App) ensureSpinner() tea.Cmd {
	if !a.animate || a.spinning || !a.busy() {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) syncResults() {
	articles := a.orch.Displayed()
	items := make([]list.Item, len(articles))
	for i, art := range articles {
		items[i] = articleItem{article: art, now: a.now}
	}
	idx := a.results.Index()
	a.results.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		a.results.Select(idx)
	}
	if len(items) == 0 && a.focus == FocusList {
		a.focusInput()
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		if a.view == ViewReader && a.currentArticle != nil && !a.loadingArticle {
			// rewrap for the new width
			return a, a.renderArticle(*a.currentArticle)
		}
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewReader {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case articleRenderedMsg:
		if a.view == ViewReader {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.kind)
		return a, nil
	}

	// cursor blinks and pastes belong to the input
	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)

	return a, tea.Batch(inputCmd, a.drive(a.orch.Update(msg)))
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	// header, input frame, chips, recent row, separator and status bar
	listHeight := height - 11
	if listHeight < 4 {
		listHeight = 4
	}
	a.results.SetSize(width, listHeight)

	a.viewport.Width = width
	a.viewport.Height = height - 3

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.input.Width = inputWidth
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) focusInput() {
	a.focus = FocusInput
	a.input.Focus()
}

func (a *App) focusList() bool {
	if len(a.results.Items()) == 0 {
		return false
	}
	a.focus = FocusList
	a.input.Blur()
	return true
}

func (a *App) selectedArticle() (storage.Article, bool) {
	item, ok := a.results.SelectedItem().(articleItem)
	if !ok {
		return storage.Article{}, false
	}
	return item.article, true
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewReader:
		if a.loadingArticle {
			content = renderCentered(a.width, a.height-3, renderMuted(MsgLoadingArticle))
		} else {
			content = a.viewport.View()
		}
	default:
		content = a.searchView()
	}

	return lipgloss.JoinVertical(lipgloss.Top, content, renderSeparator(a.width-1), a.statusBar())
}

func (a *App) searchView() string {
	subtitle := "Cybersecurity news"
	if q := a.orch.DebouncedQuery(); q != "" {
		subtitle = fmt.Sprintf("Results for %q", q)
	}

	rows := []string{
		renderHeader(CompactLogo+" "+subtitle, "", a.width),
		renderInputFrame(a.input.View(), a.focus == FocusInput, a.input.Width),
		renderChips("topics", a.orch.Categories(), "", a.width),
	}
	if recent := renderChips("recent", a.orch.Recent(), "alt+", a.width); recent != "" {
		rows = append(rows, recent)
	}
	rows = append(rows, "")

	switch {
	case len(a.results.Items()) > 0:
		rows = append(rows, a.results.View())
	case a.orch.DebouncedQuery() == "":
		rows = append(rows, GetCompactBanner(a.emptyMessage()))
	default:
		rows = append(rows, renderMuted(a.emptyMessage()))
	}

	height := a.height - 3
	if height < 0 {
		height = 0
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Top, rows...))
}

func (a *App) emptyMessage() string {
	switch a.orch.Status() {
	case search.StatusLoadingDefault:
		return MsgLoadingFeed
	case search.StatusSearching, search.StatusRefreshing:
		return MsgSearching
	}
	if q := a.orch.DebouncedQuery(); q != "" {
		return MsgNoResultsFor(q)
	}
	return MsgNoResults
}

// statusLine describes the data on screen when nothing more urgent is set.
func (a *App) statusLine() (string, StatusKind) {
	if a.status != "" {
		return a.status, a.statusKind
	}

	switch a.orch.Status() {
	case search.StatusLoadingDefault:
		return a.spinnerPrefix() + MsgLoadingFeed, StatusInfo
	case search.StatusSearching:
		return a.spinnerPrefix() + MsgSearching, StatusInfo
	case search.StatusRefreshing:
		return a.spinnerPrefix() + MsgRefreshing, StatusInfo
	}

	var parts []string
	if a.orch.DebouncedQuery() != "" {
		n := len(a.orch.Results())
		if n == 0 {
			parts = append(parts, MsgNoResults)
		} else {
			parts = append(parts, MsgResultsCount(n))
		}
	} else {
		switch a.orch.DefaultOrigin() {
		case search.OriginCache:
			var saved time.Time
			if a.cache != nil {
				saved = a.cache.SavedAt()
			}
			return MsgCachedFeed(saved, a.now()), StatusWarn
		case search.OriginPlaceholder:
			return MsgPlaceholder, StatusWarn
		}
		if updated := a.orch.UpdatedAt(); !updated.IsZero() {
			parts = append(parts, "updated "+relativeAge(updated, a.now()))
		}
	}

	if a.archive != nil {
		if n, err := a.archive.DocCount(); err == nil {
			parts = append(parts, MsgIndexSize(n))
		}
	}
	return strings.Join(parts, " • "), StatusInfo
}

func (a *App) spinnerPrefix() string {
	if !a.animate {
		return ""
	}
	return a.spinner.View() + " "
}

func (a *App) statusBar() string {
	text, kind := a.statusLine()
	left := kind.style().Render(text)
	help := renderHelp(strings.Join(a.keyHandler.GetHelpForCurrentView(), " • "))

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		// not enough room for both; status wins
		return StatusBarStyle.Width(a.width).Render(left)
	}
	return StatusBarStyle.Render(left + strings.Repeat(" ", gap) + help)
}

type articleItem struct {
	article storage.Article
	now     func() time.Time
}

func (i articleItem) Title() string { return i.article.Title }

func (i articleItem) Description() string {
	parts := []string{}
	if i.article.Source != "" {
		parts = append(parts, SourceStyle.Render(i.article.Source))
	}
	if age := relativeAge(i.article.PublishedAt, i.now()); age != "" {
		parts = append(parts, TimeStyle.Render(age))
	}
	if len(parts) == 0 {
		return renderMuted(truncateEnd(i.article.Description, 80))
	}
	return strings.Join(parts, renderMuted(" • "))
}

func (i articleItem) FilterValue() string { return i.article.Title }

type articleRenderedMsg struct {
	content string
}

type statusMsg struct {
	text string
	kind StatusKind
}
