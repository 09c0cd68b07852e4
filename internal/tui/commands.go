package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/normalize"
	"github.com/pders01/cyberx/internal/storage"
)

// articleMarkdown lays out the reader page for an article.
func articleMarkdown(article storage.Article) string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("# %s\n\n", article.Title))

	var meta []string
	if article.Source != "" {
		meta = append(meta, article.Source)
	}
	if article.Author != "" {
		meta = append(meta, article.Author)
	}
	if !article.PublishedAt.IsZero() {
		meta = append(meta, article.PublishedAt.Local().Format("Mon, 02 Jan 2006 15:04"))
	}
	if len(meta) > 0 {
		content.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(meta, " • ")))
	}

	if article.URL != "" {
		content.WriteString(fmt.Sprintf("[Read Online](%s)\n\n", article.URL))
	}

	content.WriteString("---\n\n")

	if body := normalize.Body(article); body != "" {
		content.WriteString(body)
	} else {
		content.WriteString("*No article text available. Press o to open it in the browser.*")
	}
	content.WriteString("\n")

	return content.String()
}

// renderArticle resolves the renderer on the program loop and renders on
// the command goroutine.
func (a *App) renderArticle(article storage.Article) tea.Cmd {
	r, err := a.getRenderer()
	if err != nil {
		return func() tea.Msg {
			return articleRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}
	}

	return func() tea.Msg {
		rendered, err := r.Render(articleMarkdown(article))
		if err != nil {
			// the message still has to arrive so loadingArticle clears
			return articleRenderedMsg{content: fmt.Sprintf("Failed to render article: %s\n\nPress Escape to go back.", err.Error())}
		}
		return articleRenderedMsg{content: rendered}
	}
}

func (a *App) openArticle(article storage.Article) tea.Cmd {
	if article.URL == "" {
		return func() tea.Msg { return statusMsg{text: MsgNoLink, kind: StatusWarn} }
	}
	if a.launcher == nil {
		return func() tea.Msg { return statusMsg{text: "No browser configured", kind: StatusError} }
	}

	url := article.URL
	return func() tea.Msg {
		if err := a.launcher.Open(url); err != nil {
			debuglog.WithField("url", url).Warnf("open failed: %v", err)
			return statusMsg{text: "Failed to open link: " + err.Error(), kind: StatusError}
		}
		return statusMsg{text: "Opened " + truncateMiddle(url, 48), kind: StatusSuccess}
	}
}
