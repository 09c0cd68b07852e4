package search

import tea "github.com/charmbracelet/bubbletea"

// Drain runs cmd and every command it leads to, feeding each message back
// through o.Update, until nothing is left. It is the synchronous stand-in
// for a bubbletea program: one-shot CLI commands and tests use it.
//
// A command blocked on a debounce timer blocks Drain too, so advance a
// ManualClock before draining such a command.
func Drain(o *Orchestrator, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, o.Update(msg))
		}
	}
}
