package search

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type debounceFiredMsg struct {
	seq uint64
}

// debouncer arms a single trailing-edge timer. Re-arming stops the previous
// timer and releases the goroutine waiting on it.
type debouncer struct {
	clock Clock
	wait  time.Duration
	seq   uint64
	timer Timer
	abort chan struct{}
}

func (d *debouncer) arm() tea.Cmd {
	d.cancel()

	d.seq++
	seq := d.seq
	timer := d.clock.NewTimer(d.wait)
	abort := make(chan struct{})
	d.timer, d.abort = timer, abort

	return func() tea.Msg {
		select {
		case <-timer.C():
			return debounceFiredMsg{seq: seq}
		case <-abort:
			return nil
		}
	}
}

// cancel stops the pending timer, if any, and invalidates its sequence.
func (d *debouncer) cancel() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	close(d.abort)
	d.timer, d.abort = nil, nil
	d.seq++
}

func (d *debouncer) current(seq uint64) bool {
	return d.timer != nil && seq == d.seq
}

// fired clears the armed timer once its message has been handled.
func (d *debouncer) fired() {
	d.timer, d.abort = nil, nil
}
