package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// maxLogLines bounds the lines kept in the window log.
const maxLogLines = 300

// LogView shows the most recent user log lines.
type LogView struct {
	mu    sync.Mutex
	lines []string
	list  *widget.List
}

func NewLogView() *LogView {
	v := &LogView{}
	v.list = widget.NewList(
		func() int {
			v.mu.Lock()
			defer v.mu.Unlock()
			return len(v.lines)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			v.mu.Lock()
			text := ""
			if id < len(v.lines) {
				text = v.lines[id]
			}
			v.mu.Unlock()
			obj.(*widget.Label).SetText(text)
		},
	)
	return v
}

// Append adds a line from any goroutine.
func (v *LogView) Append(line string) {
	v.mu.Lock()
	v.lines = appendBounded(v.lines, line, maxLogLines)
	v.mu.Unlock()

	fyne.Do(func() {
		v.list.Refresh()
		v.list.ScrollToBottom()
	})
}

// Lines returns a copy of the kept lines.
func (v *LogView) Lines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.lines...)
}

func (v *LogView) Widget() fyne.CanvasObject {
	return v.list
}

// appendBounded appends line and drops the oldest entries beyond limit.
func appendBounded(lines []string, line string, limit int) []string {
	lines = append(lines, line)
	if over := len(lines) - limit; over > 0 {
		lines = append(lines[:0], lines[over:]...)
	}
	return lines
}
