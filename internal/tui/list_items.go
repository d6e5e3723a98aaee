package tui

import (
	"fmt"
	"io"
	"strings"

	"todo-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

type taskDelegate struct{}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(taskItem)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}

	box := pendingStyle.Render("○")
	if it.task.Completed {
		box = doneStyle.Render("✓")
	}

	line := " " + box + " " + it.task.Title
	if desc := strings.TrimSpace(it.task.Description); desc != "" {
		line += mutedStyle.Render(" — " + desc)
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	if index == m.Index() {
		// Selection restyles the whole row; strip per-segment colors first so
		// the highlight stays uniform.
		plain := " "
		if it.task.Completed {
			plain += "✓ "
		} else {
			plain += "○ "
		}
		plain += it.task.Title
		if desc := strings.TrimSpace(it.task.Description); desc != "" {
			plain += " — " + desc
		}
		if pw := xansi.StringWidth(plain); pw < contentW {
			plain += strings.Repeat(" ", contentW-pw)
		} else if pw > contentW {
			plain = xansi.Cut(plain, 0, contentW)
		}
		fmt.Fprint(w, selectedStyle.Render(plain))
		return
	}

	fmt.Fprint(w, line)
}

func newTaskList() list.Model {
	l := list.New(nil, taskDelegate{}, 0, 0)
	// We render our own header, filter line and footer, so keep list chrome
	// minimal. Status filtering is a view-level concern (the `f` key), not
	// the list's fuzzy filter.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)

	// Emacs-style navigation aliases (common muscle memory).
	upKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(upKeys, "ctrl+p")...)
	downKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(downKeys, "ctrl+n")...)

	return l
}
