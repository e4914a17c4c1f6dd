package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/snaptodo/internal/model"
	"github.com/idilsaglam/snaptodo/internal/ui"
)

// todoRow adapts a TodoItem to bubbles/list.Item. index drives the tint.
type todoRow struct {
	item  model.TodoItem
	index int
}

func (r todoRow) FilterValue() string { return r.item.Title }

type imageRow struct {
	ref  model.ImageRef
	dims string
	fade int
}

func (r imageRow) FilterValue() string { return r.ref.Name() }

type placeholderRow struct{}

func (placeholderRow) FilterValue() string { return "" }

// buildRows lays out to-dos (or the placeholder) followed by images.
func buildRows(todos []model.TodoItem, images []imageRow) []list.Item {
	rows := make([]list.Item, 0, len(todos)+len(images)+1)
	if len(todos) == 0 {
		rows = append(rows, placeholderRow{})
	}
	for i, it := range todos {
		rows = append(rows, todoRow{item: it, index: i})
	}
	for _, im := range images {
		rows = append(rows, im)
	}
	return rows
}

// rowDelegate renders every row on two lines.
type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 2 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	var top, bottom string
	switch r := item.(type) {
	case todoRow:
		st := rowStyle(r.index)
		top = mutedStyle.Render(ui.FormatTimestamp(r.item.CreatedAt))
		bottom = st.Render(ui.Truncate(r.item.Title, width))
	case imageRow:
		st := fadeStyle(r.fade)
		top = st.Render(ui.Truncate("▣ "+r.ref.Name(), width))
		meta := string(r.ref.Source)
		if r.dims != "" {
			meta += "  " + r.dims
		}
		bottom = st.Faint(r.fade < len(fadeRamp)).Render(meta)
	case placeholderRow:
		top = mutedStyle.Render(ui.EmptyPlaceholder)
		prefix = "  "
	default:
		return
	}
	fmt.Fprint(w, prefix+top+"\n  "+bottom)
}
