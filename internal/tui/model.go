// Package tui is the interactive single-screen to-do list: a text input,
// the live list of to-dos and attached images, and the camera and gallery
// workflows.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/snaptodo/internal/capture"
	"github.com/idilsaglam/snaptodo/internal/model"
)

// Controller is what the screen reads from and writes through.
type Controller interface {
	AddTodo(title string)
	DeleteTodo(id int64)
	AddImageRef(ref model.ImageRef)
	Todos(ctx context.Context) <-chan []model.TodoItem
	Images(ctx context.Context) <-chan []model.ImageRef
}

type Options struct {
	Permissions   capture.Permissions
	ImagesDir     string
	GalleryDir    string
	CameraCommand string
	// Errors carries storage failures. The first one ends the program.
	Errors <-chan error
	Now    func() time.Time
}

const (
	toastTTL     = 3 * time.Second
	fadeInterval = 70 * time.Millisecond
	// header, input, gap, toast, help and the panel border
	chromeHeight = 8
)

type (
	todosMsg        []model.TodoItem
	imagesMsg       []model.ImageRef
	feedClosedMsg   struct{}
	storageErrMsg   struct{ err error }
	toastExpiredMsg struct{ seq int }
	fadeTickMsg     struct{}
	imageInfoMsg    struct{ id, dims string }
	cameraDoneMsg   struct {
		shot capture.Shot
		err  error
	}
)

type Model struct {
	ctrl Controller
	opt  Options
	keys keyMap
	help help.Model

	input  textinput.Model
	list   list.Model
	picker filepicker.Model

	todosCh  <-chan []model.TodoItem
	imagesCh <-chan []model.ImageRef

	todos  []model.TodoItem
	images []imageRow
	fading bool

	flow    *capture.Flow
	picking bool

	toast    string
	toastSeq int

	width, height int
	err           error
}

// New subscribes to the controller's live lists for the lifetime of ctx.
func New(ctx context.Context, ctrl Controller, opt Options) Model {
	if opt.Now == nil {
		opt.Now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200
	ti.Focus()

	l := list.New(buildRows(nil, nil), rowDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.Styles.PaginationStyle = helpStyle

	fp := filepicker.New()
	fp.AllowedTypes = capture.ImageTypes
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = true
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorEven)
	fp.Styles.DisabledFile = mutedStyle
	if opt.GalleryDir != "" {
		fp.CurrentDirectory = opt.GalleryDir
	}

	m := Model{
		ctrl:     ctrl,
		opt:      opt,
		keys:     defaultKeys(),
		help:     help.New(),
		input:    ti,
		list:     l,
		picker:   fp,
		todosCh:  ctrl.Todos(ctx),
		imagesCh: ctrl.Images(ctx),
		flow:     capture.NewFlow(opt.Permissions),
		width:    80,
		height:   24,
	}
	m.resize()
	return m
}

// Err is the storage failure that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, waitTodos(m.todosCh), waitImages(m.imagesCh)}
	if m.opt.Errors != nil {
		cmds = append(cmds, waitErr(m.opt.Errors))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case todosMsg:
		m.todos = msg
		m.syncRows()
		return m, waitTodos(m.todosCh)

	case imagesMsg:
		cmds := m.mergeImages(msg)
		cmds = append(cmds, waitImages(m.imagesCh))
		return m, tea.Batch(cmds...)

	case feedClosedMsg:
		return m, nil

	case storageErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case imageInfoMsg:
		for i := range m.images {
			if m.images[i].ref.ID == msg.id {
				m.images[i].dims = msg.dims
			}
		}
		m.syncRows()
		return m, nil

	case fadeTickMsg:
		return m, m.advanceFade()

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case cameraDoneMsg:
		return m.finishCapture(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmds []tea.Cmd
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.flow.State() == capture.AwaitingPermission {
		return m.answerPermission(msg)
	}
	if m.picking {
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.input.Value() != "" {
			m.input.Reset()
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		// submitted as typed, empty included
		m.ctrl.AddTodo(m.input.Value())
		m.input.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.list.PrevPage()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.list.NextPage()
		return m, nil
	case key.Matches(msg, m.keys.Delete) && m.input.Value() == "":
		if r, ok := m.list.SelectedItem().(todoRow); ok {
			m.ctrl.DeleteTodo(r.item.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Camera):
		return m.beginCapture()
	case key.Matches(msg, m.keys.Gallery):
		return m.openPicker()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := titleStyle.Render("Todos") + "  " +
		mutedStyle.Render(fmt.Sprintf("%d items · %d images", len(m.todos), len(m.images)))

	content := m.list.View()
	switch {
	case m.flow.State() == capture.AwaitingPermission:
		content = modalBox(m.width, "Camera access",
			"Allow this app to use the camera?\n\n"+helpStyle.Render("y: allow   n: deny"))
	case m.picking:
		content = modalBox(m.width, "Attach image",
			m.picker.View()+"\n"+helpStyle.Render("enter: select   esc: cancel   h/backspace: up   l/right: open dir"))
	}

	toast := ""
	if m.toast != "" {
		toast = toastStyle.Render(m.toast)
	}
	return panelString(header + "\n" + m.input.View() + "\n\n" + content + "\n" + toast + "\n" + m.help.View(m.keys))
}

func (m *Model) resize() {
	w := max(m.width-4, 20)
	h := max(m.height-chromeHeight, 2)
	m.list.SetSize(w, h)
	m.input.Width = max(w-4, 10)
	m.help.Width = w
}

// syncRows rebuilds the list rows and keeps the cursor in range.
func (m *Model) syncRows() {
	idx := m.list.Index()
	rows := buildRows(m.todos, m.images)
	m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.list.Select(max(idx, 0))
}

// mergeImages keeps per-row state for known refs and starts fading in new ones.
func (m *Model) mergeImages(refs []model.ImageRef) []tea.Cmd {
	known := make(map[string]imageRow, len(m.images))
	for _, r := range m.images {
		known[r.ref.ID] = r
	}
	var cmds []tea.Cmd
	rows := make([]imageRow, 0, len(refs))
	for _, ref := range refs {
		if r, ok := known[ref.ID]; ok {
			rows = append(rows, r)
			continue
		}
		rows = append(rows, imageRow{ref: ref})
		cmds = append(cmds, readImageSize(ref))
	}
	m.images = rows
	m.syncRows()
	if len(cmds) > 0 && !m.fading {
		m.fading = true
		cmds = append(cmds, fadeTick())
	}
	return cmds
}

func (m *Model) advanceFade() tea.Cmd {
	pending := false
	for i := range m.images {
		if m.images[i].fade < len(fadeRamp) {
			m.images[i].fade++
			pending = pending || m.images[i].fade < len(fadeRamp)
		}
	}
	m.syncRows()
	m.fading = pending
	if pending {
		return fadeTick()
	}
	return nil
}

func (m *Model) notify(text string) tea.Cmd {
	m.toastSeq++
	m.toast = text
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func waitTodos(ch <-chan []model.TodoItem) tea.Cmd {
	return func() tea.Msg {
		items, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return todosMsg(items)
	}
}

func waitImages(ch <-chan []model.ImageRef) tea.Cmd {
	return func() tea.Msg {
		refs, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return imagesMsg(refs)
	}
}

func waitErr(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return storageErrMsg{err: err}
	}
}

func fadeTick() tea.Cmd {
	return tea.Tick(fadeInterval, func(time.Time) tea.Msg { return fadeTickMsg{} })
}
