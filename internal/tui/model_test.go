package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/snaptodo/internal/capture"
	"github.com/idilsaglam/snaptodo/internal/model"
)

type fakeController struct {
	mu      sync.Mutex
	added   []string
	deleted []int64
	refs    []model.ImageRef
}

func (f *fakeController) AddTodo(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, title)
}

func (f *fakeController) DeleteTodo(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
}

func (f *fakeController) AddImageRef(ref model.ImageRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs = append(f.refs, ref)
}

func (f *fakeController) Todos(context.Context) <-chan []model.TodoItem {
	return make(chan []model.TodoItem)
}

func (f *fakeController) Images(context.Context) <-chan []model.ImageRef {
	return make(chan []model.ImageRef)
}

type memPermissions struct{ granted bool }

func (p *memPermissions) Granted() bool { return p.granted }
func (p *memPermissions) Grant() error  { p.granted = true; return nil }

func newTestModel(t *testing.T, ctrl *fakeController, perms capture.Permissions) Model {
	t.Helper()
	if perms == nil {
		perms = &memPermissions{}
	}
	dir := t.TempDir()
	m := New(context.Background(), ctrl, Options{
		Permissions:   perms,
		ImagesDir:     filepath.Join(dir, "images"),
		GalleryDir:    dir,
		CameraCommand: "true",
	})
	return step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestView_EmptyListShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, &fakeController{}, nil)
	m = step(t, m, todosMsg{})

	assert.Contains(t, m.View(), "No items yet")
}

func TestView_ItemsReplacePlaceholder(t *testing.T) {
	m := newTestModel(t, &fakeController{}, nil)
	m = step(t, m, todosMsg{{ID: 1, Title: "Buy milk", CreatedAt: time.Now()}})

	v := m.View()
	assert.Contains(t, v, "Buy milk")
	assert.NotContains(t, v, "No items yet")
}

func TestEnter_AddsTitleAndClearsInput(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)

	m = typeText(t, m, "Buy milk")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "", m.input.Value())

	// empty submissions go through too
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"Buy milk", ""}, ctrl.added)
}

func TestDelete_UsesSelectedRowID(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)
	now := time.Now()
	m = step(t, m, todosMsg{
		{ID: 4, Title: "Buy milk", CreatedAt: now},
		{ID: 9, Title: "Call Bob", CreatedAt: now},
	})

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	_ = step(t, m, tea.KeyMsg{Type: tea.KeyDelete})

	assert.Equal(t, []int64{9, 4}, ctrl.deleted)
}

func TestDelete_OnPlaceholderDoesNothing(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)
	m = step(t, m, todosMsg{})
	_ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})

	assert.Empty(t, ctrl.deleted)
}

func TestRowStyle_Alternates(t *testing.T) {
	assert.Equal(t, colorEven, rowStyle(0).GetForeground())
	assert.Equal(t, colorOdd, rowStyle(1).GetForeground())
	assert.Equal(t, colorEven, rowStyle(2).GetForeground())
}

func TestBuildRows_TodosThenImages(t *testing.T) {
	ref := model.NewImageRef("/tmp/a.jpg", model.SourceGallery, time.Now())
	rows := buildRows([]model.TodoItem{{ID: 1}, {ID: 2}}, []imageRow{{ref: ref}})
	require.Len(t, rows, 3)
	assert.IsType(t, todoRow{}, rows[0])
	assert.Equal(t, 1, rows[1].(todoRow).index)
	assert.IsType(t, imageRow{}, rows[2])

	rows = buildRows(nil, []imageRow{{ref: ref}})
	require.Len(t, rows, 2)
	assert.IsType(t, placeholderRow{}, rows[0])
}

func TestCamera_PermissionDenied(t *testing.T) {
	ctrl := &fakeController{}
	perms := &memPermissions{}
	m := newTestModel(t, ctrl, perms)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, capture.AwaitingPermission, m.flow.State())
	assert.Contains(t, m.View(), "Camera access")

	m = typeText(t, m, "n")

	assert.Equal(t, capture.Idle, m.flow.State())
	assert.Equal(t, capture.DeniedMessage, m.toast)
	assert.Empty(t, ctrl.refs)
	assert.False(t, perms.granted)
	_, err := os.Stat(m.opt.ImagesDir)
	assert.True(t, os.IsNotExist(err), "no image file may be created")
	assert.Equal(t, "", m.input.Value())
}

func TestCamera_GrantedCreatesShotAndAttachesOnSuccess(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, &memPermissions{})

	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, capture.Capturing, m.flow.State())

	entries, err := os.ReadDir(m.opt.ImagesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "LINK_"))
	path := filepath.Join(m.opt.ImagesDir, entries[0].Name())

	// the camera wrote a photo
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o600))
	m = step(t, m, cameraDoneMsg{shot: capture.Shot{Path: path, URI: model.FileURI(path)}})

	require.Len(t, ctrl.refs, 1)
	assert.Equal(t, path, ctrl.refs[0].Path)
	assert.Equal(t, model.SourceCamera, ctrl.refs[0].Source)
	assert.Equal(t, capture.Idle, m.flow.State())
}

func TestCamera_CancelledIsSilent(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, &memPermissions{granted: true})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m = next.(Model)
	require.Equal(t, capture.Capturing, m.flow.State())
	entries, err := os.ReadDir(m.opt.ImagesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	path := filepath.Join(m.opt.ImagesDir, entries[0].Name())

	m = step(t, m, cameraDoneMsg{shot: capture.Shot{Path: path}})

	assert.Empty(t, ctrl.refs)
	assert.Equal(t, "", m.toast)
	assert.Equal(t, capture.Idle, m.flow.State())
}

func TestImages_FadeIn(t *testing.T) {
	m := newTestModel(t, &fakeController{}, nil)
	ref := model.NewImageRef("/nonexistent/cat.jpg", model.SourceGallery, time.Now())

	m = step(t, m, imagesMsg{ref})
	require.Len(t, m.images, 1)
	assert.Equal(t, 0, m.images[0].fade)
	assert.True(t, m.fading)

	for range fadeRamp {
		m = step(t, m, fadeTickMsg{})
	}
	assert.Equal(t, len(fadeRamp), m.images[0].fade)
	assert.False(t, m.fading)
	assert.Contains(t, m.View(), "cat.jpg")

	// a repeated snapshot keeps the finished row as is
	m = step(t, m, imagesMsg{ref})
	assert.Equal(t, len(fadeRamp), m.images[0].fade)
}

func TestToast_ExpiresOnlyForLatest(t *testing.T) {
	m := newTestModel(t, &fakeController{}, nil)
	m.notify("first")
	m.notify("second")

	m = step(t, m, toastExpiredMsg{seq: 1})
	assert.Equal(t, "second", m.toast)
	m = step(t, m, toastExpiredMsg{seq: 2})
	assert.Equal(t, "", m.toast)
}

func TestStorageError_Quits(t *testing.T) {
	m := newTestModel(t, &fakeController{}, nil)
	next, cmd := m.Update(storageErrMsg{err: assert.AnError})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.ErrorIs(t, next.(Model).Err(), assert.AnError)
}

func TestGallery_EscCancels(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.True(t, m.picking)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.picking)
	assert.Empty(t, ctrl.refs)
	assert.Empty(t, ctrl.added)
}

func TestDelete_EditsInputWhileTyping(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)
	m = step(t, m, todosMsg{{ID: 7, Title: "Buy milk", CreatedAt: time.Now()}})

	m = typeText(t, m, "helo")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "heo", m.input.Value())
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, "he", m.input.Value())

	assert.Empty(t, ctrl.deleted)
}

func TestEsc_ClearsInputBeforeQuitting(t *testing.T) {
	m := newTestModel(t, &fakeController{}, nil)
	m = typeText(t, m, "Buy mi")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "", m.input.Value())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

// openGallery presses ctrl+g and feeds the directory listing back in.
func openGallery(t *testing.T, m Model, dir string) Model {
	t.Helper()
	m.opt.GalleryDir = dir
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)
	require.True(t, m.picking)
	require.NotNil(t, cmd)
	return step(t, m, cmd())
}

func TestGallery_SelectImageAttaches(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cat.png"), []byte("png"), 0o600))

	m = openGallery(t, m, dir)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.False(t, m.picking)
	require.Len(t, ctrl.refs, 1)
	assert.Equal(t, model.SourceGallery, ctrl.refs[0].Source)
	assert.Equal(t, filepath.Join(dir, "cat.png"), ctrl.refs[0].Path)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.toast, "Image attached: cat.png")
	assert.Empty(t, ctrl.added)
}

func TestGallery_NonImageIsRejected(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl, nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))

	m = openGallery(t, m, dir)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, ctrl.refs)
	assert.True(t, m.picking)
	assert.Contains(t, m.toast, capture.ErrNotImage.Error())
}
