package tui

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/capture"
	"github.com/idilsaglam/snaptodo/internal/model"
)

func (m Model) beginCapture() (tea.Model, tea.Cmd) {
	if m.flow.Busy() {
		return m, nil
	}
	if m.flow.Begin() == capture.Capturing {
		return m.launchCamera()
	}
	// AwaitingPermission: View shows the dialog
	return m, nil
}

func (m Model) answerPermission(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Allow):
		if _, err := m.flow.Resolve(true); err != nil {
			m.flow.Reset()
			return m, m.notify(err.Error())
		}
		return m.launchCamera()
	case key.Matches(msg, m.keys.Deny):
		_, err := m.flow.Resolve(false)
		m.flow.Reset()
		log.Info().Err(err).Msg("camera permission refused")
		return m, m.notify(capture.DeniedMessage)
	}
	return m, nil
}

// launchCamera hands the terminal to the camera command until it exits.
func (m Model) launchCamera() (tea.Model, tea.Cmd) {
	shot, err := capture.NewImageFile(m.opt.ImagesDir, m.opt.Now())
	if err != nil {
		m.flow.Reset()
		log.Error().Err(err).Str("dir", m.opt.ImagesDir).Msg("could not create image file")
		return m, m.notify("Camera unavailable: " + err.Error())
	}
	cmd, err := capture.CameraCommand(m.opt.CameraCommand, shot)
	if err != nil {
		m.flow.Reset()
		return m, m.notify("Camera unavailable: " + err.Error())
	}
	log.Info().Str("path", shot.Path).Strs("argv", cmd.Args).Msg("launching camera")
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return cameraDoneMsg{shot: shot, err: err}
	})
}

func (m Model) finishCapture(msg cameraDoneMsg) (tea.Model, tea.Cmd) {
	ref, err := m.flow.Finish(msg.shot, msg.err, m.opt.Now())
	m.flow.Reset()
	switch {
	case errors.Is(err, capture.ErrCaptureCancelled):
		return m, nil
	case err != nil:
		return m, m.notify(err.Error())
	}
	m.ctrl.AddImageRef(ref)
	return m, m.notify("Photo attached: " + ref.Name())
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	if m.opt.GalleryDir != "" {
		m.picker.CurrentDirectory = m.opt.GalleryDir
	}
	m.picking = true
	return m, m.picker.Init()
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		ref, err := capture.GalleryRef(path, m.opt.Now())
		if err != nil {
			return m, tea.Batch(cmd, m.notify(err.Error()))
		}
		m.ctrl.AddImageRef(ref)
		return m, tea.Batch(cmd, m.notify("Image attached: "+ref.Name()))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		return m, tea.Batch(cmd, m.notify(fmt.Sprintf("%s: %v", path, capture.ErrNotImage)))
	}
	return m, cmd
}

// readImageSize reads the image header for its pixel size. Unknown formats stay blank.
func readImageSize(ref model.ImageRef) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(ref.Path)
		if err != nil {
			return imageInfoMsg{id: ref.ID}
		}
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return imageInfoMsg{id: ref.ID}
		}
		return imageInfoMsg{id: ref.ID, dims: fmt.Sprintf("%d×%d", cfg.Width, cfg.Height)}
	}
}
