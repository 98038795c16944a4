package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/user/trimcrop-cli/player"
	"github.com/user/trimcrop-cli/preview"
	"github.com/user/trimcrop-cli/tui/forms"
)

// handleKey routes a key press to the help overlay, crop mode or trim mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	}

	if m.cropMode {
		return m.handleCropKey(msg)
	}
	return m.handleTrimKey(msg)
}

func (m *Model) handleTrimKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if err := m.session.Controller().Toggle(); err != nil {
			return m, m.setMessage(describeError(err), true)
		}
		return m, nil

	case "tab":
		m.slider.SwitchThumb()
		return m, nil

	case "h", "left":
		return m, m.nudge(-m.stepSize)

	case "l", "right":
		return m, m.nudge(m.stepSize)

	case "<", ",":
		m.decreaseStepSize()
		return m, nil

	case ">", ".":
		m.increaseStepSize()
		return m, nil

	case "c":
		if !m.crop.Ready() {
			return m, m.setMessage("crop needs the video size, not known yet", true)
		}
		m.cropMode = true
		return m, nil

	case "o":
		m.formPath = ""
		m.form = forms.NewOpenFileForm(&m.formPath)
		return m, m.form.Init()
	}
	return m, nil
}

// nudge moves the active thumb and hands the new range to the adapter.
func (m *Model) nudge(delta float64) tea.Cmd {
	if m.slider.Max <= 0 {
		return m.setMessage(describeError(preview.ErrNoMetadata), true)
	}
	if !m.slider.Nudge(delta) {
		return nil
	}
	err := m.session.Adapter().UpdateTrim(m.slider.Start(), m.slider.End(), m.slider.Active)
	if err != nil {
		return m.setMessage(describeError(err), true)
	}
	trim := m.session.Snapshot().Trim
	m.slider.SetValues(trim.Start, trim.End)
	return nil
}

// increaseStepSize moves to the next larger step size.
func (m *Model) increaseStepSize() {
	for i, size := range stepSizes {
		if size > m.stepSize {
			m.stepSize = stepSizes[i]
			return
		}
	}
}

// decreaseStepSize moves to the next smaller step size.
func (m *Model) decreaseStepSize() {
	for i := len(stepSizes) - 1; i >= 0; i-- {
		if stepSizes[i] < m.stepSize {
			m.stepSize = stepSizes[i]
			return
		}
	}
}

func (m *Model) handleCropKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.cropStep()

	switch msg.String() {
	case "esc", "c":
		m.cropMode = false
		return m, nil
	case "left", "h":
		return m, m.updateCrop(m.crop.Move(-step, 0))
	case "right", "l":
		return m, m.updateCrop(m.crop.Move(step, 0))
	case "up", "k":
		return m, m.updateCrop(m.crop.Move(0, -step))
	case "down", "j":
		return m, m.updateCrop(m.crop.Move(0, step))
	case "+", "=":
		return m, m.updateCrop(m.crop.Resize(step))
	case "-", "_":
		return m, m.updateCrop(m.crop.Resize(-step))
	case "enter":
		return m, m.applyCrop()
	}
	return m, nil
}

// cropStep is the pixel distance one key press moves or grows the box.
func (m *Model) cropStep() int {
	return max(1, min(m.crop.FrameWidth, m.crop.FrameHeight)/50)
}

func (m *Model) updateCrop(rect preview.CropRect) tea.Cmd {
	if err := m.session.Adapter().UpdateCrop(rect); err != nil {
		return m.setMessage(describeError(err), true)
	}
	return nil
}

// applyCrop stores the box and shows it on the video.
func (m *Model) applyCrop() tea.Cmd {
	rect := m.crop.Rect()
	if err := m.session.Adapter().UpdateCrop(rect); err != nil {
		return m.setMessage(describeError(err), true)
	}
	if err := m.player.SetCrop(rect); err != nil {
		if errors.Is(err, player.ErrNoVideoSize) {
			return m.setMessage("crop stored, video size not known to mpv", true)
		}
		return m.setMessage(fmt.Sprintf("crop stored, mpv refused it: %v", err), true)
	}
	return m.setMessage("crop applied", false)
}

// updateForm forwards messages to the open-file form until it completes.
func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.form = nil
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		m.form = nil
		path := forms.ExpandHome(m.formPath)
		watchCmd, err := m.openVideo(path)
		if err != nil {
			return m, m.setMessage(describeError(err), true)
		}
		return m, tea.Batch(m.setMessage("opened "+m.fileName(), false), watchCmd)
	}
	return m, cmd
}
