package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field int

const (
	fieldNone field = iota
	fieldVideo
	fieldCaption
	fieldScript
	fieldRun
)

var (
	dashboardFields = []field{fieldVideo, fieldCaption, fieldScript, fieldRun}
	testerFields    = []field{fieldCaption, fieldRun}
)

// inputs holds the editable widgets. The caption area is shared by the
// dashboard and the caption tester.
type inputs struct {
	video   textinput.Model
	caption textarea.Model
	script  textarea.Model
	focus   field
}

func newInputs() inputs {
	video := textinput.New()
	video.Prompt = "▸ "
	video.Placeholder = "Path to an MP4/MOV video or an image"
	video.CharLimit = 4096

	caption := textarea.New()
	caption.Placeholder = "Paste your TikTok caption here..."
	caption.ShowLineNumbers = false
	caption.CharLimit = 0
	caption.SetHeight(4)

	script := textarea.New()
	script.Placeholder = "Paste the spoken script here for deeper analysis..."
	script.ShowLineNumbers = false
	script.CharLimit = 0
	script.SetHeight(5)

	return inputs{video: video, caption: caption, script: script}
}

func (in *inputs) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	in.video.Width = width - 4
	in.caption.SetWidth(width - 2)
	in.script.SetWidth(width - 2)
}

// setFocus moves keyboard focus to f; fieldNone leaves editing mode.
func (in *inputs) setFocus(f field) tea.Cmd {
	in.video.Blur()
	in.caption.Blur()
	in.script.Blur()
	in.focus = f

	switch f {
	case fieldVideo:
		return in.video.Focus()
	case fieldCaption:
		return in.caption.Focus()
	case fieldScript:
		return in.script.Focus()
	}
	return nil
}

// cycle moves focus delta steps through order, wrapping at either end.
func (in *inputs) cycle(order []field, delta int) tea.Cmd {
	idx := 0
	for i, f := range order {
		if f == in.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return in.setFocus(order[idx])
}

// update forwards msg to the focused widget.
func (in *inputs) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch in.focus {
	case fieldVideo:
		in.video, cmd = in.video.Update(msg)
	case fieldCaption:
		in.caption, cmd = in.caption.Update(msg)
	case fieldScript:
		in.script, cmd = in.script.Update(msg)
	}
	return cmd
}

func (in *inputs) reset() {
	in.video.Reset()
	in.caption.Reset()
	in.script.Reset()
	in.setFocus(fieldNone)
}
